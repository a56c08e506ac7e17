package directory

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides read access to the client directory.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository wires a pgxpool-backed directory repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SearchClients returns the broker's clients whose display name contains the
// given substring, case-insensitively. A blank substring matches nothing.
func (r *Repository) SearchClients(ctx context.Context, brokerID, nameSubstring string) ([]Client, error) {
	nameSubstring = strings.TrimSpace(nameSubstring)
	if nameSubstring == "" {
		return []Client{}, nil
	}

	const query = `
		SELECT id, full_name
		FROM users
		WHERE broker_id = $1
		  AND role = 'client'
		  AND full_name ILIKE '%' || $2 || '%'
		ORDER BY full_name ASC
	`

	rows, err := r.pool.Query(ctx, query, brokerID, nameSubstring)
	if err != nil {
		return nil, fmt.Errorf("directory: search clients: %w", err)
	}
	defer rows.Close()

	clients := make([]Client, 0, 8)
	for rows.Next() {
		var c Client
		if err := rows.Scan(&c.ID, &c.DisplayName); err != nil {
			return nil, fmt.Errorf("directory: scan client: %w", err)
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("directory: iterate clients: %w", err)
	}

	return clients, nil
}

// DisplayNames resolves client ids to display names. Unknown ids are simply
// absent from the result map.
func (r *Repository) DisplayNames(ctx context.Context, clientIDs []string) (map[string]string, error) {
	names := make(map[string]string, len(clientIDs))
	if len(clientIDs) == 0 {
		return names, nil
	}

	const query = `
		SELECT id, full_name
		FROM users
		WHERE id = ANY($1)
	`

	rows, err := r.pool.Query(ctx, query, clientIDs)
	if err != nil {
		return nil, fmt.Errorf("directory: display names: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("directory: scan display name: %w", err)
		}
		names[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("directory: iterate display names: %w", err)
	}

	return names, nil
}
