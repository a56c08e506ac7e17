package analytics

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"brokerscope/stage"
)

// PGStore implements Store against PostgreSQL. All queries are read-only;
// the engine never writes to the record stores.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewStore wires a pgxpool-backed record store.
func NewStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// Transactions fetches the broker's transactions matching the resolved
// filter. The date window applies to when the transaction was opened.
func (s *PGStore) Transactions(ctx context.Context, params QueryParams) ([]Transaction, error) {
	base := `SELECT id, broker_id, client_id, side, status, buyer_stage, seller_stage, opened_at, closed_at, last_updated
	         FROM transactions`
	where := []string{"broker_id=$1"}
	args := []any{params.BrokerID}

	if params.WindowStart != nil {
		where = append(where, fmt.Sprintf("opened_at >= $%d", len(args)+1))
		args = append(args, *params.WindowStart)
	}
	if params.WindowEnd != nil {
		where = append(where, fmt.Sprintf("opened_at <= $%d", len(args)+1))
		args = append(args, *params.WindowEnd)
	}
	if params.Side != nil {
		where = append(where, fmt.Sprintf("side=$%d", len(args)+1))
		args = append(args, string(*params.Side))
	}
	if params.ClientFiltered {
		where = append(where, fmt.Sprintf("client_id = ANY($%d)", len(args)+1))
		args = append(args, params.ClientIDs)
	}

	query := base + " WHERE " + strings.Join(where, " AND ") + " ORDER BY opened_at ASC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("analytics: query transactions: %w", err)
	}
	defer rows.Close()

	transactions := []Transaction{}
	for rows.Next() {
		var (
			t           Transaction
			side        string
			status      string
			buyerStage  *string
			sellerStage *string
		)
		if err := rows.Scan(&t.ID, &t.BrokerID, &t.ClientID, &side, &status, &buyerStage, &sellerStage, &t.OpenedAt, &t.ClosedAt, &t.LastUpdated); err != nil {
			return nil, fmt.Errorf("analytics: scan transaction: %w", err)
		}
		t.Side = stage.Side(side)
		t.Status = TransactionStatus(status)
		t.BuyerStage = toStage(buyerStage)
		t.SellerStage = toStage(sellerStage)
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("analytics: iterate transactions: %w", err)
	}
	return transactions, nil
}

// Appointments fetches the broker's appointments matching the resolved
// window and client set. The side dimension is applied by the collector
// through the transaction set since appointments carry no side of their own.
func (s *PGStore) Appointments(ctx context.Context, params QueryParams) ([]Appointment, error) {
	base := `SELECT a.id, a.transaction_id, a.type, a.status, a.scheduled_at, a.visitor_count
	         FROM appointments a
	         JOIN transactions t ON t.id = a.transaction_id`
	where := []string{"t.broker_id=$1"}
	args := []any{params.BrokerID}

	if params.WindowStart != nil {
		where = append(where, fmt.Sprintf("a.scheduled_at >= $%d", len(args)+1))
		args = append(args, *params.WindowStart)
	}
	if params.WindowEnd != nil {
		where = append(where, fmt.Sprintf("a.scheduled_at <= $%d", len(args)+1))
		args = append(args, *params.WindowEnd)
	}
	if params.ClientFiltered {
		where = append(where, fmt.Sprintf("t.client_id = ANY($%d)", len(args)+1))
		args = append(args, params.ClientIDs)
	}

	query := base + " WHERE " + strings.Join(where, " AND ") + " ORDER BY a.scheduled_at ASC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("analytics: query appointments: %w", err)
	}
	defer rows.Close()

	appointments := []Appointment{}
	for rows.Next() {
		var (
			a      Appointment
			typ    string
			status string
		)
		if err := rows.Scan(&a.ID, &a.TransactionID, &typ, &status, &a.ScheduledAt, &a.VisitorCount); err != nil {
			return nil, fmt.Errorf("analytics: scan appointment: %w", err)
		}
		a.Type = AppointmentType(typ)
		a.Status = AppointmentStatus(status)
		appointments = append(appointments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("analytics: iterate appointments: %w", err)
	}
	return appointments, nil
}

// TimelineEntries fetches the stage-transition timeline of the given
// transactions, oldest first.
func (s *PGStore) TimelineEntries(ctx context.Context, transactionIDs []string) ([]TimelineEntry, error) {
	if len(transactionIDs) == 0 {
		return []TimelineEntry{}, nil
	}

	const query = `
		SELECT id, transaction_id, type, occurred_at, previous_stage, new_stage
		FROM timeline_entries
		WHERE transaction_id = ANY($1)
		  AND type IN ('STAGE_CHANGE', 'STAGE_ROLLBACK')
		ORDER BY occurred_at ASC
	`

	rows, err := s.pool.Query(ctx, query, transactionIDs)
	if err != nil {
		return nil, fmt.Errorf("analytics: query timeline: %w", err)
	}
	defer rows.Close()

	entries := []TimelineEntry{}
	for rows.Next() {
		var (
			e        TimelineEntry
			typ      string
			previous *string
			next     *string
		)
		if err := rows.Scan(&e.ID, &e.TransactionID, &typ, &e.Timestamp, &previous, &next); err != nil {
			return nil, fmt.Errorf("analytics: scan timeline entry: %w", err)
		}
		e.Type = TimelineEntryType(typ)
		e.PreviousStage = toStage(previous)
		e.NewStage = toStage(next)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("analytics: iterate timeline: %w", err)
	}
	return entries, nil
}

// Documents fetches the documents of the given transactions.
func (s *PGStore) Documents(ctx context.Context, transactionIDs []string) ([]Document, error) {
	if len(transactionIDs) == 0 {
		return []Document{}, nil
	}

	const query = `
		SELECT id, transaction_id, status, created_at
		FROM documents
		WHERE transaction_id = ANY($1)
	`

	rows, err := s.pool.Query(ctx, query, transactionIDs)
	if err != nil {
		return nil, fmt.Errorf("analytics: query documents: %w", err)
	}
	defer rows.Close()

	documents := []Document{}
	for rows.Next() {
		var (
			d      Document
			status string
		)
		if err := rows.Scan(&d.ID, &d.TransactionID, &status, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("analytics: scan document: %w", err)
		}
		d.Status = DocumentStatus(status)
		documents = append(documents, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("analytics: iterate documents: %w", err)
	}
	return documents, nil
}

// Properties fetches the listings of the given transactions.
func (s *PGStore) Properties(ctx context.Context, transactionIDs []string) ([]Property, error) {
	if len(transactionIDs) == 0 {
		return []Property{}, nil
	}

	const query = `
		SELECT id, transaction_id, listed_at
		FROM properties
		WHERE transaction_id = ANY($1)
	`

	rows, err := s.pool.Query(ctx, query, transactionIDs)
	if err != nil {
		return nil, fmt.Errorf("analytics: query properties: %w", err)
	}
	defer rows.Close()

	properties := []Property{}
	for rows.Next() {
		var p Property
		if err := rows.Scan(&p.ID, &p.TransactionID, &p.ListedAt); err != nil {
			return nil, fmt.Errorf("analytics: scan property: %w", err)
		}
		properties = append(properties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("analytics: iterate properties: %w", err)
	}
	return properties, nil
}

// PropertyOffers fetches buy-side offers made under the given transactions.
func (s *PGStore) PropertyOffers(ctx context.Context, transactionIDs []string) ([]PropertyOffer, error) {
	if len(transactionIDs) == 0 {
		return []PropertyOffer{}, nil
	}

	const query = `
		SELECT id, property_id, transaction_id, status, amount, created_at
		FROM property_offers
		WHERE transaction_id = ANY($1)
		ORDER BY created_at ASC
	`

	rows, err := s.pool.Query(ctx, query, transactionIDs)
	if err != nil {
		return nil, fmt.Errorf("analytics: query property offers: %w", err)
	}
	defer rows.Close()

	offers := []PropertyOffer{}
	for rows.Next() {
		var (
			o      PropertyOffer
			status string
		)
		if err := rows.Scan(&o.ID, &o.PropertyID, &o.TransactionID, &status, &o.Amount, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("analytics: scan property offer: %w", err)
		}
		o.Status = OfferStatus(status)
		offers = append(offers, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("analytics: iterate property offers: %w", err)
	}
	return offers, nil
}

// ReceivedOffers fetches sell-side offers received under the given
// transactions.
func (s *PGStore) ReceivedOffers(ctx context.Context, transactionIDs []string) ([]Offer, error) {
	if len(transactionIDs) == 0 {
		return []Offer{}, nil
	}

	const query = `
		SELECT id, property_id, transaction_id, status, amount, created_at
		FROM received_offers
		WHERE transaction_id = ANY($1)
		ORDER BY created_at ASC
	`

	rows, err := s.pool.Query(ctx, query, transactionIDs)
	if err != nil {
		return nil, fmt.Errorf("analytics: query received offers: %w", err)
	}
	defer rows.Close()

	offers := []Offer{}
	for rows.Next() {
		var (
			o      Offer
			status string
		)
		if err := rows.Scan(&o.ID, &o.PropertyID, &o.TransactionID, &status, &o.Amount, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("analytics: scan received offer: %w", err)
		}
		o.Status = OfferStatus(status)
		offers = append(offers, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("analytics: iterate received offers: %w", err)
	}
	return offers, nil
}

// Conditions fetches the sale conditions of the given transactions.
func (s *PGStore) Conditions(ctx context.Context, transactionIDs []string) ([]Condition, error) {
	if len(transactionIDs) == 0 {
		return []Condition{}, nil
	}

	const query = `
		SELECT id, transaction_id, status, deadline
		FROM conditions
		WHERE transaction_id = ANY($1)
	`

	rows, err := s.pool.Query(ctx, query, transactionIDs)
	if err != nil {
		return nil, fmt.Errorf("analytics: query conditions: %w", err)
	}
	defer rows.Close()

	conditions := []Condition{}
	for rows.Next() {
		var (
			c      Condition
			status string
		)
		if err := rows.Scan(&c.ID, &c.TransactionID, &status, &c.Deadline); err != nil {
			return nil, fmt.Errorf("analytics: scan condition: %w", err)
		}
		c.Status = ConditionStatus(status)
		conditions = append(conditions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("analytics: iterate conditions: %w", err)
	}
	return conditions, nil
}

func toStage(v *string) *stage.Stage {
	if v == nil {
		return nil
	}
	st := stage.Stage(*v)
	return &st
}
