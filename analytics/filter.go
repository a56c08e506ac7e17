package analytics

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"brokerscope/directory"
	"brokerscope/stage"
)

var (
	// ErrMissingBroker signals a request without a broker identifier.
	ErrMissingBroker = errors.New("analytics: missing broker id")
	// ErrInvalidWindow signals an end date earlier than the start date.
	ErrInvalidWindow = errors.New("analytics: end date before start date")
)

// Filter is the caller-supplied scope of a snapshot request. Everything but
// BrokerID is optional.
type Filter struct {
	BrokerID  string
	StartDate *time.Time
	EndDate   *time.Time
	Side      *stage.Side
	// ClientName restricts the snapshot to transactions of clients whose
	// display name contains this substring, case-insensitively.
	ClientName string
}

// ClientDirectory is the external directory the resolver uses to turn a
// client-name substring into candidate client ids.
type ClientDirectory interface {
	SearchClients(ctx context.Context, brokerID, nameSubstring string) ([]directory.Client, error)
	DisplayNames(ctx context.Context, clientIDs []string) (map[string]string, error)
}

// QueryParams is the resolved, store-ready form of a Filter. The same params
// are handed to every primary fetch so no record type can silently drop a
// filter dimension another one honors.
type QueryParams struct {
	BrokerID    string
	WindowStart *time.Time
	WindowEnd   *time.Time
	Side        *stage.Side

	// ClientFiltered is true when the request carried a client-name filter.
	// ClientIDs then holds the matching directory entries; an empty set means
	// the whole result set is empty by contract, not by error.
	ClientFiltered bool
	ClientIDs      []string
}

// resolveFilter validates the filter, expands the inclusive date range to the
// full [00:00:00, 23:59:59.999] window, and resolves the client-name
// substring through the directory.
func resolveFilter(ctx context.Context, dir ClientDirectory, f Filter) (QueryParams, error) {
	if strings.TrimSpace(f.BrokerID) == "" {
		return QueryParams{}, ErrMissingBroker
	}
	if f.Side != nil && !f.Side.Valid() {
		return QueryParams{}, fmt.Errorf("analytics: unknown side %q", *f.Side)
	}
	if f.StartDate != nil && f.EndDate != nil && f.EndDate.Before(*f.StartDate) {
		return QueryParams{}, ErrInvalidWindow
	}

	params := QueryParams{
		BrokerID: f.BrokerID,
		Side:     f.Side,
	}

	if f.StartDate != nil {
		start := startOfDay(*f.StartDate)
		params.WindowStart = &start
	}
	if f.EndDate != nil {
		end := endOfDay(*f.EndDate)
		params.WindowEnd = &end
	}

	if name := strings.TrimSpace(f.ClientName); name != "" {
		clients, err := dir.SearchClients(ctx, f.BrokerID, name)
		if err != nil {
			return QueryParams{}, err
		}
		params.ClientFiltered = true
		params.ClientIDs = make([]string, 0, len(clients))
		for _, c := range clients {
			params.ClientIDs = append(params.ClientIDs, c.ID)
		}
	}

	return params, nil
}

// emptyClientMatch reports whether the client filter resolved to nobody, in
// which case the snapshot degrades to all-zero without touching the stores.
func (p QueryParams) emptyClientMatch() bool {
	return p.ClientFiltered && len(p.ClientIDs) == 0
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}
