package analytics

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Store bundles the filtered read ports the engine collects from. The
// transaction and appointment fetches honor the full resolved params; the
// remaining fetches are scoped by the already-filtered transaction-id set.
type Store interface {
	Transactions(ctx context.Context, params QueryParams) ([]Transaction, error)
	Appointments(ctx context.Context, params QueryParams) ([]Appointment, error)
	TimelineEntries(ctx context.Context, transactionIDs []string) ([]TimelineEntry, error)
	Documents(ctx context.Context, transactionIDs []string) ([]Document, error)
	Properties(ctx context.Context, transactionIDs []string) ([]Property, error)
	PropertyOffers(ctx context.Context, transactionIDs []string) ([]PropertyOffer, error)
	ReceivedOffers(ctx context.Context, transactionIDs []string) ([]Offer, error)
	Conditions(ctx context.Context, transactionIDs []string) ([]Condition, error)
}

// Collected materializes every record set one snapshot request needs. It is
// built fresh per call and discarded afterwards.
type Collected struct {
	Transactions   []Transaction
	Appointments   []Appointment
	Documents      []Document
	Properties     []Property
	PropertyOffers []PropertyOffer
	ReceivedOffers []Offer
	Conditions     []Condition

	// Timeline holds each transaction's entries in ascending timestamp order.
	Timeline map[string][]TimelineEntry
	// ClientNames maps client ids of the collected transactions to display
	// names for pipeline occupant labeling.
	ClientNames map[string]string
}

// collect runs the transaction fetch first, then issues the dependent fetches
// concurrently. The fetches are independent reads; the first failure cancels
// the rest and propagates unmodified to the caller.
func collect(ctx context.Context, store Store, dir ClientDirectory, params QueryParams) (Collected, error) {
	transactions, err := store.Transactions(ctx, params)
	if err != nil {
		return Collected{}, err
	}

	txIDs := make([]string, 0, len(transactions))
	clientIDs := make([]string, 0, len(transactions))
	seenClients := make(map[string]bool, len(transactions))
	for _, t := range transactions {
		txIDs = append(txIDs, t.ID)
		if !seenClients[t.ClientID] {
			seenClients[t.ClientID] = true
			clientIDs = append(clientIDs, t.ClientID)
		}
	}

	c := Collected{Transactions: transactions}

	g, gctx := errgroup.WithContext(ctx)

	var timeline []TimelineEntry
	g.Go(func() error {
		var err error
		c.Appointments, err = store.Appointments(gctx, params)
		return err
	})
	g.Go(func() error {
		var err error
		timeline, err = store.TimelineEntries(gctx, txIDs)
		return err
	})
	g.Go(func() error {
		var err error
		c.Documents, err = store.Documents(gctx, txIDs)
		return err
	})
	g.Go(func() error {
		var err error
		c.Properties, err = store.Properties(gctx, txIDs)
		return err
	})
	g.Go(func() error {
		var err error
		c.PropertyOffers, err = store.PropertyOffers(gctx, txIDs)
		return err
	})
	g.Go(func() error {
		var err error
		c.ReceivedOffers, err = store.ReceivedOffers(gctx, txIDs)
		return err
	})
	g.Go(func() error {
		var err error
		c.Conditions, err = store.Conditions(gctx, txIDs)
		return err
	})
	g.Go(func() error {
		var err error
		c.ClientNames, err = dir.DisplayNames(gctx, clientIDs)
		return err
	})

	if err := g.Wait(); err != nil {
		return Collected{}, err
	}

	// An appointment has no side of its own; when the filter carries one,
	// keep only appointments of transactions that matched it.
	if params.Side != nil {
		matched := make(map[string]bool, len(transactions))
		for _, t := range transactions {
			matched[t.ID] = true
		}
		kept := c.Appointments[:0]
		for _, a := range c.Appointments {
			if matched[a.TransactionID] {
				kept = append(kept, a)
			}
		}
		c.Appointments = kept
	}

	c.Timeline = groupTimeline(timeline)

	return c, nil
}

// groupTimeline indexes entries by transaction and sorts each group by
// timestamp ascending, the order the reconstructor replays them in.
func groupTimeline(entries []TimelineEntry) map[string][]TimelineEntry {
	grouped := make(map[string][]TimelineEntry, len(entries))
	for _, e := range entries {
		grouped[e.TransactionID] = append(grouped[e.TransactionID], e)
	}
	for id := range grouped {
		group := grouped[id]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Timestamp.Before(group[j].Timestamp)
		})
		grouped[id] = group
	}
	return grouped
}

// emptyCollected is the degraded result used when the client filter matched
// nobody: zero records everywhere, by contract.
func emptyCollected() Collected {
	return Collected{
		Transactions:   []Transaction{},
		Appointments:   []Appointment{},
		Documents:      []Document{},
		Properties:     []Property{},
		PropertyOffers: []PropertyOffer{},
		ReceivedOffers: []Offer{},
		Conditions:     []Condition{},
		Timeline:       map[string][]TimelineEntry{},
		ClientNames:    map[string]string{},
	}
}
