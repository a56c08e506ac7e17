package analytics

import (
	"context"
	"time"

	"brokerscope/stage"
	"brokerscope/telemetry"
)

// Service is the analytics aggregation engine. It is stateless: every call
// resolves the filter, collects the records it needs, and computes a fresh
// snapshot. There is no caching; repeated identical calls recompute.
type Service struct {
	store Store
	dir   ClientDirectory
	now   func() time.Time
}

// NewService wires the engine against its record store and client directory.
func NewService(store Store, dir ClientDirectory) *Service {
	return &Service{
		store: store,
		dir:   dir,
		now:   time.Now,
	}
}

// WithClock overrides the time source, primarily for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Snapshot produces the broker's statistical snapshot for the given filter.
// Empty result sets degrade to zero-valued metrics; only store failures
// surface as errors, unmodified.
func (s *Service) Snapshot(ctx context.Context, f Filter) (Snapshot, error) {
	started := time.Now()
	snap, err := s.snapshot(ctx, f)
	telemetry.SnapshotDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		telemetry.SnapshotsBuilt.WithLabelValues("error").Inc()
		return Snapshot{}, err
	}
	telemetry.SnapshotsBuilt.WithLabelValues("ok").Inc()
	return snap, nil
}

func (s *Service) snapshot(ctx context.Context, f Filter) (Snapshot, error) {
	params, err := resolveFilter(ctx, s.dir, f)
	if err != nil {
		return Snapshot{}, err
	}

	var c Collected
	if params.emptyClientMatch() {
		c = emptyCollected()
	} else {
		c, err = collect(ctx, s.store, s.dir, params)
		if err != nil {
			return Snapshot{}, err
		}
		recordCollectionSizes(c)
	}

	now := s.now()
	return assembleSnapshot(
		f.BrokerID,
		now,
		aggregateMetrics(c, now),
		reconstructPipeline(stage.SideBuy, c, now),
		reconstructPipeline(stage.SideSell, c, now),
	), nil
}

// assembleSnapshot is a pure merge of the aggregator and reconstructor
// outputs; it performs no computation of its own.
func assembleSnapshot(brokerID string, now time.Time, agg aggregated, buyer, seller []StageMetrics) Snapshot {
	return Snapshot{
		BrokerID:       brokerID,
		GeneratedAt:    now,
		Transactions:   agg.Transactions,
		Visits:         agg.Visits,
		Offers:         agg.Offers,
		Documents:      agg.Documents,
		Appointments:   agg.Appointments,
		Conditions:     agg.Conditions,
		Engagement:     agg.Engagement,
		Trends:         agg.Trends,
		BuyerPipeline:  buyer,
		SellerPipeline: seller,
	}
}

func recordCollectionSizes(c Collected) {
	counts := map[string]int{
		"transactions":    len(c.Transactions),
		"appointments":    len(c.Appointments),
		"documents":       len(c.Documents),
		"properties":      len(c.Properties),
		"property_offers": len(c.PropertyOffers),
		"received_offers": len(c.ReceivedOffers),
		"conditions":      len(c.Conditions),
	}
	for recordType, n := range counts {
		telemetry.RecordsCollected.WithLabelValues(recordType).Add(float64(n))
	}
}
