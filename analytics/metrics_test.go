package analytics

import (
	"testing"
	"time"

	"brokerscope/stage"
)

var metricsNow = time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)

func timePtr(t time.Time) *time.Time {
	return &t
}

func floatPtr(f float64) *float64 {
	return &f
}

func TestTransactionMetrics_CountsAndSuccessRate(t *testing.T) {
	closedAt := time.Date(2026, 4, 20, 0, 0, 0, 0, time.UTC)
	transactions := []Transaction{
		{ID: "t1", ClientID: "c1", Side: stage.SideBuy, Status: StatusActive,
			OpenedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "t2", ClientID: "c2", Side: stage.SideBuy, Status: StatusClosedSuccessfully,
			OpenedAt: time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), ClosedAt: &closedAt},
		{ID: "t3", ClientID: "c3", Side: stage.SideSell, Status: StatusTerminatedEarly,
			OpenedAt: time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)},
	}

	m := transactionMetrics(transactions)

	if m.Total != 3 || m.Active != 1 || m.ClosedSuccessfully != 1 || m.TerminatedEarly != 1 {
		t.Errorf("status counts wrong: %+v", m)
	}
	if m.BuySide != 2 || m.SellSide != 1 {
		t.Errorf("side counts wrong: buy=%d sell=%d", m.BuySide, m.SellSide)
	}
	if m.SuccessRate != 50.0 {
		t.Errorf("successRate = %v, want 50.0", m.SuccessRate)
	}
	if m.AvgDaysToClose != 40.0 || m.MinDaysToClose != 40 || m.MaxDaysToClose != 40 {
		t.Errorf("duration stats wrong: avg=%v min=%d max=%d", m.AvgDaysToClose, m.MinDaysToClose, m.MaxDaysToClose)
	}
	if m.OpenedByMonth["2026-03"] != 2 || m.OpenedByMonth["2026-04"] != 1 {
		t.Errorf("opened histogram wrong: %v", m.OpenedByMonth)
	}
	if m.ClosedByMonth["2026-04"] != 1 {
		t.Errorf("closed histogram wrong: %v", m.ClosedByMonth)
	}
}

func TestTransactionMetrics_SuccessRateZeroWhenNoOutcomes(t *testing.T) {
	m := transactionMetrics([]Transaction{
		{ID: "t1", Side: stage.SideBuy, Status: StatusActive, OpenedAt: metricsNow},
	})
	if m.SuccessRate != 0 {
		t.Errorf("successRate = %v, want 0 when no closed or terminated transactions", m.SuccessRate)
	}
}

func TestTransactionMetrics_StageDistribution(t *testing.T) {
	m := transactionMetrics([]Transaction{
		{ID: "t1", Side: stage.SideBuy, Status: StatusActive, BuyerStage: stagePtr("VISITS"), OpenedAt: metricsNow},
		{ID: "t2", Side: stage.SideBuy, Status: StatusActive, BuyerStage: stagePtr("VISITS"), OpenedAt: metricsNow},
		{ID: "t3", Side: stage.SideSell, Status: StatusActive, SellerStage: stagePtr("LISTING"), OpenedAt: metricsNow},
		{ID: "t4", Side: stage.SideBuy, Status: StatusActive, OpenedAt: metricsNow},
	})

	if m.StageDistribution["VISITS"] != 2 || m.StageDistribution["LISTING"] != 1 {
		t.Errorf("distribution wrong: %v", m.StageDistribution)
	}
	if m.WithoutCurrentStage != 1 {
		t.Errorf("withoutCurrentStage = %d, want 1", m.WithoutCurrentStage)
	}
}

func TestVisitMetrics_ConfirmedOnlyAndPerClosedAverages(t *testing.T) {
	transactions := []Transaction{
		{ID: "b1", Side: stage.SideBuy, Status: StatusClosedSuccessfully},
		{ID: "b2", Side: stage.SideBuy, Status: StatusClosedSuccessfully},
		{ID: "b3", Side: stage.SideBuy, Status: StatusActive},
		{ID: "s1", Side: stage.SideSell, Status: StatusClosedSuccessfully},
	}
	appointments := []Appointment{
		{ID: "a1", TransactionID: "b1", Type: AppointmentVisit, Status: AppointmentConfirmed},
		{ID: "a2", TransactionID: "b1", Type: AppointmentVisit, Status: AppointmentConfirmed},
		{ID: "a3", TransactionID: "b1", Type: AppointmentVisit, Status: AppointmentCancelled},
		{ID: "a4", TransactionID: "b2", Type: AppointmentVisit, Status: AppointmentConfirmed},
		{ID: "a5", TransactionID: "b3", Type: AppointmentVisit, Status: AppointmentConfirmed},
		{ID: "a6", TransactionID: "s1", Type: AppointmentShowing, Status: AppointmentConfirmed, VisitorCount: 5},
		{ID: "a7", TransactionID: "s1", Type: AppointmentShowing, Status: AppointmentConfirmed, VisitorCount: 3},
	}

	m := visitMetrics(transactions, appointments)

	if m.BuyerVisitsTotal != 4 {
		t.Errorf("buyerVisitsTotal = %d, want 4 (cancelled excluded)", m.BuyerVisitsTotal)
	}
	if m.SellerShowingsTotal != 2 || m.SellerVisitorsTotal != 8 {
		t.Errorf("showings=%d visitors=%d, want 2 and 8", m.SellerShowingsTotal, m.SellerVisitorsTotal)
	}
	// b1 has 2 confirmed visits, b2 has 1; b3 is active and excluded.
	if m.AvgVisitsPerClosedBuy != 1.5 {
		t.Errorf("avgVisitsPerClosedBuy = %v, want 1.5", m.AvgVisitsPerClosedBuy)
	}
	if m.AvgShowingsPerClosedSale != 2.0 {
		t.Errorf("avgShowingsPerClosedSale = %v, want 2.0", m.AvgShowingsPerClosedSale)
	}
	if m.AvgVisitorsPerShowing != 4.0 {
		t.Errorf("avgVisitorsPerShowing = %v, want 4.0", m.AvgVisitorsPerShowing)
	}
}

func TestOfferSideMetrics_RatesAmountsAndRounds(t *testing.T) {
	offers := []offerRecord{
		{PropertyID: "p1", Status: OfferAccepted, Amount: floatPtr(400000)},
		{PropertyID: "p1", Status: OfferCountered, Amount: floatPtr(380000)},
		{PropertyID: "p2", Status: OfferRejected, Amount: nil},
		{PropertyID: "p2", Status: OfferPending, Amount: floatPtr(350000)},
	}

	m := offerSideMetrics(offers)

	if m.Total != 4 || m.Accepted != 1 || m.Countered != 1 {
		t.Errorf("counts wrong: %+v", m)
	}
	if m.AcceptanceRate != 25.0 || m.CounterRate != 25.0 {
		t.Errorf("rates wrong: accept=%v counter=%v", m.AcceptanceRate, m.CounterRate)
	}
	if m.MinAmount != 350000 || m.MaxAmount != 400000 {
		t.Errorf("min/max wrong: %v/%v", m.MinAmount, m.MaxAmount)
	}
	// Nil amounts are excluded: (400000+380000+350000)/3.
	if m.AvgAmount != round1(1130000.0/3) {
		t.Errorf("avgAmount = %v, want %v", m.AvgAmount, round1(1130000.0/3))
	}
	// Two properties, 2 offers each.
	if m.AvgRounds != 2.0 {
		t.Errorf("avgRounds = %v, want 2.0", m.AvgRounds)
	}
}

func TestOfferSideMetrics_EmptyDegradesToZero(t *testing.T) {
	m := offerSideMetrics(nil)
	if m.Total != 0 || m.AcceptanceRate != 0 || m.AvgAmount != 0 || m.AvgRounds != 0 {
		t.Errorf("empty offer set should be all zero: %+v", m)
	}
}

func TestDocumentMetrics_DraftsInvisible(t *testing.T) {
	transactions := []Transaction{{ID: "t1"}, {ID: "t2"}}
	documents := []Document{
		{ID: "d1", TransactionID: "t1", Status: DocumentApproved},
		{ID: "d2", TransactionID: "t1", Status: DocumentSubmitted},
		{ID: "d3", TransactionID: "t1", Status: DocumentDraft},
		{ID: "d4", TransactionID: "t2", Status: DocumentRejected},
	}

	m := documentMetrics(transactions, documents)

	if m.Total != 3 {
		t.Errorf("total = %d, want 3 (draft excluded)", m.Total)
	}
	if m.CompletionRate != safeRate(2, 3) {
		t.Errorf("completionRate = %v, want %v", m.CompletionRate, safeRate(2, 3))
	}
	if m.AvgPerTransaction != 1.5 {
		t.Errorf("avgPerTransaction = %v, want 1.5", m.AvgPerTransaction)
	}
}

func TestAppointmentMetrics_Rates(t *testing.T) {
	appointments := []Appointment{
		{ID: "a1", Status: AppointmentConfirmed, ScheduledAt: metricsNow},
		{ID: "a2", Status: AppointmentConfirmed, ScheduledAt: metricsNow},
		{ID: "a3", Status: AppointmentDeclined, ScheduledAt: metricsNow},
		{ID: "a4", Status: AppointmentCancelled, ScheduledAt: metricsNow.AddDate(0, 1, 0)},
	}

	m := appointmentMetrics(appointments)

	if m.Total != 4 || m.Confirmed != 2 || m.Declined != 1 || m.Cancelled != 1 {
		t.Errorf("counts wrong: %+v", m)
	}
	if m.ConfirmationRate != 50.0 || m.DeclineRate != 25.0 || m.CancellationRate != 25.0 {
		t.Errorf("rates wrong: %+v", m)
	}
	if m.ByMonth["2026-06"] != 3 || m.ByMonth["2026-07"] != 1 {
		t.Errorf("histogram wrong: %v", m.ByMonth)
	}
}

func TestConditionMetrics_DeadlineBuckets(t *testing.T) {
	conditions := []Condition{
		{ID: "c1", Status: ConditionPending, Deadline: timePtr(metricsNow.AddDate(0, 0, -1))},
		{ID: "c2", Status: ConditionPending, Deadline: timePtr(metricsNow.AddDate(0, 0, 3))},
		{ID: "c3", Status: ConditionPending, Deadline: timePtr(metricsNow.AddDate(0, 0, 7))},
		{ID: "c4", Status: ConditionPending, Deadline: timePtr(metricsNow.AddDate(0, 0, 20))},
		{ID: "c5", Status: ConditionFulfilled, Deadline: timePtr(metricsNow.AddDate(0, 0, -5))},
		{ID: "c6", Status: ConditionPending},
	}

	m := conditionMetrics(conditions, metricsNow)

	if m.Overdue != 1 {
		t.Errorf("overdue = %d, want 1 (fulfilled past-deadline does not count)", m.Overdue)
	}
	if m.ApproachingDeadline != 2 {
		t.Errorf("approaching = %d, want 2", m.ApproachingDeadline)
	}
	if m.FulfillmentRate != safeRate(1, 6) {
		t.Errorf("fulfillmentRate = %v, want %v", m.FulfillmentRate, safeRate(1, 6))
	}
}

func TestEngagementMetrics(t *testing.T) {
	m := engagementMetrics([]Transaction{
		{ID: "t1", ClientID: "c1"},
		{ID: "t2", ClientID: "c1"},
		{ID: "t3", ClientID: "c2"},
	})

	if m.UniqueClients != 2 || m.RepeatClients != 1 {
		t.Errorf("client counts wrong: %+v", m)
	}
	if m.AvgTransactionsPerClient != 1.5 {
		t.Errorf("avgTransactionsPerClient = %v, want 1.5", m.AvgTransactionsPerClient)
	}
}

func TestTrendMetrics_BusiestMonthTieTakesEarliest(t *testing.T) {
	opened := map[string]int{
		"2026-02": 3,
		"2026-01": 3,
		"2025-12": 1,
	}

	m := trendMetrics(nil, opened, metricsNow)

	if m.BusiestMonth != "2026-01" || m.BusiestMonthCount != 3 {
		t.Errorf("busiest = %s (%d), want 2026-01 (3)", m.BusiestMonth, m.BusiestMonthCount)
	}
}

func TestTrendMetrics_IdleTransactions(t *testing.T) {
	transactions := []Transaction{
		{ID: "t1", Status: StatusActive, OpenedAt: metricsNow.AddDate(0, 0, -60), LastUpdated: metricsNow.AddDate(0, 0, -45)},
		{ID: "t2", Status: StatusActive, OpenedAt: metricsNow.AddDate(0, 0, -10), LastUpdated: metricsNow.AddDate(0, 0, -2)},
		{ID: "t3", Status: StatusClosedSuccessfully, OpenedAt: metricsNow.AddDate(0, 0, -90), LastUpdated: metricsNow.AddDate(0, 0, -40)},
	}

	m := trendMetrics(transactions, map[string]int{}, metricsNow)

	if m.IdleTransactions != 1 {
		t.Errorf("idle = %d, want 1 (closed transactions never idle)", m.IdleTransactions)
	}
	if m.AvgActiveAgeDays != 35.0 {
		t.Errorf("avgActiveAgeDays = %v, want 35.0", m.AvgActiveAgeDays)
	}
}

func TestSortedMonths_Chronological(t *testing.T) {
	months := sortedMonths(map[string]int{"2026-02": 1, "2025-11": 2, "2026-01": 3})
	want := []string{"2025-11", "2026-01", "2026-02"}
	if len(months) != len(want) {
		t.Fatalf("got %v", months)
	}
	for i := range want {
		if months[i] != want[i] {
			t.Errorf("months[%d] = %s, want %s", i, months[i], want[i])
		}
	}
}
