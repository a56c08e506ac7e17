package analytics

import (
	"sort"
	"time"

	"brokerscope/stage"
)

// idleAfter is how long an ACTIVE transaction may go without an update before
// it counts as idle.
const idleAfter = 30 * 24 * time.Hour

// deadlineHorizon is how far ahead a pending condition's deadline may lie and
// still count as approaching.
const deadlineHorizon = 7

// aggregated bundles every metric group computed from one collected record
// set.
type aggregated struct {
	Transactions TransactionMetrics
	Visits       VisitMetrics
	Offers       OfferMetrics
	Documents    DocumentMetrics
	Appointments AppointmentMetrics
	Conditions   ConditionMetrics
	Engagement   EngagementMetrics
	Trends       TrendMetrics
}

// aggregateMetrics derives every figure of the snapshot except the stage
// pipelines. All rounding goes through the numeric policy.
func aggregateMetrics(c Collected, now time.Time) aggregated {
	tx := transactionMetrics(c.Transactions)
	return aggregated{
		Transactions: tx,
		Visits:       visitMetrics(c.Transactions, c.Appointments),
		Offers: OfferMetrics{
			Made:     offerSideMetrics(madeOfferRecords(c.PropertyOffers)),
			Received: offerSideMetrics(receivedOfferRecords(c.ReceivedOffers)),
		},
		Documents:    documentMetrics(c.Transactions, c.Documents),
		Appointments: appointmentMetrics(c.Appointments),
		Conditions:   conditionMetrics(c.Conditions, now),
		Engagement:   engagementMetrics(c.Transactions),
		Trends:       trendMetrics(c.Transactions, tx.OpenedByMonth, now),
	}
}

func transactionMetrics(transactions []Transaction) TransactionMetrics {
	m := TransactionMetrics{
		OpenedByMonth:     map[string]int{},
		ClosedByMonth:     map[string]int{},
		StageDistribution: map[string]int{},
	}

	durations := []float64{}
	for _, t := range transactions {
		m.Total++
		switch t.Status {
		case StatusActive:
			m.Active++
		case StatusClosedSuccessfully:
			m.ClosedSuccessfully++
		case StatusTerminatedEarly:
			m.TerminatedEarly++
		}
		switch t.Side {
		case stage.SideBuy:
			m.BuySide++
		case stage.SideSell:
			m.SellSide++
		}

		m.OpenedByMonth[monthKey(t.OpenedAt)]++
		if t.ClosedAt != nil {
			m.ClosedByMonth[monthKey(*t.ClosedAt)]++
		}

		if st := t.CurrentStage(); st != nil {
			m.StageDistribution[string(*st)]++
		} else {
			m.WithoutCurrentStage++
		}

		if t.Status == StatusClosedSuccessfully && t.ClosedAt != nil {
			days := wholeDays(t.OpenedAt, *t.ClosedAt)
			durations = append(durations, float64(days))
			if m.MinDaysToClose == 0 || days < m.MinDaysToClose {
				m.MinDaysToClose = days
			}
			if days > m.MaxDaysToClose {
				m.MaxDaysToClose = days
			}
		}
	}

	m.SuccessRate = safeRate(float64(m.ClosedSuccessfully), float64(m.ClosedSuccessfully+m.TerminatedEarly))
	m.AvgDaysToClose = safeAverage(durations)
	return m
}

func visitMetrics(transactions []Transaction, appointments []Appointment) VisitMetrics {
	side := make(map[string]stage.Side, len(transactions))
	status := make(map[string]TransactionStatus, len(transactions))
	for _, t := range transactions {
		side[t.ID] = t.Side
		status[t.ID] = t.Status
	}

	var m VisitMetrics
	visitsByTx := map[string]int{}
	showingsByTx := map[string]int{}
	visitorCounts := []float64{}
	for _, a := range appointments {
		if a.Status != AppointmentConfirmed {
			continue
		}
		switch {
		case a.Type == AppointmentVisit && side[a.TransactionID] == stage.SideBuy:
			m.BuyerVisitsTotal++
			visitsByTx[a.TransactionID]++
		case a.Type == AppointmentShowing && side[a.TransactionID] == stage.SideSell:
			m.SellerShowingsTotal++
			m.SellerVisitorsTotal += a.VisitorCount
			showingsByTx[a.TransactionID]++
			visitorCounts = append(visitorCounts, float64(a.VisitorCount))
		}
	}

	// Per-closed-transaction averages divide by the closed transactions of
	// the side, including those that had no confirmed appointments at all.
	closedBuy := []float64{}
	closedSell := []float64{}
	for _, t := range transactions {
		if t.Status != StatusClosedSuccessfully {
			continue
		}
		switch t.Side {
		case stage.SideBuy:
			closedBuy = append(closedBuy, float64(visitsByTx[t.ID]))
		case stage.SideSell:
			closedSell = append(closedSell, float64(showingsByTx[t.ID]))
		}
	}
	m.AvgVisitsPerClosedBuy = safeAverage(closedBuy)
	m.AvgShowingsPerClosedSale = safeAverage(closedSell)
	m.AvgVisitorsPerShowing = safeAverage(visitorCounts)
	return m
}

// offerRecord is the direction-neutral shape offer metrics are computed over.
type offerRecord struct {
	PropertyID string
	Status     OfferStatus
	Amount     *float64
}

func madeOfferRecords(offers []PropertyOffer) []offerRecord {
	records := make([]offerRecord, 0, len(offers))
	for _, o := range offers {
		records = append(records, offerRecord{PropertyID: o.PropertyID, Status: o.Status, Amount: o.Amount})
	}
	return records
}

func receivedOfferRecords(offers []Offer) []offerRecord {
	records := make([]offerRecord, 0, len(offers))
	for _, o := range offers {
		records = append(records, offerRecord{PropertyID: o.PropertyID, Status: o.Status, Amount: o.Amount})
	}
	return records
}

func offerSideMetrics(offers []offerRecord) OfferSideMetrics {
	m := OfferSideMetrics{Total: len(offers)}

	amounts := []float64{}
	perProperty := map[string]int{}
	for _, o := range offers {
		switch o.Status {
		case OfferAccepted:
			m.Accepted++
		case OfferCountered:
			m.Countered++
		}
		if o.Amount != nil {
			amounts = append(amounts, *o.Amount)
			if m.MinAmount == 0 || *o.Amount < m.MinAmount {
				m.MinAmount = *o.Amount
			}
			if *o.Amount > m.MaxAmount {
				m.MaxAmount = *o.Amount
			}
		}
		if o.PropertyID != "" {
			perProperty[o.PropertyID]++
		}
	}

	m.AcceptanceRate = safeRate(float64(m.Accepted), float64(m.Total))
	m.CounterRate = safeRate(float64(m.Countered), float64(m.Total))
	m.AvgAmount = safeAverage(amounts)

	rounds := make([]float64, 0, len(perProperty))
	for _, n := range perProperty {
		rounds = append(rounds, float64(n))
	}
	m.AvgRounds = safeAverage(rounds)
	return m
}

func documentMetrics(transactions []Transaction, documents []Document) DocumentMetrics {
	var m DocumentMetrics
	byTx := map[string]int{}
	for _, d := range documents {
		// Drafts are invisible to every document figure.
		if d.Status == DocumentDraft {
			continue
		}
		m.Total++
		byTx[d.TransactionID]++
		switch d.Status {
		case DocumentSubmitted:
			m.Submitted++
		case DocumentApproved:
			m.Approved++
		case DocumentRejected:
			m.Rejected++
		}
	}

	m.CompletionRate = safeRate(float64(m.Approved+m.Submitted), float64(m.Total))

	perTx := make([]float64, 0, len(transactions))
	for _, t := range transactions {
		perTx = append(perTx, float64(byTx[t.ID]))
	}
	m.AvgPerTransaction = safeAverage(perTx)
	return m
}

func appointmentMetrics(appointments []Appointment) AppointmentMetrics {
	m := AppointmentMetrics{ByMonth: map[string]int{}}
	for _, a := range appointments {
		m.Total++
		m.ByMonth[monthKey(a.ScheduledAt)]++
		switch a.Status {
		case AppointmentConfirmed:
			m.Confirmed++
		case AppointmentDeclined:
			m.Declined++
		case AppointmentCancelled:
			m.Cancelled++
		case AppointmentPending:
			m.Pending++
		}
	}
	m.ConfirmationRate = safeRate(float64(m.Confirmed), float64(m.Total))
	m.DeclineRate = safeRate(float64(m.Declined), float64(m.Total))
	m.CancellationRate = safeRate(float64(m.Cancelled), float64(m.Total))
	return m
}

func conditionMetrics(conditions []Condition, now time.Time) ConditionMetrics {
	var m ConditionMetrics
	today := startOfDay(now)
	horizon := endOfDay(today.AddDate(0, 0, deadlineHorizon))

	for _, c := range conditions {
		m.Total++
		switch c.Status {
		case ConditionPending:
			m.Pending++
		case ConditionFulfilled:
			m.Fulfilled++
		case ConditionRejected:
			m.Rejected++
		case ConditionWaived:
			m.Waived++
		}

		if c.Status != ConditionPending || c.Deadline == nil {
			continue
		}
		switch {
		case c.Deadline.Before(today):
			m.Overdue++
		case !c.Deadline.After(horizon):
			m.ApproachingDeadline++
		}
	}

	m.FulfillmentRate = safeRate(float64(m.Fulfilled), float64(m.Total))
	return m
}

func engagementMetrics(transactions []Transaction) EngagementMetrics {
	byClient := map[string]int{}
	for _, t := range transactions {
		byClient[t.ClientID]++
	}

	m := EngagementMetrics{UniqueClients: len(byClient)}
	perClient := make([]float64, 0, len(byClient))
	for _, n := range byClient {
		perClient = append(perClient, float64(n))
		if n > 1 {
			m.RepeatClients++
		}
	}
	m.AvgTransactionsPerClient = safeAverage(perClient)
	return m
}

func trendMetrics(transactions []Transaction, openedByMonth map[string]int, now time.Time) TrendMetrics {
	var m TrendMetrics

	// Ties on the busiest month resolve to the chronologically earliest key;
	// YYYY-MM keys sort chronologically as strings.
	for _, month := range sortedMonths(openedByMonth) {
		if openedByMonth[month] > m.BusiestMonthCount {
			m.BusiestMonth = month
			m.BusiestMonthCount = openedByMonth[month]
		}
	}

	activeAges := []float64{}
	for _, t := range transactions {
		if t.Status != StatusActive {
			continue
		}
		if now.Sub(t.LastUpdated) > idleAfter {
			m.IdleTransactions++
		}
		activeAges = append(activeAges, fractionalDays(t.OpenedAt, now))
	}
	m.AvgActiveAgeDays = safeAverage(activeAges)
	return m
}

// monthKey renders a calendar year-month histogram key.
func monthKey(t time.Time) string {
	return t.Format("2006-01")
}

// sortedMonths returns histogram keys in chronological order.
func sortedMonths(histogram map[string]int) []string {
	months := make([]string, 0, len(histogram))
	for month := range histogram {
		months = append(months, month)
	}
	sort.Strings(months)
	return months
}

// wholeDays counts full days between two instants.
func wholeDays(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

// fractionalDays measures elapsed time in days without truncation; dwell
// times stay fractional until the numeric policy rounds them.
func fractionalDays(from, to time.Time) float64 {
	return to.Sub(from).Hours() / 24
}
