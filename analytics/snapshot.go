package analytics

import (
	"time"

	"brokerscope/stage"
)

// Snapshot is the full statistical picture of a broker's business at the
// moment of the call. It is assembled fresh per request and never mutated
// afterwards.
type Snapshot struct {
	BrokerID    string
	GeneratedAt time.Time

	Transactions TransactionMetrics
	Visits       VisitMetrics
	Offers       OfferMetrics
	Documents    DocumentMetrics
	Appointments AppointmentMetrics
	Conditions   ConditionMetrics
	Engagement   EngagementMetrics
	Trends       TrendMetrics

	// BuyerPipeline and SellerPipeline always carry every declared stage of
	// their side, in declared order, even when no transaction matched.
	BuyerPipeline  []StageMetrics
	SellerPipeline []StageMetrics
}

// TransactionMetrics tallies transaction throughput and outcome figures.
type TransactionMetrics struct {
	Total               int
	Active              int
	ClosedSuccessfully  int
	TerminatedEarly     int
	BuySide             int
	SellSide            int
	SuccessRate         float64
	AvgDaysToClose      float64
	MinDaysToClose      int
	MaxDaysToClose      int
	OpenedByMonth       map[string]int
	ClosedByMonth       map[string]int
	StageDistribution   map[string]int
	WithoutCurrentStage int
}

// VisitMetrics covers buy-side house visits and sell-side showings, both
// restricted to CONFIRMED appointments.
type VisitMetrics struct {
	BuyerVisitsTotal         int
	SellerShowingsTotal      int
	SellerVisitorsTotal      int
	AvgVisitsPerClosedBuy    float64
	AvgShowingsPerClosedSale float64
	AvgVisitorsPerShowing    float64
}

// OfferSideMetrics is the metric shape shared by offers made (buy side) and
// offers received (sell side).
type OfferSideMetrics struct {
	Total          int
	Accepted       int
	Countered      int
	AcceptanceRate float64
	CounterRate    float64
	MinAmount      float64
	MaxAmount      float64
	AvgAmount      float64
	AvgRounds      float64
}

// OfferMetrics groups the two offer directions.
type OfferMetrics struct {
	Made     OfferSideMetrics
	Received OfferSideMetrics
}

// DocumentMetrics tallies document progress. DRAFT documents are excluded
// from every figure, including the totals the rates divide by.
type DocumentMetrics struct {
	Total             int
	Submitted         int
	Approved          int
	Rejected          int
	CompletionRate    float64
	AvgPerTransaction float64
}

// AppointmentMetrics tallies scheduling outcomes over all appointments in the
// filtered set.
type AppointmentMetrics struct {
	Total            int
	Confirmed        int
	Declined         int
	Cancelled        int
	Pending          int
	ConfirmationRate float64
	DeclineRate      float64
	CancellationRate float64
	ByMonth          map[string]int
}

// ConditionMetrics tallies condition fulfillment and deadline pressure.
type ConditionMetrics struct {
	Total               int
	Pending             int
	Fulfilled           int
	Rejected            int
	Waived              int
	FulfillmentRate     float64
	ApproachingDeadline int
	Overdue             int
}

// EngagementMetrics describes the broker's client base within the filter.
type EngagementMetrics struct {
	UniqueClients            int
	RepeatClients            int
	AvgTransactionsPerClient float64
}

// TrendMetrics carries activity-over-time figures.
type TrendMetrics struct {
	BusiestMonth      string
	BusiestMonthCount int
	IdleTransactions  int
	AvgActiveAgeDays  float64
}

// StageOccupant is one ACTIVE transaction currently sitting in a stage.
type StageOccupant struct {
	ClientDisplayName  string
	DaysInCurrentStage float64
}

// StageMetrics summarizes one declared pipeline stage: how many transactions
// occupy it now and how long transactions historically dwelled in it.
type StageMetrics struct {
	Stage                stage.Stage
	CurrentOccupantCount int
	AverageDaysInStage   float64
	Occupants            []StageOccupant
}
