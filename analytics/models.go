package analytics

import (
	"time"

	"brokerscope/stage"
)

// TransactionStatus is the lifecycle state of a brokerage transaction.
type TransactionStatus string

const (
	StatusActive             TransactionStatus = "ACTIVE"
	StatusClosedSuccessfully TransactionStatus = "CLOSED_SUCCESSFULLY"
	StatusTerminatedEarly    TransactionStatus = "TERMINATED_EARLY"
)

// Transaction is the point-in-time view of a transaction as read from the
// transaction store. The engine never mutates it.
type Transaction struct {
	ID          string
	BrokerID    string
	ClientID    string
	Side        stage.Side
	Status      TransactionStatus
	BuyerStage  *stage.Stage
	SellerStage *stage.Stage
	OpenedAt    time.Time
	ClosedAt    *time.Time
	LastUpdated time.Time
}

// CurrentStage returns the side-specific persisted stage field, which may be
// nil when the transaction has not been staged yet.
func (t Transaction) CurrentStage() *stage.Stage {
	if t.Side == stage.SideSell {
		return t.SellerStage
	}
	return t.BuyerStage
}

// TimelineEntryType discriminates timeline entries. Only stage transitions
// are relevant to the engine; every other type is ignored during replay.
type TimelineEntryType string

const (
	EntryStageChange   TimelineEntryType = "STAGE_CHANGE"
	EntryStageRollback TimelineEntryType = "STAGE_ROLLBACK"
)

// TimelineEntry is one immutable, append-only event on a transaction's
// timeline. PreviousStage and NewStage are only populated for stage
// transitions and either may be absent.
type TimelineEntry struct {
	ID            string
	TransactionID string
	Type          TimelineEntryType
	Timestamp     time.Time
	PreviousStage *stage.Stage
	NewStage      *stage.Stage
}

// IsStageTransition reports whether the entry moves the transaction between
// stages, in either direction.
func (e TimelineEntry) IsStageTransition() bool {
	return e.Type == EntryStageChange || e.Type == EntryStageRollback
}

// AppointmentType distinguishes buy-side house visits from sell-side
// showings.
type AppointmentType string

const (
	AppointmentVisit   AppointmentType = "VISIT"
	AppointmentShowing AppointmentType = "SHOWING"
)

// AppointmentStatus is the scheduling state of an appointment.
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "PENDING"
	AppointmentConfirmed AppointmentStatus = "CONFIRMED"
	AppointmentDeclined  AppointmentStatus = "DECLINED"
	AppointmentCancelled AppointmentStatus = "CANCELLED"
)

// Appointment is a scheduled visit or showing tied to a transaction. An
// appointment has no side of its own; it inherits the side of its
// transaction.
type Appointment struct {
	ID            string
	TransactionID string
	Type          AppointmentType
	Status        AppointmentStatus
	ScheduledAt   time.Time
	VisitorCount  int
}

// DocumentStatus is the review state of a transaction document. DRAFT
// documents are invisible to every document metric.
type DocumentStatus string

const (
	DocumentDraft     DocumentStatus = "DRAFT"
	DocumentSubmitted DocumentStatus = "SUBMITTED"
	DocumentApproved  DocumentStatus = "APPROVED"
	DocumentRejected  DocumentStatus = "REJECTED"
)

// Document is a transaction document record.
type Document struct {
	ID            string
	TransactionID string
	Status        DocumentStatus
	CreatedAt     time.Time
}

// Property is a listing attached to a transaction.
type Property struct {
	ID            string
	TransactionID string
	ListedAt      time.Time
}

// OfferStatus is the negotiation state of an offer, on either side.
type OfferStatus string

const (
	OfferPending   OfferStatus = "PENDING"
	OfferAccepted  OfferStatus = "ACCEPTED"
	OfferRejected  OfferStatus = "REJECTED"
	OfferCountered OfferStatus = "COUNTERED"
)

// PropertyOffer is an offer a buy-side client made on a property. Amount may
// be absent on offers recorded before the amount was known.
type PropertyOffer struct {
	ID            string
	PropertyID    string
	TransactionID string
	Status        OfferStatus
	Amount        *float64
	CreatedAt     time.Time
}

// Offer is an offer received on a sell-side listing.
type Offer struct {
	ID            string
	PropertyID    string
	TransactionID string
	Status        OfferStatus
	Amount        *float64
	CreatedAt     time.Time
}

// ConditionStatus is the fulfillment state of a sale condition.
type ConditionStatus string

const (
	ConditionPending   ConditionStatus = "PENDING"
	ConditionFulfilled ConditionStatus = "FULFILLED"
	ConditionRejected  ConditionStatus = "REJECTED"
	ConditionWaived    ConditionStatus = "WAIVED"
)

// Condition is a condition attached to a transaction, optionally carrying a
// deadline.
type Condition struct {
	ID            string
	TransactionID string
	Status        ConditionStatus
	Deadline      *time.Time
}
