// Package stage declares the ordered pipeline stages a transaction moves
// through on each side of a deal. The ordering is the canonical workflow
// order and is carried as data rather than relying on declaration order.
package stage

// Side identifies whether a transaction represents a buyer or a seller
// engagement.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Valid reports whether s is a known side.
func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

// Stage is a named step in a side-specific workflow. The engine treats stage
// names as opaque identifiers; only identity and declared order matter.
type Stage string

// Buyer holds the buy-side pipeline in workflow order.
var Buyer = []Stage{
	"CONSULTATION",
	"PROPERTY_SEARCH",
	"VISITS",
	"OFFER",
	"CONDITIONS",
	"NOTARY",
	"KEY_DELIVERY",
}

// Seller holds the sell-side pipeline in workflow order. Stage names are
// disjoint from the buy side so distribution maps can key on the bare name.
var Seller = []Stage{
	"EVALUATION",
	"LISTING",
	"MARKETING",
	"OFFERS_RECEIVED",
	"CONDITIONAL_SALE",
	"NOTARY_SIGNING",
	"SOLD",
}

// ForSide returns the declared pipeline for the given side, or nil for an
// unknown side.
func ForSide(side Side) []Stage {
	switch side {
	case SideBuy:
		return Buyer
	case SideSell:
		return Seller
	default:
		return nil
	}
}

// First returns the first declared stage of the given side and false when the
// side has no declared pipeline.
func First(side Side) (Stage, bool) {
	stages := ForSide(side)
	if len(stages) == 0 {
		return "", false
	}
	return stages[0], true
}

// Index returns the position of st within the side's declared pipeline, or -1
// when the stage is not declared for that side.
func Index(side Side, st Stage) int {
	for i, s := range ForSide(side) {
		if s == st {
			return i
		}
	}
	return -1
}

// Declared reports whether st belongs to the side's pipeline.
func Declared(side Side, st Stage) bool {
	return Index(side, st) >= 0
}
