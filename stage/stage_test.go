package stage

import "testing"

func TestForSideOrdering(t *testing.T) {
	buy := ForSide(SideBuy)
	if len(buy) == 0 {
		t.Fatalf("expected buy-side stages")
	}
	if buy[0] != "CONSULTATION" {
		t.Errorf("expected CONSULTATION first, got %s", buy[0])
	}

	sell := ForSide(SideSell)
	if len(sell) == 0 {
		t.Fatalf("expected sell-side stages")
	}
	if sell[0] != "EVALUATION" {
		t.Errorf("expected EVALUATION first, got %s", sell[0])
	}

	if ForSide(Side("RENT")) != nil {
		t.Errorf("expected nil pipeline for unknown side")
	}
}

func TestFirst(t *testing.T) {
	st, ok := First(SideBuy)
	if !ok || st != Buyer[0] {
		t.Errorf("First(buy) = %s, %v; want %s, true", st, ok, Buyer[0])
	}
	if _, ok := First(Side("")); ok {
		t.Errorf("expected no first stage for empty side")
	}
}

func TestIndex(t *testing.T) {
	for i, st := range Seller {
		if got := Index(SideSell, st); got != i {
			t.Errorf("Index(sell, %s) = %d, want %d", st, got, i)
		}
	}
	if got := Index(SideBuy, "EVALUATION"); got != -1 {
		t.Errorf("expected -1 for stage declared on the other side, got %d", got)
	}
	if !Declared(SideBuy, "VISITS") {
		t.Errorf("expected VISITS declared on buy side")
	}
}

func TestSideValid(t *testing.T) {
	if !SideBuy.Valid() || !SideSell.Valid() {
		t.Errorf("expected declared sides to be valid")
	}
	if Side("LEASE").Valid() {
		t.Errorf("expected unknown side to be invalid")
	}
}
