package analytics

import "testing"

func TestRound1(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{1.24, 1.2},
		{1.25, 1.3},
		{1.26, 1.3},
		{99.95, 100},
		{10.0, 10.0},
		{0.04, 0},
		{0.05, 0.1},
	}
	for _, c := range cases {
		if got := round1(c.in); got != c.want {
			t.Errorf("round1(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestSafeRate(t *testing.T) {
	if got := safeRate(1, 0); got != 0 {
		t.Errorf("safeRate with zero denominator = %v, want 0", got)
	}
	if got := safeRate(1, 3); got != 33.3 {
		t.Errorf("safeRate(1,3) = %v, want 33.3", got)
	}
	if got := safeRate(2, 3); got != 66.7 {
		t.Errorf("safeRate(2,3) = %v, want 66.7", got)
	}
	if got := safeRate(3, 3); got != 100 {
		t.Errorf("safeRate(3,3) = %v, want 100", got)
	}
}

func TestSafeAverage(t *testing.T) {
	if got := safeAverage(nil); got != 0 {
		t.Errorf("safeAverage(nil) = %v, want 0", got)
	}
	if got := safeAverage([]float64{1, 2, 3}); got != 2 {
		t.Errorf("safeAverage(1,2,3) = %v, want 2", got)
	}
	if got := safeAverage([]float64{1, 2}); got != 1.5 {
		t.Errorf("safeAverage(1,2) = %v, want 1.5", got)
	}
	if got := safeAverage([]float64{0.1, 0.2}); got != 0.2 {
		t.Errorf("safeAverage(0.1,0.2) = %v, want 0.2 (half-up)", got)
	}
}
