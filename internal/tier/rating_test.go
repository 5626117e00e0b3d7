package tier

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestComputeRating_PlacementGate(t *testing.T) {
	r := computeRating(PlacementMatchesRequired-1, PlacementMatchesRequired-1, dec(10000), nil)
	if r.PlacementDone {
		t.Fatalf("placement must not be done at %d matches", PlacementMatchesRequired-1)
	}
	if !r.MMR.IsZero() {
		t.Fatalf("mmr=%s want 0 before placement", r.MMR)
	}
	if r.WinRate != 1.0 {
		t.Fatalf("win rate=%v want 1.0", r.WinRate)
	}
}

func TestComputeRating_ZeroPlayed(t *testing.T) {
	r := computeRating(0, 0, dec(500), nil)
	if r.PlacementDone || r.WinRate != 0 || !r.MMR.IsZero() {
		t.Fatalf("zero participation must yield zero rating, got %+v", r)
	}
}

func TestComputeRating_BalanceTimesWinRate(t *testing.T) {
	// 3 wins of 5 with balance 1000 => 600.
	r := computeRating(5, 3, dec(1000), nil)
	if !r.PlacementDone {
		t.Fatalf("placement should be done at 5 matches")
	}
	if r.WinRate != 0.6 {
		t.Fatalf("win rate=%v want 0.6", r.WinRate)
	}
	if !r.MMR.Equal(dec(600)) {
		t.Fatalf("mmr=%s want 600", r.MMR)
	}
}

func TestComputeRating_ClampUpper(t *testing.T) {
	prev := dec(1000)
	r := computeRating(5, 5, dec(2000), &prev)
	if !r.MMR.Equal(dec(1300)) {
		t.Fatalf("mmr=%s want clamped to 1300", r.MMR)
	}
}

func TestComputeRating_ClampLower(t *testing.T) {
	prev := dec(1000)
	r := computeRating(5, 1, dec(1000), &prev)
	// raw = 1000 * 0.2 = 200, clamp floor = 700.
	if !r.MMR.Equal(dec(700)) {
		t.Fatalf("mmr=%s want clamped to 700", r.MMR)
	}
}

func TestComputeRating_InsideClampUnchanged(t *testing.T) {
	prev := dec(1000)
	r := computeRating(5, 5, dec(1100), &prev)
	if !r.MMR.Equal(dec(1100)) {
		t.Fatalf("mmr=%s want 1100 untouched inside the clamp band", r.MMR)
	}
}

func TestComputeRating_NoClampBeforePlacement(t *testing.T) {
	prev := dec(1000)
	r := computeRating(2, 2, dec(50), &prev)
	if !r.MMR.IsZero() {
		t.Fatalf("mmr=%s want 0: clamp never applies before placement", r.MMR)
	}
}

func TestComputeRating_NoClampOnZeroPrev(t *testing.T) {
	prev := decimal.Zero
	r := computeRating(5, 5, dec(2000), &prev)
	if !r.MMR.Equal(dec(2000)) {
		t.Fatalf("mmr=%s want 2000: zero prev mmr carries no clamp", r.MMR)
	}
}
