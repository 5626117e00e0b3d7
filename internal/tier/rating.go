package tier

import "github.com/shopspring/decimal"

// rating is the closed-form skill rating for one user in one
// season+tier-market.
type rating struct {
	PlacementDone bool
	WinRate       float64
	MMR           decimal.Decimal
}

// computeRating converts participation counts plus the user's current balance
// into a rating. Users still in placement get a zero provisional MMR rather
// than a biased partial one. When a previous-season MMR exists (same year
// only) and placement is done, the new rating is clamped to
// [prev*MMRClampMin, prev*MMRClampMax] to bound single-season swings.
func computeRating(played, wins int, balance decimal.Decimal, prevMMR *decimal.Decimal) rating {
	r := rating{
		PlacementDone: played >= PlacementMatchesRequired,
		MMR:           decimal.Zero,
	}
	if played > 0 {
		r.WinRate = float64(wins) / float64(played)
	}
	if !r.PlacementDone {
		return r
	}

	r.MMR = balance.Mul(decimal.NewFromFloat(r.WinRate))

	if prevMMR != nil && prevMMR.IsPositive() {
		lo := prevMMR.Mul(MMRClampMin)
		hi := prevMMR.Mul(MMRClampMax)
		if r.MMR.LessThan(lo) {
			r.MMR = lo
		} else if r.MMR.GreaterThan(hi) {
			r.MMR = hi
		}
	}
	return r
}
