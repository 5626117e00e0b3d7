package tier

import "github.com/shopspring/decimal"

// PlacementMatchesRequired is the number of settled, staked-on polls a user
// must accumulate in a season+tier-market before receiving a real rating.
const PlacementMatchesRequired = 5

// Season-over-season MMR clamp bounds. A placed user's new-season rating
// stays within [prev*0.7, prev*1.3] of the immediately preceding season.
var (
	MMRClampMin = decimal.NewFromFloat(0.7)
	MMRClampMax = decimal.NewFromFloat(1.3)
)

// Key is a discrete tier label.
type Key string

const (
	Diamond  Key = "diamond"
	Platinum Key = "platinum"
	Gold     Key = "gold"
	Silver   Key = "silver"
)

// PercentileCutoff pairs a tier with its fromTopPct bound. The cohort pass
// scans the table in order and the first cutoff with fromTopPct <= FromTopPct
// wins.
type PercentileCutoff struct {
	Tier       Key
	FromTopPct float64
}

var PercentileCutoffs = []PercentileCutoff{
	{Diamond, 10},
	{Platinum, 30},
	{Gold, 60},
	{Silver, 100},
}

// DefaultTier applies when no cutoff matches.
const DefaultTier = Gold
