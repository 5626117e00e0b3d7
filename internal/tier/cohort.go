package tier

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// cohortEntry is one placement-complete user in a season+tier-market cohort.
type cohortEntry struct {
	UserID string
	MMR    decimal.Decimal
}

// assignTiers ranks a cohort by MMR descending (ties broken by ascending user
// id so a pass is reproducible) and maps each rank to a tier label. For rank
// index i of n, fromTopPct = (n-i)/n*100; the cutoff table is scanned in
// order and the first cutoff with fromTopPct <= cutoff wins. This is a full
// recomputation every pass: one new placed user shifts everyone's percentile.
func assignTiers(entries []cohortEntry) map[string]Key {
	out := make(map[string]Key, len(entries))
	if len(entries) == 0 {
		return out
	}

	ranked := make([]cohortEntry, len(entries))
	copy(ranked, entries)
	sort.Slice(ranked, func(i, j int) bool {
		if c := ranked[i].MMR.Cmp(ranked[j].MMR); c != 0 {
			return c > 0
		}
		return ranked[i].UserID < ranked[j].UserID
	})

	n := len(ranked)
	for i, entry := range ranked {
		fromTopPct := float64(n-i) / float64(n) * 100
		tier := DefaultTier
		for _, cutoff := range PercentileCutoffs {
			if fromTopPct <= cutoff.FromTopPct {
				tier = cutoff.Tier
				break
			}
		}
		out[entry.UserID] = tier
	}
	return out
}

// round2 rounds to two decimal places, matching the stored percentile
// precision.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
