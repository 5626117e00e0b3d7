package tier

import (
	"context"
	"sort"

	"votingman/internal/market"
	"votingman/internal/season"
)

// resolveSettledPolls returns the ids of polls that are dated within the
// season, grouped under the tier-market, and settled (have at least one
// payout record). Polls with votes but no payouts are voided or pending and
// never enter ranking. The result is sorted so repeated calls over the same
// settlement state are identical.
func (s *Service) resolveSettledPolls(ctx context.Context, tm market.TierMarket, seas season.Season) ([]string, error) {
	settledIDs, err := s.Repo.ListSettledPollIDs(ctx)
	if err != nil {
		return nil, err
	}
	if len(settledIDs) == 0 {
		return nil, nil
	}

	start, end := seas.DateRange()
	polls, err := s.Repo.ListPollsByIDsInDateRange(ctx, settledIDs, start, end)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(polls))
	for _, p := range polls {
		group, ok := market.Tier(market.Market(p.Market))
		if !ok || group != tm {
			continue
		}
		out = append(out, p.ID)
	}
	sort.Strings(out)
	return out, nil
}
