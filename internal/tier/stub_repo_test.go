package tier

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"votingman/internal/models"
)

// stubRepo is a test-only in-memory implementation of repository.Repository.
type stubRepo struct {
	mu sync.Mutex

	polls    map[string]models.SentimentPoll
	votes    []models.SentimentVote
	payouts  []models.PayoutRecord
	balances map[string]decimal.Decimal
	stats    map[string]models.UserSeasonStat // keyed user|market|season
	audits   []models.TierRefreshAudit
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		polls:    map[string]models.SentimentPoll{},
		balances: map[string]decimal.Decimal{},
		stats:    map[string]models.UserSeasonStat{},
	}
}

func statKey(userID, mkt, seasonID string) string {
	return fmt.Sprintf("%s|%s|%s", userID, mkt, seasonID)
}

func (s *stubRepo) addPoll(id, mkt string, date time.Time) {
	s.polls[id] = models.SentimentPoll{ID: id, Market: mkt, PollDate: date}
}

func (s *stubRepo) addVote(pollID, userID string, stake int64) {
	uid := userID
	s.votes = append(s.votes, models.SentimentVote{
		PollID:    pollID,
		UserID:    &uid,
		Choice:    "long",
		BetAmount: decimal.NewFromInt(stake),
	})
}

func (s *stubRepo) addPayout(pollID, userID string) {
	s.payouts = append(s.payouts, models.PayoutRecord{UserID: userID, PollID: pollID, Amount: decimal.NewFromInt(10)})
}

func (s *stubRepo) ListSettledPollIDs(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := map[string]struct{}{}
	var ids []string
	for _, p := range s.payouts {
		if _, ok := seen[p.PollID]; ok {
			continue
		}
		seen[p.PollID] = struct{}{}
		ids = append(ids, p.PollID)
	}
	return ids, nil
}

func (s *stubRepo) ListPollsByIDsInDateRange(ctx context.Context, pollIDs []string, start, end time.Time) ([]models.SentimentPoll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.SentimentPoll
	for _, id := range pollIDs {
		p, ok := s.polls[id]
		if !ok {
			continue
		}
		if p.PollDate.Before(start) || p.PollDate.After(end) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *stubRepo) ListStakedVotes(ctx context.Context, pollIDs []string, userID *string) ([]models.SentimentVote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inSet := map[string]struct{}{}
	for _, id := range pollIDs {
		inSet[id] = struct{}{}
	}
	var out []models.SentimentVote
	for _, v := range s.votes {
		if _, ok := inSet[v.PollID]; !ok {
			continue
		}
		if v.UserID == nil || !v.BetAmount.IsPositive() {
			continue
		}
		if userID != nil && *v.UserID != *userID {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *stubRepo) ListPayouts(ctx context.Context, pollIDs []string, userID *string) ([]models.PayoutRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inSet := map[string]struct{}{}
	for _, id := range pollIDs {
		inSet[id] = struct{}{}
	}
	var out []models.PayoutRecord
	for _, p := range s.payouts {
		if _, ok := inSet[p.PollID]; !ok {
			continue
		}
		if userID != nil && p.UserID != *userID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *stubRepo) GetUserBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.balances[userID]; ok {
		return b, nil
	}
	return decimal.Zero, nil
}

func (s *stubRepo) ListUserBalances(ctx context.Context, userIDs []string) (map[string]decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[string]decimal.Decimal{}
	for _, id := range userIDs {
		if b, ok := s.balances[id]; ok {
			out[id] = b
		}
	}
	return out, nil
}

func (s *stubRepo) ListUserSeasonStats(ctx context.Context, userID, seasonID string) ([]models.UserSeasonStat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.UserSeasonStat
	for _, row := range s.stats {
		if row.UserID == userID && row.SeasonID == seasonID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Market < out[j].Market })
	return out, nil
}

func (s *stubRepo) ListSeasonMMRs(ctx context.Context, tierMarket, seasonID string) (map[string]decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[string]decimal.Decimal{}
	for _, row := range s.stats {
		if row.Market == tierMarket && row.SeasonID == seasonID {
			out[row.UserID] = row.MMR
		}
	}
	return out, nil
}

func (s *stubRepo) UpsertUserSeasonStat(ctx context.Context, item *models.UserSeasonStat, overwriteTier bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := statKey(item.UserID, item.Market, item.SeasonID)
	next := *item
	if existing, ok := s.stats[key]; ok && !overwriteTier {
		next.Tier = existing.Tier
	}
	s.stats[key] = next
	return nil
}

func (s *stubRepo) CountPlacementDone(ctx context.Context, tierMarket, seasonID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, row := range s.stats {
		if row.Market == tierMarket && row.SeasonID == seasonID && row.PlacementDone {
			count++
		}
	}
	return count, nil
}

func (s *stubRepo) CountPlacementDoneAbove(ctx context.Context, tierMarket, seasonID string, mmr decimal.Decimal) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, row := range s.stats {
		if row.Market == tierMarket && row.SeasonID == seasonID && row.PlacementDone && row.MMR.GreaterThan(mmr) {
			count++
		}
	}
	return count, nil
}

func (s *stubRepo) InsertTierRefreshAudit(ctx context.Context, item *models.TierRefreshAudit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audits = append(s.audits, *item)
	return nil
}

func (s *stubRepo) statsSnapshot() map[string]models.UserSeasonStat {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]models.UserSeasonStat, len(s.stats))
	for k, v := range s.stats {
		out[k] = v
	}
	return out
}
