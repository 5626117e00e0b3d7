// Package tier computes seasonal participation, win rates, MMR and
// cohort-relative tiers over settled sentiment polls.
package tier

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"votingman/internal/market"
	"votingman/internal/models"
	"votingman/internal/repository"
	"votingman/internal/season"
)

// Refresh triggers recorded in the audit trail.
const (
	TriggerCron       = "cron"
	TriggerAPI        = "api"
	TriggerLazyRepair = "lazy_repair"
)

type Service struct {
	Repo   repository.Repository
	Logger *zap.Logger
}

// MarketStats is one user's season standing in one tier-market.
type MarketStats struct {
	Market                 market.TierMarket `json:"market"`
	SeasonID               string            `json:"season_id"`
	PlacementMatchesPlayed int               `json:"placement_matches_played"`
	PlacementDone          bool              `json:"placement_done"`
	SeasonWinCount         int               `json:"season_win_count"`
	SeasonTotalCount       int               `json:"season_total_count"`
	WinRate                float64           `json:"win_rate"`
	MMR                    decimal.Decimal   `json:"mmr"`
	PrevSeasonMMR          *decimal.Decimal  `json:"prev_season_mmr,omitempty"`
	Tier                   *Key              `json:"tier"`
	PercentilePct          *float64          `json:"percentile_pct"`
}

// MyStats is the current-season standing across all three tier-markets.
type MyStats struct {
	SeasonID string        `json:"season_id"`
	Markets  []MarketStats `json:"markets"`
}

// RefreshResult summarizes a batch refresh.
type RefreshResult struct {
	SeasonID       string `json:"season_id"`
	MarketsUpdated int    `json:"markets_updated"`
	RowsUpdated    int    `json:"rows_updated"`
}

// RefreshSeason recomputes ratings and tiers for the given tier-markets.
// Passing no markets refreshes all three. Re-running with no new settlements
// is a no-op in effect: every write is an idempotent upsert. On a store
// failure the partial progress is kept and the error surfaced; a retry only
// redoes remaining work.
func (s *Service) RefreshSeason(ctx context.Context, markets []market.TierMarket, seas season.Season, trigger string) (RefreshResult, error) {
	if len(markets) == 0 {
		markets = market.TierMarkets
	}
	result := RefreshResult{SeasonID: seas.ID(), MarketsUpdated: len(markets)}
	for _, tm := range markets {
		updated, err := s.RefreshMarketSeason(ctx, tm, seas, trigger)
		result.RowsUpdated += updated
		if err != nil {
			return result, err
		}
	}
	return result, nil
}

// RefreshMarketSeason runs the full pipeline for one tier-market+season:
// settlement resolution, participation aggregation, rating, cohort tier
// assignment, and upsert. Returns the number of rows written.
func (s *Service) RefreshMarketSeason(ctx context.Context, tm market.TierMarket, seas season.Season, trigger string) (int, error) {
	started := time.Now()

	pollIDs, err := s.resolveSettledPolls(ctx, tm, seas)
	if err != nil {
		return 0, err
	}
	if len(pollIDs) == 0 {
		// No settled data yet: a valid zero-participation outcome, not an error.
		return 0, nil
	}

	parts, err := s.aggregateParticipation(ctx, pollIDs, nil)
	if err != nil {
		return 0, err
	}
	if len(parts) == 0 {
		return 0, nil
	}

	userIDs := make([]string, 0, len(parts))
	for userID := range parts {
		userIDs = append(userIDs, userID)
	}
	sort.Strings(userIDs)

	balances, err := s.Repo.ListUserBalances(ctx, userIDs)
	if err != nil {
		return 0, err
	}

	prevMMRs := map[string]decimal.Decimal{}
	prevSeason, hasPrev := seas.Previous()
	if hasPrev {
		prevMMRs, err = s.Repo.ListSeasonMMRs(ctx, string(tm), prevSeason.ID())
		if err != nil {
			return 0, err
		}
	}

	rows := make([]*models.UserSeasonStat, 0, len(userIDs))
	cohort := make([]cohortEntry, 0, len(userIDs))
	for _, userID := range userIDs {
		p := parts[userID]
		played := len(p.Played)
		wins := len(p.Won)

		var prev *decimal.Decimal
		if hasPrev {
			if v, ok := prevMMRs[userID]; ok {
				prev = &v
			}
		}
		r := computeRating(played, wins, balances[userID], prev)

		rows = append(rows, &models.UserSeasonStat{
			UserID:                 userID,
			Market:                 string(tm),
			SeasonID:               seas.ID(),
			PlacementMatchesPlayed: played,
			PlacementDone:          r.PlacementDone,
			SeasonWinCount:         wins,
			SeasonTotalCount:       played,
			WinRate:                r.WinRate,
			MMR:                    r.MMR,
			PrevSeasonMMR:          prev,
		})
		if r.PlacementDone {
			cohort = append(cohort, cohortEntry{UserID: userID, MMR: r.MMR})
		}
	}

	tiers := assignTiers(cohort)
	for _, row := range rows {
		if tier, ok := tiers[row.UserID]; ok {
			value := string(tier)
			row.Tier = &value
		}
	}

	updated := 0
	var firstErr error
	for _, row := range rows {
		if err := s.Repo.UpsertUserSeasonStat(ctx, row, true); err != nil {
			s.logWarn("season stat upsert failed", err,
				zap.String("user_id", row.UserID),
				zap.String("market", row.Market),
			)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		updated++
	}

	s.logInfo("market season refreshed",
		zap.String("market", string(tm)),
		zap.String("season_id", seas.ID()),
		zap.Int("settled_polls", len(pollIDs)),
		zap.Int("participants", len(rows)),
		zap.Int("placed", len(cohort)),
		zap.Int("rows_updated", updated),
	)
	s.auditRefresh(tm, seas, trigger, len(pollIDs), len(rows), updated, time.Since(started))
	return updated, firstErr
}

// GetMyStats returns the user's current-season standing across all three
// tier-markets, computing and persisting lazily when no stored rows exist.
// A stored row with placement done but no tier means the user crossed the
// placement threshold after the last batch refresh; that tier-market is
// refreshed in place so the caller sees a tier on this read.
func (s *Service) GetMyStats(ctx context.Context, userID string, asOf time.Time) (MyStats, error) {
	seas := season.At(asOf)

	existing, err := s.Repo.ListUserSeasonStats(ctx, userID, seas.ID())
	if err != nil {
		return MyStats{}, err
	}

	if len(existing) == len(market.TierMarkets) {
		repaired, err := s.repairMissingTiers(ctx, userID, seas, existing)
		if err != nil {
			return MyStats{}, err
		}
		stats := statsFromRows(repaired, seas)
		if err := s.decoratePercentiles(ctx, seas, stats); err != nil {
			return MyStats{}, err
		}
		return MyStats{SeasonID: seas.ID(), Markets: stats}, nil
	}

	// Lazy path: compute this user's rows directly, bypassing the cohort.
	computed, err := s.computeUserStats(ctx, userID, seas)
	if err != nil {
		return MyStats{}, err
	}

	tierByMarket := map[string]string{}
	for _, row := range existing {
		if row.Tier != nil && *row.Tier != "" {
			tierByMarket[row.Market] = *row.Tier
		}
	}

	for _, row := range computed {
		if err := s.Repo.UpsertUserSeasonStat(ctx, row, false); err != nil {
			return MyStats{}, err
		}
	}

	needRefresh := make([]market.TierMarket, 0, len(computed))
	for _, row := range computed {
		if row.PlacementDone && tierByMarket[row.Market] == "" {
			needRefresh = append(needRefresh, market.TierMarket(row.Market))
		}
	}
	if len(needRefresh) > 0 {
		for _, tm := range needRefresh {
			if _, err := s.RefreshMarketSeason(ctx, tm, seas, TriggerLazyRepair); err != nil {
				return MyStats{}, err
			}
		}
		after, err := s.Repo.ListUserSeasonStats(ctx, userID, seas.ID())
		if err != nil {
			return MyStats{}, err
		}
		if len(after) == len(market.TierMarkets) {
			stats := statsFromRows(after, seas)
			if err := s.decoratePercentiles(ctx, seas, stats); err != nil {
				return MyStats{}, err
			}
			return MyStats{SeasonID: seas.ID(), Markets: stats}, nil
		}
	}

	merged := make([]models.UserSeasonStat, 0, len(computed))
	for _, row := range computed {
		if preserved, ok := tierByMarket[row.Market]; ok {
			value := preserved
			row.Tier = &value
		}
		merged = append(merged, *row)
	}
	stats := statsFromRows(merged, seas)
	if err := s.decoratePercentiles(ctx, seas, stats); err != nil {
		return MyStats{}, err
	}
	return MyStats{SeasonID: seas.ID(), Markets: stats}, nil
}

// repairMissingTiers refreshes any tier-market where the stored row is
// placement-complete but untiered, then re-reads. Falls back to the original
// rows if the re-read comes back incomplete.
func (s *Service) repairMissingTiers(ctx context.Context, userID string, seas season.Season, rows []models.UserSeasonStat) ([]models.UserSeasonStat, error) {
	var needRefresh []market.TierMarket
	for _, row := range rows {
		if row.PlacementDone && (row.Tier == nil || *row.Tier == "") {
			needRefresh = append(needRefresh, market.TierMarket(row.Market))
		}
	}
	if len(needRefresh) == 0 {
		return rows, nil
	}
	for _, tm := range needRefresh {
		if _, err := s.RefreshMarketSeason(ctx, tm, seas, TriggerLazyRepair); err != nil {
			return nil, err
		}
	}
	after, err := s.Repo.ListUserSeasonStats(ctx, userID, seas.ID())
	if err != nil {
		return nil, err
	}
	if len(after) != len(market.TierMarkets) {
		return rows, nil
	}
	return after, nil
}

// computeUserStats runs the per-user pipeline for every tier-market, reading
// only; rows come back with a nil tier since tier assignment is cohort-global.
func (s *Service) computeUserStats(ctx context.Context, userID string, seas season.Season) ([]*models.UserSeasonStat, error) {
	balance, err := s.Repo.GetUserBalance(ctx, userID)
	if err != nil {
		return nil, err
	}

	prevByMarket := map[string]decimal.Decimal{}
	prevSeason, hasPrev := seas.Previous()
	if hasPrev {
		prevRows, err := s.Repo.ListUserSeasonStats(ctx, userID, prevSeason.ID())
		if err != nil {
			return nil, err
		}
		for _, row := range prevRows {
			prevByMarket[row.Market] = row.MMR
		}
	}

	rows := make([]*models.UserSeasonStat, 0, len(market.TierMarkets))
	for _, tm := range market.TierMarkets {
		pollIDs, err := s.resolveSettledPolls(ctx, tm, seas)
		if err != nil {
			return nil, err
		}
		parts, err := s.aggregateParticipation(ctx, pollIDs, &userID)
		if err != nil {
			return nil, err
		}

		played, wins := 0, 0
		if p := parts[userID]; p != nil {
			played = len(p.Played)
			wins = len(p.Won)
		}

		var prev *decimal.Decimal
		if hasPrev {
			if v, ok := prevByMarket[string(tm)]; ok {
				prev = &v
			}
		}
		r := computeRating(played, wins, balance, prev)

		rows = append(rows, &models.UserSeasonStat{
			UserID:                 userID,
			Market:                 string(tm),
			SeasonID:               seas.ID(),
			PlacementMatchesPlayed: played,
			PlacementDone:          r.PlacementDone,
			SeasonWinCount:         wins,
			SeasonTotalCount:       played,
			WinRate:                r.WinRate,
			MMR:                    r.MMR,
			PrevSeasonMMR:          prev,
		})
	}
	return rows, nil
}

// decoratePercentiles fills the query-time percentile: the share of the
// placement-complete cohort the user equals or beats. Intentionally separate
// from the stored tier; the two may briefly diverge between refresh cycles.
func (s *Service) decoratePercentiles(ctx context.Context, seas season.Season, stats []MarketStats) error {
	for i := range stats {
		if !stats[i].PlacementDone {
			continue
		}
		total, err := s.Repo.CountPlacementDone(ctx, string(stats[i].Market), seas.ID())
		if err != nil {
			return err
		}
		if total == 0 {
			continue
		}
		above, err := s.Repo.CountPlacementDoneAbove(ctx, string(stats[i].Market), seas.ID(), stats[i].MMR)
		if err != nil {
			return err
		}
		pct := round2(float64(total-above) / float64(total) * 100)
		stats[i].PercentilePct = &pct
	}
	return nil
}

// statsFromRows orders rows canonically (btc, us, kr) and recomputes the win
// rate from the stored counts, which stays authoritative over the stored
// float.
func statsFromRows(rows []models.UserSeasonStat, seas season.Season) []MarketStats {
	byMarket := make(map[string]*models.UserSeasonStat, len(rows))
	for i := range rows {
		byMarket[rows[i].Market] = &rows[i]
	}
	out := make([]MarketStats, 0, len(market.TierMarkets))
	for _, tm := range market.TierMarkets {
		row := byMarket[string(tm)]
		if row == nil {
			continue
		}
		winRate := 0.0
		if row.SeasonTotalCount > 0 {
			winRate = float64(row.SeasonWinCount) / float64(row.SeasonTotalCount)
		}
		stat := MarketStats{
			Market:                 tm,
			SeasonID:               seas.ID(),
			PlacementMatchesPlayed: row.PlacementMatchesPlayed,
			PlacementDone:          row.PlacementDone,
			SeasonWinCount:         row.SeasonWinCount,
			SeasonTotalCount:       row.SeasonTotalCount,
			WinRate:                winRate,
			MMR:                    row.MMR,
			PrevSeasonMMR:          row.PrevSeasonMMR,
		}
		if row.Tier != nil && *row.Tier != "" {
			tier := Key(*row.Tier)
			stat.Tier = &tier
		}
		out = append(out, stat)
	}
	return out
}

// auditRefresh records the pass in tier_refresh_audit from a detached
// goroutine. Best-effort: a failed audit write is logged and swallowed,
// never failing the refresh.
func (s *Service) auditRefresh(tm market.TierMarket, seas season.Season, trigger string, settledPolls, participants, updated int, took time.Duration) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		details, _ := json.Marshal(map[string]any{
			"settled_polls": settledPolls,
			"participants":  participants,
		})
		err := s.Repo.InsertTierRefreshAudit(ctx, &models.TierRefreshAudit{
			Market:      string(tm),
			SeasonID:    seas.ID(),
			Trigger:     trigger,
			RowsUpdated: updated,
			DurationMS:  took.Milliseconds(),
			Details:     datatypes.JSON(details),
		})
		if err != nil {
			s.logWarn("refresh audit write failed", err, zap.String("market", string(tm)))
		}
	}()
}

func (s *Service) logInfo(msg string, fields ...zap.Field) {
	if s.Logger != nil {
		s.Logger.Info(msg, fields...)
	}
}

func (s *Service) logWarn(msg string, err error, fields ...zap.Field) {
	if s.Logger != nil {
		s.Logger.Warn(msg, append(fields, zap.Error(err))...)
	}
}
