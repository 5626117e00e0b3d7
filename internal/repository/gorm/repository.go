package gormrepository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"votingman/internal/models"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ListSettledPollIDs(ctx context.Context) ([]string, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var ids []string
	err := s.db.WithContext(ctx).
		Model(&models.PayoutRecord{}).
		Distinct("poll_id").
		Where("poll_id IS NOT NULL").
		Pluck("poll_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *Store) ListPollsByIDsInDateRange(ctx context.Context, pollIDs []string, start, end time.Time) ([]models.SentimentPoll, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	pollIDs = cleanStrings(pollIDs)
	if len(pollIDs) == 0 {
		return nil, nil
	}
	// poll_date is a plain DATE. Compare against date literals rendered in
	// the bounds' own zone (KST); binding time.Time here would let the
	// session timezone shift the season window by up to a day.
	var items []models.SentimentPoll
	err := s.db.WithContext(ctx).
		Where("id IN ?", pollIDs).
		Where("poll_date >= ? AND poll_date <= ?", start.Format("2006-01-02"), end.Format("2006-01-02")).
		Where("market IS NOT NULL AND market <> ''").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListStakedVotes(ctx context.Context, pollIDs []string, userID *string) ([]models.SentimentVote, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	pollIDs = cleanStrings(pollIDs)
	if len(pollIDs) == 0 {
		return nil, nil
	}
	query := s.db.WithContext(ctx).
		Where("poll_id IN ?", pollIDs).
		Where("user_id IS NOT NULL").
		Where("bet_amount > 0")
	if userID != nil && strings.TrimSpace(*userID) != "" {
		query = query.Where("user_id = ?", strings.TrimSpace(*userID))
	}
	var items []models.SentimentVote
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListPayouts(ctx context.Context, pollIDs []string, userID *string) ([]models.PayoutRecord, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	pollIDs = cleanStrings(pollIDs)
	if len(pollIDs) == 0 {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Where("poll_id IN ?", pollIDs)
	if userID != nil && strings.TrimSpace(*userID) != "" {
		query = query.Where("user_id = ?", strings.TrimSpace(*userID))
	}
	var items []models.PayoutRecord
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) GetUserBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	if s == nil || s.db == nil {
		return decimal.Zero, nil
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return decimal.Zero, nil
	}
	var user models.User
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return user.VotingCoinBalance, nil
}

func (s *Store) ListUserBalances(ctx context.Context, userIDs []string) (map[string]decimal.Decimal, error) {
	out := map[string]decimal.Decimal{}
	if s == nil || s.db == nil {
		return out, nil
	}
	userIDs = cleanStrings(userIDs)
	if len(userIDs) == 0 {
		return out, nil
	}
	var users []models.User
	err := s.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.UserID] = u.VotingCoinBalance
	}
	return out, nil
}

func (s *Store) ListUserSeasonStats(ctx context.Context, userID, seasonID string) ([]models.UserSeasonStat, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	userID = strings.TrimSpace(userID)
	seasonID = strings.TrimSpace(seasonID)
	if userID == "" || seasonID == "" {
		return nil, nil
	}
	var items []models.UserSeasonStat
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND season_id = ?", userID, seasonID).
		Order("market asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListSeasonMMRs(ctx context.Context, tierMarket, seasonID string) (map[string]decimal.Decimal, error) {
	out := map[string]decimal.Decimal{}
	if s == nil || s.db == nil {
		return out, nil
	}
	var items []models.UserSeasonStat
	err := s.db.WithContext(ctx).
		Select("user_id", "mmr").
		Where("market = ? AND season_id = ?", strings.TrimSpace(tierMarket), strings.TrimSpace(seasonID)).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	for _, row := range items {
		out[row.UserID] = row.MMR
	}
	return out, nil
}

func (s *Store) UpsertUserSeasonStat(ctx context.Context, item *models.UserSeasonStat, overwriteTier bool) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	if strings.TrimSpace(item.UserID) == "" || strings.TrimSpace(item.Market) == "" || strings.TrimSpace(item.SeasonID) == "" {
		return nil
	}
	columns := []string{
		"placement_matches_played",
		"placement_done",
		"season_win_count",
		"season_total_count",
		"win_rate",
		"mmr",
		"prev_season_mmr",
		"updated_at",
	}
	// Tier is cohort-global: the per-user lazy path must not clobber a tier
	// assigned by a full refresh, so it is excluded from the update set unless
	// the caller is the cohort pass itself.
	if overwriteTier {
		columns = append(columns, "tier")
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "market"}, {Name: "season_id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(item).Error
}

func (s *Store) CountPlacementDone(ctx context.Context, tierMarket, seasonID string) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.UserSeasonStat{}).
		Where("market = ? AND season_id = ? AND placement_done = ?", strings.TrimSpace(tierMarket), strings.TrimSpace(seasonID), true).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) CountPlacementDoneAbove(ctx context.Context, tierMarket, seasonID string, mmr decimal.Decimal) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.UserSeasonStat{}).
		Where("market = ? AND season_id = ? AND placement_done = ?", strings.TrimSpace(tierMarket), strings.TrimSpace(seasonID), true).
		Where("mmr > ?", mmr).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) InsertTierRefreshAudit(ctx context.Context, item *models.TierRefreshAudit) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	seen := map[string]struct{}{}
	for _, raw := range items {
		val := strings.TrimSpace(raw)
		if val == "" {
			continue
		}
		if _, ok := seen[val]; ok {
			continue
		}
		seen[val] = struct{}{}
		out = append(out, val)
	}
	return out
}
