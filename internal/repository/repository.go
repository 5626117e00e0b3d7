package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"votingman/internal/models"
)

// Repository is the persistence boundary of the ranking engine. Polls, votes,
// payouts and balances are read-only inputs owned by the voting and account
// subsystems; user_season_stats is the engine's own output table.
type Repository interface {
	// Settlement inputs.
	ListSettledPollIDs(ctx context.Context) ([]string, error)
	ListPollsByIDsInDateRange(ctx context.Context, pollIDs []string, start, end time.Time) ([]models.SentimentPoll, error)

	// Participation inputs. Both filter to the given polls; userID narrows to
	// one user when non-nil. Staked votes are those with bet_amount > 0 and a
	// non-null user.
	ListStakedVotes(ctx context.Context, pollIDs []string, userID *string) ([]models.SentimentVote, error)
	ListPayouts(ctx context.Context, pollIDs []string, userID *string) ([]models.PayoutRecord, error)

	// Account inputs. Soft-deleted users are excluded.
	GetUserBalance(ctx context.Context, userID string) (decimal.Decimal, error)
	ListUserBalances(ctx context.Context, userIDs []string) (map[string]decimal.Decimal, error)

	// Season stat rows.
	ListUserSeasonStats(ctx context.Context, userID, seasonID string) ([]models.UserSeasonStat, error)
	ListSeasonMMRs(ctx context.Context, tierMarket, seasonID string) (map[string]decimal.Decimal, error)
	// UpsertUserSeasonStat writes on conflict key (user_id, market, season_id).
	// Only a full cohort refresh may overwrite tier; the per-user lazy path
	// passes overwriteTier=false so a previously assigned tier survives.
	UpsertUserSeasonStat(ctx context.Context, item *models.UserSeasonStat, overwriteTier bool) error

	// Read-time percentile inputs over the placement-complete cohort.
	CountPlacementDone(ctx context.Context, tierMarket, seasonID string) (int64, error)
	CountPlacementDoneAbove(ctx context.Context, tierMarket, seasonID string, mmr decimal.Decimal) (int64, error)

	// Best-effort refresh audit.
	InsertTierRefreshAudit(ctx context.Context, item *models.TierRefreshAudit) error
}
