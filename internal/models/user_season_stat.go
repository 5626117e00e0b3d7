package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserSeasonStat is the ranking engine's output: one row per
// (user, tier-market, season). Rows are upserted, never deleted; old-season
// rows stay as read-only carry-in for the next season.
//
// Tier stays null until placement is done and a full cohort refresh has run.
// percentile_pct is intentionally not stored: it is recomputed at read time.
type UserSeasonStat struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement"`
	UserID   string `gorm:"type:uuid;not null;uniqueIndex:uniq_user_market_season,priority:1"`
	Market   string `gorm:"type:varchar(10);not null;uniqueIndex:uniq_user_market_season,priority:2;index"`
	SeasonID string `gorm:"type:varchar(10);not null;uniqueIndex:uniq_user_market_season,priority:3;index"`

	PlacementMatchesPlayed int  `gorm:"not null;default:0"`
	PlacementDone          bool `gorm:"not null;default:false;index"`

	SeasonWinCount   int     `gorm:"not null;default:0"`
	SeasonTotalCount int     `gorm:"not null;default:0"`
	WinRate          float64 `gorm:"not null;default:0"`

	MMR           decimal.Decimal  `gorm:"column:mmr;type:numeric(30,10);not null;default:0"`
	PrevSeasonMMR *decimal.Decimal `gorm:"column:prev_season_mmr;type:numeric(30,10)"`
	Tier          *string          `gorm:"type:varchar(20)"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (UserSeasonStat) TableName() string {
	return "user_season_stats"
}
