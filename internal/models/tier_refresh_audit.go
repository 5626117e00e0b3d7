package models

import (
	"time"

	"gorm.io/datatypes"
)

// TierRefreshAudit records one refresh pass per market+season. Written
// best-effort after the pass completes; a lost row never fails a refresh.
type TierRefreshAudit struct {
	ID          uint64         `gorm:"primaryKey;autoIncrement"`
	Market      string         `gorm:"type:varchar(10);not null;index"`
	SeasonID    string         `gorm:"type:varchar(10);not null;index"`
	Trigger     string         `gorm:"type:varchar(20);not null"` // cron|api|lazy_repair
	RowsUpdated int            `gorm:"not null;default:0"`
	DurationMS  int64          `gorm:"not null;default:0"`
	Details     datatypes.JSON `gorm:"type:jsonb"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index"`
}

func (TierRefreshAudit) TableName() string {
	return "tier_refresh_audit"
}
