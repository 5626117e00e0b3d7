package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayoutRecord marks a settled win. Presence of any row for a poll means the
// poll settled with a final outcome; presence of a row for (user, poll) means
// that user won it. Voided polls never emit payouts.
type PayoutRecord struct {
	ID     uint64          `gorm:"primaryKey;autoIncrement"`
	UserID string          `gorm:"type:uuid;not null;index:idx_payout_user_poll,priority:1"`
	PollID string          `gorm:"type:uuid;not null;index:idx_payout_user_poll,priority:2;index"`
	Amount decimal.Decimal `gorm:"type:numeric(30,10);not null;default:0"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
}

func (PayoutRecord) TableName() string {
	return "payout_history"
}
