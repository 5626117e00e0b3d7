package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SentimentPoll is one daily market instance, owned by the voting subsystem.
// The ranking engine reads id, poll_date and market only; a poll is "settled"
// once at least one payout_history row references it.
type SentimentPoll struct {
	ID       string    `gorm:"primaryKey;type:uuid"`
	Market   string    `gorm:"type:varchar(10);not null;index"`
	PollDate time.Time `gorm:"type:date;not null;index"`

	OpenPrice  *decimal.Decimal `gorm:"type:numeric(30,10)"`
	ClosePrice *decimal.Decimal `gorm:"type:numeric(30,10)"`
	LongCount  int              `gorm:"not null;default:0"`
	ShortCount int              `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (SentimentPoll) TableName() string {
	return "sentiment_polls"
}
