package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SentimentVote is one user's stake on one poll. The voting subsystem keeps
// at most one row per (poll_id, user_id); later votes update in place.
// user_id is null for anonymous votes, which never enter ranking.
type SentimentVote struct {
	ID          uint64  `gorm:"primaryKey;autoIncrement"`
	PollID      string  `gorm:"type:uuid;not null;uniqueIndex:uniq_vote_poll_user,priority:1"`
	UserID      *string `gorm:"type:uuid;uniqueIndex:uniq_vote_poll_user,priority:2;index"`
	AnonymousID *string `gorm:"type:varchar(100)"`

	Choice    string          `gorm:"type:varchar(10);not null"` // long|short
	BetAmount decimal.Decimal `gorm:"type:numeric(30,10);not null;default:0"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (SentimentVote) TableName() string {
	return "sentiment_votes"
}
