package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// User is owned by the account subsystem. The ranking engine only reads
// user_id and voting_coin_balance; soft-deleted users never rank.
type User struct {
	UserID            string          `gorm:"primaryKey;type:uuid"`
	Nickname          string          `gorm:"type:varchar(50)"`
	VotingCoinBalance decimal.Decimal `gorm:"type:numeric(30,10);not null;default:0"`

	CreatedAt time.Time      `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"type:timestamptz;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (User) TableName() string {
	return "users"
}
