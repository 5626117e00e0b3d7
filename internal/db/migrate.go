package db

import (
	"votingman/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.User{},
		&models.SentimentPoll{},
		&models.SentimentVote{},
		&models.PayoutRecord{},
		&models.UserSeasonStat{},
		&models.TierRefreshAudit{},
	)
}
