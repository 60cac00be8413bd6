package db

import (
	"raffleland/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.RegistryState{},
		&models.Raffle{},
		&models.Participant{},
		&models.Winner{},
		&models.PendingCreation{},
		&models.Account{},
		&models.LedgerEntry{},
	)
}
