package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"raffleland/internal/models"
)

type ListRafflesParams struct {
	Limit   int
	Offset  int
	Status  *string
	Creator *string
	OrderBy string
	Asc     *bool
}

type ListLedgerEntriesParams struct {
	Limit    int
	Offset   int
	Account  *string
	RaffleID *uint64
	Kind     *string
}

// Repository is the registry's single source of truth. Mutating operations
// come in Tx variants so a service call can ride one transaction end to end;
// the *Tx methods must only be called from inside InTx.
type Repository interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error

	// Registry counter. IncrementCounterTx locks the state row, bumps the
	// counter and returns the new value; the counter never moves outside a
	// pending-creation commit.
	GetCounter(ctx context.Context) (uint64, error)
	IncrementCounterTx(ctx context.Context, tx *gorm.DB, scope string) (uint64, error)

	// Raffles.
	InsertRaffleTx(ctx context.Context, tx *gorm.DB, item *models.Raffle) error
	GetRaffleByID(ctx context.Context, id uint64) (*models.Raffle, error)
	GetRaffleForUpdateTx(ctx context.Context, tx *gorm.DB, id uint64) (*models.Raffle, error)
	UpdateRaffleStatusTx(ctx context.Context, tx *gorm.DB, id uint64, status string, closedAt *time.Time) error
	ListRaffles(ctx context.Context, params ListRafflesParams) ([]models.Raffle, error)
	CountRaffles(ctx context.Context, params ListRafflesParams) (int64, error)
	ListDueOpenRaffles(ctx context.Context, now time.Time, limit int) ([]models.Raffle, error)

	// Participants.
	HasParticipantTx(ctx context.Context, tx *gorm.DB, raffleID uint64, account string) (bool, error)
	CountParticipantsTx(ctx context.Context, tx *gorm.DB, raffleID uint64) (int64, error)
	InsertParticipantTx(ctx context.Context, tx *gorm.DB, item *models.Participant) error
	ListParticipants(ctx context.Context, raffleID uint64) ([]models.Participant, error)
	ListParticipantsTx(ctx context.Context, tx *gorm.DB, raffleID uint64) ([]models.Participant, error)

	// Winners.
	InsertWinnersTx(ctx context.Context, tx *gorm.DB, items []models.Winner) error
	ListWinners(ctx context.Context, raffleID uint64) ([]models.Winner, error)

	// Pending creations.
	InsertPendingCreation(ctx context.Context, item *models.PendingCreation) error
	GetPendingCreation(ctx context.Context, id string) (*models.PendingCreation, error)
	GetPendingCreationForUpdateTx(ctx context.Context, tx *gorm.DB, id string) (*models.PendingCreation, error)
	SavePendingCreationTx(ctx context.Context, tx *gorm.DB, item *models.PendingCreation) error
	ListStalePendingCreations(ctx context.Context, before time.Time, limit int) ([]models.PendingCreation, error)

	// Accounts and ledger entries.
	GetAccount(ctx context.Context, address string) (*models.Account, error)
	GetAccountForUpdateTx(ctx context.Context, tx *gorm.DB, address string) (*models.Account, error)
	SaveAccountTx(ctx context.Context, tx *gorm.DB, item *models.Account) error
	InsertLedgerEntriesTx(ctx context.Context, tx *gorm.DB, items []models.LedgerEntry) error
	ListLedgerEntries(ctx context.Context, params ListLedgerEntriesParams) ([]models.LedgerEntry, error)
}
