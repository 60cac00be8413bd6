package gormrepository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"raffleland/internal/models"
	"raffleland/internal/repository"
)

type Store struct {
	db *gorm.DB
	// rowLocks is false on sqlite, which has no SELECT ... FOR UPDATE; its
	// writer lock serializes transactions anyway.
	rowLocks bool
}

func New(db *gorm.DB) *Store {
	s := &Store{db: db}
	if db != nil {
		s.rowLocks = db.Dialector.Name() == "postgres"
	}
	return s
}

func (s *Store) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(fn)
}

func (s *Store) forUpdate(q *gorm.DB) *gorm.DB {
	if s.rowLocks {
		return q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}

// --- registry counter -------------------------------------------------------

func (s *Store) GetCounter(ctx context.Context) (uint64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var state models.RegistryState
	err := s.db.WithContext(ctx).Where("scope = ?", models.RegistryScope).First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return state.Counter, nil
}

func (s *Store) IncrementCounterTx(ctx context.Context, tx *gorm.DB, scope string) (uint64, error) {
	if tx == nil {
		return 0, errors.New("increment counter requires a transaction")
	}
	var state models.RegistryState
	err := s.forUpdate(tx.WithContext(ctx)).Where("scope = ?", scope).First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		state = models.RegistryState{Scope: scope, Counter: 0}
		if err := tx.WithContext(ctx).Create(&state).Error; err != nil {
			return 0, err
		}
	} else if err != nil {
		return 0, err
	}
	state.Counter++
	if err := tx.WithContext(ctx).
		Model(&models.RegistryState{}).
		Where("scope = ?", scope).
		Update("counter", state.Counter).Error; err != nil {
		return 0, err
	}
	return state.Counter, nil
}

// --- raffles ----------------------------------------------------------------

func (s *Store) InsertRaffleTx(ctx context.Context, tx *gorm.DB, item *models.Raffle) error {
	if tx == nil || item == nil {
		return nil
	}
	return tx.WithContext(ctx).Create(item).Error
}

func (s *Store) GetRaffleByID(ctx context.Context, id uint64) (*models.Raffle, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Raffle
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetRaffleForUpdateTx(ctx context.Context, tx *gorm.DB, id uint64) (*models.Raffle, error) {
	if tx == nil {
		return nil, errors.New("raffle lock requires a transaction")
	}
	var item models.Raffle
	err := s.forUpdate(tx.WithContext(ctx)).Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) UpdateRaffleStatusTx(ctx context.Context, tx *gorm.DB, id uint64, status string, closedAt *time.Time) error {
	if tx == nil {
		return nil
	}
	updates := map[string]any{"status": status}
	if closedAt != nil {
		updates["closed_at"] = *closedAt
	}
	return tx.WithContext(ctx).
		Model(&models.Raffle{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (s *Store) applyRaffleFilters(q *gorm.DB, params repository.ListRafflesParams) *gorm.DB {
	if params.Status != nil && strings.TrimSpace(*params.Status) != "" {
		q = q.Where("status = ?", strings.TrimSpace(*params.Status))
	}
	if params.Creator != nil && strings.TrimSpace(*params.Creator) != "" {
		q = q.Where("creator = ?", strings.TrimSpace(*params.Creator))
	}
	return q
}

func (s *Store) ListRaffles(ctx context.Context, params repository.ListRafflesParams) ([]models.Raffle, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	q := s.applyRaffleFilters(s.db.WithContext(ctx).Model(&models.Raffle{}), params)
	q = applyOrder(q, params.OrderBy, params.Asc, "id")
	limit := normalizeLimit(params.Limit, 50)
	offset := normalizeOffset(params.Offset)
	var items []models.Raffle
	if err := q.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountRaffles(ctx context.Context, params repository.ListRafflesParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	q := s.applyRaffleFilters(s.db.WithContext(ctx).Model(&models.Raffle{}), params)
	if err := q.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) ListDueOpenRaffles(ctx context.Context, now time.Time, limit int) ([]models.Raffle, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Raffle
	err := s.db.WithContext(ctx).
		Model(&models.Raffle{}).
		Where("status = ?", models.RaffleStatusOpen).
		Where("end_time <= ?", now).
		Order("end_time asc").
		Limit(normalizeLimit(limit, 100)).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// --- participants -----------------------------------------------------------

func (s *Store) HasParticipantTx(ctx context.Context, tx *gorm.DB, raffleID uint64, account string) (bool, error) {
	if tx == nil {
		return false, nil
	}
	var total int64
	err := tx.WithContext(ctx).
		Model(&models.Participant{}).
		Where("raffle_id = ? AND account = ?", raffleID, account).
		Count(&total).Error
	if err != nil {
		return false, err
	}
	return total > 0, nil
}

func (s *Store) CountParticipantsTx(ctx context.Context, tx *gorm.DB, raffleID uint64) (int64, error) {
	if tx == nil {
		return 0, nil
	}
	var total int64
	err := tx.WithContext(ctx).
		Model(&models.Participant{}).
		Where("raffle_id = ?", raffleID).
		Count(&total).Error
	return total, err
}

func (s *Store) InsertParticipantTx(ctx context.Context, tx *gorm.DB, item *models.Participant) error {
	if tx == nil || item == nil {
		return nil
	}
	return tx.WithContext(ctx).Create(item).Error
}

func (s *Store) ListParticipants(ctx context.Context, raffleID uint64) ([]models.Participant, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	return listParticipants(ctx, s.db, raffleID)
}

func (s *Store) ListParticipantsTx(ctx context.Context, tx *gorm.DB, raffleID uint64) ([]models.Participant, error) {
	if tx == nil {
		return nil, nil
	}
	return listParticipants(ctx, tx, raffleID)
}

func listParticipants(ctx context.Context, db *gorm.DB, raffleID uint64) ([]models.Participant, error) {
	var items []models.Participant
	err := db.WithContext(ctx).
		Model(&models.Participant{}).
		Where("raffle_id = ?", raffleID).
		Order("seq asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// --- winners ----------------------------------------------------------------

func (s *Store) InsertWinnersTx(ctx context.Context, tx *gorm.DB, items []models.Winner) error {
	if tx == nil || len(items) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Create(&items).Error
}

func (s *Store) ListWinners(ctx context.Context, raffleID uint64) ([]models.Winner, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Winner
	err := s.db.WithContext(ctx).
		Model(&models.Winner{}).
		Where("raffle_id = ?", raffleID).
		Order("place asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// --- pending creations ------------------------------------------------------

func (s *Store) InsertPendingCreation(ctx context.Context, item *models.PendingCreation) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetPendingCreation(ctx context.Context, id string) (*models.PendingCreation, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.PendingCreation
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetPendingCreationForUpdateTx(ctx context.Context, tx *gorm.DB, id string) (*models.PendingCreation, error) {
	if tx == nil {
		return nil, errors.New("pending lock requires a transaction")
	}
	var item models.PendingCreation
	err := s.forUpdate(tx.WithContext(ctx)).Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) SavePendingCreationTx(ctx context.Context, tx *gorm.DB, item *models.PendingCreation) error {
	if tx == nil || item == nil {
		return nil
	}
	return tx.WithContext(ctx).Save(item).Error
}

func (s *Store) ListStalePendingCreations(ctx context.Context, before time.Time, limit int) ([]models.PendingCreation, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.PendingCreation
	err := s.db.WithContext(ctx).
		Model(&models.PendingCreation{}).
		Where("status = ?", models.PendingStatusPending).
		Where("created_at < ?", before).
		Order("created_at asc").
		Limit(normalizeLimit(limit, 100)).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// --- accounts & ledger ------------------------------------------------------

func (s *Store) GetAccount(ctx context.Context, address string) (*models.Account, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Account
	err := s.db.WithContext(ctx).Where("address = ?", address).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetAccountForUpdateTx(ctx context.Context, tx *gorm.DB, address string) (*models.Account, error) {
	if tx == nil {
		return nil, errors.New("account lock requires a transaction")
	}
	var item models.Account
	err := s.forUpdate(tx.WithContext(ctx)).Where("address = ?", address).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) SaveAccountTx(ctx context.Context, tx *gorm.DB, item *models.Account) error {
	if tx == nil || item == nil {
		return nil
	}
	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}},
		DoUpdates: clause.AssignmentColumns([]string{"balance", "updated_at"}),
	}).Create(item).Error
}

func (s *Store) InsertLedgerEntriesTx(ctx context.Context, tx *gorm.DB, items []models.LedgerEntry) error {
	if tx == nil || len(items) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Create(&items).Error
}

func (s *Store) ListLedgerEntries(ctx context.Context, params repository.ListLedgerEntriesParams) ([]models.LedgerEntry, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	q := s.db.WithContext(ctx).Model(&models.LedgerEntry{})
	if params.Account != nil && strings.TrimSpace(*params.Account) != "" {
		q = q.Where("account = ?", strings.TrimSpace(*params.Account))
	}
	if params.RaffleID != nil && *params.RaffleID > 0 {
		q = q.Where("raffle_id = ?", *params.RaffleID)
	}
	if params.Kind != nil && strings.TrimSpace(*params.Kind) != "" {
		q = q.Where("kind = ?", strings.TrimSpace(*params.Kind))
	}
	limit := normalizeLimit(params.Limit, 200)
	offset := normalizeOffset(params.Offset)
	var items []models.LedgerEntry
	if err := q.Order("id asc").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- helpers ----------------------------------------------------------------

func applyOrder(q *gorm.DB, orderBy string, asc *bool, fallback string) *gorm.DB {
	col := strings.TrimSpace(orderBy)
	switch col {
	case "id", "created_at", "end_time":
	default:
		col = fallback
	}
	dir := "desc"
	if asc != nil && *asc {
		dir = "asc"
	}
	return q.Order(col + " " + dir)
}

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > 1000 {
		return 1000
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
