package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"raffleland/internal/config"
	"raffleland/internal/ledger"
	"raffleland/internal/models"
	"raffleland/internal/oracle"
	"raffleland/internal/repository"
	"raffleland/internal/stream"
)

// stubRepo keeps everything in maps so service semantics can be exercised
// without a database. Transactions are simulated: failWith aborts InTx and
// discards nothing here, so tests that need rollback assert on the error path
// before state is written.
type stubRepo struct {
	counter      uint64
	raffles      map[uint64]models.Raffle
	participants []models.Participant
	winners      []models.Winner
	pendings     map[string]models.PendingCreation
	accounts     map[string]models.Account
	entries      []models.LedgerEntry

	nextPartID uint64
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		raffles:  map[uint64]models.Raffle{},
		pendings: map[string]models.PendingCreation{},
		accounts: map[string]models.Account{},
	}
}

var _ repository.Repository = (*stubRepo)(nil)

func (r *stubRepo) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

func (r *stubRepo) GetCounter(ctx context.Context) (uint64, error) {
	return r.counter, nil
}

func (r *stubRepo) IncrementCounterTx(ctx context.Context, tx *gorm.DB, scope string) (uint64, error) {
	r.counter++
	return r.counter, nil
}

func (r *stubRepo) InsertRaffleTx(ctx context.Context, tx *gorm.DB, item *models.Raffle) error {
	r.raffles[item.ID] = *item
	return nil
}

func (r *stubRepo) GetRaffleByID(ctx context.Context, id uint64) (*models.Raffle, error) {
	if item, ok := r.raffles[id]; ok {
		out := item
		return &out, nil
	}
	return nil, nil
}

func (r *stubRepo) GetRaffleForUpdateTx(ctx context.Context, tx *gorm.DB, id uint64) (*models.Raffle, error) {
	return r.GetRaffleByID(ctx, id)
}

func (r *stubRepo) UpdateRaffleStatusTx(ctx context.Context, tx *gorm.DB, id uint64, status string, closedAt *time.Time) error {
	item := r.raffles[id]
	item.Status = status
	item.ClosedAt = closedAt
	r.raffles[id] = item
	return nil
}

func (r *stubRepo) ListRaffles(ctx context.Context, params repository.ListRafflesParams) ([]models.Raffle, error) {
	var out []models.Raffle
	for _, item := range r.raffles {
		if params.Status != nil && item.Status != *params.Status {
			continue
		}
		if params.Creator != nil && item.Creator != *params.Creator {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubRepo) CountRaffles(ctx context.Context, params repository.ListRafflesParams) (int64, error) {
	items, _ := r.ListRaffles(ctx, params)
	return int64(len(items)), nil
}

func (r *stubRepo) ListDueOpenRaffles(ctx context.Context, now time.Time, limit int) ([]models.Raffle, error) {
	var out []models.Raffle
	for _, item := range r.raffles {
		if item.Status == models.RaffleStatusOpen && !item.EndTime.After(now) {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubRepo) HasParticipantTx(ctx context.Context, tx *gorm.DB, raffleID uint64, account string) (bool, error) {
	for _, p := range r.participants {
		if p.RaffleID == raffleID && p.Account == account {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubRepo) CountParticipantsTx(ctx context.Context, tx *gorm.DB, raffleID uint64) (int64, error) {
	var n int64
	for _, p := range r.participants {
		if p.RaffleID == raffleID {
			n++
		}
	}
	return n, nil
}

func (r *stubRepo) InsertParticipantTx(ctx context.Context, tx *gorm.DB, item *models.Participant) error {
	r.nextPartID++
	item.ID = r.nextPartID
	r.participants = append(r.participants, *item)
	return nil
}

func (r *stubRepo) ListParticipants(ctx context.Context, raffleID uint64) ([]models.Participant, error) {
	var out []models.Participant
	for _, p := range r.participants {
		if p.RaffleID == raffleID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

func (r *stubRepo) ListParticipantsTx(ctx context.Context, tx *gorm.DB, raffleID uint64) ([]models.Participant, error) {
	return r.ListParticipants(ctx, raffleID)
}

func (r *stubRepo) InsertWinnersTx(ctx context.Context, tx *gorm.DB, items []models.Winner) error {
	r.winners = append(r.winners, items...)
	return nil
}

func (r *stubRepo) ListWinners(ctx context.Context, raffleID uint64) ([]models.Winner, error) {
	var out []models.Winner
	for _, w := range r.winners {
		if w.RaffleID == raffleID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Place < out[j].Place })
	return out, nil
}

func (r *stubRepo) InsertPendingCreation(ctx context.Context, item *models.PendingCreation) error {
	item.CreatedAt = time.Now().UTC()
	r.pendings[item.ID] = *item
	return nil
}

func (r *stubRepo) GetPendingCreation(ctx context.Context, id string) (*models.PendingCreation, error) {
	if item, ok := r.pendings[id]; ok {
		out := item
		return &out, nil
	}
	return nil, nil
}

func (r *stubRepo) GetPendingCreationForUpdateTx(ctx context.Context, tx *gorm.DB, id string) (*models.PendingCreation, error) {
	return r.GetPendingCreation(ctx, id)
}

func (r *stubRepo) SavePendingCreationTx(ctx context.Context, tx *gorm.DB, item *models.PendingCreation) error {
	r.pendings[item.ID] = *item
	return nil
}

func (r *stubRepo) ListStalePendingCreations(ctx context.Context, before time.Time, limit int) ([]models.PendingCreation, error) {
	var out []models.PendingCreation
	for _, p := range r.pendings {
		if p.Status == models.PendingStatusPending && p.CreatedAt.Before(before) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubRepo) GetAccount(ctx context.Context, address string) (*models.Account, error) {
	if item, ok := r.accounts[address]; ok {
		out := item
		return &out, nil
	}
	return nil, nil
}

func (r *stubRepo) GetAccountForUpdateTx(ctx context.Context, tx *gorm.DB, address string) (*models.Account, error) {
	return r.GetAccount(ctx, address)
}

func (r *stubRepo) SaveAccountTx(ctx context.Context, tx *gorm.DB, item *models.Account) error {
	r.accounts[item.Address] = *item
	return nil
}

func (r *stubRepo) InsertLedgerEntriesTx(ctx context.Context, tx *gorm.DB, items []models.LedgerEntry) error {
	r.entries = append(r.entries, items...)
	return nil
}

func (r *stubRepo) ListLedgerEntries(ctx context.Context, params repository.ListLedgerEntriesParams) ([]models.LedgerEntry, error) {
	var out []models.LedgerEntry
	for _, e := range r.entries {
		if params.Account != nil && e.Account != *params.Account {
			continue
		}
		if params.RaffleID != nil && e.RaffleID != *params.RaffleID {
			continue
		}
		if params.Kind != nil && e.Kind != *params.Kind {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *stubRepo) balance(address string) uint64 {
	return r.accounts[address].Balance
}

func (r *stubRepo) fund(address string, amount uint64) {
	acct := r.accounts[address]
	acct.Address = address
	acct.Balance += amount
	r.accounts[address] = acct
}

// stubOracle answers every query with a fixed owner or error.
type stubOracle struct {
	owner string
	err   error
	calls int
}

func (o *stubOracle) QueryOwner(ctx context.Context, assetID string) (*oracle.OwnerReply, error) {
	o.calls++
	if o.err != nil {
		return nil, o.err
	}
	return &oracle.OwnerReply{
		AssetID: assetID,
		Owner:   o.owner,
		Raw:     []byte(`{"owner":"` + o.owner + `"}`),
	}, nil
}

func testConfig() config.RaffleConfig {
	return config.RaffleConfig{
		CustodianAccount: "custodian.test",
		OperatorAccount:  "operator.test",
		EscrowAccount:    "escrow.test",
		FeeAccount:       "fees.test",
		StorageCost:      10,
		DuplicateFee:     1,
		DrawPolicy:       "without_replacement",
		EndTimePolicy:    "advisory",
	}
}

func newTestService(repo *stubRepo, o oracle.OwnershipOracle) *RegistryService {
	return &RegistryService{
		Repo:   repo,
		Ledger: &ledger.Service{Repo: repo, Logger: zap.NewNop()},
		Oracle: o,
		Hub:    stream.NewHub(8, zap.NewNop()),
		Logger: zap.NewNop(),
		Config: testConfig(),
		SeedFunc: func() ([]byte, error) {
			return []byte(strings.Repeat("s", 32)), nil
		},
	}
}
