package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"raffleland/internal/config"
	"raffleland/internal/draw"
	"raffleland/internal/ledger"
	"raffleland/internal/models"
	"raffleland/internal/oracle"
	"raffleland/internal/repository"
	"raffleland/internal/stream"
)

// RegistryService owns every mutation of registry state. Reads go straight to
// the repository; writes ride a single transaction so a failed operation
// leaves no partial raffle, entry, or draw behind.
type RegistryService struct {
	Repo   repository.Repository
	Ledger *ledger.Service
	Oracle oracle.OwnershipOracle
	Hub    *stream.Hub
	Logger *zap.Logger
	Config config.RaffleConfig

	// OracleTimeout bounds one ownership query during creation resolution.
	OracleTimeout time.Duration

	// SeedFunc supplies the draw seed for one close. Defaults to the
	// operating system entropy pool; tests inject fixed bytes.
	SeedFunc func() ([]byte, error)
}

// CreateRequest is the boundary payload for a new raffle. The creator comes
// from the authenticated caller, never from the payload.
type CreateRequest struct {
	EndTime     time.Time      `json:"end_time"`
	TicketPrice uint64         `json:"ticket_price"`
	Prizes      []models.Prize `json:"prizes"`
}

// BeginCreation starts the two-phase creation: it validates the request and
// persists a pending record under a fresh correlation id. No registry state
// (counter, raffles) is touched until ResolveCreation commits it.
func (s *RegistryService) BeginCreation(ctx context.Context, creator string, req CreateRequest) (*models.PendingCreation, error) {
	if s == nil || s.Repo == nil {
		return nil, fmt.Errorf("registry not configured")
	}
	if strings.TrimSpace(creator) == "" {
		return nil, ErrUnauthorized
	}
	if len(req.Prizes) == 0 {
		return nil, fmt.Errorf("%w: at least one prize required", ErrInvalidCreation)
	}
	for i, p := range req.Prizes {
		if strings.TrimSpace(p.AssetID) == "" || strings.TrimSpace(p.Owner) == "" {
			return nil, fmt.Errorf("%w: prize %d missing asset id or owner", ErrInvalidCreation, i)
		}
	}
	if s.Config.StorageCost > req.TicketPrice {
		return nil, fmt.Errorf("%w: storage cost %d exceeds ticket price %d",
			ErrInvalidCreation, s.Config.StorageCost, req.TicketPrice)
	}
	if req.EndTime.IsZero() {
		return nil, fmt.Errorf("%w: end time required", ErrInvalidCreation)
	}

	prizes, err := models.EncodePrizes(req.Prizes)
	if err != nil {
		return nil, err
	}
	pending := &models.PendingCreation{
		ID:            uuid.NewString(),
		Creator:       creator,
		TicketPrice:   req.TicketPrice,
		EndTime:       req.EndTime.UTC(),
		Prizes:        prizes,
		ExpectedOwner: s.Config.CustodianAccount,
		Status:        models.PendingStatusPending,
	}
	if err := s.Repo.InsertPendingCreation(ctx, pending); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("raffle creation pending",
			zap.String("creation_id", pending.ID),
			zap.String("creator", creator),
			zap.Int("prizes", len(req.Prizes)),
		)
	}
	return pending, nil
}

// ResolveCreation finishes a pending creation: it asks the oracle who holds
// the first prize's asset, then either commits the raffle (counter increment
// plus insert, one transaction) or marks the pending record aborted. It is
// idempotent: an already resolved creation is returned unchanged. Designed to
// run outside the caller's request stack so the registry is never mutated
// re-entrantly from the creation call.
func (s *RegistryService) ResolveCreation(ctx context.Context, creationID string) (*models.PendingCreation, error) {
	if s == nil || s.Repo == nil {
		return nil, fmt.Errorf("registry not configured")
	}
	pending, err := s.Repo.GetPendingCreation(ctx, creationID)
	if err != nil {
		return nil, err
	}
	if pending == nil {
		return nil, ErrUnknownCreation
	}
	if pending.Status != models.PendingStatusPending {
		return pending, nil
	}

	prizes, err := decodePrizes(pending.Prizes)
	if err != nil {
		return s.abortCreation(ctx, creationID, nil, fmt.Errorf("%w: %v", ErrOwnershipCheckFailed, err))
	}

	// The ownership query runs before any transaction opens; the registry
	// holds no locks while waiting on the network.
	queryCtx := ctx
	if s.OracleTimeout > 0 {
		var cancel context.CancelFunc
		queryCtx, cancel = context.WithTimeout(ctx, s.OracleTimeout)
		defer cancel()
	}
	var reply *oracle.OwnerReply
	if s.Oracle == nil {
		err = fmt.Errorf("oracle not configured")
	} else {
		reply, err = s.Oracle.QueryOwner(queryCtx, prizes[0].AssetID)
	}
	if err != nil {
		return s.abortCreation(ctx, creationID, nil, fmt.Errorf("%w: %v", ErrOwnershipCheckFailed, err))
	}
	if reply.Owner != pending.ExpectedOwner {
		return s.abortCreation(ctx, creationID, reply.Raw,
			fmt.Errorf("%w: asset %s held by %s", ErrOwnershipMismatch, prizes[0].AssetID, reply.Owner))
	}

	var committed *models.PendingCreation
	err = s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		locked, err := s.Repo.GetPendingCreationForUpdateTx(ctx, tx, creationID)
		if err != nil {
			return err
		}
		if locked == nil {
			return ErrUnknownCreation
		}
		if locked.Status != models.PendingStatusPending {
			committed = locked
			return nil
		}
		id, err := s.Repo.IncrementCounterTx(ctx, tx, models.RegistryScope)
		if err != nil {
			return err
		}
		raffle := &models.Raffle{
			ID:          id,
			Creator:     locked.Creator,
			TicketPrice: locked.TicketPrice,
			EndTime:     locked.EndTime,
			Prizes:      locked.Prizes,
			Status:      models.RaffleStatusOpen,
		}
		if err := s.Repo.InsertRaffleTx(ctx, tx, raffle); err != nil {
			return err
		}
		now := time.Now().UTC()
		locked.Status = models.PendingStatusCommitted
		locked.RaffleID = id
		locked.OracleReply = datatypes.JSON(reply.Raw)
		locked.ResolvedAt = &now
		if err := s.Repo.SavePendingCreationTx(ctx, tx, locked); err != nil {
			return err
		}
		committed = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	if committed.Status == models.PendingStatusCommitted && committed.RaffleID > 0 {
		if s.Logger != nil {
			s.Logger.Info("raffle committed",
				zap.String("creation_id", committed.ID),
				zap.Uint64("raffle_id", committed.RaffleID),
			)
		}
		s.Hub.Publish(stream.Event{Type: stream.EventRaffleCreated, RaffleID: committed.RaffleID, Account: committed.Creator})
	}
	return committed, nil
}

// abortCreation marks a pending record aborted with the failure reason and
// returns the record together with the sentinel error. An already resolved
// record is left alone.
func (s *RegistryService) abortCreation(ctx context.Context, creationID string, rawReply []byte, cause error) (*models.PendingCreation, error) {
	var aborted *models.PendingCreation
	err := s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		locked, err := s.Repo.GetPendingCreationForUpdateTx(ctx, tx, creationID)
		if err != nil {
			return err
		}
		if locked == nil {
			return ErrUnknownCreation
		}
		if locked.Status != models.PendingStatusPending {
			aborted = locked
			return nil
		}
		now := time.Now().UTC()
		locked.Status = models.PendingStatusAborted
		locked.Reason = cause.Error()
		if len(rawReply) > 0 {
			locked.OracleReply = datatypes.JSON(rawReply)
		}
		locked.ResolvedAt = &now
		if err := s.Repo.SavePendingCreationTx(ctx, tx, locked); err != nil {
			return err
		}
		aborted = locked
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Warn("raffle creation aborted",
			zap.String("creation_id", creationID),
			zap.Error(cause),
		)
	}
	return aborted, cause
}

// GetCreation looks a pending creation up by correlation id.
func (s *RegistryService) GetCreation(ctx context.Context, creationID string) (*models.PendingCreation, error) {
	if s == nil || s.Repo == nil {
		return nil, fmt.Errorf("registry not configured")
	}
	pending, err := s.Repo.GetPendingCreation(ctx, creationID)
	if err != nil {
		return nil, err
	}
	if pending == nil {
		return nil, ErrUnknownCreation
	}
	return pending, nil
}

func decodePrizes(raw datatypes.JSON) ([]models.Prize, error) {
	r := models.Raffle{Prizes: raw}
	prizes, err := r.PrizeList()
	if err != nil {
		return nil, err
	}
	if len(prizes) == 0 {
		return nil, fmt.Errorf("empty prize list")
	}
	return prizes, nil
}

func (s *RegistryService) drawPolicy() draw.Policy {
	policy, err := draw.ParsePolicy(s.Config.DrawPolicy)
	if err != nil {
		return draw.PolicyWithoutReplacement
	}
	return policy
}

func (s *RegistryService) seed() ([]byte, error) {
	if s.SeedFunc != nil {
		return s.SeedFunc()
	}
	return draw.NewRandomSeed()
}
