package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Sweeper is the registry's housekeeping job. It auto-closes open raffles
// whose end time has passed (acting as the configured operator) and aborts
// pending creations that outlived the resolution budget, which covers
// resolutions lost to a crash between request and callback.
type Sweeper struct {
	Service    *RegistryService
	Logger     *zap.Logger
	PendingTTL time.Duration
	AutoClose  bool
	BatchSize  int
}

func (w *Sweeper) RunOnce(ctx context.Context) error {
	if w == nil || w.Service == nil || w.Service.Repo == nil {
		return nil
	}
	limit := w.BatchSize
	if limit <= 0 {
		limit = 100
	}
	now := time.Now().UTC()

	if w.AutoClose {
		due, err := w.Service.Repo.ListDueOpenRaffles(ctx, now, limit)
		if err != nil {
			return fmt.Errorf("list due raffles: %w", err)
		}
		for _, raffle := range due {
			if err := w.Service.Close(ctx, raffle.ID, w.Service.Config.OperatorAccount); err != nil {
				if w.Logger != nil {
					w.Logger.Warn("sweeper close failed",
						zap.Uint64("raffle_id", raffle.ID),
						zap.Error(err),
					)
				}
				continue
			}
			if w.Logger != nil {
				w.Logger.Info("sweeper closed due raffle", zap.Uint64("raffle_id", raffle.ID))
			}
		}
	}

	if w.PendingTTL > 0 {
		stale, err := w.Service.Repo.ListStalePendingCreations(ctx, now.Add(-w.PendingTTL), limit)
		if err != nil {
			return fmt.Errorf("list stale creations: %w", err)
		}
		for _, pending := range stale {
			// abortCreation echoes the cause back on success; only a nil
			// record marks a genuine failure.
			aborted, err := w.Service.abortCreation(ctx, pending.ID, nil,
				fmt.Errorf("%w: resolution exceeded %s", ErrOwnershipCheckFailed, w.PendingTTL))
			if aborted == nil {
				if w.Logger != nil {
					w.Logger.Warn("sweeper abort stale creation",
						zap.String("creation_id", pending.ID),
						zap.Error(err),
					)
				}
				continue
			}
			if w.Logger != nil {
				w.Logger.Info("sweeper aborted stale creation", zap.String("creation_id", pending.ID))
			}
		}
	}
	return nil
}
