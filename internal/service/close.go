package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"raffleland/internal/draw"
	"raffleland/internal/models"
	"raffleland/internal/stream"
)

const EndTimePolicyStrict = "strict"

// Close transitions a raffle to its terminal state and runs the draw. Only
// the creator or the configured operator may close. With participants
// present, one winner is paired per prize (subject to the draw policy) inside
// the same transaction that flips the state; a raffle with no participants
// closes without a draw and its prizes stay with the creator's custodian.
func (s *RegistryService) Close(ctx context.Context, raffleID uint64, caller string) error {
	if s == nil || s.Repo == nil {
		return fmt.Errorf("registry not configured")
	}
	if caller == "" {
		return ErrUnauthorized
	}

	seed, err := s.seed()
	if err != nil {
		return fmt.Errorf("draw seed: %w", err)
	}

	var publish []stream.Event
	err = s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		raffle, err := s.Repo.GetRaffleForUpdateTx(ctx, tx, raffleID)
		if err != nil {
			return err
		}
		if raffle == nil {
			return ErrUnknownRaffle
		}
		if caller != raffle.Creator && caller != s.Config.OperatorAccount {
			return ErrUnauthorized
		}
		if !raffle.Open() {
			return ErrAlreadyClosed
		}
		now := time.Now().UTC()
		if s.Config.EndTimePolicy == EndTimePolicyStrict && now.Before(raffle.EndTime) {
			return ErrRaffleNotEnded
		}

		participants, err := s.Repo.ListParticipantsTx(ctx, tx, raffleID)
		if err != nil {
			return err
		}
		if len(participants) > 0 {
			prizes, err := raffle.PrizeList()
			if err != nil {
				return err
			}
			pool := make([]string, 0, len(participants))
			for _, p := range participants {
				pool = append(pool, p.Account)
			}
			pairings, err := draw.Pair(pool, prizes, draw.NewSeededSource(seed), s.drawPolicy())
			if err != nil {
				return err
			}
			winners := make([]models.Winner, 0, len(pairings))
			for _, p := range pairings {
				winners = append(winners, models.Winner{
					RaffleID:     raffleID,
					Place:        p.Place,
					Account:      p.Account,
					PrizeAssetID: p.Prize.AssetID,
					PrizeOwner:   p.Prize.Owner,
				})
				place := p.Place
				publish = append(publish, stream.Event{
					Type:     stream.EventRaffleWinner,
					RaffleID: raffleID,
					Account:  p.Account,
					Place:    &place,
					AssetID:  p.Prize.AssetID,
				})
			}
			if err := s.Repo.InsertWinnersTx(ctx, tx, winners); err != nil {
				return err
			}
		}

		if err := s.Repo.UpdateRaffleStatusTx(ctx, tx, raffleID, models.RaffleStatusClosed, &now); err != nil {
			return err
		}
		publish = append(publish, stream.Event{Type: stream.EventRaffleClosed, RaffleID: raffleID})
		return nil
	})
	if err != nil {
		return err
	}

	if s.Logger != nil {
		s.Logger.Info("raffle closed",
			zap.Uint64("raffle_id", raffleID),
			zap.String("caller", caller),
			zap.Int("winner_events", len(publish)-1),
		)
	}
	for _, ev := range publish {
		s.Hub.Publish(ev)
	}
	return nil
}
