package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"raffleland/internal/escrow"
	"raffleland/internal/ledger"
	"raffleland/internal/models"
	"raffleland/internal/stream"
)

// Enter attempts to register payer in a raffle with an attached payment.
// Returns true when the participant was added; false for a duplicate entry,
// which retains the configured processing allowance and is not an error. The
// whole attempt is one transaction: escrow split, ledger moves, and
// participant insert land together or not at all.
func (s *RegistryService) Enter(ctx context.Context, raffleID uint64, payer string, payment uint64) (bool, error) {
	if s == nil || s.Repo == nil || s.Ledger == nil {
		return false, fmt.Errorf("registry not configured")
	}
	if payer == "" {
		return false, ErrUnauthorized
	}

	entered := false
	var publish []stream.Event
	err := s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		raffle, err := s.Repo.GetRaffleForUpdateTx(ctx, tx, raffleID)
		if err != nil {
			return err
		}
		if raffle == nil {
			return ErrUnknownRaffle
		}
		if !raffle.Open() {
			return ErrRaffleClosed
		}

		forward, refund, err := escrow.Split(payment, raffle.TicketPrice, s.Config.StorageCost)
		if errors.Is(err, escrow.ErrInsufficientPayment) {
			// Rejected before any funds move; the attached amount never
			// leaves the payer.
			return ErrInsufficientPayment
		}
		if err != nil {
			return err
		}

		ref := uuid.NewString()
		duplicate, err := s.Repo.HasParticipantTx(ctx, tx, raffleID, payer)
		if err != nil {
			return err
		}
		if duplicate {
			// Normal outcome, not a failure: the payment bounces minus the
			// processing allowance, and no second forward happens.
			dupRefund, retained := escrow.DuplicateRefund(payment, s.Config.DuplicateFee)
			moves := []ledger.Move{
				{From: payer, To: s.Config.EscrowAccount, Amount: payment, Kind: models.LedgerKindEntry},
				{From: s.Config.EscrowAccount, To: payer, Amount: dupRefund, Kind: models.LedgerKindRefund},
				{From: s.Config.EscrowAccount, To: s.Config.FeeAccount, Amount: retained, Kind: models.LedgerKindDuplicateFee},
			}
			return s.Ledger.ApplyTx(ctx, tx, ref, raffleID, moves)
		}

		seq, err := s.Repo.CountParticipantsTx(ctx, tx, raffleID)
		if err != nil {
			return err
		}
		moves := []ledger.Move{
			{From: payer, To: s.Config.EscrowAccount, Amount: payment, Kind: models.LedgerKindEntry},
			{From: s.Config.EscrowAccount, To: raffle.Creator, Amount: forward, Kind: models.LedgerKindTicketForward},
			{From: s.Config.EscrowAccount, To: s.Config.FeeAccount, Amount: s.Config.StorageCost, Kind: models.LedgerKindStorageFee},
			{From: s.Config.EscrowAccount, To: payer, Amount: refund, Kind: models.LedgerKindRefund},
		}
		if err := s.Ledger.ApplyTx(ctx, tx, ref, raffleID, moves); err != nil {
			return err
		}
		if err := s.Repo.InsertParticipantTx(ctx, tx, &models.Participant{
			RaffleID: raffleID,
			Account:  payer,
			Seq:      int(seq),
		}); err != nil {
			return err
		}
		entered = true
		publish = append(publish, stream.Event{Type: stream.EventRaffleEntry, RaffleID: raffleID, Account: payer})
		return nil
	})
	if err != nil {
		return false, err
	}

	if s.Logger != nil {
		s.Logger.Info("raffle entry",
			zap.Uint64("raffle_id", raffleID),
			zap.String("payer", payer),
			zap.Bool("entered", entered),
		)
	}
	for _, ev := range publish {
		s.Hub.Publish(ev)
	}
	return entered, nil
}
