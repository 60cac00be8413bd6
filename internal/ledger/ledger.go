// Package ledger moves funds between internal accounts. Every move is
// double-entry: the payer leg and the payee leg are written under one
// reference inside the caller's transaction, so an aborted operation leaves
// no half-applied balances.
package ledger

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"raffleland/internal/models"
	"raffleland/internal/repository"
)

var ErrInsufficientFunds = errors.New("ledger: insufficient funds")

type Service struct {
	Repo   repository.Repository
	Logger *zap.Logger
}

// Move is one transfer between two accounts. Kind labels the journal entries.
type Move struct {
	From   string
	To     string
	Amount uint64
	Kind   string
}

// ApplyTx applies a batch of moves inside tx. Either every move lands or the
// caller's transaction rolls the whole batch back. Zero-amount moves are
// skipped; a debit that the payer cannot cover fails with
// ErrInsufficientFunds before anything else in the batch is touched.
func (s *Service) ApplyTx(ctx context.Context, tx *gorm.DB, ref string, raffleID uint64, moves []Move) error {
	if s == nil || s.Repo == nil || tx == nil {
		return errors.New("ledger: not configured")
	}
	entries := make([]models.LedgerEntry, 0, 2*len(moves))
	for _, m := range moves {
		if m.Amount == 0 {
			continue
		}
		payer, err := s.Repo.GetAccountForUpdateTx(ctx, tx, m.From)
		if err != nil {
			return err
		}
		if payer == nil || payer.Balance < m.Amount {
			return ErrInsufficientFunds
		}
		payer.Balance -= m.Amount
		if err := s.Repo.SaveAccountTx(ctx, tx, payer); err != nil {
			return err
		}

		payee, err := s.Repo.GetAccountForUpdateTx(ctx, tx, m.To)
		if err != nil {
			return err
		}
		if payee == nil {
			payee = &models.Account{Address: m.To}
		}
		payee.Balance += m.Amount
		if err := s.Repo.SaveAccountTx(ctx, tx, payee); err != nil {
			return err
		}

		entries = append(entries,
			models.LedgerEntry{
				Ref: ref, RaffleID: raffleID, Account: m.From,
				Direction: models.LedgerDirectionDebit, Kind: m.Kind, Amount: m.Amount,
			},
			models.LedgerEntry{
				Ref: ref, RaffleID: raffleID, Account: m.To,
				Direction: models.LedgerDirectionCredit, Kind: m.Kind, Amount: m.Amount,
			},
		)
	}
	return s.Repo.InsertLedgerEntriesTx(ctx, tx, entries)
}

// Deposit mints funds into an account from outside the ledger. It exists so
// participants can be funded; production deployments would feed it from the
// payment gateway's settlement callback.
func (s *Service) Deposit(ctx context.Context, ref, address string, amount uint64) error {
	if s == nil || s.Repo == nil {
		return errors.New("ledger: not configured")
	}
	if amount == 0 {
		return nil
	}
	return s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		acct, err := s.Repo.GetAccountForUpdateTx(ctx, tx, address)
		if err != nil {
			return err
		}
		if acct == nil {
			acct = &models.Account{Address: address}
		}
		acct.Balance += amount
		if err := s.Repo.SaveAccountTx(ctx, tx, acct); err != nil {
			return err
		}
		if s.Logger != nil {
			s.Logger.Info("ledger deposit",
				zap.String("account", address),
				zap.Uint64("amount", amount),
			)
		}
		return s.Repo.InsertLedgerEntriesTx(ctx, tx, []models.LedgerEntry{{
			Ref: ref, Account: address,
			Direction: models.LedgerDirectionCredit, Kind: models.LedgerKindDeposit, Amount: amount,
		}})
	})
}

// Balance reports an account's balance; unknown accounts are empty, not an
// error.
func (s *Service) Balance(ctx context.Context, address string) (uint64, error) {
	if s == nil || s.Repo == nil {
		return 0, nil
	}
	acct, err := s.Repo.GetAccount(ctx, address)
	if err != nil {
		return 0, err
	}
	if acct == nil {
		return 0, nil
	}
	return acct.Balance, nil
}
