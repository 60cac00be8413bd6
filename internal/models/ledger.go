package models

import "time"

// Account is an internal funds account. Balances are unsigned integer units of
// the smallest denomination; arithmetic on them never goes through floats.
type Account struct {
	Address string `gorm:"type:varchar(100);primaryKey" json:"address"`
	Balance uint64 `gorm:"not null;default:0" json:"balance"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime" json:"updated_at"`
}

func (Account) TableName() string {
	return "accounts"
}

const (
	LedgerDirectionDebit  = "debit"
	LedgerDirectionCredit = "credit"
)

const (
	LedgerKindDeposit       = "deposit"
	LedgerKindEntry         = "entry"
	LedgerKindTicketForward = "ticket_forward"
	LedgerKindRefund        = "refund"
	LedgerKindStorageFee    = "storage_fee"
	LedgerKindDuplicateFee  = "duplicate_fee"
)

// LedgerEntry is one leg of a balanced funds movement. Every escrow operation
// writes entries whose debits and credits sum to the same amount under one Ref.
type LedgerEntry struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Ref       string `gorm:"type:varchar(36);not null;index" json:"ref"`
	RaffleID  uint64 `gorm:"index" json:"raffle_id,omitempty"`
	Account   string `gorm:"type:varchar(100);not null;index" json:"account"`
	Direction string `gorm:"type:varchar(10);not null" json:"direction"`
	Kind      string `gorm:"type:varchar(30);not null;index" json:"kind"`
	Amount    uint64 `gorm:"not null" json:"amount"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index" json:"created_at"`
}

func (LedgerEntry) TableName() string {
	return "ledger_entries"
}
