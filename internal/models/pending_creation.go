package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	PendingStatusPending   = "pending"
	PendingStatusCommitted = "committed"
	PendingStatusAborted   = "aborted"
)

// PendingCreation is the suspended half of the two-phase raffle creation. It
// carries everything needed to build the raffle once the ownership query
// resolves; registry state (counter, raffles) is untouched while pending.
type PendingCreation struct {
	ID      string `gorm:"type:varchar(36);primaryKey" json:"id"`
	Creator string `gorm:"type:varchar(100);not null;index" json:"creator"`

	TicketPrice uint64         `gorm:"not null" json:"ticket_price"`
	EndTime     time.Time      `gorm:"type:timestamptz;not null" json:"end_time"`
	Prizes      datatypes.JSON `gorm:"not null" json:"prizes"`

	// ExpectedOwner is the custodian account the oracle must report for the
	// first prize's asset before the raffle commits.
	ExpectedOwner string `gorm:"type:varchar(100);not null" json:"expected_owner"`

	Status   string `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	RaffleID uint64 `gorm:"default:0" json:"raffle_id,omitempty"`
	Reason   string `gorm:"type:text" json:"reason,omitempty"`

	// OracleReply keeps the raw oracle response for audit.
	OracleReply datatypes.JSON `json:"-"`

	ResolvedAt *time.Time `gorm:"type:timestamptz" json:"resolved_at,omitempty"`
	CreatedAt  time.Time  `gorm:"type:timestamptz;autoCreateTime;index" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"type:timestamptz;autoUpdateTime" json:"updated_at"`
}

func (PendingCreation) TableName() string {
	return "pending_creations"
}
