package models

import "time"

// Participant is one account registered in one raffle. Seq preserves insertion
// order so the draw engine can index the pool deterministically.
type Participant struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement" json:"-"`
	RaffleID uint64 `gorm:"not null;uniqueIndex:ux_raffle_account,priority:1;index" json:"raffle_id"`
	Account  string `gorm:"type:varchar(100);not null;uniqueIndex:ux_raffle_account,priority:2" json:"account"`
	Seq      int    `gorm:"not null" json:"seq"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime" json:"created_at"`
}

func (Participant) TableName() string {
	return "raffle_participants"
}
