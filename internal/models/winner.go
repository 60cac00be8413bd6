package models

import "time"

// Winner pairs one drawn account with one prize. Rows are written only while a
// raffle closes and are append-only afterwards; Place is the prize index.
type Winner struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement" json:"-"`
	RaffleID uint64 `gorm:"not null;uniqueIndex:ux_raffle_place,priority:1;index" json:"raffle_id"`
	Place    int    `gorm:"not null;uniqueIndex:ux_raffle_place,priority:2" json:"place"`
	Account  string `gorm:"type:varchar(100);not null;index" json:"account"`

	PrizeAssetID string `gorm:"type:varchar(100);not null" json:"prize_asset_id"`
	PrizeOwner   string `gorm:"type:varchar(100);not null" json:"prize_owner"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime" json:"created_at"`
}

func (Winner) TableName() string {
	return "raffle_winners"
}
