package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

const (
	RaffleStatusOpen   = "open"
	RaffleStatusClosed = "closed"
)

// Prize is an opaque reference to an externally held asset. The registry never
// owns the asset itself; Owner is the holder as last verified by the oracle.
type Prize struct {
	AssetID string `json:"asset_id"`
	Owner   string `json:"owner"`
}

type Raffle struct {
	// ID is assigned from the registry counter at commit time, never by the
	// database. 0 is reserved and means "no raffle".
	ID      uint64 `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Creator string `gorm:"type:varchar(100);not null;index" json:"creator"`

	TicketPrice uint64    `gorm:"not null" json:"ticket_price"`
	EndTime     time.Time `gorm:"type:timestamptz;not null" json:"end_time"`

	// Prizes is the ordered prize list, fixed at creation.
	Prizes datatypes.JSON `gorm:"not null" json:"prizes"`

	Status   string     `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`
	ClosedAt *time.Time `gorm:"type:timestamptz" json:"closed_at,omitempty"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime" json:"updated_at"`
}

func (Raffle) TableName() string {
	return "raffles"
}

func (r *Raffle) Open() bool {
	return r != nil && r.Status == RaffleStatusOpen
}

func (r *Raffle) PrizeList() ([]Prize, error) {
	if r == nil || len(r.Prizes) == 0 {
		return nil, nil
	}
	var out []Prize
	if err := json.Unmarshal(r.Prizes, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func EncodePrizes(prizes []Prize) (datatypes.JSON, error) {
	raw, err := json.Marshal(prizes)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
