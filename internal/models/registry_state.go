package models

import "time"

const RegistryScope = "registry"

// RegistryState is the single-row raffle id counter. The counter only moves
// forward and only inside the pending-creation commit transaction, so an
// aborted creation is never observable through it.
type RegistryState struct {
	Scope   string `gorm:"type:varchar(50);primaryKey" json:"scope"`
	Counter uint64 `gorm:"not null;default:0" json:"counter"`

	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime" json:"updated_at"`
}

func (RegistryState) TableName() string {
	return "registry_state"
}
