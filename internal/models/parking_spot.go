package models

import (
	"time"
)

// Spot occupancy states, stored as a single character.
const (
	SpotAvailable = "A"
	SpotOccupied  = "O"
)

// ParkingSpot is one addressable space inside a lot. SpotNumber is a label,
// not necessarily numeric ("1".."N" for bulk-created spots, but "A1" style
// labels are valid).
type ParkingSpot struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	LotID         uint       `gorm:"not null;index" json:"lot_id"`
	SpotNumber    string     `gorm:"size:50;not null" json:"spot_number"`
	Status        string     `gorm:"size:1;not null;default:'A'" json:"status"`
	VehicleRegNo  *string    `gorm:"size:50" json:"vehicle_reg_no,omitempty"`
	OccupiedSince *time.Time `json:"occupied_since,omitempty"`
}
