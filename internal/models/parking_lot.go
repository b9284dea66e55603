package models

import (
	"time"
)

// ParkingLot belongs to exactly one LotManager. Spots are created in bulk
// when the lot is created; deleting a lot must never leave orphan spots.
type ParkingLot struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	LotName       string        `gorm:"size:100;not null" json:"lot_name"`
	Address       string        `gorm:"size:200" json:"address,omitempty"`
	Pincode       string        `gorm:"size:10;not null" json:"pincode"`
	City          string        `gorm:"size:100" json:"city,omitempty"`
	NumberOfSpots int           `json:"number_of_spots"`
	PricePerHour  *float64      `json:"price_per_hour,omitempty"`
	CreatedOn     time.Time     `gorm:"autoCreateTime" json:"created_on"`
	ManagerID     uint          `gorm:"not null;index" json:"manager_id"`
	Spots         []ParkingSpot `gorm:"foreignKey:LotID;constraint:OnDelete:CASCADE" json:"spots,omitempty"`
}
