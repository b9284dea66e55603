package models

// LotManager is the manager-side profile, one per user. Flag is reserved
// for an approval workflow and is never read by any handler.
type LotManager struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	UserID       uint   `gorm:"not null;index" json:"user_id"`
	MobileNumber string `gorm:"size:15;not null;uniqueIndex" json:"mobile_number"`
	Address      string `gorm:"size:200" json:"address,omitempty"`
	Flag         bool   `gorm:"default:false" json:"-"`
}

// Customer is the customer-side profile, one per user. Flag is reserved,
// same as on LotManager.
type Customer struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	UserID       uint   `gorm:"not null;index" json:"user_id"`
	MobileNumber string `gorm:"size:15;not null;uniqueIndex" json:"mobile_number"`
	Address      string `gorm:"size:200" json:"address,omitempty"`
	Flag         bool   `gorm:"default:false" json:"-"`
}
