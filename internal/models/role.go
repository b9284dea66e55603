package models

// Canonical role names. The set is closed by convention; the roles table
// itself carries no constraint beyond the unique name.
const (
	RoleAdmin      = "admin"
	RoleLotManager = "lot_manager"
	RoleCustomer   = "customer"
)

type Role struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:50;not null;uniqueIndex" json:"name"`
}
