package models

import "time"

// Address represents a saved shipping address belonging to a user.
// At most one address per user carries IsDefault = true. The repository
// clears the previous default inside the same transaction that sets a new
// one, and the partial unique index on UserID backs the invariant when two
// writers race past each other's uncommitted clear.
type Address struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;not null;uniqueIndex:uniq_addresses_user_default,where:is_default"`
	User      User      `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	FirstName string    `json:"first_name" gorm:"type:varchar(100)" validate:"required,max=100"`
	LastName  string    `json:"last_name" gorm:"type:varchar(100)" validate:"omitempty,max=100"`
	Phone     string    `json:"phone" gorm:"type:varchar(20)" validate:"required,max=20"`
	Street    string    `json:"street" gorm:"type:varchar(255)" validate:"required,max=255"`
	City      string    `json:"city" gorm:"type:varchar(100)" validate:"required,max=100"`
	State     string    `json:"state" gorm:"type:varchar(100)" validate:"required,max=100"`
	ZipCode   string    `json:"zip_code" gorm:"type:varchar(20)" validate:"required,max=20"`
	Country   string    `json:"country" gorm:"type:varchar(100)"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
