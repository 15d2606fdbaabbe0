package models

import "time"

// Order statuses. A user may only move an order from pending to cancelled;
// the remaining transitions are operator-driven.
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// PaymentMethodCOD is the only payment method currently supported.
const PaymentMethodCOD = "COD"

// Order represents a placed order. Monetary fields are recomputed
// server-side from catalog prices before the row is written; the order and
// its items are created together in one transaction and are immutable
// afterwards except for Status.
type Order struct {
	ID            uint        `json:"id" gorm:"primaryKey"`
	UserID        uint        `json:"user_id" gorm:"index;not null"`
	AddressID     *uint       `json:"address_id"`
	Subtotal      float64     `json:"subtotal"`
	DeliveryFee   float64     `json:"delivery_fee"`
	Discount      float64     `json:"discount"`
	Total         float64     `json:"total"`
	PaymentMethod string      `json:"payment_method" gorm:"type:varchar(20);default:COD"`
	Status        string      `json:"status" gorm:"type:varchar(20);default:pending;index"`
	Items         []OrderItem `json:"items,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// OrderItem is a single line of an order. MedicineName, Brand and Price are
// snapshots taken at purchase time so historical orders stay readable when
// the catalog changes.
type OrderItem struct {
	ID           uint    `json:"id" gorm:"primaryKey"`
	OrderID      uint    `json:"order_id" gorm:"index;not null"`
	MedicineID   uint    `json:"medicine_id"`
	MedicineName string  `json:"medicine_name" gorm:"type:varchar(255)"`
	Brand        string  `json:"brand" gorm:"type:varchar(255)"`
	Quantity     int     `json:"quantity"`
	Price        float64 `json:"price"`
}

// OrderSummary is the list-view projection of an order: the header joined
// with its address snapshot and the number of items. Address fields are
// pointers because the address reference is nullable.
type OrderSummary struct {
	ID            uint      `json:"id"`
	UserID        uint      `json:"user_id"`
	AddressID     *uint     `json:"address_id"`
	Subtotal      float64   `json:"subtotal"`
	DeliveryFee   float64   `json:"delivery_fee"`
	Discount      float64   `json:"discount"`
	Total         float64   `json:"total"`
	PaymentMethod string    `json:"payment_method"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	FirstName     *string   `json:"first_name"`
	LastName      *string   `json:"last_name"`
	Street        *string   `json:"street"`
	City          *string   `json:"city"`
	State         *string   `json:"state"`
	ZipCode       *string   `json:"zip_code"`
	ItemCount     int       `json:"item_count"`
}
