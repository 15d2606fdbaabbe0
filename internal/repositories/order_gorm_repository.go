package repositories

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/adib422/FarMacy/internal/models"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// Create persists the order header and all of its items inside one
// transaction. On any failure the transaction rolls back and nothing is
// written. The order's ID is populated on success.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		items := order.Items
		order.Items = nil
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		order.Items = items
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// GetByUser retrieves a page of the user's orders, newest first, each joined
// with its address snapshot and item count, along with the user's total
// order count.
func (r *GORMOrderRepository) GetByUser(userID uint, limit, offset int) ([]models.OrderSummary, int64, error) {
	var total int64
	err := r.db.Model(&models.Order{}).Where("user_id = ?", userID).Count(&total).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count orders for user %d: %w", userID, err)
	}

	var summaries []models.OrderSummary
	err = r.db.Model(&models.Order{}).
		Select("orders.*, addresses.first_name, addresses.last_name, addresses.street, addresses.city, addresses.state, addresses.zip_code, COUNT(order_items.id) AS item_count").
		Joins("LEFT JOIN addresses ON addresses.id = orders.address_id").
		Joins("LEFT JOIN order_items ON order_items.order_id = orders.id").
		Where("orders.user_id = ?", userID).
		Group("orders.id, addresses.id").
		Order("orders.created_at DESC").
		Limit(limit).Offset(offset).
		Scan(&summaries).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get orders for user %d: %w", userID, err)
	}
	return summaries, total, nil
}

// GetByID retrieves a single order owned by the user, with its items loaded.
func (r *GORMOrderRepository) GetByID(userID, orderID uint) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Items").First(&order, "id = ? AND user_id = ?", orderID, userID).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get order %d for user %d: %w", orderID, userID, err)
	}
	return &order, nil
}

// UpdateStatusIf performs a conditional status transition. The update only
// matches while the order is still in the expected state, so a concurrent
// transition makes this report false instead of overwriting it.
func (r *GORMOrderRepository) UpdateStatusIf(userID, orderID uint, from, to string) (bool, error) {
	res := r.db.Model(&models.Order{}).
		Where("id = ? AND user_id = ? AND status = ?", orderID, userID, from).
		Update("status", to)
	if res.Error != nil {
		return false, fmt.Errorf("failed to update status of order %d: %w", orderID, res.Error)
	}
	return res.RowsAffected > 0, nil
}
