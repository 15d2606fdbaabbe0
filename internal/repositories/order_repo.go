package repositories

import "github.com/adib422/FarMacy/internal/models"

// OrderRepository defines the interface for order data access. Create must
// persist the order header and every item in one transaction; a failed
// attempt leaves no rows behind.
type OrderRepository interface {
	Create(order *models.Order) error
	GetByUser(userID uint, limit, offset int) ([]models.OrderSummary, int64, error)
	GetByID(userID, orderID uint) (*models.Order, error)
	// UpdateStatusIf transitions the order's status from one value to
	// another as a single conditional update, reporting whether a row
	// actually changed.
	UpdateStatusIf(userID, orderID uint, from, to string) (bool, error)
}
