package repositories

import "github.com/adib422/FarMacy/internal/models"

// AddressRepository defines the interface for address data access. All
// lookups and mutations are scoped to the owning user; implementations that
// set a default address must clear the previous default in the same
// transaction.
type AddressRepository interface {
	GetByUser(userID uint) ([]models.Address, error)
	GetByID(userID, addressID uint) (*models.Address, error)
	Create(address *models.Address) error
	Update(address *models.Address) error
	// Delete is idempotent: deleting an absent or foreign address succeeds
	// without effect.
	Delete(userID, addressID uint) error
}
