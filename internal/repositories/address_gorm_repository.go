package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/adib422/FarMacy/internal/models"
)

// maxDefaultRetries bounds how often a default-setting write is retried
// after losing a race on the uniq_addresses_user_default index.
const maxDefaultRetries = 3

// GORMAddressRepository is a GORM implementation of AddressRepository.
type GORMAddressRepository struct {
	db *gorm.DB
}

// NewGORMAddressRepository creates a new instance of GORMAddressRepository.
func NewGORMAddressRepository(db *gorm.DB) *GORMAddressRepository {
	return &GORMAddressRepository{
		db: db,
	}
}

// GetByUser retrieves all addresses for a user, default address first, then
// most recently created first.
func (r *GORMAddressRepository) GetByUser(userID uint) ([]models.Address, error) {
	var addresses []models.Address
	err := r.db.
		Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC").
		Find(&addresses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get addresses for user %d: %w", userID, err)
	}
	return addresses, nil
}

// GetByID retrieves a single address owned by the given user.
func (r *GORMAddressRepository) GetByID(userID, addressID uint) (*models.Address, error) {
	var address models.Address
	err := r.db.First(&address, "id = ? AND user_id = ?", addressID, userID).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get address %d for user %d: %w", addressID, userID, err)
	}
	return &address, nil
}

// Create inserts a new address. When the new address is marked default, all
// other defaults for the user are cleared in the same transaction so the
// single-default invariant is never visible as broken to other readers.
//
// Under READ COMMITTED two concurrent writers can each clear before seeing
// the other's uncommitted default. The partial unique index makes the later
// commit fail instead; the transaction is then re-run, and its clear now
// sees the committed row.
func (r *GORMAddressRepository) Create(address *models.Address) error {
	err := retryOnDuplicateDefault(func() error {
		return r.db.Transaction(func(tx *gorm.DB) error {
			if address.IsDefault {
				if err := tx.Model(&models.Address{}).
					Where("user_id = ?", address.UserID).
					Update("is_default", false).Error; err != nil {
					return err
				}
			}
			return tx.Create(address).Error
		})
	})
	if err != nil {
		return fmt.Errorf("failed to create address: %w", err)
	}
	return nil
}

func retryOnDuplicateDefault(op func() error) error {
	var err error
	for attempt := 0; attempt < maxDefaultRetries; attempt++ {
		err = op()
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
	}
	return err
}

// Update modifies an existing address owned by the user, clearing other
// defaults in the same transaction when this one becomes the default. Races
// on the default flag resolve the same way as in Create.
func (r *GORMAddressRepository) Update(address *models.Address) error {
	err := retryOnDuplicateDefault(func() error {
		return r.db.Transaction(func(tx *gorm.DB) error {
			if address.IsDefault {
				if err := tx.Model(&models.Address{}).
					Where("user_id = ? AND id != ?", address.UserID, address.ID).
					Update("is_default", false).Error; err != nil {
					return err
				}
			}
			res := tx.Model(&models.Address{}).
				Where("id = ? AND user_id = ?", address.ID, address.UserID).
				Select("first_name", "last_name", "phone", "street", "city", "state", "zip_code", "country", "is_default").
				Updates(address)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("failed to update address %d: %w", address.ID, err)
	}
	return nil
}

// Delete removes an address owned by the user. A missing or foreign row
// deletes nothing and is not an error.
func (r *GORMAddressRepository) Delete(userID, addressID uint) error {
	res := r.db.Delete(&models.Address{}, "id = ? AND user_id = ?", addressID, userID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete address %d: %w", addressID, res.Error)
	}
	return nil
}
