package repositories

import "github.com/adib422/FarMacy/internal/models"

// MedicineRepository defines the interface for catalog data access. Listing
// methods return the matching page and the total row count for pagination.
type MedicineRepository interface {
	List(limit, offset int) ([]models.Medicine, int64, error)
	ListByCategory(category string, limit, offset int) ([]models.Medicine, int64, error)
	GetByID(id uint) (*models.Medicine, error)
	Search(query string, limit, offset int) ([]models.Medicine, int64, error)
	Featured(limit int) ([]models.Medicine, error)
	Create(medicine *models.Medicine) error
}
