package repositories

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/adib422/FarMacy/internal/models"
)

// GORMMedicineRepository is a GORM implementation of MedicineRepository.
type GORMMedicineRepository struct {
	db *gorm.DB
}

// NewGORMMedicineRepository creates a new instance of GORMMedicineRepository.
func NewGORMMedicineRepository(db *gorm.DB) *GORMMedicineRepository {
	return &GORMMedicineRepository{
		db: db,
	}
}

// List retrieves a page of medicines and the total catalog size.
func (r *GORMMedicineRepository) List(limit, offset int) ([]models.Medicine, int64, error) {
	var medicines []models.Medicine
	var total int64
	if err := r.db.Model(&models.Medicine{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count medicines: %w", err)
	}
	if err := r.db.Limit(limit).Offset(offset).Find(&medicines).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list medicines: %w", err)
	}
	return medicines, total, nil
}

// ListByCategory retrieves a page of medicines in a category, most popular
// first, and the total count for that category.
func (r *GORMMedicineRepository) ListByCategory(category string, limit, offset int) ([]models.Medicine, int64, error) {
	var medicines []models.Medicine
	var total int64
	q := r.db.Model(&models.Medicine{}).Where("category = ?", category)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count medicines in category %s: %w", category, err)
	}
	err := q.Order("popularity DESC").Limit(limit).Offset(offset).Find(&medicines).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list medicines in category %s: %w", category, err)
	}
	return medicines, total, nil
}

// GetByID retrieves a single medicine by its ID.
func (r *GORMMedicineRepository) GetByID(id uint) (*models.Medicine, error) {
	var medicine models.Medicine
	if err := r.db.First(&medicine, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get medicine %d: %w", id, err)
	}
	return &medicine, nil
}

// Search matches medicines whose name, brand or composition contains the
// query substring.
func (r *GORMMedicineRepository) Search(query string, limit, offset int) ([]models.Medicine, int64, error) {
	var medicines []models.Medicine
	var total int64
	term := "%" + query + "%"
	q := r.db.Model(&models.Medicine{}).
		Where("medicine_name LIKE ? OR brand LIKE ? OR composition LIKE ?", term, term, term)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count search results for %q: %w", query, err)
	}
	if err := q.Limit(limit).Offset(offset).Find(&medicines).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to search medicines for %q: %w", query, err)
	}
	return medicines, total, nil
}

// Featured retrieves the most popular medicines.
func (r *GORMMedicineRepository) Featured(limit int) ([]models.Medicine, error) {
	var medicines []models.Medicine
	err := r.db.Order("popularity DESC").Limit(limit).Find(&medicines).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list featured medicines: %w", err)
	}
	return medicines, nil
}

// Create inserts a new catalog entry.
func (r *GORMMedicineRepository) Create(medicine *models.Medicine) error {
	if err := r.db.Create(medicine).Error; err != nil {
		return fmt.Errorf("failed to create medicine: %w", err)
	}
	return nil
}
