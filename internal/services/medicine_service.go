package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/adib422/FarMacy/internal/models"
	"github.com/adib422/FarMacy/internal/repositories"
)

// MedicineService handles catalog browsing and search.
type MedicineService struct {
	repo repositories.MedicineRepository
}

// NewMedicineService creates a new MedicineService.
func NewMedicineService(repo repositories.MedicineRepository) *MedicineService {
	return &MedicineService{
		repo: repo,
	}
}

// List retrieves a page of the catalog.
func (s *MedicineService) List(page, limit int) ([]models.Medicine, Pagination, error) {
	page, limit = normalizePage(page, limit)
	medicines, total, err := s.repo.List(limit, (page-1)*limit)
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("failed to list medicines: %w", err)
	}
	return medicines, paginate(page, limit, total), nil
}

// ListByCategory retrieves a page of a category, most popular first.
func (s *MedicineService) ListByCategory(category string, page, limit int) ([]models.Medicine, Pagination, error) {
	page, limit = normalizePage(page, limit)
	medicines, total, err := s.repo.ListByCategory(category, limit, (page-1)*limit)
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("failed to list category %s: %w", category, err)
	}
	return medicines, paginate(page, limit, total), nil
}

// Get retrieves a single medicine.
func (s *MedicineService) Get(id uint) (*models.Medicine, error) {
	medicine, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("medicine %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get medicine %d: %w", id, err)
	}
	return medicine, nil
}

// Search retrieves a page of medicines matching the query substring on name,
// brand or composition.
func (s *MedicineService) Search(query string, page, limit int) ([]models.Medicine, Pagination, error) {
	page, limit = normalizePage(page, limit)
	medicines, total, err := s.repo.Search(query, limit, (page-1)*limit)
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("failed to search medicines: %w", err)
	}
	return medicines, paginate(page, limit, total), nil
}

// Featured retrieves the most popular medicines, default 8.
func (s *MedicineService) Featured(limit int) ([]models.Medicine, error) {
	if limit < 1 {
		limit = 8
	}
	medicines, err := s.repo.Featured(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get featured medicines: %w", err)
	}
	return medicines, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	return page, limit
}
