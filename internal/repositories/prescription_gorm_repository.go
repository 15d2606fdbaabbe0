package repositories

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/adib422/FarMacy/internal/models"
)

// GORMPrescriptionRepository is a GORM implementation of
// PrescriptionRepository.
type GORMPrescriptionRepository struct {
	db *gorm.DB
}

// NewGORMPrescriptionRepository creates a new instance of
// GORMPrescriptionRepository.
func NewGORMPrescriptionRepository(db *gorm.DB) *GORMPrescriptionRepository {
	return &GORMPrescriptionRepository{
		db: db,
	}
}

// Create inserts a new prescription row.
func (r *GORMPrescriptionRepository) Create(prescription *models.Prescription) error {
	if err := r.db.Create(prescription).Error; err != nil {
		return fmt.Errorf("failed to create prescription: %w", err)
	}
	return nil
}

// GetByUser retrieves all prescriptions for a user, newest first.
func (r *GORMPrescriptionRepository) GetByUser(userID uint) ([]models.Prescription, error) {
	var prescriptions []models.Prescription
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&prescriptions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get prescriptions for user %d: %w", userID, err)
	}
	return prescriptions, nil
}

// GetByID retrieves a single prescription owned by the user.
func (r *GORMPrescriptionRepository) GetByID(userID, prescriptionID uint) (*models.Prescription, error) {
	var prescription models.Prescription
	err := r.db.First(&prescription, "id = ? AND user_id = ?", prescriptionID, userID).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get prescription %d for user %d: %w", prescriptionID, userID, err)
	}
	return &prescription, nil
}

// Delete removes a prescription row owned by the user.
func (r *GORMPrescriptionRepository) Delete(userID, prescriptionID uint) error {
	res := r.db.Delete(&models.Prescription{}, "id = ? AND user_id = ?", prescriptionID, userID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete prescription %d: %w", prescriptionID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("prescription %d not found for user %d: %w", prescriptionID, userID, gorm.ErrRecordNotFound)
	}
	return nil
}
