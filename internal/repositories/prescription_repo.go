package repositories

import "github.com/adib422/FarMacy/internal/models"

// PrescriptionRepository defines the interface for prescription metadata
// access.
type PrescriptionRepository interface {
	Create(prescription *models.Prescription) error
	GetByUser(userID uint) ([]models.Prescription, error)
	GetByID(userID, prescriptionID uint) (*models.Prescription, error)
	Delete(userID, prescriptionID uint) error
}
