package services

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adib422/FarMacy/internal/models"
	"github.com/adib422/FarMacy/internal/repositories"
)

// MaxPrescriptionSize caps uploads at 5 MB, the same limit the storefront
// advertises.
const MaxPrescriptionSize = 5 * 1024 * 1024

var allowedPrescriptionExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pdf":  true,
}

// PrescriptionService stores uploaded prescription files under UUID-keyed
// names on disk and tracks them with metadata rows.
type PrescriptionService struct {
	repo      repositories.PrescriptionRepository
	uploadDir string
}

// NewPrescriptionService creates a new PrescriptionService writing into the
// given directory.
func NewPrescriptionService(repo repositories.PrescriptionRepository, uploadDir string) *PrescriptionService {
	return &PrescriptionService{
		repo:      repo,
		uploadDir: uploadDir,
	}
}

// Save validates and stores an uploaded file, then records it. The stored
// name is a fresh UUID so uploads can never collide or traverse paths; the
// original name is kept only as metadata.
func (s *PrescriptionService) Save(userID uint, orderID *uint, fileName string, size int64, content io.Reader) (*models.Prescription, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	if !allowedPrescriptionExts[ext] {
		return nil, fmt.Errorf("file %q: %w", fileName, ErrInvalidFile)
	}
	if size > MaxPrescriptionSize {
		return nil, fmt.Errorf("file %q is %d bytes: %w", fileName, size, ErrFileTooLarge)
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to prepare upload directory: %w", err)
	}

	storedPath := filepath.Join(s.uploadDir, uuid.New().String()+ext)
	dst, err := os.Create(storedPath)
	if err != nil {
		return nil, fmt.Errorf("failed to store prescription file: %w", err)
	}
	written, err := io.Copy(dst, io.LimitReader(content, MaxPrescriptionSize+1))
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err == nil && written > MaxPrescriptionSize {
		err = ErrFileTooLarge
	}
	if err != nil {
		os.Remove(storedPath)
		return nil, fmt.Errorf("failed to store prescription file: %w", err)
	}

	prescription := &models.Prescription{
		UserID:   userID,
		OrderID:  orderID,
		FileName: fileName,
		FilePath: storedPath,
		FileSize: written,
	}
	if err := s.repo.Create(prescription); err != nil {
		os.Remove(storedPath)
		return nil, fmt.Errorf("failed to record prescription: %w", err)
	}
	return prescription, nil
}

// List retrieves the user's prescriptions, newest first.
func (s *PrescriptionService) List(userID uint) ([]models.Prescription, error) {
	prescriptions, err := s.repo.GetByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list prescriptions: %w", err)
	}
	if prescriptions == nil {
		prescriptions = []models.Prescription{}
	}
	return prescriptions, nil
}

// Delete removes a prescription's metadata row and its stored file.
func (s *PrescriptionService) Delete(userID, prescriptionID uint) error {
	prescription, err := s.repo.GetByID(userID, prescriptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("prescription %d: %w", prescriptionID, ErrNotFound)
		}
		return fmt.Errorf("failed to get prescription %d: %w", prescriptionID, err)
	}

	if err := s.repo.Delete(userID, prescriptionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("prescription %d: %w", prescriptionID, ErrNotFound)
		}
		return fmt.Errorf("failed to delete prescription %d: %w", prescriptionID, err)
	}

	if err := os.Remove(prescription.FilePath); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to remove prescription file %s: %v", prescription.FilePath, err)
	}
	return nil
}
