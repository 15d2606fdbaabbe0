package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/adib422/FarMacy/internal/models"
	"github.com/adib422/FarMacy/internal/repositories"
)

// DefaultCountry is used when an address is saved without a country.
const DefaultCountry = "India"

// AddressInput carries the writable fields of an address.
type AddressInput struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"omitempty,max=100"`
	Phone     string `json:"phone" validate:"required,max=20"`
	Street    string `json:"street" validate:"required,max=255"`
	City      string `json:"city" validate:"required,max=100"`
	State     string `json:"state" validate:"required,max=100"`
	ZipCode   string `json:"zip_code" validate:"required,max=20"`
	Country   string `json:"country" validate:"omitempty,max=100"`
	IsDefault bool   `json:"is_default"`
}

// AddressService handles the address book for a user, including the
// at-most-one-default invariant.
type AddressService struct {
	repo repositories.AddressRepository
}

// NewAddressService creates a new AddressService.
func NewAddressService(repo repositories.AddressRepository) *AddressService {
	return &AddressService{
		repo: repo,
	}
}

// List retrieves the user's addresses, default first, then newest first.
func (s *AddressService) List(userID uint) ([]models.Address, error) {
	addresses, err := s.repo.GetByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	if addresses == nil {
		addresses = []models.Address{}
	}
	return addresses, nil
}

// Create saves a new address. Setting it as default clears the previous
// default in the same transaction inside the repository.
func (s *AddressService) Create(userID uint, input AddressInput) (*models.Address, error) {
	address := s.fromInput(userID, input)
	if err := s.repo.Create(address); err != nil {
		return nil, fmt.Errorf("failed to create address: %w", err)
	}
	return address, nil
}

// Update modifies an address owned by the user.
func (s *AddressService) Update(userID, addressID uint, input AddressInput) (*models.Address, error) {
	address := s.fromInput(userID, input)
	address.ID = addressID
	if err := s.repo.Update(address); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("address %d: %w", addressID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update address %d: %w", addressID, err)
	}

	updated, err := s.repo.GetByID(userID, addressID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload address %d: %w", addressID, err)
	}
	return updated, nil
}

// Delete removes an address owned by the user. Deleting an address that does
// not exist, or that belongs to another user, succeeds without effect.
func (s *AddressService) Delete(userID, addressID uint) error {
	if err := s.repo.Delete(userID, addressID); err != nil {
		return fmt.Errorf("failed to delete address %d: %w", addressID, err)
	}
	return nil
}

func (s *AddressService) fromInput(userID uint, input AddressInput) *models.Address {
	country := input.Country
	if country == "" {
		country = DefaultCountry
	}
	return &models.Address{
		UserID:    userID,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
		Street:    input.Street,
		City:      input.City,
		State:     input.State,
		ZipCode:   input.ZipCode,
		Country:   country,
		IsDefault: input.IsDefault,
	}
}
