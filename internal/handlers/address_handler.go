package handlers

import (
	"errors"
	"log"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/adib422/FarMacy/internal/middleware"
	"github.com/adib422/FarMacy/internal/services"
)

// AddressHandler handles HTTP requests for the address book.
type AddressHandler struct {
	service  *services.AddressService
	validate *validator.Validate
}

// NewAddressHandler creates a new AddressHandler.
func NewAddressHandler(service *services.AddressService) *AddressHandler {
	return &AddressHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the address routes. All of them require
// authentication.
func (h *AddressHandler) RegisterRoutes(router fiber.Router) {
	addressRoutes := router.Group("/addresses")
	addressRoutes.Get("/", h.HandleListAddresses)
	addressRoutes.Post("/", h.HandleCreateAddress)
	addressRoutes.Put("/:id", h.HandleUpdateAddress)
	addressRoutes.Delete("/:id", h.HandleDeleteAddress)
}

// HandleListAddresses returns the user's addresses, default first.
func (h *AddressHandler) HandleListAddresses(c *fiber.Ctx) error {
	addresses, err := h.service.List(middleware.UserID(c))
	if err != nil {
		log.Printf("Error fetching addresses: %v", err)
		return fail(c, fiber.StatusInternalServerError, "Could not fetch addresses")
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"addresses": addresses,
	})
}

// HandleCreateAddress saves a new address.
func (h *AddressHandler) HandleCreateAddress(c *fiber.Ctx) error {
	var input services.AddressInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing address body: %v", err)
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(input); err != nil {
		return fail(c, fiber.StatusBadRequest, validationMessage(err))
	}

	address, err := h.service.Create(middleware.UserID(c), input)
	if err != nil {
		log.Printf("Error saving address: %v", err)
		return fail(c, fiber.StatusInternalServerError, "Could not save address")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Address saved successfully",
		"address": address,
	})
}

// HandleUpdateAddress updates an address owned by the user.
func (h *AddressHandler) HandleUpdateAddress(c *fiber.Ctx) error {
	addressID, err := parseIDParam(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid address id")
	}

	var input services.AddressInput
	if err := c.BodyParser(&input); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(input); err != nil {
		return fail(c, fiber.StatusBadRequest, validationMessage(err))
	}

	address, err := h.service.Update(middleware.UserID(c), addressID, input)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return fail(c, fiber.StatusNotFound, "Address not found")
		}
		log.Printf("Error updating address %d: %v", addressID, err)
		return fail(c, fiber.StatusInternalServerError, "Could not update address")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Address updated successfully",
		"address": address,
	})
}

// HandleDeleteAddress deletes an address. Deleting an absent or foreign
// address succeeds without effect.
func (h *AddressHandler) HandleDeleteAddress(c *fiber.Ctx) error {
	addressID, err := parseIDParam(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid address id")
	}

	if err := h.service.Delete(middleware.UserID(c), addressID); err != nil {
		log.Printf("Error deleting address %d: %v", addressID, err)
		return fail(c, fiber.StatusInternalServerError, "Could not delete address")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Address deleted successfully",
	})
}

func parseIDParam(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
