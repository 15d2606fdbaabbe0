package handlers

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/adib422/FarMacy/internal/middleware"
	"github.com/adib422/FarMacy/internal/services"
)

// PrescriptionHandler handles HTTP requests for prescription uploads.
type PrescriptionHandler struct {
	service *services.PrescriptionService
}

// NewPrescriptionHandler creates a new PrescriptionHandler.
func NewPrescriptionHandler(service *services.PrescriptionService) *PrescriptionHandler {
	return &PrescriptionHandler{
		service: service,
	}
}

// RegisterRoutes registers the prescription routes. All of them require
// authentication.
func (h *PrescriptionHandler) RegisterRoutes(router fiber.Router) {
	prescriptionRoutes := router.Group("/prescriptions")
	prescriptionRoutes.Post("/upload", h.HandleUpload)
	prescriptionRoutes.Get("/", h.HandleListPrescriptions)
	prescriptionRoutes.Delete("/:id", h.HandleDeletePrescription)
}

// HandleUpload stores an uploaded prescription file. The file arrives as the
// "prescription" multipart field; an optional orderId form value links it to
// an order.
func (h *PrescriptionHandler) HandleUpload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("prescription")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "No file uploaded")
	}

	var orderID *uint
	if raw := c.FormValue("orderId"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return fail(c, fiber.StatusBadRequest, "Invalid order id")
		}
		id := uint(parsed)
		orderID = &id
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("Error opening uploaded file: %v", err)
		return fail(c, fiber.StatusInternalServerError, "Could not read uploaded file")
	}
	defer file.Close()

	prescription, err := h.service.Save(middleware.UserID(c), orderID, fileHeader.Filename, fileHeader.Size, file)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidFile):
			return fail(c, fiber.StatusBadRequest, "Only jpg, jpeg, png and pdf files are allowed")
		case errors.Is(err, services.ErrFileTooLarge):
			return fail(c, fiber.StatusBadRequest, "File exceeds the 5MB limit")
		}
		log.Printf("Error saving prescription: %v", err)
		return fail(c, fiber.StatusInternalServerError, "Could not save prescription")
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"message":      "Prescription uploaded successfully",
		"prescription": prescription,
	})
}

// HandleListPrescriptions returns the user's prescriptions, newest first.
func (h *PrescriptionHandler) HandleListPrescriptions(c *fiber.Ctx) error {
	prescriptions, err := h.service.List(middleware.UserID(c))
	if err != nil {
		log.Printf("Error fetching prescriptions: %v", err)
		return fail(c, fiber.StatusInternalServerError, "Could not fetch prescriptions")
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"prescriptions": prescriptions,
	})
}

// HandleDeletePrescription removes a prescription and its stored file.
func (h *PrescriptionHandler) HandleDeletePrescription(c *fiber.Ctx) error {
	prescriptionID, err := parseIDParam(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid prescription id")
	}

	if err := h.service.Delete(middleware.UserID(c), prescriptionID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return fail(c, fiber.StatusNotFound, "Prescription not found")
		}
		log.Printf("Error deleting prescription %d: %v", prescriptionID, err)
		return fail(c, fiber.StatusInternalServerError, "Could not delete prescription")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Prescription deleted successfully",
	})
}
