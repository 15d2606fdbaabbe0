package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/adib422/FarMacy/internal/services"
)

// MedicineHandler handles HTTP requests for catalog browsing. The catalog is
// public: browsing needs no account.
type MedicineHandler struct {
	service *services.MedicineService
}

// NewMedicineHandler creates a new MedicineHandler.
func NewMedicineHandler(service *services.MedicineService) *MedicineHandler {
	return &MedicineHandler{
		service: service,
	}
}

// RegisterRoutes registers the catalog routes.
func (h *MedicineHandler) RegisterRoutes(router fiber.Router) {
	medicineRoutes := router.Group("/medicines")
	medicineRoutes.Get("/", h.HandleListMedicines)
	medicineRoutes.Get("/category/:category", h.HandleListByCategory)
	medicineRoutes.Get("/search/:query", h.HandleSearch)
	medicineRoutes.Get("/featured/top", h.HandleFeatured)
	medicineRoutes.Get("/:id", h.HandleGetMedicine)
}

// HandleListMedicines returns a page of the whole catalog.
func (h *MedicineHandler) HandleListMedicines(c *fiber.Ctx) error {
	medicines, pagination, err := h.service.List(c.QueryInt("page", 1), c.QueryInt("limit", 20))
	if err != nil {
		log.Printf("Error listing medicines: %v", err)
		return fail(c, fiber.StatusInternalServerError, "Could not fetch medicines")
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       medicines,
		"pagination": pagination,
	})
}

// HandleListByCategory returns a page of one category, most popular first.
func (h *MedicineHandler) HandleListByCategory(c *fiber.Ctx) error {
	medicines, pagination, err := h.service.ListByCategory(c.Params("category"), c.QueryInt("page", 1), c.QueryInt("limit", 20))
	if err != nil {
		log.Printf("Error listing category: %v", err)
		return fail(c, fiber.StatusInternalServerError, "Could not fetch medicines")
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       medicines,
		"pagination": pagination,
	})
}

// HandleGetMedicine returns a single catalog entry.
func (h *MedicineHandler) HandleGetMedicine(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid medicine id")
	}

	medicine, err := h.service.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return fail(c, fiber.StatusNotFound, "Medicine not found")
		}
		log.Printf("Error fetching medicine %d: %v", id, err)
		return fail(c, fiber.StatusInternalServerError, "Could not fetch medicine")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    medicine,
	})
}

// HandleSearch returns medicines matching the query substring.
func (h *MedicineHandler) HandleSearch(c *fiber.Ctx) error {
	medicines, pagination, err := h.service.Search(c.Params("query"), c.QueryInt("page", 1), c.QueryInt("limit", 20))
	if err != nil {
		log.Printf("Error searching medicines: %v", err)
		return fail(c, fiber.StatusInternalServerError, "Could not search medicines")
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       medicines,
		"pagination": pagination,
	})
}

// HandleFeatured returns the most popular medicines.
func (h *MedicineHandler) HandleFeatured(c *fiber.Ctx) error {
	medicines, err := h.service.Featured(c.QueryInt("limit", 8))
	if err != nil {
		log.Printf("Error fetching featured medicines: %v", err)
		return fail(c, fiber.StatusInternalServerError, "Could not fetch medicines")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    medicines,
	})
}
