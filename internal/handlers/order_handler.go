package handlers

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/adib422/FarMacy/internal/middleware"
	"github.com/adib422/FarMacy/internal/services"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order routes. All of them require
// authentication.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Post("/", h.HandlePlaceOrder)
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrder)
	orderRoutes.Put("/:id/cancel", h.HandleCancelOrder)
}

// PlaceOrderRequest is the request body for order placement. It carries no
// monetary fields: pricing is recomputed server-side from the catalog, and
// anything the client displays is advisory only.
type PlaceOrderRequest struct {
	Items         []services.OrderLine `json:"items" validate:"required,min=1,dive"`
	AddressID     *uint                `json:"addressId"`
	PaymentMethod string               `json:"paymentMethod" validate:"omitempty,oneof=COD"`
	PromoCode     string               `json:"promoCode"`
}

// HandlePlaceOrder validates and places an order.
func (h *OrderHandler) HandlePlaceOrder(c *fiber.Ctx) error {
	var req PlaceOrderRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing order body: %v", err)
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if len(req.Items) == 0 {
		return fail(c, fiber.StatusBadRequest, "No items in order")
	}
	if err := h.validate.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, validationMessage(err))
	}

	order, err := h.service.PlaceOrder(middleware.UserID(c), req.Items, req.AddressID, req.PaymentMethod, req.PromoCode)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyCart):
			return fail(c, fiber.StatusBadRequest, "No items in order")
		case errors.Is(err, services.ErrInvalidOrderItem):
			return fail(c, fiber.StatusBadRequest, "Invalid order item")
		case errors.Is(err, services.ErrInvalidPromo):
			return fail(c, fiber.StatusBadRequest, "Invalid promo code")
		case errors.Is(err, services.ErrNotFound):
			return fail(c, fiber.StatusNotFound, "Address not found")
		}
		log.Printf("Error placing order: %v", err)
		return fail(c, fiber.StatusInternalServerError, "Could not place order")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Order placed successfully",
		"orderId": order.ID,
	})
}

// HandleGetOrders returns a page of the user's orders, newest first.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)

	orders, pagination, err := h.service.GetOrders(middleware.UserID(c), page, limit)
	if err != nil {
		log.Printf("Error fetching orders: %v", err)
		return fail(c, fiber.StatusInternalServerError, "Could not fetch orders")
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"orders":     orders,
		"pagination": pagination,
	})
}

// HandleGetOrder returns a single order with its items.
func (h *OrderHandler) HandleGetOrder(c *fiber.Ctx) error {
	orderID, err := parseIDParam(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid order id")
	}

	order, err := h.service.GetOrder(middleware.UserID(c), orderID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return fail(c, fiber.StatusNotFound, "Order not found")
		}
		log.Printf("Error fetching order %d: %v", orderID, err)
		return fail(c, fiber.StatusInternalServerError, "Could not fetch order")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"order":   order,
	})
}

// HandleCancelOrder cancels a pending order.
func (h *OrderHandler) HandleCancelOrder(c *fiber.Ctx) error {
	orderID, err := parseIDParam(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid order id")
	}

	if err := h.service.CancelOrder(middleware.UserID(c), orderID); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return fail(c, fiber.StatusNotFound, "Order not found")
		case errors.Is(err, services.ErrInvalidState):
			return fail(c, fiber.StatusBadRequest, "Cannot cancel order. Order is already being processed.")
		}
		log.Printf("Error cancelling order %d: %v", orderID, err)
		return fail(c, fiber.StatusInternalServerError, "Could not cancel order")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Order cancelled successfully",
	})
}
