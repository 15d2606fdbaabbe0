package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"

	"gorm.io/gorm"

	"github.com/adib422/FarMacy/internal/models"
	"github.com/adib422/FarMacy/internal/repositories"
	"github.com/adib422/FarMacy/pkg/rabbitmq"
)

// OrderLine is one cart line as submitted by the client. Only the medicine
// reference and quantity are taken from the request; prices always come from
// the catalog.
type OrderLine struct {
	MedicineID uint `json:"medicine_id" validate:"required"`
	Quantity   int  `json:"quantity" validate:"required,gte=1"`
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

func paginate(page, limit int, total int64) Pagination {
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}
}

// OrderService handles order placement, retrieval and cancellation.
type OrderService struct {
	orderRepo    repositories.OrderRepository
	medicineRepo repositories.MedicineRepository
	addressRepo  repositories.AddressRepository
	mqClient     *rabbitmq.Client
}

// NewOrderService creates a new OrderService. The message client may be nil,
// in which case order events are skipped.
func NewOrderService(orderRepo repositories.OrderRepository, medicineRepo repositories.MedicineRepository, addressRepo repositories.AddressRepository, mqClient *rabbitmq.Client) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		medicineRepo: medicineRepo,
		addressRepo:  addressRepo,
		mqClient:     mqClient,
	}
}

// PlaceOrder validates the cart and address, re-prices every line from the
// current catalog, and persists the order header together with all of its
// items in one transaction. Validation failures happen before any write, so
// a failed call leaves no rows behind and is safe to retry.
func (s *OrderService) PlaceOrder(userID uint, lines []OrderLine, addressID *uint, paymentMethod, promoCode string) (*models.Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	if addressID != nil {
		if _, err := s.addressRepo.GetByID(userID, *addressID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("address %d: %w", *addressID, ErrNotFound)
			}
			return nil, fmt.Errorf("failed to verify address: %w", err)
		}
	}

	quoteLines := make([]QuoteLine, 0, len(lines))
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, fmt.Errorf("medicine %d: quantity must be at least 1: %w", line.MedicineID, ErrInvalidOrderItem)
		}
		medicine, err := s.medicineRepo.GetByID(line.MedicineID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("medicine %d not found: %w", line.MedicineID, ErrInvalidOrderItem)
			}
			return nil, fmt.Errorf("failed to look up medicine %d: %w", line.MedicineID, err)
		}
		quoteLines = append(quoteLines, QuoteLine{UnitPrice: medicine.MRP, Quantity: line.Quantity})
		items = append(items, models.OrderItem{
			MedicineID:   medicine.ID,
			MedicineName: medicine.MedicineName,
			Brand:        medicine.Brand,
			Quantity:     line.Quantity,
			Price:        medicine.MRP,
		})
	}

	quote := CalculateQuote(quoteLines, promoCode)
	if promoCode != "" && !quote.PromoApplied {
		return nil, fmt.Errorf("promo code %q: %w", promoCode, ErrInvalidPromo)
	}

	if paymentMethod == "" {
		paymentMethod = models.PaymentMethodCOD
	}

	order := &models.Order{
		UserID:        userID,
		AddressID:     addressID,
		Subtotal:      quote.Subtotal,
		DeliveryFee:   quote.DeliveryFee,
		Discount:      quote.Discount,
		Total:         quote.Total,
		PaymentMethod: paymentMethod,
		Status:        models.OrderStatusPending,
		Items:         items,
	}

	if err := s.orderRepo.Create(order); err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	s.publishOrderEvent("order.created", order)

	return order, nil
}

// GetOrders retrieves a page of the user's orders, newest first, with item
// counts and address snapshots.
func (s *OrderService) GetOrders(userID uint, page, limit int) ([]models.OrderSummary, Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	orders, total, err := s.orderRepo.GetByUser(userID, limit, offset)
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("failed to get orders: %w", err)
	}
	return orders, paginate(page, limit, total), nil
}

// GetOrder retrieves a single order with its full item list.
func (s *OrderService) GetOrder(userID, orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(userID, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %d: %w", orderID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order %d: %w", orderID, err)
	}
	return order, nil
}

// CancelOrder transitions an order from pending to cancelled. The transition
// is a single conditional update, so a concurrent state change is detected
// as zero affected rows and reported as ErrInvalidState rather than being
// overwritten.
func (s *OrderService) CancelOrder(userID, orderID uint) error {
	order, err := s.orderRepo.GetByID(userID, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("order %d: %w", orderID, ErrNotFound)
		}
		return fmt.Errorf("failed to get order %d: %w", orderID, err)
	}

	ok, err := s.orderRepo.UpdateStatusIf(userID, orderID, models.OrderStatusPending, models.OrderStatusCancelled)
	if err != nil {
		return fmt.Errorf("failed to cancel order %d: %w", orderID, err)
	}
	if !ok {
		return fmt.Errorf("order %d is in state %q: %w", orderID, order.Status, ErrInvalidState)
	}

	order.Status = models.OrderStatusCancelled
	s.publishOrderEvent("order.cancelled", order)

	return nil
}

// publishOrderEvent publishes a lifecycle event for downstream consumers.
// Publishing is best-effort; a broker failure never fails the request that
// already committed.
func (s *OrderService) publishOrderEvent(routingKey string, order *models.Order) {
	if s.mqClient == nil {
		return
	}

	body, err := json.Marshal(map[string]interface{}{
		"orderId": order.ID,
		"userId":  order.UserID,
		"status":  order.Status,
		"total":   order.Total,
	})
	if err != nil {
		log.Printf("Failed to marshal %s event for order %d: %v", routingKey, order.ID, err)
		return
	}

	if err := s.mqClient.Publish(routingKey, body); err != nil {
		log.Printf("Warning: failed to publish %s event for order %d: %v", routingKey, order.ID, err)
	}
}
