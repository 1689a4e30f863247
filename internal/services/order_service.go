package services

import (
	"fmt"
	"log"
	"time"

	"marketplace/internal/models"
	"marketplace/internal/policy"
	"marketplace/internal/repositories"
	"marketplace/pkg/rabbitmq"
)

// OrderItemInput is one requested line item. Any client-supplied price is
// deliberately absent; prices always come from the store.
type OrderItemInput struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// CreateOrderInput is the payload for placing an order.
type CreateOrderInput struct {
	Items           []OrderItemInput `json:"items" validate:"required,min=1,dive"`
	ShippingAddress string           `json:"shippingAddress" validate:"omitempty,max=500"`
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	mqClient    *rabbitmq.Client // nil disables event publishing
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, mqClient *rabbitmq.Client) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		mqClient:    mqClient,
	}
}

// Create prices the line items against the authoritative stored product
// prices and persists the order in pending state. Any unresolvable product
// aborts the whole operation; nothing is partially created.
func (s *OrderService) Create(userID string, input CreateOrderInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("at least one item is required: %w", ErrInvalid)
	}

	var totalAmount float64
	items := make([]models.OrderItem, 0, len(input.Items))

	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("quantity must be positive for product %s: %w", item.ProductID, ErrInvalid)
		}

		product, err := s.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product %s not found: %w", item.ProductID, err)
		}
		if product.Stock < item.Quantity {
			return nil, fmt.Errorf("insufficient stock for product %s (requested: %d, available: %d): %w",
				product.Name, item.Quantity, product.Stock, ErrInvalid)
		}

		items = append(items, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     product.Price, // price at the time of order creation
		})
		totalAmount += product.Price * float64(item.Quantity)
	}

	now := time.Now()
	order := &models.Order{
		UserID:          userID,
		Items:           items,
		TotalAmount:     totalAmount,
		Status:          models.OrderPending,
		ShippingAddress: input.ShippingAddress,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.orderRepo.Create(order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if s.mqClient != nil {
		if err := s.mqClient.PublishEvent("order.created", order); err != nil {
			log.Printf("Warning: failed to publish order created event for order %s: %v", order.ID, err)
		}
	}

	return order, nil
}

// List returns all orders. Admin only.
func (s *OrderService) List(actor policy.Actor) ([]models.Order, error) {
	if !policy.Allows(actor, policy.OrderList, policy.Resource{}) {
		return nil, fmt.Errorf("listing all orders requires admin: %w", ErrForbidden)
	}
	return s.orderRepo.GetAll()
}

// ListForUser returns the caller's own orders, newest first.
func (s *OrderService) ListForUser(userID string) ([]models.Order, error) {
	return s.orderRepo.GetByUser(userID)
}

// Get retrieves a single order. Only the purchasing user or an admin may view it.
func (s *OrderService) Get(actor policy.Actor, id string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !policy.Allows(actor, policy.OrderView, policy.Resource{OwnerID: order.UserID}) {
		return nil, fmt.Errorf("not authorized to view this order: %w", ErrForbidden)
	}
	return order, nil
}

// UpdateStatus sets the status of an order. Admin only.
func (s *OrderService) UpdateStatus(actor policy.Actor, id string, status models.OrderStatus) error {
	if !policy.Allows(actor, policy.OrderUpdateStatus, policy.Resource{}) {
		return fmt.Errorf("updating order status requires admin: %w", ErrForbidden)
	}
	if !models.ValidOrderStatus(status) {
		return fmt.Errorf("invalid order status: %s: %w", status, ErrInvalid)
	}
	return s.orderRepo.UpdateStatus(id, status)
}
