package handlers

import (
	"log"

	"marketplace/internal/models"
	"marketplace/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	orderService *services.OrderService
	validate     *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		validate:     validator.New(),
	}
}

// RegisterRoutes registers the order routes; the group must already sit
// behind the auth middleware.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleListOrders)
	orderRoutes.Get("/my", h.HandleListMyOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Put("/:id/status", h.HandleUpdateOrderStatus)
}

// HandleListOrders returns all orders. Admin only.
func (h *OrderHandler) HandleListOrders(c *fiber.Ctx) error {
	orders, err := h.orderService.List(actorFromCtx(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(orders)
}

// HandleListMyOrders returns the caller's own orders.
func (h *OrderHandler) HandleListMyOrders(c *fiber.Ctx) error {
	actor := actorFromCtx(c)
	orders, err := h.orderService.ListForUser(actor.ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order for its owner or an admin.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.orderService.Get(actorFromCtx(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(order)
}

// HandleCreateOrder prices and persists a new order for the caller.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var input services.CreateOrderInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing order body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(input); err != nil {
		return failValidation(c, err)
	}

	actor := actorFromCtx(c)
	order, err := h.orderService.Create(actor.ID, input)
	if err != nil {
		log.Printf("Error creating order: %v", err)
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// OrderStatusRequest represents the request body for an order status update.
type OrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// HandleUpdateOrderStatus sets an order's status. Admin only.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	var req OrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing order status body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return failValidation(c, err)
	}

	orderID := c.Params("id")
	if err := h.orderService.UpdateStatus(actorFromCtx(c), orderID, models.OrderStatus(req.Status)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Order status updated successfully",
	})
}
