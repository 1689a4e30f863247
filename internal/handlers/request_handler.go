package handlers

import (
	"log"

	"marketplace/internal/models"
	"marketplace/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// RequestHandler handles HTTP requests for the purchase-request workflow.
type RequestHandler struct {
	requestService *services.RequestService
	validate       *validator.Validate
}

// NewRequestHandler creates a new RequestHandler.
func NewRequestHandler(requestService *services.RequestService) *RequestHandler {
	return &RequestHandler{
		requestService: requestService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the purchase-request routes; the group must
// already sit behind the auth middleware.
func (h *RequestHandler) RegisterRoutes(router fiber.Router) {
	requestRoutes := router.Group("/purchase-requests")
	requestRoutes.Post("/", h.HandleCreateRequest)
	requestRoutes.Get("/received", h.HandleListReceived)
	requestRoutes.Get("/sent", h.HandleListSent)
	requestRoutes.Get("/:id", h.HandleGetRequest)
	requestRoutes.Patch("/:id/status", h.HandleUpdateStatus)
}

// HandleCreateRequest opens a purchase request from the caller to the
// product's seller.
func (h *RequestHandler) HandleCreateRequest(c *fiber.Ctx) error {
	var input services.CreateRequestInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing purchase request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(input); err != nil {
		return failValidation(c, err)
	}

	actor := actorFromCtx(c)
	view, err := h.requestService.Create(actor.ID, input)
	if err != nil {
		log.Printf("Error creating purchase request: %v", err)
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

// HandleListReceived lists requests where the caller is the seller.
func (h *RequestHandler) HandleListReceived(c *fiber.Ctx) error {
	actor := actorFromCtx(c)
	views, err := h.requestService.ListReceived(actor.ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(views)
}

// HandleListSent lists requests where the caller is the buyer.
func (h *RequestHandler) HandleListSent(c *fiber.Ctx) error {
	actor := actorFromCtx(c)
	views, err := h.requestService.ListSent(actor.ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(views)
}

// HandleGetRequest retrieves a single request for one of its participants.
func (h *RequestHandler) HandleGetRequest(c *fiber.Ctx) error {
	view, err := h.requestService.Get(actorFromCtx(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(view)
}

// UpdateStatusRequest represents the request body for a status transition.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// HandleUpdateStatus applies a status transition to a request.
func (h *RequestHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing status update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return failValidation(c, err)
	}

	request, err := h.requestService.UpdateStatus(actorFromCtx(c), c.Params("id"), models.RequestStatus(req.Status))
	if err != nil {
		log.Printf("Error updating purchase request %s status: %v", c.Params("id"), err)
		return fail(c, err)
	}
	return c.JSON(request)
}
