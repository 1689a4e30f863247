package handlers

import (
	"log"

	"marketplace/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for user profiles and administration.
type UserHandler struct {
	userService *services.UserService
	validate    *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the user routes. All routes here sit behind the
// auth middleware; the admin-only ones enforce the role via the policy.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Get("/", h.HandleListUsers)
	userRoutes.Get("/profile", h.HandleGetProfile)
	userRoutes.Put("/profile", h.HandleUpdateProfile)
	userRoutes.Delete("/:id", h.HandleDeleteUser)
}

// HandleListUsers returns all users. Admin only.
func (h *UserHandler) HandleListUsers(c *fiber.Ctx) error {
	users, err := h.userService.List(actorFromCtx(c))
	if err != nil {
		return fail(c, err)
	}
	for i := range users {
		users[i].Sanitize()
	}
	return c.JSON(users)
}

// HandleGetProfile returns the caller's own profile.
func (h *UserHandler) HandleGetProfile(c *fiber.Ctx) error {
	actor := actorFromCtx(c)
	user, err := h.userService.GetByID(actor.ID)
	if err != nil {
		return fail(c, err)
	}
	user.Sanitize()
	return c.JSON(user)
}

// HandleUpdateProfile mutates the caller's own profile fields.
func (h *UserHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var update services.ProfileUpdate
	if err := c.BodyParser(&update); err != nil {
		log.Printf("Error parsing profile update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(update); err != nil {
		return failValidation(c, err)
	}

	actor := actorFromCtx(c)
	user, err := h.userService.UpdateProfile(actor.ID, update)
	if err != nil {
		return fail(c, err)
	}
	user.Sanitize()
	return c.JSON(user)
}

// HandleDeleteUser removes a user account. Admin only.
func (h *UserHandler) HandleDeleteUser(c *fiber.Ctx) error {
	userID := c.Params("id")
	if err := h.userService.Delete(actorFromCtx(c), userID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "User removed"})
}
