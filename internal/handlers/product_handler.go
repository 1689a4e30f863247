package handlers

import (
	"log"

	"marketplace/internal/models"
	"marketplace/internal/repositories"
	"marketplace/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	productService *services.ProductService
	validate       *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		validate:       validator.New(),
	}
}

// RegisterPublicRoutes registers the catalog read routes, which do not
// require authentication.
func (h *ProductHandler) RegisterPublicRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
}

// RegisterProtectedRoutes registers the mutating catalog routes; the group
// must already sit behind the auth middleware.
func (h *ProductHandler) RegisterProtectedRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleGetProducts lists catalog products, optionally filtered by category
// and a case-insensitive search term.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	filter := repositories.ProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		SellerID: c.Query("seller"),
	}
	products, err := h.productService.GetAll(filter)
	if err != nil {
		log.Printf("Error getting products: %v", err)
		return fail(c, err)
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.productService.GetByID(c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a new listing owned by the caller.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		log.Printf("Error parsing product body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(product); err != nil {
		return failValidation(c, err)
	}

	actor := actorFromCtx(c)
	if err := h.productService.Create(actor.ID, &product); err != nil {
		log.Printf("Error creating product: %v", err)
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct updates a listing. Owner or admin only.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var input services.ProductUpdateInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing product update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(input); err != nil {
		return failValidation(c, err)
	}

	product, err := h.productService.Update(actorFromCtx(c), c.Params("id"), input)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(product)
}

// HandleDeleteProduct deletes a listing. Owner or admin only.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	productID := c.Params("id")
	if err := h.productService.Delete(actorFromCtx(c), productID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Product deleted successfully",
	})
}
