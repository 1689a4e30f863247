package handlers

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// maxUploadSize caps product images at 5 MiB.
const maxUploadSize = 5 << 20

// UploadHandler handles product image uploads to local disk.
type UploadHandler struct {
	dir string
}

// NewUploadHandler creates a new UploadHandler writing into dir.
func NewUploadHandler(dir string) *UploadHandler {
	return &UploadHandler{dir: dir}
}

// RegisterRoutes registers the upload route; the group must already sit
// behind the auth middleware.
func (h *UploadHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/products/upload", h.HandleUploadImage)
}

// HandleUploadImage saves an uploaded product image and returns its relative URL.
func (h *UploadHandler) HandleUploadImage(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Image file is required",
		})
	}

	if file.Size > maxUploadSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Image exceeds the maximum allowed size",
		})
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif":
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Only .jpg, .jpeg, .png, and .gif files are allowed",
		})
	}

	filename := fmt.Sprintf("%d%s", time.Now().UnixNano(), ext)
	destination := filepath.Join(h.dir, filename)

	if err := c.SaveFile(file, destination); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not save file",
		})
	}

	return c.JSON(fiber.Map{
		"url": fmt.Sprintf("/uploads/products/%s", filename),
	})
}
