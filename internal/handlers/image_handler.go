package handlers

import (
	"encoding/base64"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"tienda/internal/services"
)

// ImageHandler serves product thumbnails. The core only holds references;
// this handler resolves them, decoding embedded blobs and streaming
// path-backed images from disk.
type ImageHandler struct {
	service *services.ProductService
}

// NewImageHandler creates a new ImageHandler.
func NewImageHandler(service *services.ProductService) *ImageHandler {
	return &ImageHandler{
		service: service,
	}
}

// RegisterRoutes registers the image routes with the Fiber app.
func (h *ImageHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/images/:id/:index", h.HandleGetImage)
}

// HandleGetImage serves the index-th thumbnail of a product.
func (h *ImageHandler) HandleGetImage(c *fiber.Ctx) error {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil || index < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid thumbnail index",
		})
	}

	product, err := h.service.Get(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if index >= len(product.Thumbnails) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Image not found",
		})
	}

	thumbnail := product.Thumbnails[index]
	if thumbnail.Data != "" {
		data, err := base64.StdEncoding.DecodeString(thumbnail.Data)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not decode image",
			})
		}
		c.Set(fiber.HeaderContentType, thumbnail.ContentType)
		return c.Send(data)
	}
	if thumbnail.Path != "" {
		return c.SendFile(thumbnail.Path)
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": "Image not found",
	})
}
