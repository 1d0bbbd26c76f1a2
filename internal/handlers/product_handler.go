package handlers

import (
	"encoding/base64"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"tienda/internal/models"
	"tienda/internal/services"
)

// Thumbnail uploads: only common web image formats, capped per file.
const maxThumbnailSize = 5 * 1024 * 1024

var allowedImageExtensions = map[string]string{
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// ProductHandler handles HTTP requests for the catalog.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
	productRoutes.Post("/:id/images", h.HandleUploadImages)
}

// HandleListProducts retrieves one page of products. Query params: limit,
// page, sort (asc|desc by price) and query (availability or category).
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	page, err := h.service.List(services.ListQuery{
		Query: c.Query("query"),
		Sort:  c.Query("sort"),
		Page:  c.QueryInt("page", 1),
		Limit: c.QueryInt("limit", 10),
	})
	if err != nil {
		log.Printf("Error listing products: %v", err)
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"status":      "success",
		"payload":     page.Payload,
		"totalDocs":   page.TotalDocs,
		"limit":       page.Limit,
		"page":        page.Page,
		"totalPages":  page.TotalPages,
		"hasPrevPage": page.HasPrevPage,
		"hasNextPage": page.HasNextPage,
		"prevPage":    page.PrevPage,
		"nextPage":    page.NextPage,
	})
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.Get(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req models.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	product, err := h.service.Create(req)
	if err != nil {
		log.Printf("Error creating product: %v", err)
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct applies a partial update to a product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var req models.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	product, err := h.service.Update(c.Params("id"), req)
	if err != nil {
		log.Printf("Error updating product %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}
	return c.JSON(product)
}

// HandleDeleteProduct deletes a product by its ID.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	removed, err := h.service.Delete(c.Params("id"))
	if err != nil {
		log.Printf("Error deleting product %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}
	if !removed {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Product not found",
		})
	}
	return c.JSON(fiber.Map{
		"message": "Product deleted successfully",
	})
}

// HandleUploadImages attaches uploaded images to a product as embedded
// base64 thumbnails. Multipart field: thumbnails.
func (h *ProductHandler) HandleUploadImages(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid multipart form",
		})
	}
	files := form.File["thumbnails"]
	if len(files) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No thumbnails uploaded",
		})
	}

	thumbnails := make([]models.Thumbnail, 0, len(files))
	for _, file := range files {
		contentType, ok := allowedImageExtensions[strings.ToLower(filepath.Ext(file.Filename))]
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Only image files are allowed (jpeg, jpg, png, webp)",
			})
		}
		if file.Size > maxThumbnailSize {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Image exceeds the 5MB limit",
			})
		}

		src, err := file.Open()
		if err != nil {
			log.Printf("Error opening uploaded file %s: %v", file.Filename, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not read uploaded file",
			})
		}
		data := make([]byte, file.Size)
		_, err = io.ReadFull(src, data)
		src.Close()
		if err != nil {
			log.Printf("Error reading uploaded file %s: %v", file.Filename, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not read uploaded file",
			})
		}

		thumbnails = append(thumbnails, models.Thumbnail{
			Data:        base64.StdEncoding.EncodeToString(data),
			ContentType: contentType,
			Filename:    file.Filename,
		})
	}

	product, err := h.service.AddThumbnails(c.Params("id"), thumbnails)
	if err != nil {
		log.Printf("Error attaching thumbnails to product %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}
	return c.JSON(product)
}
