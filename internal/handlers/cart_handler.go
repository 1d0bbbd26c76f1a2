package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"tienda/internal/services"
)

// CartHandler handles HTTP requests for carts.
type CartHandler struct {
	service *services.CartService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service: service,
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/carts")
	cartRoutes.Get("/", h.HandleGetCarts)
	cartRoutes.Post("/", h.HandleCreateCart)
	cartRoutes.Get("/:cid", h.HandleGetCartByID)
	cartRoutes.Post("/:cid/product/:pid", h.HandleAddProduct)
	cartRoutes.Put("/:cid/products/:pid", h.HandleSetQuantity)
	cartRoutes.Delete("/:cid/products/:pid", h.HandleRemoveProduct)
	cartRoutes.Delete("/:cid/all", h.HandleDeleteCart)
	cartRoutes.Delete("/:cid", h.HandleClearCart)
}

// HandleGetCarts retrieves all carts with resolved product data.
func (h *CartHandler) HandleGetCarts(c *fiber.Ctx) error {
	carts, err := h.service.GetAll()
	if err != nil {
		log.Printf("Error getting all carts: %v", err)
		return respondError(c, err)
	}
	return c.JSON(carts)
}

// HandleCreateCart creates a new empty cart.
func (h *CartHandler) HandleCreateCart(c *fiber.Ctx) error {
	cart, err := h.service.Create()
	if err != nil {
		log.Printf("Error creating cart: %v", err)
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(cart)
}

// HandleGetCartByID retrieves a single cart by its ID.
func (h *CartHandler) HandleGetCartByID(c *fiber.Ctx) error {
	cart, err := h.service.Get(c.Params("cid"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cart)
}

type quantityBody struct {
	Quantity int `json:"quantity"`
}

// HandleAddProduct adds a product to a cart. The quantity comes from the
// body and defaults to 1.
func (h *CartHandler) HandleAddProduct(c *fiber.Ctx) error {
	body := quantityBody{Quantity: 1}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}
		if body.Quantity == 0 {
			body.Quantity = 1
		}
	}

	cart, err := h.service.AddProduct(c.Params("cid"), c.Params("pid"), body.Quantity)
	if err != nil {
		log.Printf("Error adding product %s to cart %s: %v", c.Params("pid"), c.Params("cid"), err)
		return respondError(c, err)
	}
	return c.JSON(cart)
}

// HandleSetQuantity replaces the quantity of an existing cart line.
func (h *CartHandler) HandleSetQuantity(c *fiber.Ctx) error {
	var body quantityBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	cart, err := h.service.SetQuantity(c.Params("cid"), c.Params("pid"), body.Quantity)
	if err != nil {
		log.Printf("Error updating quantity of product %s in cart %s: %v", c.Params("pid"), c.Params("cid"), err)
		return respondError(c, err)
	}
	return c.JSON(cart)
}

// HandleRemoveProduct removes a product's line from a cart. Removal is
// idempotent, so a product not in the cart still yields 200.
func (h *CartHandler) HandleRemoveProduct(c *fiber.Ctx) error {
	cart, err := h.service.RemoveProduct(c.Params("cid"), c.Params("pid"))
	if err != nil {
		log.Printf("Error removing product %s from cart %s: %v", c.Params("pid"), c.Params("cid"), err)
		return respondError(c, err)
	}
	return c.JSON(cart)
}

// HandleClearCart empties a cart without deleting it.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	cart, err := h.service.Clear(c.Params("cid"))
	if err != nil {
		log.Printf("Error clearing cart %s: %v", c.Params("cid"), err)
		return respondError(c, err)
	}
	return c.JSON(cart)
}

// HandleDeleteCart removes a cart entirely.
func (h *CartHandler) HandleDeleteCart(c *fiber.Ctx) error {
	removed, err := h.service.Delete(c.Params("cid"))
	if err != nil {
		log.Printf("Error deleting cart %s: %v", c.Params("cid"), err)
		return respondError(c, err)
	}
	if !removed {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Cart not found",
		})
	}
	return c.JSON(fiber.Map{
		"message": "Cart deleted successfully",
	})
}
