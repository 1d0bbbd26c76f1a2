package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"tienda/internal/services"
)

// ViewHandler renders the server-side product views. The realtime page is
// the same listing kept current over the websocket feed.
type ViewHandler struct {
	service *services.ProductService
}

// NewViewHandler creates a new ViewHandler.
func NewViewHandler(service *services.ProductService) *ViewHandler {
	return &ViewHandler{
		service: service,
	}
}

// RegisterRoutes registers the view routes with the Fiber app.
func (h *ViewHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/", h.HandleHome)
	app.Get("/realtimeproducts", h.HandleRealTimeProducts)
}

// HandleHome renders the static product listing.
func (h *ViewHandler) HandleHome(c *fiber.Ctx) error {
	products, err := h.service.GetAll()
	if err != nil {
		log.Printf("Error rendering home: %v", err)
		return c.Status(fiber.StatusInternalServerError).Render("error", fiber.Map{
			"Error": err.Error(),
		})
	}
	return c.Render("home", fiber.Map{
		"Products": products,
	})
}

// HandleRealTimeProducts renders the live product listing.
func (h *ViewHandler) HandleRealTimeProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAll()
	if err != nil {
		log.Printf("Error rendering realtimeproducts: %v", err)
		return c.Status(fiber.StatusInternalServerError).Render("error", fiber.Map{
			"Error": err.Error(),
		})
	}
	return c.Render("realtime", fiber.Map{
		"Products": products,
	})
}
