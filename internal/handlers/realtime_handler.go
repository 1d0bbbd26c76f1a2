package handlers

import (
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"tienda/internal/models"
	"tienda/internal/notifier"
	"tienda/internal/services"
)

// wsSubscriber adapts one websocket connection into a change-feed
// observer. Frames queue into a buffered channel drained by the
// connection's writer goroutine; a full buffer drops the frame, since
// delivery is best-effort at-most-once.
type wsSubscriber struct {
	frames chan interface{}
}

func newWSSubscriber() *wsSubscriber {
	return &wsSubscriber{frames: make(chan interface{}, 16)}
}

func (s *wsSubscriber) Notify(e notifier.Event) {
	s.send(e)
}

func (s *wsSubscriber) send(frame interface{}) {
	select {
	case s.frames <- frame:
	default:
	}
}

// clientMessage is an inbound frame from a realtime client.
type clientMessage struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload"`
}

// RealtimeHandler owns the websocket endpoint: it registers each
// connection on the change feed, forwards catalog events as JSON frames,
// and routes inbound mutation requests to the catalog service.
type RealtimeHandler struct {
	products *services.ProductService
	feed     *notifier.Notifier
}

// NewRealtimeHandler creates a new RealtimeHandler.
func NewRealtimeHandler(products *services.ProductService, feed *notifier.Notifier) *RealtimeHandler {
	return &RealtimeHandler{
		products: products,
		feed:     feed,
	}
}

// RegisterRoutes registers the websocket endpoint with the Fiber app.
func (h *RealtimeHandler) RegisterRoutes(app *fiber.App) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(h.handleConnection))
}

func (h *RealtimeHandler) handleConnection(conn *websocket.Conn) {
	id := uuid.New().String()
	sub := newWSSubscriber()
	h.feed.Register(id, sub)
	defer h.feed.Unregister(id)

	// Single writer goroutine: broadcast events and error frames share
	// the same channel, so nothing else writes to the connection.
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case frame := <-sub.frames:
				if err := conn.WriteJSON(frame); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	for {
		var msg clientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		h.dispatch(sub, msg)
	}
}

// dispatch routes an inbound client action to the catalog service. The
// resulting catalog event reaches every subscriber (the sender included)
// through the change feed; only failures go back to the sender directly.
func (h *RealtimeHandler) dispatch(sub *wsSubscriber, msg clientMessage) {
	switch msg.Action {
	case "createProduct":
		var req models.CreateProductRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			sub.send(fiber.Map{"event": "error", "message": "Invalid payload"})
			return
		}
		if _, err := h.products.Create(req); err != nil {
			sub.send(fiber.Map{"event": "error", "message": err.Error()})
		}
	case "deleteProduct":
		var payload struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.ID == "" {
			sub.send(fiber.Map{"event": "error", "message": "Invalid payload"})
			return
		}
		removed, err := h.products.Delete(payload.ID)
		if err != nil {
			sub.send(fiber.Map{"event": "error", "message": err.Error()})
			return
		}
		if !removed {
			sub.send(fiber.Map{"event": "error", "message": "Product not found"})
		}
	default:
		log.Printf("Unknown realtime action: %q", msg.Action)
		sub.send(fiber.Map{"event": "error", "message": "Unknown action"})
	}
}
