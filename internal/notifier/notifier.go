// Package notifier fans catalog change events out to subscribed observers.
// It holds no transport logic: real-time connections and other sinks
// register themselves and receive every event broadcast after they joined,
// best-effort, at-most-once.
package notifier

import (
	"sync"

	"tienda/internal/models"
)

// EventType tags a catalog mutation.
type EventType string

const (
	ProductAdded   EventType = "added"
	ProductUpdated EventType = "updated"
	ProductDeleted EventType = "deleted"
)

// Event is the wire payload for a catalog mutation. Added and updated
// events carry the affected product; deleted events carry only its id.
type Event struct {
	Type      EventType       `json:"event"`
	Product   *models.Product `json:"product,omitempty"`
	ProductID string          `json:"productId,omitempty"`
}

// Observer receives broadcast events. Notify must not block: observers own
// their buffering and may drop events they cannot take immediately.
type Observer interface {
	Notify(Event)
}

// Notifier is the registry of currently subscribed observers, keyed by
// connection identity.
type Notifier struct {
	mu        sync.RWMutex
	observers map[string]Observer
}

// New creates an empty Notifier.
func New() *Notifier {
	return &Notifier{observers: make(map[string]Observer)}
}

// Register subscribes an observer under the given identity, replacing any
// previous observer with the same identity.
func (n *Notifier) Register(id string, o Observer) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.observers[id] = o
}

// Unregister removes an observer. Unknown identities are ignored.
func (n *Notifier) Unregister(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.observers, id)
}

// Broadcast delivers an event to every subscribed observer. It iterates a
// snapshot of the registry, so observers may register or unregister while
// a broadcast is in flight. Broadcasting to no one is a no-op.
func (n *Notifier) Broadcast(e Event) {
	n.mu.RLock()
	snapshot := make([]Observer, 0, len(n.observers))
	for _, o := range n.observers {
		snapshot = append(snapshot, o)
	}
	n.mu.RUnlock()

	for _, o := range snapshot {
		o.Notify(e)
	}
}

// Subscribers returns the number of currently registered observers.
func (n *Notifier) Subscribers() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.observers)
}
