package rabbitmq

import (
	"log"

	"tienda/internal/notifier"
)

// Sink bridges the catalog change feed to RabbitMQ. It is registered on
// the notifier like any other observer: Notify queues the event and
// returns immediately, and a dedicated goroutine drains the queue into the
// broker so publishing latency never reaches the mutating request.
type Sink struct {
	client *Client
	events chan notifier.Event
	done   chan struct{}
}

// NewSink creates a Sink and starts its publisher goroutine.
func NewSink(client *Client) *Sink {
	s := &Sink{
		client: client,
		events: make(chan notifier.Event, 64),
		done:   make(chan struct{}),
	}
	go s.run()
	return s
}

// Notify queues an event for publication. When the queue is full the event
// is dropped; the feed is best-effort.
func (s *Sink) Notify(e notifier.Event) {
	select {
	case s.events <- e:
	case <-s.done:
	default:
	}
}

func (s *Sink) run() {
	for {
		select {
		case e := <-s.events:
			if err := s.client.Publish(e); err != nil {
				log.Printf("Warning: failed to publish catalog event %s: %v", e.Type, err)
			}
		case <-s.done:
			return
		}
	}
}

// Close stops the publisher goroutine. The underlying client is closed by
// its owner.
func (s *Sink) Close() {
	close(s.done)
}
