package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/followup/backend/internal/domain"
	"github.com/followup/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
)

var ErrHubClosed = errors.New("realtime: hub closed")

const defaultBufferSize = 32

// Message is the frame written to subscribers.
type Message struct {
	Type    string          `json:"type"`
	Channel string          `json:"channel"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

type Subscriber struct {
	id   string
	send chan []byte
}

func (s *Subscriber) ID() string {
	return s.id
}

// C yields encoded messages. It is closed on Unsubscribe or hub Close.
func (s *Subscriber) C() <-chan []byte {
	return s.send
}

// Hub is a named broadcast channel. Delivery is fire-and-forget: a
// subscriber whose buffer is full misses the message.
type Hub struct {
	name       string
	bufferSize int
	log        *logger.Logger

	mu     sync.RWMutex
	subs   map[string]*Subscriber
	closed bool
}

func NewHub(name string, bufferSize int, log *logger.Logger) *Hub {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	return &Hub{
		name:       name,
		bufferSize: bufferSize,
		log:        log,
		subs:       make(map[string]*Subscriber),
	}
}

func (h *Hub) Name() string {
	return h.name
}

func (h *Hub) Subscribe() (*Subscriber, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrHubClosed
	}
	sub := &Subscriber{
		id:   uuid.New().String(),
		send: make(chan []byte, h.bufferSize),
	}
	h.subs[sub.id] = sub
	h.log.Infow("realtime_subscribe_ok", "channel", h.name, "subscriber", sub.id, "count", len(h.subs))
	return sub, nil
}

func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subs[sub.id]; !ok {
		return
	}
	delete(h.subs, sub.id)
	close(sub.send)
	h.log.Infow("realtime_unsubscribe_ok", "channel", h.name, "subscriber", sub.id, "count", len(h.subs))
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Publish encodes the event once and offers it to every subscriber without
// blocking.
func (h *Hub) Publish(ctx context.Context, event domain.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("realtime: encode %s payload: %w", event.Name, err)
	}
	frame, err := json.Marshal(Message{
		Type:    "broadcast",
		Channel: h.name,
		Event:   event.Name,
		Payload: payload,
	})
	if err != nil {
		return fmt.Errorf("realtime: encode %s: %w", event.Name, err)
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return ErrHubClosed
	}

	dropped := 0
	for _, sub := range h.subs {
		select {
		case sub.send <- frame:
		default:
			dropped++
		}
	}
	if dropped > 0 {
		h.log.Warnw("realtime_publish_dropped", "channel", h.name, "event", event.Name, "dropped", dropped)
	}
	h.log.Debugw("realtime_publish_ok", "channel", h.name, "event", event.Name, "subscribers", len(h.subs))
	return nil
}

// Close disconnects every subscriber. Later publishes fail with ErrHubClosed.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for id, sub := range h.subs {
		close(sub.send)
		delete(h.subs, id)
	}
	h.log.Infow("realtime_hub_closed", "channel", h.name)
}
