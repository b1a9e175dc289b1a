package handlers

import (
	"github.com/followup/backend/internal/infrastructure/logger"
	"github.com/followup/backend/internal/infrastructure/realtime"
	"github.com/gofiber/contrib/websocket"
)

type RealtimeHandler struct {
	hub    *realtime.Hub
	logger *logger.Logger
}

func NewRealtimeHandler(hub *realtime.Hub, logger *logger.Logger) *RealtimeHandler {
	return &RealtimeHandler{hub: hub, logger: logger}
}

// Handle streams every hub message to the connection until either side
// goes away. Inbound frames are read and discarded.
func (h *RealtimeHandler) Handle(c *websocket.Conn) {
	sub, err := h.hub.Subscribe()
	if err != nil {
		h.logger.Warnw("realtime_subscribe_failed", "error", err)
		c.WriteMessage(websocket.TextMessage, []byte(`{"error":"channel closed"}`))
		c.Close()
		return
	}
	defer h.hub.Unsubscribe(sub)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case msg, ok := <-sub.C():
			if !ok {
				c.Close()
				return
			}
			if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.logger.Infow("realtime_write_failed", "subscriber", sub.ID(), "error", err)
				return
			}
		case <-done:
			h.logger.Infow("realtime_client_gone", "subscriber", sub.ID())
			return
		}
	}
}
