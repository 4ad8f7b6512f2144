package telemetry

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lanternhq/lanternhack/internal/logging"
)

const writeWait = 5 * time.Second

// Hub broadcasts signal changes to websocket subscribers, making every
// station's signal value globally visible in realtime. It implements
// Notifier so it can sit behind the same fan-out as the HTTP sink.
type Hub struct {
	mu     sync.Mutex
	subs   map[*subscriber]struct{}
	logger logging.Logger
}

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// writeJSON sends one frame guarded by the subscriber's mutex and a write
// deadline.
func (s *subscriber) writeJSON(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

func NewHub(logger logging.Logger) *Hub {
	return &Hub{
		subs:   map[*subscriber]struct{}{},
		logger: logger.With("module", "telemetry_hub"),
	}
}

// Register adds a connection to the broadcast set and starts a reader that
// discards inbound frames until the peer disconnects.
func (h *Hub) Register(conn *websocket.Conn) {
	sub := &subscriber{conn: conn}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	go func() {
		defer h.drop(sub)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) drop(sub *subscriber) {
	h.mu.Lock()
	_, ok := h.subs[sub]
	delete(h.subs, sub)
	h.mu.Unlock()

	if ok {
		_ = sub.conn.Close()
	}
}

// SubscriberCount reports the current number of feed subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// NotifyBoost broadcasts the new value to every subscriber. A subscriber
// that cannot be written to is dropped; the broadcast itself never fails.
func (h *Hub) NotifyBoost(ctx context.Context, stationID int64, value int64) error {
	data, err := json.Marshal(boostEvent{StationID: stationID, SignalValue: value})
	if err != nil {
		return err
	}

	h.mu.Lock()
	subs := make([]*subscriber, 0, len(h.subs))
	for sub := range h.subs {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		if err := sub.writeJSON(data); err != nil {
			h.logger.Warn(ctx, "dropping slow feed subscriber", "error", err)
			h.drop(sub)
		}
	}

	return nil
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	subs := make([]*subscriber, 0, len(h.subs))
	for sub := range h.subs {
		subs = append(subs, sub)
	}
	h.subs = map[*subscriber]struct{}{}
	h.mu.Unlock()

	for _, sub := range subs {
		_ = sub.conn.Close()
	}
}
