package http

import (
	"path/filepath"
	"sync"

	"github.com/sahil-skillgenix/CareerNavigatorAI-sub000/internal/export"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// Hub fans export progress events out to websocket subscribers, keyed by
// export job id. It satisfies export.Notifier, so it plugs straight into
// the exporter's notifier chain.
type Hub struct {
	mu   sync.RWMutex
	subs map[uuid.UUID]map[chan export.Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: map[uuid.UUID]map[chan export.Event]struct{}{}}
}

// Notify delivers an event to every subscriber of the job. Slow
// consumers drop events rather than stall a running export.
func (h *Hub) Notify(e export.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[e.JobID] {
		select {
		case ch <- e:
		default:
		}
	}
}

// Subscribe registers interest in one job's events. The returned cancel
// must be called when the subscriber goes away.
func (h *Hub) Subscribe(jobID uuid.UUID) (<-chan export.Event, func()) {
	ch := make(chan export.Event, 16)
	h.mu.Lock()
	if h.subs[jobID] == nil {
		h.subs[jobID] = map[chan export.Event]struct{}{}
	}
	h.subs[jobID][ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		delete(h.subs[jobID], ch)
		if len(h.subs[jobID]) == 0 {
			delete(h.subs, jobID)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// UpgradeRequired gates the websocket route: plain HTTP requests get 426.
func UpgradeRequired(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// ServeProgress streams a job's progress events until the job finishes
// or the client disconnects.
func (h *Hub) ServeProgress(c *websocket.Conn) {
	defer c.Close()

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		_ = c.WriteJSON(fiber.Map{"error": "invalid export id"})
		return
	}
	ch, cancel := h.Subscribe(id)
	defer cancel()

	// reader pump, only to notice the peer going away
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case e := <-ch:
			if err := c.WriteJSON(progressPayload(e)); err != nil {
				return
			}
			if e.Type == export.EventJobCompleted || e.Type == export.EventJobFailed {
				return
			}
		case <-closed:
			return
		}
	}
}

func progressPayload(e export.Event) fiber.Map {
	p := fiber.Map{"type": string(e.Type)}
	if e.Section != "" {
		p["section"] = e.Section
	}
	if e.Total > 0 {
		p["index"] = e.Index
		p["total"] = e.Total
	}
	if e.Pages > 0 {
		p["pages"] = e.Pages
	}
	if e.Path != "" {
		p["filename"] = filepath.Base(e.Path)
	}
	if e.Err != "" {
		p["error"] = e.Err
	}
	return p
}
