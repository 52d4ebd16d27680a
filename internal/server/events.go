package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/claude/setlog/internal/resttimer"
)

// sseEvent is an SSE message to send to subscribers.
type sseEvent struct {
	Event string
	Data  string
}

// EventHub fans timer notifications out to SSE subscribers. It is created
// before the rest timer so the timer's notify callback can point at it.
type EventHub struct {
	mu   sync.Mutex
	subs map[chan sseEvent]struct{}
}

// NewEventHub creates an empty hub.
func NewEventHub() *EventHub {
	return &EventHub{subs: map[chan sseEvent]struct{}{}}
}

// TimerNotify is wired as the rest timer's notify callback. Expiry events
// carry the pulse count for the client's audible signal.
func (h *EventHub) TimerNotify(ev resttimer.Event) {
	payload := map[string]any{"state": ev.State}
	if ev.Kind == resttimer.EventExpired {
		payload["pulses"] = resttimer.ExpiryPulses
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	h.broadcast(sseEvent{Event: "timer_" + string(ev.Kind), Data: string(data)})
}

func (h *EventHub) subscribe() chan sseEvent {
	ch := make(chan sseEvent, 16)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *EventHub) unsubscribe(ch chan sseEvent) {
	h.mu.Lock()
	delete(h.subs, ch)
	h.mu.Unlock()
}

func (h *EventHub) broadcast(event sseEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- event:
		default:
			// slow subscriber, skip
		}
	}
}

// handleEvents streams timer events and a once-per-second elapsed-clock
// tick over SSE. The per-connection ticker stops when the client goes
// away, so repeated open/close cycles never leak tickers.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := s.hub.subscribe()
	defer s.hub.unsubscribe(ch)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Event, ev.Data)
			flusher.Flush()
		case <-ticker.C:
			elapsed, err := s.eng.Elapsed()
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: elapsed\ndata: {\"elapsed_seconds\":%d}\n\n", int(elapsed.Seconds()))
			flusher.Flush()
		}
	}
}
