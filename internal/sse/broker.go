// Package sse streams widget reload events to connected clients.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

// EventTimelineReload tells clients to re-request their widget timelines.
const EventTimelineReload = "timeline.reload"

// clientBuffer is how many frames a slow client may fall behind before
// frames are dropped for it.
const clientBuffer = 64

// Event is one server-sent event.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// frame encodes e in text/event-stream form.
func frame(e Event) ([]byte, error) {
	payload, err := json.Marshal(e.Data)
	if err != nil {
		return nil, err
	}
	return []byte(fmt.Sprintf("event: %s\ndata: %s\n\n", e.Type, payload)), nil
}

// hub is the state owned by the broker loop.
type hub struct {
	clients    map[chan []byte]struct{}
	lastReload time.Time
}

func (h *hub) send(e Event) {
	msg, err := frame(e)
	if err != nil {
		return
	}
	for ch := range h.clients {
		select {
		case ch <- msg:
		default:
		}
	}
}

// Broker fans widget change events out to SSE clients. Every mutation of
// the client set runs as an op on the loop goroutine.
type Broker struct {
	throttle time.Duration

	ops  chan func(*hub)
	quit chan struct{}
	done chan struct{}
	shut atomic.Bool
}

// NewBroker creates a broker that emits at most one timeline.reload per
// throttle.
func NewBroker(throttle time.Duration) *Broker {
	if throttle <= 0 {
		throttle = 2 * time.Second
	}
	b := &Broker{
		throttle: throttle,
		ops:      make(chan func(*hub)),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go b.loop()
	return b
}

func (b *Broker) loop() {
	defer close(b.done)

	h := &hub{clients: make(map[chan []byte]struct{})}
	for {
		select {
		case <-b.quit:
			for ch := range h.clients {
				close(ch)
			}
			return
		case op := <-b.ops:
			op(h)
		}
	}
}

// do hands op to the loop. It reports false once the broker is closed.
func (b *Broker) do(op func(*hub)) bool {
	if b.shut.Load() {
		return false
	}
	select {
	case b.ops <- op:
		return true
	case <-b.done:
		return false
	}
}

// Close stops the loop and closes every client channel. Safe to call twice.
func (b *Broker) Close() {
	if b.shut.CompareAndSwap(false, true) {
		close(b.quit)
	}
	<-b.done
}

// Subscribe registers a client. The channel is closed on Unsubscribe or
// Close; it is returned already closed if the broker is closed.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, clientBuffer)
	if !b.do(func(h *hub) { h.clients[ch] = struct{}{} }) {
		close(ch)
	}
	return ch
}

// Unsubscribe removes a client and closes its channel.
func (b *Broker) Unsubscribe(ch chan []byte) {
	b.do(func(h *hub) {
		if _, ok := h.clients[ch]; ok {
			delete(h.clients, ch)
			close(ch)
		}
	})
}

// ClientCount returns the number of connected clients.
func (b *Broker) ClientCount() int {
	n := make(chan int, 1)
	if !b.do(func(h *hub) { n <- len(h.clients) }) {
		return 0
	}
	return <-n
}

// Publish sends e to every client.
func (b *Broker) Publish(e Event) {
	b.do(func(h *hub) { h.send(e) })
}

// PublishChange sends a preference or catalog change, then a
// timeline.reload unless one went out within the throttle. It has the
// shape of widgetservice.Notifier.
func (b *Broker) PublishChange(kind string, data map[string]string) {
	if data == nil {
		data = map[string]string{}
	}
	b.do(func(h *hub) {
		h.send(Event{Type: kind, Data: data})
		if now := time.Now(); now.Sub(h.lastReload) >= b.throttle {
			h.lastReload = now
			h.send(Event{Type: EventTimelineReload, Data: map[string]string{"cause": kind}})
		}
	})
}

// ServeHTTP streams events to one client (GET /api/events).
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write(msg)
			flusher.Flush()
		}
	}
}
