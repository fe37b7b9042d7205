// Package realtime pushes completed analyses to dashboard clients over
// Server-Sent Events.
package realtime

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
)

// Broker fans published events out to every connected SSE client.
// Slow clients are skipped rather than blocking the publisher.
type Broker struct {
	clients     map[chan []byte]bool
	subscribe   chan chan []byte
	unsubscribe chan chan []byte
	events      chan []byte
	mu          sync.RWMutex
}

// NewBroker creates an SSE broker. Run must be started for events to
// flow.
func NewBroker() *Broker {
	return &Broker{
		clients:     make(map[chan []byte]bool),
		subscribe:   make(chan chan []byte),
		unsubscribe: make(chan chan []byte),
		events:      make(chan []byte, 256),
	}
}

// Run starts the broker loop
func (b *Broker) Run() {
	for {
		select {
		case client := <-b.subscribe:
			b.mu.Lock()
			b.clients[client] = true
			b.mu.Unlock()
			log.Printf("SSE client connected. Total: %d", len(b.clients))

		case client := <-b.unsubscribe:
			b.mu.Lock()
			if _, ok := b.clients[client]; ok {
				delete(b.clients, client)
				close(client)
				log.Printf("SSE client disconnected. Total: %d", len(b.clients))
			}
			b.mu.Unlock()

		case msg := <-b.events:
			b.mu.RLock()
			for client := range b.clients {
				select {
				case client <- msg:
				default:
					// Skip clients with a full buffer
				}
			}
			b.mu.RUnlock()
		}
	}
}

// Publish queues an event for delivery to all connected clients.
func (b *Broker) Publish(event string, v interface{}) {
	data := map[string]interface{}{
		"event":   event,
		"payload": v,
	}

	jsonBytes, err := json.Marshal(data)
	if err != nil {
		log.Printf("Error marshalling event %s: %v", event, err)
		return
	}

	select {
	case b.events <- jsonBytes:
	default:
		// Drop if event buffer full
	}
}

// ServeHTTP handles the SSE endpoint
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	clientChan := make(chan []byte, 10)
	b.subscribe <- clientChan

	notify := r.Context().Done()

	for {
		select {
		case <-notify:
			b.unsubscribe <- clientChan
			return
		case msg, open := <-clientChan:
			if !open {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
