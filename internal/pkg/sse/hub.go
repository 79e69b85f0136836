package sse

import (
	"sync"

	"github.com/google/uuid"
)

// Event represents an SSE event to be sent to subscribers
type Event struct {
	ID    string      `json:"id"`
	Topic string      `json:"topic"`
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Subscription is one connected client
type Subscription struct {
	ID     string
	Events <-chan Event
}

// Hub manages SSE subscribers and event broadcasting. Subscribers listen on
// one or more topics (a dashboard id, or "theme").
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[string]chan Event
	bufferSize  int
}

// NewHub creates a new SSE Hub instance
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[string]chan Event),
		bufferSize:  10,
	}
}

// Subscribe registers a new subscriber for the given topics and returns the
// subscription and its cleanup function
func (h *Hub) Subscribe(topics ...string) (Subscription, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := uuid.NewString()
	ch := make(chan Event, h.bufferSize)

	for _, topic := range topics {
		if h.subscribers[topic] == nil {
			h.subscribers[topic] = make(map[string]chan Event)
		}
		h.subscribers[topic][id] = ch
	}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			for _, topic := range topics {
				delete(h.subscribers[topic], id)
				if len(h.subscribers[topic]) == 0 {
					delete(h.subscribers, topic)
				}
			}
			close(ch)
		})
	}

	return Subscription{ID: id, Events: ch}, cleanup
}

// Publish sends an event to every subscriber of topic. Slow subscribers whose
// buffer is full miss the event.
func (h *Hub) Publish(topic, event string, data interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	evt := Event{ID: uuid.NewString(), Topic: topic, Event: event, Data: data}
	for _, ch := range h.subscribers[topic] {
		select {
		case ch <- evt:
		default:
			// Skip if channel is full (non-blocking to prevent deadlock)
		}
	}
}

// SubscriberCount returns the number of active subscribers for a topic
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[topic])
}

// TotalSubscribers returns the number of distinct connected subscribers
func (h *Hub) TotalSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, subs := range h.subscribers {
		for id := range subs {
			seen[id] = struct{}{}
		}
	}
	return len(seen)
}
