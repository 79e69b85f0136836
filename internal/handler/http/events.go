package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/anyemp/global-dashboard-go/internal/handler/http/response"
	"github.com/anyemp/global-dashboard-go/internal/pkg/sse"
)

// EventsHandler streams poller and theme changes as server-sent events
type EventsHandler interface {
	Stream(w http.ResponseWriter, r *http.Request)
}

type eventsHandlerImpl struct {
	hub       *sse.Hub
	topics    []string
	keepalive time.Duration
}

// NewEventsHandler serves the given topics. Clients may narrow them with
// ?topics=a,b.
func NewEventsHandler(hub *sse.Hub, topics []string) EventsHandler {
	return &eventsHandlerImpl{
		hub:       hub,
		topics:    topics,
		keepalive: 30 * time.Second,
	}
}

func (h *eventsHandlerImpl) requestedTopics(r *http.Request) ([]string, error) {
	raw := r.URL.Query().Get("topics")
	if raw == "" {
		return h.topics, nil
	}

	var topics []string
	for _, t := range strings.Split(raw, ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if !slices.Contains(h.topics, t) {
			return nil, fmt.Errorf("unknown topic: %s", t)
		}
		topics = append(topics, t)
	}
	if len(topics) == 0 {
		return h.topics, nil
	}
	return topics, nil
}

// Stream handles an SSE connection until the client goes away
func (h *eventsHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	topics, err := h.requestedTopics(r)
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	// Check if streaming is supported
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	sub, cleanup := h.hub.Subscribe(topics...)
	defer cleanup()

	connected, _ := json.Marshal(map[string]interface{}{
		"status":        "connected",
		"subscriber_id": sub.ID,
		"topics":        topics,
	})
	fmt.Fprintf(w, "event: connected\ndata: %s\n\n", connected)
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-sub.Events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", event.ID, event.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
