package http

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readEvent reads one SSE frame and returns its event name and data line
func readEvent(t *testing.T, r *bufio.Reader) (string, string) {
	t.Helper()
	var event, data string
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		switch {
		case line == "":
			return event, data
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		}
	}
}

func TestEventsHandler_StreamsThemeChanges(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/events?topics=theme", nil)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, "text/event-stream", res.Header.Get("Content-Type"))
	reader := bufio.NewReader(res.Body)

	event, data := readEvent(t, reader)
	require.Equal(t, "connected", event)
	assert.Contains(t, data, `"topics":["theme"]`)
	assert.Equal(t, 1, env.hub.SubscriberCount("theme"))

	// unsubscribed topics are not delivered
	env.hub.Publish("yellow-card", "state", map[string]string{"ignored": "yes"})
	_, err = env.store.ToggleTheme(context.Background())
	require.NoError(t, err)

	event, data = readEvent(t, reader)
	assert.Equal(t, "theme", event)
	assert.JSONEq(t, `{"theme": "dark", "appliedTheme": "dark"}`, data)
}

func TestEventsHandler_UnknownTopic(t *testing.T) {
	env := newTestEnv(t)

	w, resp := env.do(t, http.MethodGet, "/api/v1/events?topics=theme,payroll", "", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "unknown topic: payroll", errorMessage(t, resp))
}
