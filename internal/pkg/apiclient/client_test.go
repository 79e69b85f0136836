package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Get_Success(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/get-employees", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`[{"id":"EMP-1"}]`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	payload, err := c.Get(context.Background(), "/get-employees", url.Values{"dept": {"ops"}})

	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"EMP-1"}]`, string(payload))
	assert.Equal(t, "ops", gotQuery.Get("dept"))
}

func TestClient_PostAndDelete_SendJSONBody(t *testing.T) {
	type seen struct {
		method string
		body   map[string]interface{}
	}
	var calls []seen
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &body))
		calls = append(calls, seen{method: r.Method, body: body})
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	ctx := context.Background()

	_, err := c.Post(ctx, "/add-violation", map[string]string{"employeeId": "EMP-37226"})
	require.NoError(t, err)
	_, err = c.Delete(ctx, "/delete-violation", map[string]int{"violationId": 7})
	require.NoError(t, err)
	_, err = c.Put(ctx, "/anything", map[string]bool{"x": true})
	require.NoError(t, err)

	require.Len(t, calls, 3)
	assert.Equal(t, http.MethodPost, calls[0].method)
	assert.Equal(t, "EMP-37226", calls[0].body["employeeId"])
	assert.Equal(t, http.MethodDelete, calls[1].method)
	assert.Equal(t, float64(7), calls[1].body["violationId"])
	assert.Equal(t, http.MethodPut, calls[2].method)
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := New(srv.URL, WithTimeout(30*time.Millisecond))
	_, err := c.Get(context.Background(), "/slow", nil)

	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, 30*time.Millisecond, timeoutErr.Timeout)
	assert.Equal(t, "Request timeout after 30ms", err.Error())
	assert.Equal(t, KindTimeout, Kind(err))
}

func TestClient_PerRequestTimeoutOverridesDefault(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := New(srv.URL, WithTimeout(time.Minute))
	_, err := c.Do(context.Background(), Request{Path: "/slow", Timeout: 20 * time.Millisecond})

	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, 20*time.Millisecond, timeoutErr.Timeout)
}

func TestClient_NetworkUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	c := New(addr, WithTimeout(time.Second))
	_, err := c.Get(context.Background(), "/x", nil)

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, "Network error: Unable to reach server", err.Error())
	assert.Equal(t, KindNetwork, Kind(err))
}

func TestClient_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`not json at all`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Get(context.Background(), "/x", nil)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode)
	assert.Equal(t, "HTTP 503: Service Unavailable", err.Error())
}

func TestClient_MalformedResponse(t *testing.T) {
	cases := map[string]string{
		"html":      `<html></html>`,
		"truncated": `{"success": tr`,
		"empty":     ``,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			_, err := New(srv.URL).Get(context.Background(), "/x", nil)

			var malformed *MalformedResponseError
			require.ErrorAs(t, err, &malformed)
			assert.Equal(t, KindMalformed, Kind(err))
		})
	}
}

func TestClient_ParentCancelIsNotTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := New(srv.URL, WithTimeout(time.Minute)).Get(ctx, "/x", nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, KindUnknown, Kind(err))
}

func TestClient_MetricsRecorded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/fail" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	c := New(srv.URL, WithMetrics(m), WithName("yellow-card"))

	_, _ = c.Get(context.Background(), "/ok", nil)
	_, _ = c.Get(context.Background(), "/fail", nil)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.TotalRequests.WithLabelValues("yellow-card", http.MethodGet)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ErrorTotal.WithLabelValues("yellow-card", string(KindHTTP))))
}

func TestUnwrap(t *testing.T) {
	t.Run("raw array passes through", func(t *testing.T) {
		out, err := Unwrap(json.RawMessage(`[1,2]`), "fallback")
		require.NoError(t, err)
		assert.JSONEq(t, `[1,2]`, string(out))
	})

	t.Run("object without success passes through", func(t *testing.T) {
		out, err := Unwrap(json.RawMessage(`{"employees":[]}`), "fallback")
		require.NoError(t, err)
		assert.JSONEq(t, `{"employees":[]}`, string(out))
	})

	t.Run("successful envelope is unwrapped", func(t *testing.T) {
		out, err := Unwrap(json.RawMessage(`{"success":true,"data":{"a":1}}`), "fallback")
		require.NoError(t, err)
		assert.JSONEq(t, `{"a":1}`, string(out))
	})

	t.Run("failed envelope carries upstream message", func(t *testing.T) {
		_, err := Unwrap(json.RawMessage(`{"success":false,"error":"sheet locked"}`), "fallback")
		var upstream *UpstreamError
		require.ErrorAs(t, err, &upstream)
		assert.Equal(t, "sheet locked", upstream.Message)
		assert.Equal(t, KindUpstream, Kind(err))
	})

	t.Run("failed envelope without message uses fallback", func(t *testing.T) {
		_, err := Unwrap(json.RawMessage(`{"success":false}`), "Failed to fetch attendance data")
		assert.EqualError(t, err, "Failed to fetch attendance data")
	})

	t.Run("structured error object", func(t *testing.T) {
		_, err := Unwrap(json.RawMessage(`{"success":false,"error":{"message":"quota"}}`), "fallback")
		assert.EqualError(t, err, "quota")
	})
}
