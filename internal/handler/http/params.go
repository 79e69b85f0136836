package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/anyemp/global-dashboard-go/internal/pkg/fetch"
)

// PollerView is the part of a running poller the handlers read and refresh
type PollerView[T any] interface {
	State() fetch.State[T]
	Refetch(ctx context.Context) fetch.State[T]
}

// getDurationQueryParam reads key as whole milliseconds ("300000") or as a Go
// duration ("5m"). A missing parameter yields defaultVal; negative values are
// rejected.
func getDurationQueryParam(r *http.Request, key string, defaultVal time.Duration) (time.Duration, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal, nil
	}

	var d time.Duration
	if ms, err := strconv.ParseInt(val, 10, 64); err == nil {
		d = time.Duration(ms) * time.Millisecond
	} else if d, err = time.ParseDuration(val); err != nil {
		return 0, fmt.Errorf("%s must be milliseconds or a duration such as 5m", key)
	}

	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return d, nil
}

// getOptionalBoolQueryParam returns nil when key is absent
func getOptionalBoolQueryParam(r *http.Request, key string) (*bool, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return nil, fmt.Errorf("%s must be true or false", key)
	}
	return &b, nil
}
