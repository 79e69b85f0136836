package apiclient

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind classifies a failed call for logging, metrics and HTTP mapping
type ErrorKind string

const (
	KindTimeout   ErrorKind = "timeout"
	KindNetwork   ErrorKind = "network"
	KindHTTP      ErrorKind = "http"
	KindMalformed ErrorKind = "malformed"
	KindUpstream  ErrorKind = "upstream"
	KindUnknown   ErrorKind = "unknown"
)

// TimeoutError is returned when a request exceeds its time budget
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("Request timeout after %dms", e.Timeout.Milliseconds())
}

// NetworkError is returned when the upstream cannot be reached at all
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "Network error: Unable to reach server"
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError represents a non-2xx response. The body is never parsed.
type HTTPError struct {
	StatusCode int
	StatusText string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.StatusText)
}

// MalformedResponseError is returned when a 2xx body is not valid JSON
type MalformedResponseError struct {
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// UpstreamError carries the message of an upstream that reported failure in its envelope
type UpstreamError struct {
	Message string
}

func (e *UpstreamError) Error() string {
	return e.Message
}

// Kind classifies err into one of the ErrorKind values
func Kind(err error) ErrorKind {
	var (
		timeoutErr   *TimeoutError
		networkErr   *NetworkError
		httpErr      *HTTPError
		malformedErr *MalformedResponseError
		upstreamErr  *UpstreamError
	)

	switch {
	case err == nil:
		return ""
	case errors.As(err, &timeoutErr):
		return KindTimeout
	case errors.As(err, &networkErr):
		return KindNetwork
	case errors.As(err, &httpErr):
		return KindHTTP
	case errors.As(err, &malformedErr):
		return KindMalformed
	case errors.As(err, &upstreamErr):
		return KindUpstream
	default:
		return KindUnknown
	}
}
