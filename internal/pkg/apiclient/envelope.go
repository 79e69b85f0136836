package apiclient

import (
	"bytes"
	"encoding/json"
)

// Envelope is the {success, data, error} wrapper some upstreams put around payloads
type Envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
}

// Unwrap strips an envelope from raw when there is one. Payloads that are not
// JSON objects, or objects without a "success" field, are returned untouched.
// A false "success" becomes an *UpstreamError carrying the upstream message,
// or fallback when the upstream gave none.
func Unwrap(raw json.RawMessage, fallback string) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return raw, nil
	}

	var env Envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, &MalformedResponseError{Err: err}
	}
	if env.Success == nil {
		return raw, nil
	}

	if !*env.Success {
		return nil, &UpstreamError{Message: env.FailureMessage(fallback)}
	}

	return env.Data, nil
}

// FailureMessage picks the upstream's error text, then its message, then fallback
func (e Envelope) FailureMessage(fallback string) string {
	if msg := errorText(e.Error); msg != "" {
		return msg
	}
	if e.Message != "" {
		return e.Message
	}
	return fallback
}

// errorText accepts both "error": "text" and structured error objects
func errorText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Message != "" {
		return obj.Message
	}
	return string(raw)
}
