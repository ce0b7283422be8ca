package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound is wrapped by a FetchError when the backend answers 404.
var ErrNotFound = errors.New("not found")

// FetchError is a failed read: the request could not be sent, the backend answered with a
// non-2xx status, or the body could not be decoded.
type FetchError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ProductionError is a rejected produce or write request. Message is the backend's own
// explanation when it gave one.
type ProductionError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *ProductionError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s rejected (status %d): %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s failed: %s", e.Op, e.Message)
}

func (e *ProductionError) Unwrap() error { return e.Err }

// messageKeys are the fields the backend has used for a human readable error.
var messageKeys = []string{"detail", "message", "mensaje", "error"}

// backendMessage extracts the backend's explanation from a response body. It understands
// {"detail": "..."} style bodies, lists of messages and per-field validation maps such as
// {"nombre_receta": ["This field is required."]}. Returns "" when nothing useful is found.
func backendMessage(body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return ""
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		if msg := textOf(body); msg != "" {
			return msg
		}
		if body[0] != '<' && len(body) < 200 {
			return string(body)
		}
		return ""
	}
	for _, k := range messageKeys {
		if msg := textOf(fields[k]); msg != "" {
			return msg
		}
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var parts []string
	for _, k := range keys {
		if k == "success" {
			continue
		}
		if msg := textOf(fields[k]); msg != "" {
			parts = append(parts, k+": "+msg)
		}
	}
	return strings.Join(parts, "; ")
}

// textOf renders a JSON string or a list of strings.
func textOf(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.TrimSpace(strings.Join(list, "; "))
	}
	return ""
}

// failed reports whether a 2xx body still carries "success": false.
func failed(body []byte) bool {
	var out struct {
		Success *bool `json:"success"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return false
	}
	return out.Success != nil && !*out.Success
}
