package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// rawFields is a loosely decoded backend object. The backend has renamed fields over time and
// sends numbers as strings in places, so every lookup takes a list of candidate keys in
// preference order.
type rawFields map[string]json.RawMessage

// str returns the first candidate that holds a JSON string.
func (f rawFields) str(keys ...string) string {
	for _, k := range keys {
		raw, ok := f[k]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// num returns the first candidate that holds a number or a numeric string.
func (f rawFields) num(keys ...string) (decimal.Decimal, bool) {
	for _, k := range keys {
		raw, ok := f[k]
		if !ok {
			continue
		}
		if d, ok := decimalFromRaw(raw); ok {
			return d, true
		}
	}
	return decimal.Zero, false
}

// id returns the first candidate holding an identifier: a number, a numeric string or an
// object with an "id" field. Zero means no identifier.
func (f rawFields) id(keys ...string) int {
	for _, k := range keys {
		raw, ok := f[k]
		if !ok {
			continue
		}
		if id := idFromRaw(raw); id != 0 {
			return id
		}
	}
	return 0
}

func (f rawFields) has(key string) bool {
	raw, ok := f[key]
	return ok && !bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func decimalFromRaw(raw json.RawMessage) (decimal.Decimal, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Zero, false
	}
	s := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Zero, false
		}
	}
	d, err := ParseQuantity(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func idFromRaw(raw json.RawMessage) int {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}
	switch raw[0] {
	case '{':
		var obj rawFields
		if err := json.Unmarshal(raw, &obj); err != nil {
			return 0
		}
		return obj.id("id")
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil || n < 0 {
			return 0
		}
		return n
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return 0
		}
		i, err := n.Int64()
		if err != nil || i < 0 {
			return 0
		}
		return int(i)
	}
}

// decodeList accepts either a bare JSON array or a paginated {"results": [...]} envelope.
func decodeList(body []byte) ([]json.RawMessage, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, nil
	}
	var items []json.RawMessage
	if body[0] == '[' {
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, fmt.Errorf("decode list: %w", err)
		}
		return items, nil
	}
	var envelope struct {
		Results []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	return envelope.Results, nil
}
