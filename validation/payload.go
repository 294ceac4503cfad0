package validation

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Payload is a decoded JSON body for create or update.
type Payload map[string]any

func (p Payload) Clone() Payload {
	out := make(Payload, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

func (p Payload) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// String returns the value of a string field; absent or non-string yields "".
func (p Payload) String(key string) string {
	s, _ := p[key].(string)
	return s
}

// OptionalString returns the value for nullable free text. An empty string
// or JSON null both map to nil.
func (p Payload) OptionalString(key string) *string {
	s, ok := p[key].(string)
	if !ok || s == "" {
		return nil
	}
	return &s
}

func (p Payload) Float(key string) float64 {
	n, _ := toFloat(p[key])
	return n
}

func (p Payload) OptionalFloat(key string) *float64 {
	n, ok := toFloat(p[key])
	if !ok {
		return nil
	}
	return &n
}

func (p Payload) OptionalInt(key string) *int {
	n, ok := toFloat(p[key])
	if !ok {
		return nil
	}
	i := int(n)
	return &i
}

// StringList returns a list field; absent or null yields an empty list.
func (p Payload) StringList(key string) []string {
	out := []string{}
	list, _ := p[key].([]any)
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func (p Payload) UUID(key string) uuid.UUID {
	id, err := uuid.Parse(p.String(key))
	if err != nil {
		return uuid.Nil
	}
	return id
}

// JSON re-encodes an opaque structured field; null yields nil.
func (p Payload) JSON(key string) json.RawMessage {
	v, ok := p[key]
	if !ok || v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return raw
}
