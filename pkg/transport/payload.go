package transport

import (
	"bytes"

	json "github.com/goccy/go-json"
)

// Payload is an ordered, string-keyed submission body. Adding a key twice
// collapses its values into a list instead of overwriting.
type Payload struct {
	keys   []string
	values map[string][]string
}

// NewPayload returns an empty payload.
func NewPayload() *Payload {
	return &Payload{values: make(map[string][]string)}
}

// Add appends value under key.
func (p *Payload) Add(key, value string) {
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = append(p.values[key], value)
}

// Set replaces every value stored under key.
func (p *Payload) Set(key, value string) {
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = []string{value}
}

// Keys returns the keys in insertion order.
func (p *Payload) Keys() []string {
	return append([]string(nil), p.keys...)
}

// Values returns every value stored under key.
func (p *Payload) Values(key string) []string {
	return append([]string(nil), p.values[key]...)
}

// Get returns a string for single values, a []string for repeated keys and
// nil when the key is absent.
func (p *Payload) Get(key string) any {
	values, ok := p.values[key]
	if !ok {
		return nil
	}
	if len(values) == 1 {
		return values[0]
	}
	return append([]string(nil), values...)
}

// Len reports the number of keys.
func (p *Payload) Len() int {
	return len(p.keys)
}

// Map flattens the payload into a plain map.
func (p *Payload) Map() map[string]any {
	out := make(map[string]any, len(p.keys))
	for _, key := range p.keys {
		out[key] = p.Get(key)
	}
	return out
}

// MarshalJSON encodes the payload as an object, keys in insertion order.
func (p *Payload) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(p.Get(key))
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
