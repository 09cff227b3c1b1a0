package annotations

import (
	"bytes"
	"encoding/json"
)

// Props is a string map that keeps insertion order. Property order in
// an annotation is meaningful to consumers of the JSON output, and a
// plain map would serialize sorted.
type Props struct {
	keys   []string
	values map[string]string
}

// NewProps returns an empty property set.
func NewProps() *Props {
	return &Props{values: map[string]string{}}
}

// Set stores a property, keeping the position of an existing key.
func (p *Props) Set(key, value string) {
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

// Get returns a property value.
func (p *Props) Get(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Len returns the number of properties.
func (p *Props) Len() int {
	return len(p.keys)
}

// Keys returns the property keys in insertion order.
func (p *Props) Keys() []string {
	return append([]string(nil), p.keys...)
}

// MarshalJSON writes the properties as an object in insertion order.
func (p *Props) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, key := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyJSON, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		valueJSON, err := json.Marshal(p.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')
		buf.Write(valueJSON)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}
