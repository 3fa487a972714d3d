package dataset

import (
	"bytes"
	"encoding/json"
)

// Record is a Flattened Record: an ordered mapping from field name to scalar
// value. Field order is significant because it drives CSV column order.
type Record struct {
	keys   []string
	values map[string]any
}

// NewRecord creates an empty record
func NewRecord() *Record {
	return &Record{values: make(map[string]any)}
}

// Set stores a value, appending the key to the field order if it is new
func (r *Record) Set(key string, value any) {
	if _, exists := r.values[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value for key and whether the key is present
func (r *Record) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Keys returns the field names in insertion order
func (r *Record) Keys() []string {
	return r.keys
}

// Len returns the number of fields
func (r *Record) Len() int {
	return len(r.keys)
}

// MarshalJSON emits the record as a JSON object preserving field order
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		value, err := json.Marshal(r.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
