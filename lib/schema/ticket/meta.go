// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package ticket

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ticketdesk/ticketdesk/lib/codec"
)

// Meta is the free-form metadata object attached to an event. Keys
// keep the order in which the server sent them so that rendered
// detail lists match the server's field order.
//
// Values are one of: string, json.Number, bool, nil, *Meta (nested
// object), or []any (array, whose elements follow the same rules).
//
// Two key conventions are reserved by the server: top-level "before"
// and "after" carry the old and new status codes of a status change,
// and "changed_fields" maps field names to {"before", "after"} pairs.
//
// The zero Meta is empty and ready to use. A nil *Meta behaves as an
// empty object for every read method.
type Meta struct {
	keys   []string
	values map[string]any
}

// NewMeta returns an empty Meta.
func NewMeta() *Meta {
	return &Meta{}
}

// ParseMeta decodes a JSON object into a Meta. A JSON value that is
// not an object (null, array, scalar) produces an empty Meta rather
// than an error, since malformed metadata must never prevent an event
// from being displayed.
func ParseMeta(data []byte) (*Meta, error) {
	meta := NewMeta()
	if err := meta.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return meta, nil
}

// Set stores value under key. A new key is appended after existing
// keys; an existing key keeps its position. Returns m for chaining.
func (m *Meta) Set(key string, value any) *Meta {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
	return m
}

// Get returns the value stored under key.
func (m *Meta) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	value, ok := m.values[key]
	return value, ok
}

// String returns the value under key if it is a string.
func (m *Meta) String(key string) (string, bool) {
	value, _ := m.Get(key)
	text, ok := value.(string)
	return text, ok
}

// Object returns the value under key if it is a nested object.
func (m *Meta) Object(key string) (*Meta, bool) {
	value, _ := m.Get(key)
	object, ok := value.(*Meta)
	return object, ok && object != nil
}

// Has reports whether key is present, including keys whose value is
// null.
func (m *Meta) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Keys returns the keys in server order. The returned slice is a copy.
func (m *Meta) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Len returns the number of keys.
func (m *Meta) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Without returns a shallow copy of m with the named keys removed.
// The receiver is not modified.
func (m *Meta) Without(keys ...string) *Meta {
	result := NewMeta()
	if m == nil {
		return result
	}
	skip := make(map[string]bool, len(keys))
	for _, key := range keys {
		skip[key] = true
	}
	for _, key := range m.keys {
		if skip[key] {
			continue
		}
		result.Set(key, m.values[key])
	}
	return result
}

// MarshalJSON encodes m as a JSON object in key order. A nil Meta
// encodes as null.
func (m *Meta) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	var buffer bytes.Buffer
	buffer.WriteByte('{')
	for index, key := range m.keys {
		if index > 0 {
			buffer.WriteByte(',')
		}
		encodedKey, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buffer.Write(encodedKey)
		buffer.WriteByte(':')
		encodedValue, err := json.Marshal(m.values[key])
		if err != nil {
			return nil, fmt.Errorf("meta key %q: %w", key, err)
		}
		buffer.Write(encodedValue)
	}
	buffer.WriteByte('}')
	return buffer.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, preserving key order. Numbers
// decode as json.Number so that integer IDs survive unchanged. When a
// key repeats, the last value wins and the first position is kept.
func (m *Meta) UnmarshalJSON(data []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	value, err := decodeMetaValue(decoder)
	if err != nil {
		return fmt.Errorf("decoding event meta: %w", err)
	}
	if object, ok := value.(*Meta); ok {
		*m = *object
	} else {
		*m = Meta{}
	}
	return nil
}

// MarshalCBOR stores the JSON form as a CBOR byte string. Meta has no
// exported fields, and the JSON form is the only one that preserves
// key order and number precision across both encodings.
func (m *Meta) MarshalCBOR() ([]byte, error) {
	data, err := m.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return codec.Marshal(data)
}

// UnmarshalCBOR reverses MarshalCBOR.
func (m *Meta) UnmarshalCBOR(data []byte) error {
	var raw []byte
	if err := codec.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding event meta: %w", err)
	}
	if len(raw) == 0 {
		*m = Meta{}
		return nil
	}
	return m.UnmarshalJSON(raw)
}

func decodeMetaValue(decoder *json.Decoder) (any, error) {
	token, err := decoder.Token()
	if err != nil {
		return nil, err
	}
	delimiter, ok := token.(json.Delim)
	if !ok {
		// string, json.Number, bool, or nil
		return token, nil
	}
	switch delimiter {
	case '{':
		object := NewMeta()
		for decoder.More() {
			keyToken, err := decoder.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyToken.(string)
			if !ok {
				return nil, fmt.Errorf("object key is %T, not string", keyToken)
			}
			value, err := decodeMetaValue(decoder)
			if err != nil {
				return nil, err
			}
			object.Set(key, value)
		}
		if _, err := decoder.Token(); err != nil {
			return nil, err
		}
		return object, nil
	case '[':
		array := []any{}
		for decoder.More() {
			value, err := decodeMetaValue(decoder)
			if err != nil {
				return nil, err
			}
			array = append(array, value)
		}
		if _, err := decoder.Token(); err != nil {
			return nil, err
		}
		return array, nil
	}
	return nil, fmt.Errorf("unexpected delimiter %q", delimiter)
}
