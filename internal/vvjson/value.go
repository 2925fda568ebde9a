// Package vvjson implements the record-processing pipeline's value model
// (spec.md C1): a tagged JSON value that preserves object key order (so
// schema inference stays deterministic, per spec §9's design note), flat
// underscore-path navigation, tabular "smart" rendering, and typed sort-key
// coercion.
package vvjson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind tags the variant a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a tagged JSON value. Only the field matching Kind is meaningful.
type Value struct {
	Kind   Kind
	Bool   bool
	Number float64
	// NumberRaw preserves the source text of a number (e.g. "1.50") for
	// contexts that need the literal form rather than the float64.
	NumberRaw string
	Str       string
	Array     []Value
	Object    *OrderedMap
}

// Null is the shared null value.
var Null = Value{Kind: KindNull}

// OrderedMap is an insertion-ordered string-keyed map of Value, the
// "Object(ordered map)" variant spec §9 calls for.
type OrderedMap struct {
	keys []string
	vals map[string]Value
}

// NewOrderedMap returns an empty ordered map.
func NewOrderedMap() *OrderedMap {
	return &OrderedMap{vals: make(map[string]Value)}
}

// Set inserts or overwrites key, preserving original position on overwrite.
func (m *OrderedMap) Set(key string, v Value) {
	if _, exists := m.vals[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = v
}

// Get returns the value for key and whether it was present.
func (m *OrderedMap) Get(key string) (Value, bool) {
	v, ok := m.vals[key]
	return v, ok
}

// Keys returns keys in insertion order.
func (m *OrderedMap) Keys() []string {
	return m.keys
}

// Len returns the number of entries.
func (m *OrderedMap) Len() int {
	return len(m.keys)
}

// Decode parses data into a Value, preserving object key order.
func Decode(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	v, err := decodeValue(dec, tok)
	if err != nil {
		return Value{}, err
	}
	return v, nil
}

// decodeValue consumes a single JSON value given its already-read first
// token. Explicit recursion, no reflection: the decoder emits flat tokens
// for composite values ('{', '[' ... matching '}', ']') which this walks
// with an owned return-to-caller discipline instead of exceptions.
func decodeValue(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return Null, nil
	case bool:
		return Value{Kind: KindBool, Bool: t}, nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %q: %w", string(t), err)
		}
		return Value{Kind: KindNumber, Number: f, NumberRaw: string(t)}, nil
	case string:
		return Value{Kind: KindString, Str: t}, nil
	case json.Delim:
		switch t {
		case '[':
			return decodeArray(dec)
		case '{':
			return decodeObject(dec)
		default:
			return Value{}, fmt.Errorf("unexpected delimiter %q", t)
		}
	default:
		return Value{}, fmt.Errorf("unexpected token %T", tok)
	}
}

func decodeArray(dec *json.Decoder) (Value, error) {
	var elems []Value
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}
		v, err := decodeValue(dec, tok)
		if err != nil {
			return Value{}, err
		}
		elems = append(elems, v)
	}
	// Consume the closing ']'.
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return Value{Kind: KindArray, Array: elems}, nil
}

func decodeObject(dec *json.Decoder) (Value, error) {
	obj := NewOrderedMap()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return Value{}, fmt.Errorf("expected object key, got %T", keyTok)
		}
		valTok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}
		v, err := decodeValue(dec, valTok)
		if err != nil {
			return Value{}, err
		}
		obj.Set(key, v)
	}
	// Consume the closing '}'.
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return Value{Kind: KindObject, Object: obj}, nil
}

// Encode renders v as compact JSON, preserving object key order.
func Encode(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeValue(buf *bytes.Buffer, v Value) error {
	switch v.Kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		if v.Bool {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindNumber:
		if v.NumberRaw != "" {
			buf.WriteString(v.NumberRaw)
		} else {
			buf.WriteString(strconv.FormatFloat(v.Number, 'g', -1, 64))
		}
	case KindString:
		b, err := json.Marshal(v.Str)
		if err != nil {
			return err
		}
		buf.Write(b)
	case KindArray:
		buf.WriteByte('[')
		for i, e := range v.Array {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeValue(buf, e); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		for i, k := range v.Object.Keys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			val, _ := v.Object.Get(k)
			if err := encodeValue(buf, val); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("unknown value kind %d", v.Kind)
	}
	return nil
}

// ToInterface converts v into a plain Go interface{} tree (map[string]any,
// []any, float64, string, bool, nil) for consumers that need the stdlib
// shape — notably the JSONPath evaluator in internal/search, which operates
// on ordinary Go values rather than this package's ordered representation.
func ToInterface(v Value) interface{} {
	switch v.Kind {
	case KindNull:
		return nil
	case KindBool:
		return v.Bool
	case KindNumber:
		return v.Number
	case KindString:
		return v.Str
	case KindArray:
		out := make([]interface{}, len(v.Array))
		for i, e := range v.Array {
			out[i] = ToInterface(e)
		}
		return out
	case KindObject:
		out := make(map[string]interface{}, v.Object.Len())
		for _, k := range v.Object.Keys() {
			val, _ := v.Object.Get(k)
			out[k] = ToInterface(val)
		}
		return out
	default:
		return nil
	}
}
