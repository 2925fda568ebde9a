package vvjson

import (
	"strconv"
	"strings"
)

// displayKeys is the priority-ordered set of object keys SmartFormat
// projects when collapsing a container to a single display string.
var displayKeys = []string{"name", "title", "label", "id", "slug", "email", "username", "code", "key", "status"}

// Formatted is the result of rendering a Value for tabular display.
type Formatted struct {
	Text      string
	IsComplex bool
}

// SmartFormat renders v for tabular display per spec §4.1.
func SmartFormat(v Value) Formatted {
	switch v.Kind {
	case KindNull:
		return Formatted{Text: "", IsComplex: false}
	case KindBool, KindNumber, KindString:
		return Formatted{Text: primitiveString(v), IsComplex: false}
	case KindArray:
		return formatArray(v.Array)
	case KindObject:
		return formatObject(v.Object)
	default:
		return Formatted{Text: "", IsComplex: false}
	}
}

func primitiveString(v Value) string {
	switch v.Kind {
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindNumber:
		if v.NumberRaw != "" {
			return v.NumberRaw
		}
		return strconv.FormatFloat(v.Number, 'g', -1, 64)
	case KindString:
		return v.Str
	default:
		return ""
	}
}

func firstDisplayKey(obj *OrderedMap) (string, Value, bool) {
	for _, dk := range displayKeys {
		if val, ok := obj.Get(dk); ok {
			return dk, val, true
		}
	}
	return "", Value{}, false
}

func formatArray(elems []Value) Formatted {
	if len(elems) > 0 && elems[0].Kind == KindObject {
		if key, _, ok := firstDisplayKey(elems[0].Object); ok {
			parts := make([]string, 0, len(elems))
			for _, e := range elems {
				if e.Kind != KindObject {
					continue
				}
				if v, ok := e.Object.Get(key); ok {
					parts = append(parts, primitiveOrCompact(v))
				}
			}
			return Formatted{Text: strings.Join(parts, ", "), IsComplex: true}
		}
	}

	parts := make([]string, 0, len(elems))
	for _, e := range elems {
		parts = append(parts, elementString(e))
	}
	return Formatted{Text: strings.Join(parts, ", "), IsComplex: true}
}

func elementString(v Value) string {
	switch v.Kind {
	case KindObject, KindArray:
		b, err := Encode(v)
		if err != nil {
			return ""
		}
		return string(b)
	default:
		return primitiveString(v)
	}
}

func primitiveOrCompact(v Value) string {
	if v.Kind == KindObject || v.Kind == KindArray {
		b, err := Encode(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
	return primitiveString(v)
}

func formatObject(obj *OrderedMap) Formatted {
	if _, val, ok := firstDisplayKey(obj); ok {
		return Formatted{Text: primitiveOrCompact(val), IsComplex: true}
	}
	b, err := Encode(Value{Kind: KindObject, Object: obj})
	if err != nil {
		return Formatted{Text: "", IsComplex: true}
	}
	return Formatted{Text: string(b), IsComplex: true}
}
