package vvjson

import "strings"

// GetFlat navigates v by splitting path on "_" and walking object keys at
// each step (spec C1). Resolution fails (ok=false) if any intermediate
// value is not an object or the key is missing.
//
// Path ambiguity is NOT disambiguated: a literal key "a_b" on an object
// that also has nested {"a": {"b": ...}} is never tried as a shallower
// single-segment lookup — the nested interpretation, implied by splitting
// on every underscore, always wins. This mirrors spec §4.1 and is
// documented rather than fixed, per spec §9's explicit instruction.
func GetFlat(v Value, path string) (Value, bool) {
	if path == "" {
		return Value{}, false
	}
	segments := strings.Split(path, "_")
	current := v
	for _, seg := range segments {
		if current.Kind != KindObject {
			return Value{}, false
		}
		next, ok := current.Object.Get(seg)
		if !ok {
			return Value{}, false
		}
		current = next
	}
	return current, true
}
