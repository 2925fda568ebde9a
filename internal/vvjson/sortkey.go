package vvjson

import (
	"strconv"
	"strings"
	"time"
)

// SortKeyKind tags the SortKey variant.
type SortKeyKind int

const (
	SortNull SortKeyKind = iota
	SortNumber
	SortDate
	SortText
)

// SortKey is the typed projection spec C1 sorts by.
type SortKey struct {
	Kind SortKeyKind
	Num  float64
	// DateMillis is Unix epoch milliseconds for SortDate.
	DateMillis int64
	// Text is the collation key (lowercased) for SortText.
	Text string
	// Original is the un-lowercased source form, used as a stable
	// tie-breaker between otherwise-equal Text keys.
	Original string
}

// dateLayouts are tried in order; the first two are timezone-aware, the
// rest are interpreted as UTC per spec §4.1 step 4.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ToSortKey coerces v into a SortKey per spec §4.1's precedence:
// null/absent -> Null; JSON number -> Number; numeric string -> Number;
// date-like string -> Date; boolean -> Number (false=0, true=1, per the
// Open Question decision recorded in DESIGN.md); anything else -> Text with
// case-insensitive collation; containers -> Text(compact JSON).
func ToSortKey(v Value) SortKey {
	switch v.Kind {
	case KindNull:
		return SortKey{Kind: SortNull}
	case KindNumber:
		return SortKey{Kind: SortNumber, Num: v.Number}
	case KindBool:
		n := 0.0
		if v.Bool {
			n = 1.0
		}
		return SortKey{Kind: SortNumber, Num: n}
	case KindString:
		return sortKeyForString(v.Str)
	case KindArray, KindObject:
		b, err := Encode(v)
		text := ""
		if err == nil {
			text = string(b)
		}
		return SortKey{Kind: SortText, Text: strings.ToLower(text), Original: text}
	default:
		return SortKey{Kind: SortNull}
	}
}

// TextKeyFromDisplay builds a SortText key from v's smart-formatted display
// form, used when C7 re-coerces a heterogeneous column to Text.
func TextKeyFromDisplay(v Value) SortKey {
	display := SmartFormat(v).Text
	return SortKey{Kind: SortText, Text: strings.ToLower(display), Original: display}
}

func sortKeyForString(s string) SortKey {
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return SortKey{Kind: SortNumber, Num: n}
	}
	if ms, ok := parseDateMillis(s); ok {
		return SortKey{Kind: SortDate, DateMillis: ms}
	}
	return SortKey{Kind: SortText, Text: strings.ToLower(s), Original: s}
}

func parseDateMillis(s string) (int64, bool) {
	for _, layout := range dateLayouts {
		var t time.Time
		var err error
		switch layout {
		case time.RFC3339Nano, time.RFC3339:
			t, err = time.Parse(layout, s)
		default:
			// Timezone-less layouts are interpreted as UTC.
			t, err = time.ParseInLocation(layout, s, time.UTC)
		}
		if err == nil {
			return t.UnixMilli(), true
		}
	}
	return 0, false
}
