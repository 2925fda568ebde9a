package vvjson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToSortKey_null(t *testing.T) {
	assert.Equal(t, SortNull, ToSortKey(Null).Kind)
}

func TestToSortKey_number(t *testing.T) {
	v, err := Decode([]byte(`42.5`))
	require.NoError(t, err)
	k := ToSortKey(v)
	assert.Equal(t, SortNumber, k.Kind)
	assert.Equal(t, 42.5, k.Num)
}

func TestToSortKey_numericString(t *testing.T) {
	v, err := Decode([]byte(`"42.5"`))
	require.NoError(t, err)
	k := ToSortKey(v)
	assert.Equal(t, SortNumber, k.Kind)
	assert.Equal(t, 42.5, k.Num)
}

func TestToSortKey_bool(t *testing.T) {
	v, err := Decode([]byte(`true`))
	require.NoError(t, err)
	k := ToSortKey(v)
	assert.Equal(t, SortNumber, k.Kind)
	assert.Equal(t, 1.0, k.Num)

	v, err = Decode([]byte(`false`))
	require.NoError(t, err)
	k = ToSortKey(v)
	assert.Equal(t, 0.0, k.Num)
}

func TestToSortKey_dates(t *testing.T) {
	cases := []string{
		`"2024-01-15T10:30:00Z"`,
		`"2024-01-15T10:30:00.123Z"`,
		`"2024-01-15 10:30:00"`,
		`"2024-01-15"`,
	}
	for _, c := range cases {
		v, err := Decode([]byte(c))
		require.NoError(t, err, c)
		k := ToSortKey(v)
		assert.Equal(t, SortDate, k.Kind, c)
	}
}

func TestToSortKey_dateOrderingMatchesSpecScenario(t *testing.T) {
	values := []string{
		"2024-01-15 10:30:00",
		"2024-01-14T09:00:00Z",
		"2024-01-15T10:30:01Z",
	}
	keys := make([]SortKey, len(values))
	for i, s := range values {
		v, err := Decode([]byte(`"` + s + `"`))
		require.NoError(t, err)
		keys[i] = ToSortKey(v)
		require.Equal(t, SortDate, keys[i].Kind)
	}
	// 2024-01-14 < 2024-01-15 10:30:00 < 2024-01-15 10:30:01
	assert.Less(t, keys[1].DateMillis, keys[0].DateMillis)
	assert.Less(t, keys[0].DateMillis, keys[2].DateMillis)
}

func TestToSortKey_text(t *testing.T) {
	v, err := Decode([]byte(`"Hello"`))
	require.NoError(t, err)
	k := ToSortKey(v)
	assert.Equal(t, SortText, k.Kind)
	assert.Equal(t, "hello", k.Text)
	assert.Equal(t, "Hello", k.Original)
}

func TestToSortKey_container(t *testing.T) {
	v, err := Decode([]byte(`{"a":1}`))
	require.NoError(t, err)
	k := ToSortKey(v)
	assert.Equal(t, SortText, k.Kind)
}
