package vvjson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmartFormat_primitives(t *testing.T) {
	v, err := Decode([]byte(`"hello"`))
	require.NoError(t, err)
	f := SmartFormat(v)
	assert.Equal(t, "hello", f.Text)
	assert.False(t, f.IsComplex)
}

func TestSmartFormat_null(t *testing.T) {
	f := SmartFormat(Null)
	assert.Equal(t, "", f.Text)
	assert.False(t, f.IsComplex)
}

func TestSmartFormat_arrayOfObjectsProjectsDisplayKey(t *testing.T) {
	v, err := Decode([]byte(`[{"name":"Alice","age":30},{"name":"Bob","age":25}]`))
	require.NoError(t, err)
	f := SmartFormat(v)
	assert.Equal(t, "Alice, Bob", f.Text)
	assert.True(t, f.IsComplex)
}

func TestSmartFormat_plainArrayJoined(t *testing.T) {
	v, err := Decode([]byte(`[1,2,3]`))
	require.NoError(t, err)
	f := SmartFormat(v)
	assert.Equal(t, "1, 2, 3", f.Text)
	assert.True(t, f.IsComplex)
}

func TestSmartFormat_objectWithDisplayKey(t *testing.T) {
	v, err := Decode([]byte(`{"id":42,"other":"x"}`))
	require.NoError(t, err)
	f := SmartFormat(v)
	assert.Equal(t, "42", f.Text)
	assert.True(t, f.IsComplex)
}

func TestSmartFormat_objectWithoutDisplayKeyUsesCompactJSON(t *testing.T) {
	v, err := Decode([]byte(`{"foo":1,"bar":2}`))
	require.NoError(t, err)
	f := SmartFormat(v)
	assert.Equal(t, `{"foo":1,"bar":2}`, f.Text)
	assert.True(t, f.IsComplex)
}
