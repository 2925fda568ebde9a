package engineerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	assert.Equal(t, KindIO, Classify(IO("failed to open %s", "x.jsonl")))
	assert.Equal(t, KindFormat, Classify(Format("not an array")))
	assert.Equal(t, KindQuery, Classify(Query("bad path %s", "$.[")))
	assert.Equal(t, KindArgument, Classify(Argument("path is empty")))
	assert.Equal(t, KindCancelled, Classify(Cancelled()))
	assert.Equal(t, KindUnknown, Classify(errors.New("plain error")))
}

func TestIsCancelled(t *testing.T) {
	assert.True(t, IsCancelled(Cancelled()))
	assert.False(t, IsCancelled(IO("x")))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "IoError", KindIO.String())
	assert.Equal(t, "FormatError", KindFormat.String())
	assert.Equal(t, "QueryError", KindQuery.String())
	assert.Equal(t, "ArgumentError", KindArgument.String())
	assert.Equal(t, "Cancelled", KindCancelled.String())
}

func TestWrappedChainPreserved(t *testing.T) {
	base := errors.New("permission denied")
	err := IOf(base, "failed to open %s", "x.jsonl")
	assert.ErrorIs(t, err, base)
	assert.Equal(t, KindIO, Classify(err))
}
