package sortengine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/jsonlviewer/internal/recordio"
	"github.com/ZanzyTHEbar/jsonlviewer/internal/search"
	"github.com/ZanzyTHEbar/jsonlviewer/internal/streamchan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "data.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func ids(recs []recordio.Record) []int {
	out := make([]int, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}

func TestSortFile_ascendingNumbers(t *testing.T) {
	path := writeTemp(t, "{\"n\":3}\n{\"n\":1}\n{\"n\":2}\n")
	sink := &streamchan.MemorySink[recordio.Record]{}
	count, err := SortFile(context.Background(), path, Column{Column: "n", Direction: Asc}, recordio.FormatJSONL, 0, sink)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	recs := sink.Flatten()
	var vals []float64
	for _, r := range recs {
		n, _ := r.Parsed.Object.Get("n")
		vals = append(vals, n.Number)
	}
	assert.Equal(t, []float64{1, 2, 3}, vals)
}

func TestSortFile_descending(t *testing.T) {
	path := writeTemp(t, "{\"n\":1}\n{\"n\":3}\n{\"n\":2}\n")
	sink := &streamchan.MemorySink[recordio.Record]{}
	_, err := SortFile(context.Background(), path, Column{Column: "n", Direction: Desc}, recordio.FormatJSONL, 0, sink)
	require.NoError(t, err)

	recs := sink.Flatten()
	var vals []float64
	for _, r := range recs {
		n, _ := r.Parsed.Object.Get("n")
		vals = append(vals, n.Number)
	}
	assert.Equal(t, []float64{3, 2, 1}, vals)
}

func TestSortFile_nullsAlwaysLast(t *testing.T) {
	path := writeTemp(t, "{\"n\":1}\n{\"other\":1}\n{\"n\":2}\n")
	sink := &streamchan.MemorySink[recordio.Record]{}
	_, err := SortFile(context.Background(), path, Column{Column: "n", Direction: Desc}, recordio.FormatJSONL, 0, sink)
	require.NoError(t, err)

	recs := sink.Flatten()
	require.Len(t, recs, 3)
	_, hasN := recs[len(recs)-1].Parsed.Object.Get("n")
	assert.False(t, hasN)
}

func TestSortFile_emptyColumnIsArgumentError(t *testing.T) {
	path := writeTemp(t, "{\"n\":1}\n")
	sink := &streamchan.MemorySink[recordio.Record]{}
	_, err := SortFile(context.Background(), path, Column{Column: "", Direction: Asc}, recordio.FormatJSONL, 0, sink)
	require.Error(t, err)
}

func TestSortFile_unknownDirectionIsArgumentError(t *testing.T) {
	path := writeTemp(t, "{\"n\":1}\n")
	sink := &streamchan.MemorySink[recordio.Record]{}
	_, err := SortFile(context.Background(), path, Column{Column: "n", Direction: "sideways"}, recordio.FormatJSONL, 0, sink)
	require.Error(t, err)
}

func TestSortFile_heterogeneousColumnCoercesToText(t *testing.T) {
	path := writeTemp(t, "{\"v\":1}\n{\"v\":\"2024-01-01\"}\n{\"v\":true}\n")
	sink := &streamchan.MemorySink[recordio.Record]{}
	count, err := SortFile(context.Background(), path, Column{Column: "v", Direction: Asc}, recordio.FormatJSONL, 0, sink)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestSortResults_sortsByContextColumn(t *testing.T) {
	results := []search.Result{
		{LineID: 0, Context: `{"n":3}`},
		{LineID: 1, Context: `{"n":1}`},
		{LineID: 2, Context: `{"n":2}`},
	}
	sink := &streamchan.MemorySink[search.Result]{}
	count, err := SortResults(context.Background(), results, Column{Column: "n", Direction: Asc}, 0, sink)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	sorted := sink.Flatten()
	assert.Equal(t, []int{1, 2, 0}, []int{sorted[0].LineID, sorted[1].LineID, sorted[2].LineID})
}

func TestSortFile_textTieBreaksOnOriginalCase(t *testing.T) {
	path := writeTemp(t, "{\"fruit\":\"APPLE\"}\n{\"fruit\":\"apple\"}\n")
	sink := &streamchan.MemorySink[recordio.Record]{}
	_, err := SortFile(context.Background(), path, Column{Column: "fruit", Direction: Asc}, recordio.FormatJSONL, 0, sink)
	require.NoError(t, err)

	recs := sink.Flatten()
	require.Len(t, recs, 2)
	var vals []string
	for _, r := range recs {
		v, _ := r.Parsed.Object.Get("fruit")
		vals = append(vals, v.Str)
	}
	assert.Equal(t, []string{"APPLE", "apple"}, vals)
}

func TestSortFile_stableTieBreak(t *testing.T) {
	path := writeTemp(t, "{\"n\":1,\"tag\":\"a\"}\n{\"n\":1,\"tag\":\"b\"}\n{\"n\":1,\"tag\":\"c\"}\n")
	sink := &streamchan.MemorySink[recordio.Record]{}
	_, err := SortFile(context.Background(), path, Column{Column: "n", Direction: Asc}, recordio.FormatJSONL, 0, sink)
	require.NoError(t, err)

	recs := sink.Flatten()
	var tags []string
	for _, r := range recs {
		tagVal, _ := r.Parsed.Object.Get("tag")
		tags = append(tags, tagVal.Str)
	}
	assert.Equal(t, []string{"a", "b", "c"}, tags)
}
