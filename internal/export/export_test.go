package export

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/jsonlviewer/internal/recordio"
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

func TestCollectHeaders_alphabeticalUnion(t *testing.T) {
	content := "{\"zeta\":1,\"alpha\":2}\n{\"beta\":3}\n"
	path := writeTemp(t, content)

	headers, err := CollectHeaders(context.Background(), path, recordio.FormatJSONL)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta", "zeta"}, headers)
}

func TestCollectHeaders_nestedPaths(t *testing.T) {
	content := "{\"user\":{\"name\":\"a\",\"id\":1}}\n"
	path := writeTemp(t, content)

	headers, err := CollectHeaders(context.Background(), path, recordio.FormatJSONL)
	require.NoError(t, err)
	assert.Equal(t, []string{"user_id", "user_name"}, headers)
}

func TestExportPreview_flattensRowsInHeaderOrder(t *testing.T) {
	content := "{\"zeta\":1,\"alpha\":2}\n{\"alpha\":3}\n"
	path := writeTemp(t, content)

	headers, rows, err := ExportPreview(context.Background(), path, recordio.FormatJSONL, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta"}, headers)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"2", "1"}, rows[0])
	assert.Equal(t, []string{"3", ""}, rows[1])
}

func TestExportPreview_capsRowsAtPreviewRows(t *testing.T) {
	content := "{\"a\":1}\n{\"a\":2}\n{\"a\":3}\n"
	path := writeTemp(t, content)

	_, rows, err := ExportPreview(context.Background(), path, recordio.FormatJSONL, 2)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestCollectHeaders_samplesOnlyHeaderSample(t *testing.T) {
	var content string
	for i := 0; i < HeaderSample+50; i++ {
		content += "{\"a\":1}\n"
	}
	path := writeTemp(t, content)

	headers, err := CollectHeaders(context.Background(), path, recordio.FormatJSONL)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, headers)
}
