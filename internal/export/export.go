// Package export implements the header collector (spec C8): the union of
// all flat paths (same depth-limited walk as internal/schema) over the
// first HeaderSample records, sorted alphabetically.
package export

import (
	"context"
	"sort"

	"github.com/ZanzyTHEbar/jsonlviewer/internal/recordio"
	"github.com/ZanzyTHEbar/jsonlviewer/internal/schema"
	"github.com/ZanzyTHEbar/jsonlviewer/internal/vvjson"
)

// HeaderSample bounds how many leading records are inspected.
const HeaderSample = 1000

// recordSinkFunc adapts a plain function to streamchan.Sender[recordio.Record].
type recordSinkFunc func(ctx context.Context, chunk []recordio.Record) error

func (f recordSinkFunc) Send(ctx context.Context, chunk []recordio.Record) error {
	return f(ctx, chunk)
}

// CollectHeaders reads path, samples up to HeaderSample records, and
// returns the alphabetically sorted union of their flat paths.
func CollectHeaders(ctx context.Context, path string, format recordio.Format) ([]string, error) {
	var sampled []recordio.Record
	collector := recordSinkFunc(func(_ context.Context, chunk []recordio.Record) error {
		for _, rec := range chunk {
			if len(sampled) >= HeaderSample {
				break
			}
			sampled = append(sampled, rec)
		}
		return nil
	})

	if _, err := recordio.ParseWithFormat(ctx, path, format, collector); err != nil {
		return nil, err
	}

	return headerUnion(sampled), nil
}

// ExportPreview returns the header union alongside a flattened tabular
// preview of up to previewRows sampled records: one row per record, one
// cell per header, in header order, each cell smart-formatted. This stays
// inside the declared export boundary (no CSV/XLSX emission) while giving
// the header collector a concrete, testable consumer.
func ExportPreview(ctx context.Context, path string, format recordio.Format, previewRows int) ([]string, [][]string, error) {
	var sampled []recordio.Record
	collector := recordSinkFunc(func(_ context.Context, chunk []recordio.Record) error {
		for _, rec := range chunk {
			if len(sampled) >= HeaderSample {
				break
			}
			sampled = append(sampled, rec)
		}
		return nil
	})

	if _, err := recordio.ParseWithFormat(ctx, path, format, collector); err != nil {
		return nil, nil, err
	}

	headers := headerUnion(sampled)

	rowCount := previewRows
	if rowCount > len(sampled) {
		rowCount = len(sampled)
	}

	rows := make([][]string, 0, rowCount)
	for i := 0; i < rowCount; i++ {
		row := make([]string, len(headers))
		for j, h := range headers {
			v, ok := vvjson.GetFlat(sampled[i].Parsed, h)
			if !ok {
				row[j] = ""
				continue
			}
			row[j] = vvjson.SmartFormat(v).Text
		}
		rows = append(rows, row)
	}

	return headers, rows, nil
}

// headerUnion reuses internal/schema's depth-limited walk to collect every
// distinct path touched by sampled, without the priority-ordering or
// column-count truncation C5 applies (C8 wants the full alphabetical
// union, bounded only by sample size).
func headerUnion(sampled []recordio.Record) []string {
	cols := schema.InferAll(sampled)
	paths := make([]string, 0, len(cols))
	for _, c := range cols {
		paths = append(paths, c.Path)
	}
	sort.Strings(paths)
	return paths
}
