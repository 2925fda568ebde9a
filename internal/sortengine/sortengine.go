// Package sortengine implements spec C7: pre-extracted, typed sort-key
// vectors sorted stably, with heterogeneous columns re-coerced to Text and
// Null always placed at the tail regardless of direction. Key extraction
// runs on a bounded worker pool, grounded on the same conc.Pool pattern
// internal/search uses (and in turn on
// vvfs/filesystem/concurrent_traverser.go).
package sortengine

import (
	"context"
	"runtime"
	"sort"

	"github.com/sourcegraph/conc/pool"

	"github.com/ZanzyTHEbar/jsonlviewer/internal/engineerr"
	"github.com/ZanzyTHEbar/jsonlviewer/internal/recordio"
	"github.com/ZanzyTHEbar/jsonlviewer/internal/search"
	"github.com/ZanzyTHEbar/jsonlviewer/internal/streamchan"
	"github.com/ZanzyTHEbar/jsonlviewer/internal/vvjson"
)

// FileChunk and ResultChunk are the fixed delivery batch sizes for the two
// entry points.
const (
	FileChunk   = recordio.ParseChunk
	ResultChunk = search.Chunk
)

// Direction is the sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Column identifies the flat path to sort by and the direction.
type Column struct {
	Column    string    `json:"column"`
	Direction Direction `json:"direction"`
}

func (c Column) validate() error {
	if c.Column == "" {
		return engineerr.Argument("sort column must not be empty")
	}
	if c.Direction != Asc && c.Direction != Desc {
		return engineerr.Argument("unknown sort direction %q", c.Direction)
	}
	return nil
}

// recordSinkFunc adapts a plain function to streamchan.Sender[recordio.Record].
type recordSinkFunc func(ctx context.Context, chunk []recordio.Record) error

func (f recordSinkFunc) Send(ctx context.Context, chunk []recordio.Record) error {
	return f(ctx, chunk)
}

// SortFile reads the whole source via recordio, sorts by col, and streams
// the result in FileChunk-sized batches. workers bounds the key-extraction
// pool; a value <= 0 falls back to the concurrent_traverser.go default.
func SortFile(ctx context.Context, path string, col Column, format recordio.Format, workers int, sender streamchan.Sender[recordio.Record]) (int, error) {
	if err := col.validate(); err != nil {
		return 0, err
	}

	var all []recordio.Record
	collector := recordSinkFunc(func(_ context.Context, chunk []recordio.Record) error {
		all = append(all, chunk...)
		return nil
	})
	if _, err := recordio.ParseWithFormat(ctx, path, format, collector); err != nil {
		return 0, err
	}

	order, err := computeOrder(ctx, len(all), func(i int) vvjson.Value {
		return flatValue(all[i].Parsed, col.Column)
	}, col.Direction, workers)
	if err != nil {
		return 0, err
	}

	sorted := make([]recordio.Record, len(all))
	for i, idx := range order {
		sorted[i] = all[idx]
	}
	return streamChunks(ctx, sorted, FileChunk, sender)
}

// SortResults sorts an already-delivered result set by col, parsing each
// result's Context to extract the sort key, and streams the result in
// ResultChunk-sized batches. workers bounds the key-extraction pool; a
// value <= 0 falls back to the concurrent_traverser.go default.
func SortResults(ctx context.Context, results []search.Result, col Column, workers int, sender streamchan.Sender[search.Result]) (int, error) {
	if err := col.validate(); err != nil {
		return 0, err
	}

	parsed := make([]vvjson.Value, len(results))
	for i, r := range results {
		v, err := vvjson.Decode([]byte(r.Context))
		if err != nil {
			parsed[i] = vvjson.Null
			continue
		}
		parsed[i] = v
	}

	order, err := computeOrder(ctx, len(results), func(i int) vvjson.Value {
		return flatValue(parsed[i], col.Column)
	}, col.Direction, workers)
	if err != nil {
		return 0, err
	}

	sorted := make([]search.Result, len(results))
	for i, idx := range order {
		sorted[i] = results[idx]
	}
	return streamChunks(ctx, sorted, ResultChunk, sender)
}

func flatValue(parsed vvjson.Value, column string) vvjson.Value {
	v, ok := vvjson.GetFlat(parsed, column)
	if !ok {
		return vvjson.Null
	}
	return v
}

// computeOrder extracts a SortKey per index via getValue, re-coercing to
// Text if the non-null keys span more than one variant, then returns the
// stable permutation implementing the sort. workers <= 0 falls back to the
// concurrent_traverser.go default.
func computeOrder(ctx context.Context, n int, getValue func(i int) vvjson.Value, direction Direction, workers int) ([]int, error) {
	keys := make([]vvjson.SortKey, n)
	if workers <= 0 {
		workers = min(max(runtime.NumCPU()*2, 4), 32)
	}

	p := pool.New().WithMaxGoroutines(workers).WithContext(ctx)
	for i := 0; i < n; i++ {
		i := i
		p.Go(func(ctx context.Context) error {
			keys[i] = vvjson.ToSortKey(getValue(i))
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	distinct := map[vvjson.SortKeyKind]bool{}
	for _, k := range keys {
		if k.Kind != vvjson.SortNull {
			distinct[k.Kind] = true
		}
	}
	if len(distinct) > 1 {
		for i := range keys {
			if keys[i].Kind != vvjson.SortNull {
				keys[i] = vvjson.TextKeyFromDisplay(getValue(i))
			}
		}
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		a, b := keys[idx[i]], keys[idx[j]]
		if a.Kind == vvjson.SortNull && b.Kind == vvjson.SortNull {
			return false
		}
		if a.Kind == vvjson.SortNull {
			return false
		}
		if b.Kind == vvjson.SortNull {
			return true
		}
		cmp := compareNonNull(a, b)
		if direction == Desc {
			cmp = -cmp
		}
		return cmp < 0
	})
	return idx, nil
}

func compareNonNull(a, b vvjson.SortKey) int {
	switch a.Kind {
	case vvjson.SortNumber:
		return cmpFloat(a.Num, b.Num)
	case vvjson.SortDate:
		return cmpInt64(a.DateMillis, b.DateMillis)
	default:
		if a.Text != b.Text {
			if a.Text < b.Text {
				return -1
			}
			return 1
		}
		if a.Original != b.Original {
			if a.Original < b.Original {
				return -1
			}
			return 1
		}
		return 0
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func streamChunks[T any](ctx context.Context, items []T, chunkSize int, sender streamchan.Sender[T]) (int, error) {
	for i := 0; i < len(items); i += chunkSize {
		select {
		case <-ctx.Done():
			return 0, engineerr.Cancelled()
		default:
		}
		end := i + chunkSize
		if end > len(items) {
			end = len(items)
		}
		if err := sender.Send(ctx, items[i:end]); err != nil {
			return 0, err
		}
	}
	return len(items), nil
}
