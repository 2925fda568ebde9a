// Package schema infers a flat, prioritized, bounded column list from a
// sample of records (spec C5): a depth-limited recursive walk building
// underscore-joined flat paths, a patricia tree tracking which paths have
// been seen, and a roaring bitmap per path recording which sampled records
// were "complex" there, so is_sortable falls out as "bitmap is empty".
package schema

import (
	"context"
	"sort"
	"strings"

	roaring "github.com/RoaringBitmap/roaring"
	assert "github.com/ZanzyTHEbar/assert-lib"
	radix "github.com/armon/go-radix"

	"github.com/ZanzyTHEbar/jsonlviewer/internal/recordio"
	"github.com/ZanzyTHEbar/jsonlviewer/internal/vvjson"
)

// Sample, MaxDepth and MaxColumns are fixed at compile time, not tunable.
const (
	Sample     = 50
	MaxDepth   = 2
	MaxColumns = 100
)

// priorityKeys orders schema columns: a column whose first path segment
// appears here sorts ahead of one that doesn't, by index.
var priorityKeys = []string{
	"id", "timestamp", "time", "date", "level", "severity",
	"message", "msg", "name", "type", "status", "user", "meta",
}

// ColumnInfo describes one inferred flat column.
type ColumnInfo struct {
	Path        string `json:"path"`
	IsSortable  bool   `json:"is_sortable"`
	DisplayName string `json:"display_name"`
}

type columnStat struct {
	count   int
	complex *roaring.Bitmap
}

// Infer walks the first Sample records (or fewer, if records is shorter)
// and returns the prioritized, bounded column list.
func Infer(records []recordio.Record) []ColumnInfo {
	if len(records) > Sample {
		records = records[:Sample]
	}

	tree := walkRecords(records)

	var paths []string
	tree.Walk(func(path string, _ interface{}) bool {
		paths = append(paths, path)
		return false
	})

	sort.Slice(paths, func(i, j int) bool {
		return lessColumn(paths[i], paths[j], tree)
	})

	if len(paths) > MaxColumns {
		paths = paths[:MaxColumns]
	}

	return columnsFor(paths, tree)
}

// InferAll walks every given record (no Sample cap, used by internal/export
// which applies its own HeaderSample) and returns columns in alphabetical
// path order with no MaxColumns truncation.
func InferAll(records []recordio.Record) []ColumnInfo {
	tree := walkRecords(records)

	var paths []string
	tree.Walk(func(path string, _ interface{}) bool {
		paths = append(paths, path)
		return false
	})
	sort.Strings(paths)

	return columnsFor(paths, tree)
}

func walkRecords(records []recordio.Record) *radix.Tree {
	assertHandler := assert.NewAssertHandler()

	tree := radix.New()
	record := func(path string, v vvjson.Value, idx int) {
		raw, ok := tree.Get(path)
		var stat *columnStat
		if ok {
			stat = raw.(*columnStat)
		} else {
			stat = &columnStat{complex: roaring.New()}
			tree.Insert(path, stat)
		}
		stat.count++
		if vvjson.SmartFormat(v).IsComplex {
			stat.complex.Add(uint32(idx))
		}
	}

	for i, rec := range records {
		if rec.Parsed.Kind != vvjson.KindObject {
			continue
		}
		walkObject(rec.Parsed.Object, "", 1, i, record)
	}

	assertHandler.Assert(context.Background(), tree.Len() >= 0, "path tree size must be non-negative")
	return tree
}

func columnsFor(paths []string, tree *radix.Tree) []ColumnInfo {
	cols := make([]ColumnInfo, 0, len(paths))
	for _, path := range paths {
		raw, _ := tree.Get(path)
		stat := raw.(*columnStat)
		cols = append(cols, ColumnInfo{
			Path:        path,
			IsSortable:  stat.complex.IsEmpty(),
			DisplayName: displayName(path),
		})
	}
	return cols
}

// walkObject implements the depth-limited recursive walk: an object value
// encountered before MaxDepth is descended into; anything else (scalar,
// array, null, or an object at the depth ceiling) is recorded as an
// occurrence of the current flat path. Arrays are never descended.
func walkObject(obj *vvjson.OrderedMap, prefix string, depth int, recordIdx int, record func(path string, v vvjson.Value, idx int)) {
	for _, key := range obj.Keys() {
		v, _ := obj.Get(key)
		path := joinPath(prefix, key)
		if v.Kind == vvjson.KindObject && depth < MaxDepth {
			walkObject(v.Object, path, depth+1, recordIdx, record)
			continue
		}
		record(path, v, recordIdx)
	}
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "_" + key
}

// displayName strips the first underscore-delimited segment when the path
// has at least two segments.
func displayName(path string) string {
	idx := strings.Index(path, "_")
	if idx == -1 {
		return path
	}
	return path[idx+1:]
}

func priorityIndex(path string) int {
	base := path
	if idx := strings.Index(path, "_"); idx != -1 {
		base = path[:idx]
	}
	for i, k := range priorityKeys {
		if k == base {
			return i
		}
	}
	return -1
}

// lessColumn implements spec C5 step 4's ordering rule.
func lessColumn(a, b string, tree *radix.Tree) bool {
	ai, bi := priorityIndex(a), priorityIndex(b)
	switch {
	case ai >= 0 && bi >= 0:
		if ai != bi {
			return ai < bi
		}
		return a < b
	case ai >= 0:
		return true
	case bi >= 0:
		return false
	}

	araw, _ := tree.Get(a)
	braw, _ := tree.Get(b)
	ac := araw.(*columnStat).count
	bc := braw.(*columnStat).count
	if ac != bc {
		return ac > bc
	}
	return a < b
}
