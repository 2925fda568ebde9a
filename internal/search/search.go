// Package search implements the three-mode text/JSONPath search over a
// record source (spec C6): substring match on raw content, JSONPath
// evaluation via ojg/jp, or both combined. Each chunk of records read from
// internal/recordio is evaluated with a bounded worker pool, grounded on
// vvfs/filesystem/concurrent_traverser.go's conc.Pool usage, and matches
// are re-batched into Chunk-sized results before being handed to the
// caller's streamchan.Sender.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"
	"strings"

	"github.com/ohler55/ojg/jp"
	"github.com/sourcegraph/conc/pool"

	"github.com/ZanzyTHEbar/jsonlviewer/internal/engineerr"
	"github.com/ZanzyTHEbar/jsonlviewer/internal/recordio"
	"github.com/ZanzyTHEbar/jsonlviewer/internal/streamchan"
	"github.com/ZanzyTHEbar/jsonlviewer/internal/vvjson"
)

// Chunk is the fixed batch size SearchResult chunks are delivered in.
const Chunk = 100

// Query selects a search mode by which of Text/JSONPath are non-empty.
type Query struct {
	Text          string `json:"text,omitempty"`
	JSONPath      string `json:"json_path,omitempty"`
	CaseSensitive bool   `json:"case_sensitive"`
	Regex         bool   `json:"regex"`
}

// Result is one matched record.
type Result struct {
	LineID  int      `json:"line_id"`
	Matches []string `json:"matches"`
	Context string   `json:"context"`
}

// Stats summarizes a completed search.
type Stats struct {
	TotalMatches  int `json:"total_matches"`
	LinesSearched int `json:"lines_searched"`
}

type mode int

const (
	modeNoop mode = iota
	modeText
	modePath
	modeCombined
)

func queryMode(q Query) mode {
	hasText := q.Text != ""
	hasPath := q.JSONPath != ""
	switch {
	case hasText && hasPath:
		return modeCombined
	case hasText:
		return modeText
	case hasPath:
		return modePath
	default:
		return modeNoop
	}
}

// Search streams matches from path (already known to be format) to sender,
// up to Chunk results per delivery, and returns the final Stats. workers
// bounds the per-chunk evaluation pool; a value <= 0 falls back to the
// default chosen by resolveWorkers.
func Search(ctx context.Context, path string, query Query, format recordio.Format, workers int, sender streamchan.Sender[Result]) (Stats, error) {
	m := queryMode(query)

	var expr jp.Expr
	if m == modePath || m == modeCombined {
		compiled, err := jp.ParseString(query.JSONPath)
		if err != nil {
			return Stats{}, engineerr.QueryFrom(err, "invalid json path %q", query.JSONPath)
		}
		expr = compiled
	}

	s := &searchState{
		ctx:     ctx,
		mode:    m,
		query:   query,
		expr:    expr,
		sender:  sender,
		workers: resolveWorkers(workers),
	}

	recordSink := recordSinkFunc(func(ctx context.Context, chunk []recordio.Record) error {
		return s.evaluateChunk(chunk)
	})

	if _, err := recordio.ParseWithFormat(ctx, path, format, recordSink); err != nil {
		return Stats{}, err
	}

	if err := s.flush(); err != nil {
		return Stats{}, err
	}

	return Stats{TotalMatches: s.totalMatches, LinesSearched: s.linesSearched}, nil
}

// resolveWorkers returns configured when it is positive, else a default
// mirroring vvfs/filesystem/concurrent_traverser.go's bound.
func resolveWorkers(configured int) int {
	if configured > 0 {
		return configured
	}
	return min(max(runtime.NumCPU()*2, 4), 32)
}

// recordSinkFunc adapts a plain function to streamchan.Sender[recordio.Record].
type recordSinkFunc func(ctx context.Context, chunk []recordio.Record) error

func (f recordSinkFunc) Send(ctx context.Context, chunk []recordio.Record) error {
	return f(ctx, chunk)
}

type searchState struct {
	ctx     context.Context
	mode    mode
	query   Query
	expr    jp.Expr
	sender  streamchan.Sender[Result]
	workers int

	totalMatches  int
	linesSearched int
	pending       []Result
}

func (s *searchState) evaluateChunk(chunk []recordio.Record) error {
	s.linesSearched += len(chunk)

	if s.mode == modeNoop {
		return nil
	}

	matches := make([][]string, len(chunk))
	p := pool.New().WithMaxGoroutines(s.workers).WithContext(s.ctx)
	for i, rec := range chunk {
		i, rec := i, rec
		p.Go(func(ctx context.Context) error {
			matches[i] = s.evaluateRecord(rec)
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return err
	}

	for i, rec := range chunk {
		if matches[i] == nil {
			continue
		}
		s.totalMatches++
		s.pending = append(s.pending, Result{
			LineID:  rec.ID,
			Matches: matches[i],
			Context: rec.Content,
		})
		if len(s.pending) >= Chunk {
			if err := s.flush(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *searchState) flush() error {
	if len(s.pending) == 0 {
		return nil
	}
	if err := s.sender.Send(s.ctx, s.pending); err != nil {
		return err
	}
	s.pending = nil
	return nil
}

// evaluateRecord returns nil if rec does not match, or the list of
// projections that matched otherwise.
func (s *searchState) evaluateRecord(rec recordio.Record) []string {
	switch s.mode {
	case modeText:
		if textMatch(rec.Content, s.query) {
			return []string{rec.Content}
		}
		return nil
	case modePath:
		hits := s.expr.Get(vvjson.ToInterface(rec.Parsed))
		if len(hits) == 0 {
			return nil
		}
		out := make([]string, 0, len(hits))
		for _, h := range hits {
			out = append(out, stringifyProjection(h))
		}
		return out
	case modeCombined:
		hits := s.expr.Get(vvjson.ToInterface(rec.Parsed))
		if len(hits) == 0 {
			return nil
		}
		var out []string
		for _, h := range hits {
			proj := stringifyProjection(h)
			if textMatch(proj, s.query) {
				out = append(out, proj)
			}
		}
		return out
	default:
		return nil
	}
}

// textMatch ignores q.Regex: the text is always matched as a literal
// substring.
func textMatch(s string, q Query) bool {
	needle := q.Text
	haystack := s
	if !q.CaseSensitive {
		needle = strings.ToLower(needle)
		haystack = strings.ToLower(haystack)
	}
	return strings.Contains(haystack, needle)
}

// stringifyProjection coerces a JSONPath hit to its canonical text: the
// primitive's natural form, or compact JSON for arrays/objects.
func stringifyProjection(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return "false"
	case float64, int, int64:
		return fmt.Sprintf("%v", t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(b)
	}
}
