// Package engine is the command-layer facade exposing the five external
// operations (spec §6) over the record-processing subsystems, tagging each
// invocation with a monotonic id and a trace id for logs, in the manner of
// vvfs/db/centraldbprovider.go's facade-over-subsystems shape.
package engine

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/ZanzyTHEbar/jsonlviewer/internal/config"
	"github.com/ZanzyTHEbar/jsonlviewer/internal/engineerr"
	"github.com/ZanzyTHEbar/jsonlviewer/internal/export"
	"github.com/ZanzyTHEbar/jsonlviewer/internal/recordio"
	"github.com/ZanzyTHEbar/jsonlviewer/internal/schema"
	"github.com/ZanzyTHEbar/jsonlviewer/internal/search"
	"github.com/ZanzyTHEbar/jsonlviewer/internal/sortengine"
	"github.com/ZanzyTHEbar/jsonlviewer/internal/streamchan"
)

// Engine is the single-file-open-session-at-a-time command facade.
type Engine struct {
	logger     *slog.Logger
	cfg        *config.Config
	invocation atomic.Uint64
}

// New builds an Engine over the given config and logger.
func New(cfg *config.Config, logger *slog.Logger) *Engine {
	return &Engine{cfg: cfg, logger: logger}
}

// invocationLogger tags every log line from one command invocation with a
// monotonically increasing id (for supersession checks at the consumer)
// and a UUID trace id (for correlating logs across a distributed UI).
func (e *Engine) invocationLogger(command string) (*slog.Logger, uint64) {
	id := e.invocation.Add(1)
	return e.logger.With(
		"command", command,
		"invocation_id", id,
		"trace_id", uuid.NewString(),
	), id
}

func validatePath(path string) error {
	if path == "" {
		return engineerr.Argument("path must not be empty")
	}
	if !filepath.IsAbs(path) {
		return engineerr.Argument("path must be absolute: %q", path)
	}
	return nil
}

// ParseFileStreaming implements spec §6.1: detect format and stream
// records to sender.
func (e *Engine) ParseFileStreaming(ctx context.Context, path string, sender streamchan.Sender[recordio.Record]) (recordio.FileMetadata, error) {
	log, _ := e.invocationLogger("parse_file_streaming")
	log.Info("starting", "path", path)

	if err := validatePath(path); err != nil {
		log.Warn("rejected", "error", err)
		return recordio.FileMetadata{}, err
	}

	meta, err := recordio.Parse(ctx, path, sender)
	if err != nil {
		log.Error("failed", "error", err, "kind", engineerr.Classify(err).String())
		return recordio.FileMetadata{}, err
	}

	log.Info("completed", "total_lines", meta.TotalLines, "format", meta.Format)
	return meta, nil
}

// SearchInFile implements spec §6.2.
func (e *Engine) SearchInFile(ctx context.Context, path string, query search.Query, format recordio.Format, sender streamchan.Sender[search.Result]) (search.Stats, error) {
	log, _ := e.invocationLogger("search_in_file")
	log.Info("starting", "path", path)

	if err := validatePath(path); err != nil {
		log.Warn("rejected", "error", err)
		return search.Stats{}, err
	}

	stats, err := search.Search(ctx, path, query, format, e.cfg.Workers.SearchWorkers, sender)
	if err != nil {
		log.Error("failed", "error", err, "kind", engineerr.Classify(err).String())
		return search.Stats{}, err
	}

	log.Info("completed", "total_matches", stats.TotalMatches, "lines_searched", stats.LinesSearched)
	return stats, nil
}

// SortFileLines implements spec §6.3.
func (e *Engine) SortFileLines(ctx context.Context, path string, col sortengine.Column, format recordio.Format, sender streamchan.Sender[recordio.Record]) (int, error) {
	log, _ := e.invocationLogger("sort_file_lines")
	log.Info("starting", "path", path, "column", col.Column, "direction", col.Direction)

	if err := validatePath(path); err != nil {
		log.Warn("rejected", "error", err)
		return 0, err
	}

	count, err := sortengine.SortFile(ctx, path, col, format, e.cfg.Workers.SortWorkers, sender)
	if err != nil {
		log.Error("failed", "error", err, "kind", engineerr.Classify(err).String())
		return 0, err
	}

	log.Info("completed", "count", count)
	return count, nil
}

// SortSearchResults implements spec §6.4.
func (e *Engine) SortSearchResults(ctx context.Context, results []search.Result, col sortengine.Column, sender streamchan.Sender[search.Result]) (int, error) {
	log, _ := e.invocationLogger("sort_search_results")
	log.Info("starting", "count", len(results), "column", col.Column, "direction", col.Direction)

	count, err := sortengine.SortResults(ctx, results, col, e.cfg.Workers.SortWorkers, sender)
	if err != nil {
		log.Error("failed", "error", err, "kind", engineerr.Classify(err).String())
		return 0, err
	}

	log.Info("completed", "count", count)
	return count, nil
}

// CollectHeaders implements spec §6.5.
func (e *Engine) CollectHeaders(ctx context.Context, path string, format recordio.Format) ([]string, error) {
	log, _ := e.invocationLogger("collect_headers")
	log.Info("starting", "path", path)

	if err := validatePath(path); err != nil {
		log.Warn("rejected", "error", err)
		return nil, err
	}

	headers, err := export.CollectHeaders(ctx, path, format)
	if err != nil {
		log.Error("failed", "error", err, "kind", engineerr.Classify(err).String())
		return nil, err
	}

	log.Info("completed", "headers", len(headers))
	return headers, nil
}

// InferSchema is an additional, UI-facing helper (not one of the five wire
// commands) that samples the first schema.Sample records and returns the
// prioritized column list. The CLI driver does not expose it as a command.
func (e *Engine) InferSchema(ctx context.Context, path string, format recordio.Format) ([]schema.ColumnInfo, error) {
	log, _ := e.invocationLogger("infer_schema")
	log.Info("starting", "path", path)

	if err := validatePath(path); err != nil {
		log.Warn("rejected", "error", err)
		return nil, err
	}

	var sampled []recordio.Record
	collector := collectorFunc(func(_ context.Context, chunk []recordio.Record) error {
		for _, rec := range chunk {
			if len(sampled) >= schema.Sample {
				break
			}
			sampled = append(sampled, rec)
		}
		return nil
	})

	if _, err := recordio.ParseWithFormat(ctx, path, format, collector); err != nil {
		log.Error("failed", "error", err, "kind", engineerr.Classify(err).String())
		return nil, err
	}

	cols := schema.Infer(sampled)
	log.Info("completed", "columns", len(cols))
	return cols, nil
}

type collectorFunc func(ctx context.Context, chunk []recordio.Record) error

func (f collectorFunc) Send(ctx context.Context, chunk []recordio.Record) error {
	return f(ctx, chunk)
}
