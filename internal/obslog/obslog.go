// Package obslog wires a single process-wide structured logger.
//
// Call sites throughout the engine use log/slog directly (the idiom the
// rest of this codebase follows); this package only owns constructing the
// handler zerolog backs, so retargeting output (stderr, file, JSON) is a
// one-line change in main instead of a grep across the tree.
package obslog

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/rs/zerolog"
)

// Options configures the process logger.
type Options struct {
	Level  slog.Level
	Writer io.Writer // defaults to os.Stderr
	JSON   bool      // JSON lines vs. zerolog's console writer
}

// Init builds the process logger from opts and installs it as the
// default slog logger, returning it for callers that want a handle.
func Init(opts Options) *slog.Logger {
	if opts.Writer == nil {
		opts.Writer = os.Stderr
	}

	var w io.Writer = opts.Writer
	if !opts.JSON {
		w = zerolog.ConsoleWriter{Out: opts.Writer, TimeFormat: "15:04:05.000"}
	}

	zl := zerolog.New(w).With().Timestamp().Logger()
	logger := slog.New(newZerologHandler(zl, opts.Level))
	slog.SetDefault(logger)
	return logger
}

// zerologHandler adapts zerolog.Logger to slog.Handler so call sites can
// write idiomatic slog while the wire format stays zerolog's.
type zerologHandler struct {
	logger zerolog.Logger
	level  slog.Level
	attrs  []slog.Attr
}

func newZerologHandler(logger zerolog.Logger, level slog.Level) *zerologHandler {
	return &zerologHandler{logger: logger, level: level}
}

func (h *zerologHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *zerologHandler) Handle(_ context.Context, record slog.Record) error {
	var evt *zerolog.Event
	switch {
	case record.Level >= slog.LevelError:
		evt = h.logger.Error()
	case record.Level >= slog.LevelWarn:
		evt = h.logger.Warn()
	case record.Level >= slog.LevelInfo:
		evt = h.logger.Info()
	default:
		evt = h.logger.Debug()
	}

	for _, a := range h.attrs {
		evt = evt.Interface(a.Key, a.Value.Any())
	}
	record.Attrs(func(a slog.Attr) bool {
		evt = evt.Interface(a.Key, a.Value.Any())
		return true
	})
	evt.Msg(record.Message)
	return nil
}

func (h *zerologHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := &zerologHandler{logger: h.logger, level: h.level}
	next.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return next
}

func (h *zerologHandler) WithGroup(name string) slog.Handler {
	// Groups are flattened; this engine's log lines are shallow enough
	// that nesting would add noise without adding clarity.
	return h
}
