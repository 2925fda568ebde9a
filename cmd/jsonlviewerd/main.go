// Command jsonlviewerd is the line-delimited JSON driver for the engine's
// five command endpoints, standing in for the Tauri IPC boundary the
// engine was designed against. One JSON request per stdin line; each
// streaming command emits zero or more "chunk" frames to stdout followed
// by one terminal "result" or "error" frame, in the subcommand-dispatch
// shape of devscope/cmd/devscope/main.go.
package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ZanzyTHEbar/jsonlviewer/internal/config"
	"github.com/ZanzyTHEbar/jsonlviewer/internal/engine"
	"github.com/ZanzyTHEbar/jsonlviewer/internal/engineerr"
	"github.com/ZanzyTHEbar/jsonlviewer/internal/obslog"
	"github.com/ZanzyTHEbar/jsonlviewer/internal/recordio"
	"github.com/ZanzyTHEbar/jsonlviewer/internal/search"
	"github.com/ZanzyTHEbar/jsonlviewer/internal/sortengine"
	"github.com/ZanzyTHEbar/jsonlviewer/internal/streamchan"
)

// chunkBufferDepth is the number of pending chunks a streaming command may
// produce before the IPC writer goroutine falls behind.
const chunkBufferDepth = 4

// request is one line of stdin input.
type request struct {
	Command    string            `json:"command"`
	Path       string            `json:"path,omitempty"`
	Query      search.Query      `json:"query,omitempty"`
	FileFormat recordio.Format   `json:"file_format,omitempty"`
	SortColumn sortengine.Column `json:"sort_column,omitempty"`
	Results    []search.Result   `json:"results,omitempty"`
}

// frame is one line of stdout output: either a streamed chunk, the
// terminal result, or an error.
type frame struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
	Kind  string      `json:"error_kind,omitempty"`
}

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	level, err := parseLevel(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse log level: %v\n", err)
		os.Exit(1)
	}
	logger := obslog.Init(obslog.Options{Level: level, Writer: os.Stderr, JSON: cfg.Log.JSON})

	e := engine.New(cfg, logger)
	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		dispatch(context.Background(), e, line, out)
		out.Flush()
	}
}

func dispatch(ctx context.Context, e *engine.Engine, line []byte, out io.Writer) {
	enc := json.NewEncoder(out)

	var req request
	if err := json.Unmarshal(line, &req); err != nil {
		enc.Encode(frame{Type: "error", Error: err.Error(), Kind: engineerr.KindArgument.String()})
		return
	}

	switch req.Command {
	case "parse_file_streaming":
		streamCommand(ctx, enc, func(sender streamchan.Sender[recordio.Record]) (recordio.FileMetadata, error) {
			return e.ParseFileStreaming(ctx, req.Path, sender)
		})

	case "search_in_file":
		streamCommand(ctx, enc, func(sender streamchan.Sender[search.Result]) (search.Stats, error) {
			return e.SearchInFile(ctx, req.Path, req.Query, req.FileFormat, sender)
		})

	case "sort_file_lines":
		streamCommand(ctx, enc, func(sender streamchan.Sender[recordio.Record]) (int, error) {
			return e.SortFileLines(ctx, req.Path, req.SortColumn, req.FileFormat, sender)
		})

	case "sort_search_results":
		streamCommand(ctx, enc, func(sender streamchan.Sender[search.Result]) (int, error) {
			return e.SortSearchResults(ctx, req.Results, req.SortColumn, sender)
		})

	case "collect_headers":
		headers, err := e.CollectHeaders(ctx, req.Path, req.FileFormat)
		writeResult(enc, headers, err)

	default:
		enc.Encode(frame{Type: "error", Error: fmt.Sprintf("unknown command %q", req.Command), Kind: engineerr.KindArgument.String()})
	}
}

// streamCommand bridges a command that streams chunks of T through a
// streamchan.Channel to the IPC writer: produce runs in its own goroutine,
// feeding the channel, while the caller's goroutine drains it into "chunk"
// frames and emits the terminal "result"/"error" frame once produce returns.
func streamCommand[T any, R any](ctx context.Context, enc *json.Encoder, produce func(sender streamchan.Sender[T]) (R, error)) {
	ch := streamchan.NewChannel[T](chunkBufferDepth)

	type outcome struct {
		result R
		err    error
	}
	done := make(chan outcome, 1)

	go func() {
		defer ch.Close()
		res, err := produce(ch)
		done <- outcome{result: res, err: err}
	}()

	for chunk := range ch.C() {
		enc.Encode(frame{Type: "chunk", Data: chunk})
	}

	out := <-done
	writeResult(enc, out.result, out.err)
}

func writeResult(enc *json.Encoder, data interface{}, err error) {
	if err != nil {
		enc.Encode(frame{Type: "error", Error: err.Error(), Kind: engineerr.Classify(err).String()})
		return
	}
	enc.Encode(frame{Type: "result", Data: data})
}

func parseLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}
