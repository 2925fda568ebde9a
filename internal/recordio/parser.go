package recordio

import (
	"bufio"
	"context"
	"io"
	"os"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/jsonlviewer/internal/engineerr"
	"github.com/ZanzyTHEbar/jsonlviewer/internal/streamchan"
	"github.com/ZanzyTHEbar/jsonlviewer/internal/vvjson"
)

// ParseChunk is the fixed batch size chunks are delivered in (spec C3).
// Not user-tunable: the spec fixes this at compile time.
const ParseChunk = 2000

// Parse reads path, detects its format, and streams Records to sender in
// batches of ParseChunk, honoring ctx cancellation between batches. It
// returns the resulting FileMetadata once the whole source has been
// consumed.
//
// JSONL sources are read line by line: blank/whitespace-only lines are
// skipped without advancing id, and lines that fail to parse as JSON are
// silently dropped and never reach total_lines; the number of dropped
// lines is not counted or returned. JSON-Array sources are parsed as one document; a
// non-array top level is a FormatError.
func Parse(ctx context.Context, path string, sender streamchan.Sender[Record]) (FileMetadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return FileMetadata{}, engineerr.IOf(err, "open %s", path)
	}
	defer f.Close()

	reader := bufio.NewReader(f)
	format, err := DetectFormat(path, reader)
	if err != nil {
		return FileMetadata{}, engineerr.IOf(err, "detect format of %s", path)
	}

	return parseOpened(ctx, path, f, reader, format, sender)
}

// ParseWithFormat re-reads path using a format already established by a
// prior DetectFormat/Parse call (search and sort take file_format as an
// argument rather than re-detecting it).
func ParseWithFormat(ctx context.Context, path string, format Format, sender streamchan.Sender[Record]) (FileMetadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return FileMetadata{}, engineerr.IOf(err, "open %s", path)
	}
	defer f.Close()

	return parseOpened(ctx, path, f, bufio.NewReader(f), format, sender)
}

func parseOpened(ctx context.Context, path string, f *os.File, reader *bufio.Reader, format Format, sender streamchan.Sender[Record]) (FileMetadata, error) {
	info, err := f.Stat()
	if err != nil {
		return FileMetadata{}, engineerr.IOf(err, "stat %s", path)
	}

	var total int
	switch format {
	case FormatJSONArray:
		total, err = parseJSONArray(ctx, reader, sender)
	default:
		total, err = parseJSONL(ctx, reader, sender)
	}
	if err != nil {
		return FileMetadata{}, err
	}

	return FileMetadata{
		Path:       path,
		TotalLines: total,
		FileSize:   info.Size(),
		Format:     format,
	}, nil
}

// parseJSONL implements the line-oriented path of spec C3.
func parseJSONL(ctx context.Context, r *bufio.Reader, sender streamchan.Sender[Record]) (int, error) {
	assertHandler := assert.NewAssertHandler()

	var (
		id         int
		byteOffset int64
		sawContent bool
		batch      = make([]Record, 0, ParseChunk)
	)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := sender.Send(ctx, batch); err != nil {
			return err
		}
		batch = make([]Record, 0, ParseChunk)
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return 0, engineerr.Cancelled()
		default:
		}

		line, readErr := r.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return 0, engineerr.IOf(readErr, "read line")
		}

		lineLen := int64(len(line))
		trimmed := trimEOL(line)
		atEOF := readErr == io.EOF

		if isBlank(trimmed) {
			byteOffset += lineLen
			if atEOF {
				break
			}
			continue
		}

		sawContent = true
		offsetBeforeLine := byteOffset
		byteOffset += lineLen

		v, decodeErr := vvjson.Decode([]byte(trimmed))
		if decodeErr != nil {
			// Malformed lines are dropped silently per spec; they never
			// reach total_lines or the id sequence.
			if atEOF {
				break
			}
			continue
		}

		assertHandler.Assert(ctx, id >= 0, "record id must be non-negative")
		batch = append(batch, NewRecord(id, trimmed, v, offsetBeforeLine))
		id++

		if len(batch) >= ParseChunk {
			if err := flush(); err != nil {
				return 0, err
			}
		}

		if atEOF {
			break
		}
	}

	if err := flush(); err != nil {
		return 0, err
	}

	if id == 0 && sawContent {
		return 0, engineerr.Format("no valid JSON records found in file declared as JsonL")
	}
	return id, nil
}

// trimEOL strips a trailing \n and, if present, the \r before it.
func trimEOL(line string) string {
	n := len(line)
	if n > 0 && line[n-1] == '\n' {
		n--
	}
	if n > 0 && line[n-1] == '\r' {
		n--
	}
	return line[:n]
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\r' {
			return false
		}
	}
	return true
}

// parseJSONArray implements the whole-document path of spec C3.
func parseJSONArray(ctx context.Context, r io.Reader, sender streamchan.Sender[Record]) (int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, engineerr.IOf(err, "read json array source")
	}

	v, err := vvjson.Decode(data)
	if err != nil {
		return 0, engineerr.Format("invalid JSON document: %v", err)
	}
	if v.Kind != vvjson.KindArray {
		return 0, engineerr.Format("expected top-level JSON array, got %s", v.Kind)
	}

	batch := make([]Record, 0, ParseChunk)
	for i, elem := range v.Array {
		select {
		case <-ctx.Done():
			return 0, engineerr.Cancelled()
		default:
		}

		content, encErr := vvjson.Encode(elem)
		if encErr != nil {
			return 0, engineerr.FormatFrom(encErr, "re-encode array element %d", i)
		}

		batch = append(batch, NewRecord(i, string(content), elem, 0))
		if len(batch) >= ParseChunk {
			if err := sender.Send(ctx, batch); err != nil {
				return 0, err
			}
			batch = make([]Record, 0, ParseChunk)
		}
	}

	if len(batch) > 0 {
		if err := sender.Send(ctx, batch); err != nil {
			return 0, err
		}
	}

	return len(v.Array), nil
}
