// Package recordio implements format detection (spec C2) and streaming
// parse (spec C3) for JSONL and JSON-Array sources, producing Record
// chunks delivered over internal/streamchan.
package recordio

import "github.com/ZanzyTHEbar/jsonlviewer/internal/vvjson"

// Format identifies the detected source shape.
type Format string

const (
	FormatJSONL     Format = "JsonL"
	FormatJSONArray Format = "JsonArray"
)

// Record is one logical unit of source data: a JSONL line or a JSON-Array
// element (spec §3).
type Record struct {
	ID         int          `json:"id"`
	Content    string       `json:"content"`
	Parsed     vvjson.Value `json:"-"`
	ParsedRaw  interface{}  `json:"parsed"`
	ByteOffset int64        `json:"byte_offset"`
}

// NewRecord builds a Record, populating the JSON-wire ParsedRaw from the
// typed Parsed value.
func NewRecord(id int, content string, parsed vvjson.Value, byteOffset int64) Record {
	return Record{
		ID:         id,
		Content:    content,
		Parsed:     parsed,
		ParsedRaw:  vvjson.ToInterface(parsed),
		ByteOffset: byteOffset,
	}
}

// FileMetadata summarizes a parsed source (spec §3).
type FileMetadata struct {
	Path       string `json:"path"`
	TotalLines int    `json:"total_lines"`
	FileSize   int64  `json:"file_size"`
	Format     Format `json:"format"`
}
