package recordio

import (
	"bufio"
	"io"
	"path/filepath"
	"strings"
)

// DetectFormat implements spec C2: extension hints win outright; otherwise
// the first non-whitespace byte of the source decides JsonArray vs JsonL.
func DetectFormat(path string, r *bufio.Reader) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".jsonl" || ext == ".ndjson" {
		return FormatJSONL, nil
	}

	first, err := firstNonWhitespaceByte(r)
	if err != nil && err != io.EOF {
		return "", err
	}
	if first == '[' {
		return FormatJSONArray, nil
	}
	return FormatJSONL, nil
}

// firstNonWhitespaceByte peeks (without consuming) forward through r until
// it finds a non-whitespace byte, or returns io.EOF.
func firstNonWhitespaceByte(r *bufio.Reader) (byte, error) {
	for i := 1; ; i++ {
		peeked, err := r.Peek(i)
		if err != nil {
			if len(peeked) < i {
				// Peek returns a short buffer alongside the error once the
				// source is exhausted; every byte in it was already
				// inspected on an earlier iteration.
				return 0, err
			}
		}
		b := peeked[i-1]
		if b == ' ' || b == '\t' || b == '\n' || b == '\r' {
			if err != nil {
				return 0, err
			}
			continue
		}
		return b, nil
	}
}
