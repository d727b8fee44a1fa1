package logtail

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const chunkSize = 32 * 1024

// Read returns at most maxLines from the end of the file at path. A maxLines
// of zero or less returns every line. A missing file yields no lines and no
// error.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat log: %w", err)
	}

	data, err := readTail(file, info.Size(), maxLines)
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	return splitLines(data, maxLines), nil
}

// readTail walks the file backwards in fixed chunks until it has seen more
// than maxLines newlines or reached the start of the file.
func readTail(r io.ReaderAt, size int64, maxLines int) ([]byte, error) {
	var data []byte
	offset := size
	for offset > 0 {
		n := int64(chunkSize)
		if offset < n {
			n = offset
		}
		offset -= n

		chunk := make([]byte, n)
		if _, err := r.ReadAt(chunk, offset); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		data = append(chunk, data...)

		// One extra newline covers the trailing terminator of the last line.
		if maxLines > 0 && bytes.Count(data, []byte{'\n'}) > maxLines {
			break
		}
	}
	return data, nil
}

func splitLines(data []byte, maxLines int) []string {
	text := strings.TrimRight(string(data), "\n")
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

var levels = map[string]string{
	"TRC": "trace",
	"DBG": "debug",
	"INF": "info",
	"WRN": "warn",
	"ERR": "error",
	"FTL": "fatal",
	"PNC": "panic",
}

// Level extracts the level from a console-formatted log line
// ("<timestamp> INF message ..."). It returns an empty string when the line
// carries no recognizable level.
func Level(line string) string {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return ""
	}
	return levels[fields[1]]
}
