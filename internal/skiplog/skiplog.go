// Package skiplog writes rejected input rows to a CSV file so they can be
// fixed and re-imported.
package skiplog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

var header = []string{"reason", "line_number", "name"}

// Log collects rejected rows. The zero value and a nil *Log discard writes.
type Log struct {
	reasons map[string]int
	w       *csv.Writer
	c       io.Closer
}

// Discard returns a log that only counts reasons.
func Discard() *Log {
	return &Log{reasons: make(map[string]int)}
}

// New writes to w; the header is emitted immediately.
func New(w io.Writer) (*Log, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return nil, fmt.Errorf("write skip log header: %w", err)
	}
	return &Log{reasons: make(map[string]int), w: cw}, nil
}

// Create opens dir/name for writing, creating dir as needed.
func Create(dir, name string) (*Log, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create dir %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	l, err := New(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	l.c = f
	return l, nil
}

// Add records one rejected row.
func (l *Log) Add(reason string, line int, name string) error {
	if l == nil {
		return nil
	}
	if l.reasons == nil {
		l.reasons = make(map[string]int)
	}
	l.reasons[reason]++
	if l.w == nil {
		return nil
	}
	return l.w.Write([]string{reason, strconv.Itoa(line), name})
}

// Reasons returns the number of rows logged per reason.
func (l *Log) Reasons() map[string]int {
	out := make(map[string]int)
	if l == nil {
		return out
	}
	for k, v := range l.reasons {
		out[k] = v
	}
	return out
}

// Close flushes buffered rows and closes the underlying file, if any.
func (l *Log) Close() error {
	if l == nil || l.w == nil {
		return nil
	}
	l.w.Flush()
	err := l.w.Error()
	if l.c != nil {
		if cerr := l.c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
