// Package rowsource turns spreadsheet exports into a lazy sequence of
// header-keyed rows. Sources are finite and cannot be restarted.
package rowsource

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrFileNotFound is returned by Open when the input path does not exist.
var ErrFileNotFound = errors.New("input file not found")

// Row is one data line keyed by header name.
type Row struct {
	// Line is the 1-based ordinal of the data line (header excluded). Skipped
	// blank rows still consume an ordinal.
	Line   int
	Fields map[string]string
}

// Get returns the raw value of column name, or "" when the row lacks it.
func (r Row) Get(name string) string {
	return r.Fields[name]
}

// Source yields rows until it returns io.EOF.
type Source interface {
	Next() (Row, error)
	// Read reports how many data lines were consumed, including skipped ones.
	Read() int
	// Skipped reports how many blank lines were dropped.
	Skipped() int
	Close() error
}

// Open picks a source by file extension: .xlsx files are read as workbooks,
// everything else as delimited text decoded with encoding.
func Open(path, encoding string) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %w", ErrFileNotFound, path, err)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	var src Source
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		src, err = NewXLSX(f)
	} else {
		src, err = NewCSV(f, encoding)
	}
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return &fileSource{Source: src, f: f}, nil
}

type fileSource struct {
	Source
	f io.Closer
}

func (s *fileSource) Close() error {
	return errors.Join(s.Source.Close(), s.f.Close())
}

// blank reports whether every value is empty after trimming.
func blank(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func zip(header, values []string) map[string]string {
	fields := make(map[string]string, len(header))
	for i, name := range header {
		if i < len(values) {
			fields[name] = values[i]
		} else {
			fields[name] = ""
		}
	}
	return fields
}
