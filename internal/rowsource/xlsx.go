package rowsource

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

type xlsxSource struct {
	f       *excelize.File
	rows    *excelize.Rows
	header  []string
	read    int
	skipped int
}

// NewXLSX streams the first worksheet of a workbook. The first row is the
// header.
func NewXLSX(r io.Reader) (Source, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		_ = f.Close()
		return nil, errors.New("workbook has no sheets")
	}

	rows, err := f.Rows(sheets[0])
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if !rows.Next() {
		_ = rows.Close()
		_ = f.Close()
		return nil, errors.New("missing header row")
	}
	header, err := rows.Columns()
	if err != nil {
		_ = rows.Close()
		_ = f.Close()
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	return &xlsxSource{f: f, rows: rows, header: header}, nil
}

func (s *xlsxSource) Next() (Row, error) {
	for s.rows.Next() {
		cols, err := s.rows.Columns()
		if err != nil {
			return Row{}, fmt.Errorf("row %d: %w", s.read+1, err)
		}
		s.read++
		if blank(cols) {
			s.skipped++
			continue
		}
		return Row{Line: s.read, Fields: zip(s.header, cols)}, nil
	}
	if err := s.rows.Error(); err != nil {
		return Row{}, err
	}
	return Row{}, io.EOF
}

func (s *xlsxSource) Read() int    { return s.read }
func (s *xlsxSource) Skipped() int { return s.skipped }

func (s *xlsxSource) Close() error {
	return errors.Join(s.rows.Close(), s.f.Close())
}
