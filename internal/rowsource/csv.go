package rowsource

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
)

const utf8BOM = "\uFEFF"

type csvSource struct {
	r       *csv.Reader
	header  []string
	read    int
	skipped int
}

// NewCSV reads the header line immediately and returns a source over the
// remaining lines. Ragged lines are accepted; missing trailing columns read
// as "".
func NewCSV(r io.Reader, enc string) (Source, error) {
	decoded, err := decode(r, enc)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(decoded)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	header = append([]string(nil), header...)
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	return &csvSource{r: cr, header: header}, nil
}

func (s *csvSource) Next() (Row, error) {
	for {
		rec, err := s.r.Read()
		if err == io.EOF {
			return Row{}, io.EOF
		}
		if err != nil {
			return Row{}, fmt.Errorf("line %d: %w", s.read+1, err)
		}
		s.read++
		if blank(rec) {
			s.skipped++
			continue
		}
		return Row{Line: s.read, Fields: zip(s.header, rec)}, nil
	}
}

func (s *csvSource) Read() int    { return s.read }
func (s *csvSource) Skipped() int { return s.skipped }
func (s *csvSource) Close() error { return nil }

// decode wraps r so it yields UTF-8. Empty or utf-8 names pass r through.
func decode(r io.Reader, name string) (io.Reader, error) {
	enc, err := lookupEncoding(name)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return r, nil
	}
	return enc.NewDecoder().Reader(r), nil
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "latin1", "latin-1", "iso-8859-1", "iso8859-1":
		return charmap.ISO8859_1, nil
	case "latin9", "iso-8859-15":
		return charmap.ISO8859_15, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
	return enc, nil
}
