package records

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/handiism/vinyl-prices/internal/model"
)

// Column aliases per logical field, in lookup order. Matching is case-sensitive.
var (
	ArtistColumns = []string{"artist", "Interpret", "interpret"}
	TitleColumns  = []string{"title", "Titel", "titel"}
	YearColumns   = []string{"year", "Erscheinungsjahr", "jahr"}
)

// Row is one input row together with the record resolved from it.
type Row struct {
	// Source locates the row, e.g. "records.csv:4" or an MP3 path.
	Source string

	// Record holds the resolved fields; it may be invalid.
	Record model.Record

	// Fields are the raw column values keyed by header name.
	Fields map[string]string
}

// String renders the raw fields for diagnostics.
func (r Row) String() string {
	keys := make([]string, 0, len(r.Fields))
	for k := range r.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%q", k, r.Fields[k]))
	}
	return fmt.Sprintf("%s {%s}", r.Source, strings.Join(parts, ", "))
}

// ReadCSV reads rows from the CSV file at path.
//
// delimiter 0 detects ',' or ';' from the header line.
func ReadCSV(path string, delimiter rune) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseCSV(f, path, delimiter)
}

// ParseCSV reads rows from r. name is used in Row.Source.
//
// Quotes inside unquoted fields are kept as written, so titles such as
// `Blue Monday 12" Single` read cleanly. A row the reader still cannot
// parse is returned as an empty Row, which callers skip as invalid.
func ParseCSV(r io.Reader, name string, delimiter rune) ([]Row, error) {
	br := bufio.NewReader(r)
	if bom, err := br.Peek(3); err == nil && bytes.Equal(bom, []byte("\xef\xbb\xbf")) {
		br.Discard(3)
	}

	if delimiter == 0 {
		delimiter = detectDelimiter(br)
	}

	cr := csv.NewReader(br)
	cr.Comma = delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var rows []Row
	for {
		values, err := cr.Read()
		if err == io.EOF {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			rows = append(rows, Row{Source: fmt.Sprintf("%s:%d", name, parseErr.StartLine)})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}

		line, _ := cr.FieldPos(0)
		fields := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(values) {
				fields[col] = values[i]
			}
		}

		rows = append(rows, Row{
			Source: fmt.Sprintf("%s:%d", name, line),
			Record: recordFromFields(fields),
			Fields: fields,
		})
	}

	return rows, nil
}

// recordFromFields resolves a record using the column aliases.
func recordFromFields(fields map[string]string) model.Record {
	return model.Record{
		Artist: firstValue(fields, ArtistColumns),
		Title:  firstValue(fields, TitleColumns),
		Year:   firstValue(fields, YearColumns),
	}
}

// firstValue returns the first non-blank value among names.
func firstValue(fields map[string]string, names []string) string {
	for _, name := range names {
		if v := strings.TrimSpace(fields[name]); v != "" {
			return v
		}
	}
	return ""
}

// detectDelimiter peeks at the header line and returns ';' when it holds
// more semicolons than commas, as spreadsheet exports in German locales do.
func detectDelimiter(br *bufio.Reader) rune {
	peek, _ := br.Peek(br.Size())
	if i := bytes.IndexByte(peek, '\n'); i >= 0 {
		peek = peek[:i]
	}
	if bytes.Count(peek, []byte(";")) > bytes.Count(peek, []byte(",")) {
		return ';'
	}
	return ','
}
