package loader

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

// DefaultDelimiter is used for the full parse when no probe delimiter splits
// the header into more than one column.
const DefaultDelimiter = ','

// readDelimited parses a header and up to limit data rows (all rows when
// limit is negative). Blank lines are skipped, rows may be shorter than the
// header but not longer.
func readDelimited(r io.Reader, delim rune, limit int) ([]string, [][]string, error) {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, ErrNoColumns
	}
	if err != nil {
		return nil, nil, err
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	var rows [][]string
	for limit < 0 || len(rows) < limit {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		if len(rec) > len(header) {
			line, _ := cr.FieldPos(0)
			return nil, nil, &FieldCountError{Line: line, Expected: len(header), Got: len(rec)}
		}
		rows = append(rows, rec)
	}

	return header, rows, nil
}

// isParseError reports whether err means "this delimiter does not fit" as
// opposed to a failure reading the upload itself.
func isParseError(err error) bool {
	var pe *csv.ParseError
	var fe *FieldCountError
	return errors.As(err, &pe) || errors.As(err, &fe) || errors.Is(err, ErrNoColumns)
}

