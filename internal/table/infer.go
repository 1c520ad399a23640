package table

// infer.go builds typed columns from raw text cells.
//
// Every non-missing cell of a column must agree for a type to be chosen; the
// candidates are tried from most to least specific:
//
//	int64 -> float64 -> bool -> datetime64[ns] -> object
//
// Cells are never trimmed or rewritten: an object column keeps the text
// exactly as it appeared in the file.
//
// Datetime typing is opt-in (InferOptions.ParseDates). A datetime column uses
// a single layout for all of its cells, and a column whose cells read equally
// well month-first and day-first stays text.

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// naValues are the cell texts treated as missing, in addition to "".
var naValues = map[string]struct{}{
	"NA": {}, "N/A": {}, "n/a": {}, "NaN": {}, "nan": {}, "-NaN": {}, "-nan": {},
	"null": {}, "NULL": {}, "None": {}, "<NA>": {}, "#N/A": {}, "#NA": {},
	"#N/A N/A": {}, "1.#IND": {}, "1.#QNAN": {}, "-1.#IND": {}, "-1.#QNAN": {},
}

var (
	intRegex   = regexp.MustCompile(`^[+-]?\d+$`)
	floatRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)
)

// dateLayouts lists the accepted date and datetime layouts, most specific first.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"2006.01.02",
	"01/02/2006 15:04:05",
	"02/01/2006 15:04:05",
	"01/02/2006 15:04",
	"02/01/2006 15:04",
	"1/2/2006 15:04:05",
	"2/1/2006 15:04:05",
	"1/2/2006 15:04",
	"2/1/2006 15:04",
	"01/02/2006",
	"02/01/2006",
	"1/2/2006",
	"2/1/2006",
	"01-02-2006",
	"02-01-2006",
	"1-2-2006",
	"2-1-2006",
	"01.02.2006",
	"02.01.2006",
	"1.2.2006",
	"2.1.2006",
	"01-02-06",
	"02-01-06",
	"1/2/06",
	"2/1/06",
	"Jan 2, 2006",
	"2 Jan 2006",
	"02-Jan-2006",
}

// dayMonthSwaps maps each numeric layout to the one with day and month
// exchanged.
var dayMonthSwaps = func() map[string]string {
	pairs := [][2]string{
		{"01/02/2006 15:04:05", "02/01/2006 15:04:05"},
		{"01/02/2006 15:04", "02/01/2006 15:04"},
		{"1/2/2006 15:04:05", "2/1/2006 15:04:05"},
		{"1/2/2006 15:04", "2/1/2006 15:04"},
		{"01/02/2006", "02/01/2006"},
		{"1/2/2006", "2/1/2006"},
		{"01-02-2006", "02-01-2006"},
		{"1-2-2006", "2-1-2006"},
		{"01.02.2006", "02.01.2006"},
		{"1.2.2006", "2.1.2006"},
		{"01-02-06", "02-01-06"},
		{"1/2/06", "2/1/06"},
	}
	m := make(map[string]string, 2*len(pairs))
	for _, p := range pairs {
		m[p[0]] = p[1]
		m[p[1]] = p[0]
	}
	return m
}()

// InferOptions controls type inference.
type InferOptions struct {
	// ParseDates allows datetime64[ns] columns. Delimited text leaves it off
	// so date-like cells keep their original text.
	ParseDates bool
}

// IsMissing reports whether a raw cell denotes a missing value.
func IsMissing(cell string) bool {
	if cell == "" {
		return true
	}
	_, ok := naValues[cell]
	return ok
}

// FromRecords builds a Table from a header and data rows of raw text, without
// datetime typing. Rows shorter than the header are padded with missing
// values; longer rows are an error. Header names are normalized with
// UniqueNames.
func FromRecords(header []string, rows [][]string) (*Table, error) {
	return FromRecordsWith(header, rows, InferOptions{})
}

// FromRecordsWith is FromRecords with explicit inference options.
func FromRecordsWith(header []string, rows [][]string, opts InferOptions) (*Table, error) {
	names := UniqueNames(header)
	cols := make([]Column, len(names))

	for j, name := range names {
		raw := make([]string, len(rows))
		for i, row := range rows {
			if len(row) > len(names) {
				return nil, fmt.Errorf("row %d has %d fields, header has %d", i+1, len(row), len(names))
			}
			if j < len(row) {
				raw[i] = row[j]
			}
		}
		cols[j] = InferColumnWith(name, raw, opts)
	}

	return New(cols)
}

// InferColumn picks the narrowest non-datetime type every non-missing cell
// satisfies and converts the cells to it.
func InferColumn(name string, cells []string) Column {
	return InferColumnWith(name, cells, InferOptions{})
}

// InferColumnWith is InferColumn with explicit inference options.
func InferColumnWith(name string, cells []string, opts InferOptions) Column {
	typ, layout := inferType(cells, opts)
	values := make([]any, len(cells))
	for i, cell := range cells {
		if IsMissing(cell) {
			continue
		}
		values[i] = convert(typ, layout, cell)
	}
	return Column{Name: name, Type: typ, Values: values}
}

// inferType returns the column type and, for datetime columns, the layout
// shared by every cell.
func inferType(cells []string, opts InferOptions) (Type, string) {
	candidates := []struct {
		typ Type
		ok  func(string) bool
	}{
		{TypeInt64, isInt},
		{TypeFloat64, isFloat},
		{TypeBool, isBool},
	}

	var present []string
	for _, c := range cells {
		if !IsMissing(c) {
			present = append(present, c)
		}
	}
	if len(present) == 0 {
		return TypeObject, ""
	}

next:
	for _, cand := range candidates {
		for _, c := range present {
			if !cand.ok(c) {
				continue next
			}
		}
		return cand.typ, ""
	}

	if opts.ParseDates {
		if layout, ok := columnLayout(present); ok {
			return TypeDatetime, layout
		}
	}
	return TypeObject, ""
}

// columnLayout finds the first layout that parses every cell. It fails when
// none does, or when the day-month swap of the winner parses them all too.
func columnLayout(cells []string) (string, bool) {
	for _, c := range cells {
		if strings.IndexAny(c, "0123456789") < 0 {
			return "", false
		}
	}

	for _, layout := range dateLayouts {
		if !parsesAll(layout, cells) {
			continue
		}
		if swap, ok := dayMonthSwaps[layout]; ok && parsesAll(swap, cells) {
			return "", false
		}
		return layout, true
	}
	return "", false
}

func parsesAll(layout string, cells []string) bool {
	for _, c := range cells {
		if _, err := time.Parse(layout, c); err != nil {
			return false
		}
	}
	return true
}

func isInt(s string) bool {
	if !intRegex.MatchString(s) {
		return false
	}
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

// isFloat accepts decimal text that fits a float64; out-of-range values such
// as 1e400 would otherwise become infinities.
func isFloat(s string) bool {
	if !floatRegex.MatchString(s) {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func isBool(s string) bool {
	_, ok := parseBool(s)
	return ok
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

// convert turns a cell already known to satisfy typ into its Go value.
func convert(typ Type, layout, cell string) any {
	switch typ {
	case TypeInt64:
		n, _ := strconv.ParseInt(cell, 10, 64)
		return n
	case TypeFloat64:
		f, _ := strconv.ParseFloat(cell, 64)
		return f
	case TypeBool:
		b, _ := parseBool(cell)
		return b
	case TypeDatetime:
		t, _ := time.Parse(layout, cell)
		return t
	default:
		return cell
	}
}

// UniqueNames normalizes header names: empty names become "Unnamed: <i>" and
// repeats of a name get ".1", ".2", ... suffixes.
func UniqueNames(header []string) []string {
	names := make([]string, len(header))
	used := make(map[string]struct{}, len(header))
	counts := make(map[string]int, len(header))

	for i, h := range header {
		name := h
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if _, dup := used[name]; dup {
			base := name
			for {
				counts[base]++
				name = fmt.Sprintf("%s.%d", base, counts[base])
				if _, taken := used[name]; !taken {
					break
				}
			}
		}
		used[name] = struct{}{}
		names[i] = name
	}

	return names
}

// FormatTime renders a datetime value the way reports display it.
func FormatTime(t time.Time) string {
	if t.Nanosecond() != 0 {
		return t.Format("2006-01-02 15:04:05.000000000")
	}
	return t.Format("2006-01-02 15:04:05")
}
