// Package table holds the in-memory row/column structure produced by the file
// loader and consumed by the structure analyzer.
//
// A Table is a set of ordered, uniquely named columns of equal length. Every
// column carries a Type label and its values; a value is either nil (missing)
// or a Go scalar consistent with the column type:
//
//	TypeInt64     int64
//	TypeFloat64   float64
//	TypeBool      bool
//	TypeDatetime  time.Time
//	TypeObject    string
//
// Tables are immutable after construction.
package table

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Type is the stored element-type label of a column.
type Type string

const (
	TypeInt64    Type = "int64"
	TypeFloat64  Type = "float64"
	TypeBool     Type = "bool"
	TypeDatetime Type = "datetime64[ns]"
	TypeObject   Type = "object"
)

// IsDatetime reports whether values of this type are points in time.
func (t Type) IsDatetime() bool {
	return t == TypeDatetime
}

var (
	// ErrMixedTypes is returned when a value does not match its column type.
	ErrMixedTypes = errors.New("value does not match column type")

	// ErrDuplicateColumn is returned by New for repeated column names.
	ErrDuplicateColumn = errors.New("duplicate column name")

	// ErrColumnLength is returned by New when columns differ in length.
	ErrColumnLength = errors.New("columns have different lengths")
)

// Column is a named, typed sequence of values.
type Column struct {
	Name   string
	Type   Type
	Values []any
}

// Len returns the number of entries, missing ones included.
func (c Column) Len() int {
	return len(c.Values)
}

// NullCount returns the number of missing entries.
func (c Column) NullCount() int {
	n := 0
	for _, v := range c.Values {
		if v == nil {
			n++
		}
	}
	return n
}

// Unique returns the distinct non-missing values in order of first
// appearance. It fails with ErrMixedTypes when a value contradicts the
// column type.
func (c Column) Unique() ([]any, error) {
	seen := make(map[any]struct{})
	var out []any

	for i, v := range c.Values {
		if v == nil {
			continue
		}
		key, err := c.key(v)
		if err != nil {
			return nil, fmt.Errorf("column %q row %d: %w", c.Name, i, err)
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}

	return out, nil
}

// key returns a comparable identity for v, checking it against the column type.
func (c Column) key(v any) (any, error) {
	switch c.Type {
	case TypeInt64:
		if x, ok := v.(int64); ok {
			return x, nil
		}
	case TypeFloat64:
		if x, ok := v.(float64); ok {
			if math.IsNaN(x) {
				return nil, fmt.Errorf("%w: NaN stored as a value", ErrMixedTypes)
			}
			return x, nil
		}
	case TypeBool:
		if x, ok := v.(bool); ok {
			return x, nil
		}
	case TypeDatetime:
		if x, ok := v.(time.Time); ok {
			// time.Time carries a location; equal instants must collide.
			return x.UnixNano(), nil
		}
	case TypeObject:
		if x, ok := v.(string); ok {
			return x, nil
		}
	}
	return nil, fmt.Errorf("%w: %T in %s column", ErrMixedTypes, v, c.Type)
}

// Table is an immutable collection of equally long named columns.
type Table struct {
	columns []Column
	rows    int
}

// New validates cols and builds a Table. Column names must be unique and all
// columns must have the same length.
func New(cols []Column) (*Table, error) {
	t := &Table{columns: make([]Column, len(cols))}
	seen := make(map[string]struct{}, len(cols))

	for i, c := range cols {
		if _, ok := seen[c.Name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, c.Name)
		}
		seen[c.Name] = struct{}{}

		if i == 0 {
			t.rows = c.Len()
		} else if c.Len() != t.rows {
			return nil, fmt.Errorf("%w: %q has %d values, want %d", ErrColumnLength, c.Name, c.Len(), t.rows)
		}
		t.columns[i] = c
	}

	return t, nil
}

// Columns returns the columns in table order. Callers must not modify them.
func (t *Table) Columns() []Column {
	return t.columns
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	return t.rows
}

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int {
	return len(t.columns)
}

// Names returns the column names in table order.
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Row returns the values of row i in column order.
func (t *Table) Row(i int) []any {
	row := make([]any, len(t.columns))
	for j, c := range t.columns {
		row[j] = c.Values[i]
	}
	return row
}

// Head returns up to n leading rows.
func (t *Table) Head(n int) [][]any {
	if n > t.rows {
		n = t.rows
	}
	if n < 0 {
		n = 0
	}
	out := make([][]any, n)
	for i := range out {
		out[i] = t.Row(i)
	}
	return out
}
