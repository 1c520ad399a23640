package table

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestInferColumnTypes(t *testing.T) {
	tests := []struct {
		name  string
		cells []string
		want  Type
	}{
		{"integers", []string{"1", "-2", "+30"}, TypeInt64},
		{"integers with missing", []string{"1", "", "NA", "4"}, TypeInt64},
		{"floats", []string{"1.5", "2", ".5", "1e3"}, TypeFloat64},
		{"bools", []string{"true", "False", "TRUE"}, TypeBool},
		{"dates stay text", []string{"2024-01-15", "2024-02-01"}, TypeObject},
		{"out of range float", []string{"1e400", "3.5"}, TypeObject},
		{"text", []string{"abc", "1"}, TypeObject},
		{"decimal comma", []string{"10,50", "3,20"}, TypeObject},
		{"infinity is text", []string{"Inf", "1"}, TypeObject},
		{"all missing", []string{"", "NA", "null"}, TypeObject},
		{"empty", nil, TypeObject},
		{"int overflow", []string{"99999999999999999999"}, TypeFloat64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col := InferColumn("c", tt.cells)
			if col.Type != tt.want {
				t.Errorf("InferColumn(%q).Type = %v, want %v", tt.cells, col.Type, tt.want)
			}
			if col.Len() != len(tt.cells) {
				t.Errorf("Len() = %d, want %d", col.Len(), len(tt.cells))
			}
		})
	}
}

func TestInferColumnDates(t *testing.T) {
	tests := []struct {
		name  string
		cells []string
		want  Type
	}{
		{"iso dates", []string{"2024-01-15", "", "2024-02-01"}, TypeDatetime},
		{"iso datetimes", []string{"2024-01-15 10:30:00", "2024-01-16 08:00:00"}, TypeDatetime},
		{"mixed layouts", []string{"2024-01-15 10:30:00", "2024-01-16T08:00:00Z"}, TypeObject},
		{"month first", []string{"01/15/2024", "12/31/2023"}, TypeDatetime},
		{"day first", []string{"05/03/2024", "03/05/2024", "13/03/2024"}, TypeDatetime},
		{"ambiguous day and month", []string{"05/03/2024", "03/05/2024"}, TypeObject},
		{"words", []string{"PIX", "TED"}, TypeObject},
		{"numbers win", []string{"20240115"}, TypeInt64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col := InferColumnWith("c", tt.cells, InferOptions{ParseDates: true})
			if col.Type != tt.want {
				t.Errorf("InferColumnWith(%q).Type = %v, want %v", tt.cells, col.Type, tt.want)
			}
		})
	}
}

func TestInferColumnDayFirstUsesOneLayout(t *testing.T) {
	col := InferColumnWith("data", []string{"05/03/2024", "03/05/2024", "13/03/2024"}, InferOptions{ParseDates: true})
	if col.Type != TypeDatetime {
		t.Fatalf("Type = %v, want %v", col.Type, TypeDatetime)
	}

	want := []time.Time{
		time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC),
	}
	for i, w := range want {
		if got, ok := col.Values[i].(time.Time); !ok || !got.Equal(w) {
			t.Errorf("Values[%d] = %v, want %v", i, col.Values[i], w)
		}
	}
}

func TestInferColumnDatesOffKeepsText(t *testing.T) {
	col := InferColumn("data", []string{"05/03/2024", "13/03/2024"})
	want := []any{"05/03/2024", "13/03/2024"}
	if col.Type != TypeObject || !reflect.DeepEqual(col.Values, want) {
		t.Errorf("column = %v %#v, want object %#v", col.Type, col.Values, want)
	}
}

func TestInferColumnKeepsIntegersWithMissing(t *testing.T) {
	col := InferColumn("qty", []string{"3", "", "5"})

	want := []any{int64(3), nil, int64(5)}
	if !reflect.DeepEqual(col.Values, want) {
		t.Errorf("Values = %#v, want %#v", col.Values, want)
	}
	if got := col.NullCount(); got != 1 {
		t.Errorf("NullCount() = %d, want 1", got)
	}
}

func TestInferColumnObjectKeepsText(t *testing.T) {
	col := InferColumn("note", []string{" padded ", "x"})
	if col.Values[0] != " padded " {
		t.Errorf("Values[0] = %q, want untouched text", col.Values[0])
	}
}

func TestUnique(t *testing.T) {
	col := InferColumn("city", []string{"Recife", "Natal", "", "Recife", "Olinda", "Natal"})

	got, err := col.Unique()
	if err != nil {
		t.Fatalf("Unique() error = %v", err)
	}
	want := []any{"Recife", "Natal", "Olinda"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Unique() = %v, want %v", got, want)
	}
}

func TestUniqueDatetimeAcrossZones(t *testing.T) {
	a := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	b := a.In(time.FixedZone("BRT", -3*3600))
	col := Column{Name: "ts", Type: TypeDatetime, Values: []any{a, b}}

	got, err := col.Unique()
	if err != nil {
		t.Fatalf("Unique() error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("Unique() returned %d values, want 1", len(got))
	}
}

func TestUniqueMixedTypes(t *testing.T) {
	col := Column{Name: "x", Type: TypeInt64, Values: []any{int64(1), "two"}}

	if _, err := col.Unique(); !errors.Is(err, ErrMixedTypes) {
		t.Errorf("Unique() error = %v, want ErrMixedTypes", err)
	}
}

func TestFromRecords(t *testing.T) {
	header := []string{"id", "", "id", "name"}
	rows := [][]string{
		{"1", "a", "x", "Ana"},
		{"2", "b", "y"},
	}

	tbl, err := FromRecords(header, rows)
	if err != nil {
		t.Fatalf("FromRecords() error = %v", err)
	}

	wantNames := []string{"id", "Unnamed: 1", "id.1", "name"}
	if !reflect.DeepEqual(tbl.Names(), wantNames) {
		t.Errorf("Names() = %v, want %v", tbl.Names(), wantNames)
	}
	if tbl.NumRows() != 2 || tbl.NumColumns() != 4 {
		t.Errorf("shape = %dx%d, want 2x4", tbl.NumRows(), tbl.NumColumns())
	}
	if got := tbl.Row(1)[3]; got != nil {
		t.Errorf("padded cell = %v, want nil", got)
	}
}

func TestFromRecordsRejectsLongRows(t *testing.T) {
	_, err := FromRecords([]string{"a"}, [][]string{{"1", "2"}})
	if err == nil {
		t.Fatal("FromRecords() error = nil, want error for extra fields")
	}
}

func TestUniqueNames(t *testing.T) {
	tests := []struct {
		in   []string
		want []string
	}{
		{[]string{"a", "b"}, []string{"a", "b"}},
		{[]string{"a", "a", "a"}, []string{"a", "a.1", "a.2"}},
		{[]string{"a", "a.1", "a"}, []string{"a", "a.1", "a.2"}},
		{[]string{"", ""}, []string{"Unnamed: 0", "Unnamed: 1"}},
	}

	for _, tt := range tests {
		if got := UniqueNames(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("UniqueNames(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewValidates(t *testing.T) {
	tests := []struct {
		name    string
		cols    []Column
		wantErr error
	}{
		{
			name: "duplicate",
			cols: []Column{
				{Name: "a", Type: TypeObject, Values: []any{"x"}},
				{Name: "a", Type: TypeObject, Values: []any{"y"}},
			},
			wantErr: ErrDuplicateColumn,
		},
		{
			name: "length",
			cols: []Column{
				{Name: "a", Type: TypeObject, Values: []any{"x"}},
				{Name: "b", Type: TypeObject, Values: []any{"y", "z"}},
			},
			wantErr: ErrColumnLength,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cols); !errors.Is(err, tt.wantErr) {
				t.Errorf("New() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestHead(t *testing.T) {
	tbl, err := FromRecords([]string{"n"}, [][]string{{"1"}, {"2"}, {"3"}, {"4"}})
	if err != nil {
		t.Fatalf("FromRecords() error = %v", err)
	}

	if got := len(tbl.Head(3)); got != 3 {
		t.Errorf("len(Head(3)) = %d, want 3", got)
	}
	if got := len(tbl.Head(10)); got != 4 {
		t.Errorf("len(Head(10)) = %d, want 4", got)
	}
	if got := len(tbl.Head(-1)); got != 0 {
		t.Errorf("len(Head(-1)) = %d, want 0", got)
	}
}

func TestFormatTime(t *testing.T) {
	ts := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	if got := FormatTime(ts); got != "2024-03-05 00:00:00" {
		t.Errorf("FormatTime() = %q, want %q", got, "2024-03-05 00:00:00")
	}
}
