package core

// analyze.go derives the structural report of a loaded table.
//
// Counts are always computed over the full column. Only the example list is
// capped, so DistinctCount can exceed len(ExampleValues).

import (
	"cmp"
	"log/slog"
	"slices"
	"time"

	"github.com/JonMunkholm/reportmap/internal/table"
)

// ExtractionPlaceholder replaces the examples of a column whose distinct
// values could not be computed.
const ExtractionPlaceholder = "ERROR: could not extract values"

// Default analyzer limits.
const (
	DefaultExampleValues = 5
	DefaultSampleRows    = 3
)

// AnalyzerOptions controls report sizes.
type AnalyzerOptions struct {
	ExampleValues int  // distinct examples kept per column
	SampleRows    int  // leading rows copied into the report
	SortExamples  bool // sort distinct values before capping
}

// Analyzer builds FileReports from tables.
type Analyzer struct {
	logger *slog.Logger
	opts   AnalyzerOptions
}

// NewAnalyzer creates an Analyzer. Non-positive limits take the defaults.
func NewAnalyzer(logger *slog.Logger, opts AnalyzerOptions) *Analyzer {
	if opts.ExampleValues <= 0 {
		opts.ExampleValues = DefaultExampleValues
	}
	if opts.SampleRows <= 0 {
		opts.SampleRows = DefaultSampleRows
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{logger: logger, opts: opts}
}

// Analyze reports the shape of t under the display name fileName. A column
// whose values cannot be enumerated gets ExtractionPlaceholder as its only
// example; the rest of the report is unaffected.
func (a *Analyzer) Analyze(t *table.Table, fileName string) *FileReport {
	report := &FileReport{
		FileName:   fileName,
		TotalRows:  t.NumRows(),
		Columns:    make([]ColumnReport, 0, t.NumColumns()),
		SampleRows: a.sampleRows(t),
	}

	for _, col := range t.Columns() {
		report.Columns = append(report.Columns, a.analyzeColumn(fileName, col))
	}

	return report
}

func (a *Analyzer) analyzeColumn(fileName string, col table.Column) ColumnReport {
	cr := ColumnReport{
		Name:         col.Name,
		InferredType: string(col.Type),
		NullCount:    col.NullCount(),
	}

	unique, err := col.Unique()
	if err != nil {
		a.logger.Warn("could not extract column values",
			"file", fileName,
			"column", col.Name,
			"error", err,
		)
		cr.ExampleValues = []any{ExtractionPlaceholder}
		return cr
	}

	cr.DistinctCount = len(unique)
	if a.opts.SortExamples {
		slices.SortStableFunc(unique, compareValues)
	}
	if len(unique) > a.opts.ExampleValues {
		unique = unique[:a.opts.ExampleValues]
	}

	cr.ExampleValues = make([]any, len(unique))
	for i, v := range unique {
		cr.ExampleValues[i] = displayValue(v)
	}
	return cr
}

func (a *Analyzer) sampleRows(t *table.Table) []Record {
	names := t.Names()
	head := t.Head(a.opts.SampleRows)

	rows := make([]Record, len(head))
	for i, values := range head {
		rec := make(Record, len(values))
		for j, v := range values {
			rec[j] = Field{Name: names[j], Value: displayValue(v)}
		}
		rows[i] = rec
	}
	return rows
}

// displayValue renders timestamps as text and passes other scalars through.
func displayValue(v any) any {
	if ts, ok := v.(time.Time); ok {
		return table.FormatTime(ts)
	}
	return v
}

// compareValues orders values of one column type.
func compareValues(x, y any) int {
	switch a := x.(type) {
	case int64:
		if b, ok := y.(int64); ok {
			return cmp.Compare(a, b)
		}
	case float64:
		if b, ok := y.(float64); ok {
			return cmp.Compare(a, b)
		}
	case string:
		if b, ok := y.(string); ok {
			return cmp.Compare(a, b)
		}
	case bool:
		if b, ok := y.(bool); ok {
			switch {
			case a == b:
				return 0
			case !a:
				return -1
			default:
				return 1
			}
		}
	case time.Time:
		if b, ok := y.(time.Time); ok {
			return a.Compare(b)
		}
	}
	return 0
}
