package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ColumnReport summarizes one column.
type ColumnReport struct {
	Name          string `json:"name" yaml:"name"`
	InferredType  string `json:"inferred_type" yaml:"inferred_type"`
	DistinctCount int    `json:"distinct_count" yaml:"distinct_count"`
	NullCount     int    `json:"null_count" yaml:"null_count"`
	ExampleValues []any  `json:"example_values" yaml:"example_values"`
}

// FileReport summarizes one loaded file.
type FileReport struct {
	FileName   string         `json:"file_name" yaml:"file_name"`
	TotalRows  int            `json:"total_rows" yaml:"total_rows"`
	Columns    []ColumnReport `json:"columns" yaml:"columns"`
	SampleRows []Record       `json:"sample_rows" yaml:"sample_rows"`
}

// FileResult is the outcome for one file of a batch. Exactly one of Report
// and Err is set.
type FileResult struct {
	FileName string
	Report   *FileReport
	Err      error
}

// Field is one named value of a Record.
type Field struct {
	Name  string
	Value any
}

// Record is a row whose fields keep table column order when marshaled.
type Record []Field

// Get returns the value of the named field.
func (r Record) Get(name string) (any, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// MarshalJSON writes the record as an object with keys in column order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML writes the record as a mapping with keys in column order.
func (r Record) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, f := range r {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Name}
		val := &yaml.Node{}
		if err := val.Encode(f.Value); err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		node.Content = append(node.Content, key, val)
	}
	return node, nil
}

// Markdown renders the report as a Markdown section: a column table followed
// by the sample rows as indented JSON.
func (r *FileReport) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", r.FileName)
	fmt.Fprintf(&b, "Rows: %d\n", r.TotalRows)
	fmt.Fprintf(&b, "Columns: %d\n\n", len(r.Columns))

	b.WriteString("| Column | Type | Distinct | Nulls | Examples |\n")
	b.WriteString("|---|---|---:|---:|---|\n")
	for _, c := range r.Columns {
		examples := make([]string, len(c.ExampleValues))
		for i, v := range c.ExampleValues {
			examples[i] = fmt.Sprint(v)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			mdCell(c.Name),
			c.InferredType,
			strconv.Itoa(c.DistinctCount),
			strconv.Itoa(c.NullCount),
			mdCell(strings.Join(examples, ", ")),
		)
	}

	if len(r.SampleRows) > 0 {
		sample, err := json.MarshalIndent(r.SampleRows, "", "  ")
		if err != nil {
			sample = []byte(err.Error())
		}
		b.WriteString("\nSample rows:\n\n```json\n")
		b.Write(sample)
		b.WriteString("\n```\n")
	}

	return b.String()
}

// mdCell escapes text for a Markdown table cell.
func mdCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.Join(strings.Fields(s), " ")
}
