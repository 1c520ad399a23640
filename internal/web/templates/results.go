package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// ColumnView is one column block of a report section.
type ColumnView struct {
	Name     string
	Type     string
	Distinct int
	Nulls    int
	Examples string // comma-joined
}

// ReportView is a successfully analyzed file.
type ReportView struct {
	FileName   string
	Rows       int
	Columns    []ColumnView
	SampleJSON string // indented
}

// FileErrorView is a file that could not be analyzed.
type FileErrorView struct {
	FileName string
	Error    string
	Message  string
	Action   string
	Code     string
}

// ResultView holds exactly one of Report and Error.
type ResultView struct {
	Report *ReportView
	Error  *FileErrorView
}

// ResultsPage renders one section per uploaded file, in upload order.
func ResultsPage(results []ResultView) templ.Component {
	return Layout("Analysis results", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<h1>Analysis results</h1><p><a href="/">Analyze more files</a></p>`)
		for _, res := range results {
			switch {
			case res.Report != nil:
				h.component(ctx, ReportSection(*res.Report))
			case res.Error != nil:
				h.component(ctx, FileErrorBanner(*res.Error))
			}
		}
		return h.err
	}))
}

// ReportSection renders a collapsible report for one file.
func ReportSection(r ReportView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<details class="card"><summary>`)
		h.text(r.FileName + " (" + strconv.Itoa(r.Rows) + " rows)")
		h.raw(`</summary>`)

		h.raw(`<h3>Columns</h3>`)
		for _, c := range r.Columns {
			h.raw(`<dl class="column"><dt>`)
			h.text(c.Name)
			h.raw(`</dt><dd>Type: `)
			h.text(c.Type)
			h.raw(`</dd><dd>Distinct values: `, strconv.Itoa(c.Distinct),
				`</dd><dd>Null values: `, strconv.Itoa(c.Nulls),
				`</dd><dd>Examples: `)
			h.text(c.Examples)
			h.raw(`</dd></dl>`)
		}

		h.raw(`<h3>Sample rows</h3><pre>`)
		h.text(r.SampleJSON)
		h.raw(`</pre></details>`)
		return h.err
	})
}

// FileErrorBanner reports a failed file.
func FileErrorBanner(e FileErrorView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<div class="alert" role="alert"><strong>Error processing `)
		h.text(e.FileName)
		h.raw(`:</strong> `)
		h.text(e.Error)
		h.component(ctx, ErrorAlert(e.Message, e.Action, e.Code))
		h.raw(`</div>`)
		return h.err
	})
}
