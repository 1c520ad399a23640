package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/JonMunkholm/reportmap/internal/core"
	"github.com/JonMunkholm/reportmap/internal/loader"
	"github.com/JonMunkholm/reportmap/internal/web/templates"
)

// formField is the multipart field carrying the uploads.
const formField = "files"

var errNoFile = errors.New("no file provided")

// handleAnalyze runs every uploaded file through the service and renders one
// section per file in upload order.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if limit := s.cfg.Upload.MaxRequestSize; limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}

	if err := r.ParseMultipartForm(s.cfg.Upload.MaxMemory); err != nil {
		s.respondError(w, r, fmt.Errorf("parse upload form: %w", err), statusFor(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File[formField]
	if len(headers) == 0 {
		s.respondError(w, r, errNoFile, http.StatusBadRequest)
		return
	}

	files := make([]loader.File, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			s.respondError(w, r, fmt.Errorf("open upload %s: %w", fh.Filename, err), http.StatusBadRequest)
			return
		}
		defer f.Close()
		files = append(files, loader.NamedFile(fh.Filename, f))
	}

	results, err := s.service.AnalyzeBatch(r.Context(), files)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.ResultsPage(resultViews(results)).Render(r.Context(), w); err != nil {
		s.logger.Error("render results", "error", err)
	}
}

// handleHealth reports liveness and the batch limiter state.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	l := s.service.Limiter()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "ok\nactive_batches %d\navailable_slots %d\n", l.Active(), l.Available())
}

func resultViews(results []core.FileResult) []templates.ResultView {
	views := make([]templates.ResultView, len(results))
	for i, res := range results {
		if res.Err != nil {
			msg := core.MapError(res.Err)
			views[i].Error = &templates.FileErrorView{
				FileName: res.FileName,
				Error:    res.Err.Error(),
				Message:  msg.Message,
				Action:   msg.Action,
				Code:     msg.Code,
			}
			continue
		}
		views[i].Report = reportView(res.Report)
	}
	return views
}

func reportView(r *core.FileReport) *templates.ReportView {
	view := &templates.ReportView{
		FileName: r.FileName,
		Rows:     r.TotalRows,
		Columns:  make([]templates.ColumnView, len(r.Columns)),
	}

	for i, c := range r.Columns {
		view.Columns[i] = templates.ColumnView{
			Name:     c.Name,
			Type:     c.InferredType,
			Distinct: c.DistinctCount,
			Nulls:    c.NullCount,
			Examples: joinValues(c.ExampleValues),
		}
	}

	sample, err := json.MarshalIndent(r.SampleRows, "", "  ")
	if err != nil {
		sample = []byte(err.Error())
	}
	view.SampleJSON = string(sample)
	return view
}

// joinValues renders example values as a comma-separated list.
func joinValues(values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ", ")
}
