package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// AcceptedTypes is the file input's accept list.
const AcceptedTypes = ".csv,.xlsx,.xls,.txt"

// UploadPage renders the multi-file upload form.
func UploadPage() templ.Component {
	return Layout("Report Structure Mapper", uploadForm())
}

func uploadForm() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<h1>Report Structure Mapper</h1>`,
			`<p class="muted">Upload bank report exports (CSV, Excel or tab-delimited text) to see each file's columns, types, missing values and sample rows.</p>`,
			`<form class="card" method="post" action="/analyze" enctype="multipart/form-data">`,
			`<label for="files">Files</label><br>`,
			`<input id="files" type="file" name="files" multiple required accept="`)
		h.text(AcceptedTypes)
		h.raw(`">`,
			`<p><button type="submit">Analyze</button></p>`,
			`</form>`)
		return h.err
	})
}
