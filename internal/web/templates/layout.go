// Package templates renders the HTML pages of the web UI as templ components.
package templates

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

const styles = `
body { font-family: system-ui, sans-serif; margin: 0; background: #f6f7f9; color: #1f2933; }
main { max-width: 960px; margin: 0 auto; padding: 2rem 1rem; }
h1 { font-size: 1.6rem; margin-bottom: .25rem; }
.muted { color: #616e7c; }
.card { background: #fff; border: 1px solid #d9dee4; border-radius: 6px; padding: 1rem; margin: 1rem 0; }
details > summary { cursor: pointer; font-weight: 600; }
.column { border-left: 3px solid #3e7bfa; padding: .25rem .75rem; margin: .75rem 0; }
.column dt { font-weight: 600; }
.column dd { margin: 0 0 .25rem 0; }
.alert { background: #fdecea; border: 1px solid #f5c2bd; border-radius: 6px; padding: .75rem 1rem; margin: 1rem 0; }
.alert .code { font-family: monospace; font-size: .85rem; }
pre { background: #f0f2f5; padding: .75rem; overflow-x: auto; }
button { background: #3e7bfa; color: #fff; border: 0; border-radius: 4px; padding: .5rem 1rem; cursor: pointer; }
`

// htmlWriter accumulates the first write error so components can emit markup
// without checking every call.
type htmlWriter struct {
	w   io.Writer
	err error
}

// raw writes trusted markup.
func (h *htmlWriter) raw(parts ...string) {
	for _, p := range parts {
		if h.err != nil {
			return
		}
		_, h.err = io.WriteString(h.w, p)
	}
}

// text writes escaped text.
func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) component(ctx context.Context, c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

// Layout wraps body in the page chrome.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`,
			`<meta name="viewport" content="width=device-width, initial-scale=1">`,
			`<title>`)
		h.text(title)
		h.raw(`</title><style>`, strings.TrimSpace(styles), `</style></head><body><main>`)
		h.component(ctx, body)
		h.raw(`</main></body></html>`)
		return h.err
	})
}

// ErrorAlert renders a user-facing error with its suggested action and code.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<div class="alert" role="alert"><strong>`)
		h.text(message)
		h.raw(`</strong>`)
		if action != "" {
			h.raw(`<div>`)
			h.text(action)
			h.raw(`</div>`)
		}
		if code != "" {
			h.raw(`<div class="code">Code: `)
			h.text(code)
			h.raw(`</div>`)
		}
		h.raw(`</div>`)
		return h.err
	})
}

// ErrorPage is a full page around ErrorAlert with a link back to the form.
func ErrorPage(message, action, code string) templ.Component {
	return Layout("Error", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<h1>Something went wrong</h1>`)
		h.component(ctx, ErrorAlert(message, action, code))
		h.raw(`<p><a href="/">Back to upload</a></p>`)
		return h.err
	}))
}
