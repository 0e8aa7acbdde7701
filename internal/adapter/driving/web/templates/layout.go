package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Layout wraps a page body in the HTML document shell.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}

		h.raw(`<!DOCTYPE html><html lang="pl"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(title)
		h.raw(`</title><link rel="stylesheet" href="/static/style.css"></head>`)
		h.raw(`<body><main class="container"><h1>`)
		h.text(title)
		h.raw(`</h1>`)
		h.component(body, func(c templ.Component) error { return c.Render(ctx, w) })
		h.raw(`</main></body></html>`)

		return h.err
	})
}
