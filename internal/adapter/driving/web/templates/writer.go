// Package templates holds the templ components of the web GUI.
package templates

import (
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// htmlWriter accumulates the first write error so components can emit
// markup without checking every call.
type htmlWriter struct {
	w   io.Writer
	err error
}

// raw writes trusted markup.
func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

// text writes s HTML-escaped.
func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

// attr writes name="value" with the value escaped, preceded by a space.
func (h *htmlWriter) attr(name, value string) {
	h.raw(" " + name + `="`)
	h.text(value)
	h.raw(`"`)
}

// url writes a sanitized URL attribute; unsafe schemes become about:invalid.
func (h *htmlWriter) url(name, value string) {
	h.attr(name, string(templ.URL(value)))
}

func (h *htmlWriter) int(n int) {
	h.raw(strconv.Itoa(n))
}

// component renders c into the same writer.
func (h *htmlWriter) component(c templ.Component, render func(templ.Component) error) {
	if h.err != nil || c == nil {
		return
	}
	h.err = render(c)
}
