// Package view writes HTML for templ components built without the templ generator.
package view

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// Writer keeps the first write error so components can be written linearly.
type Writer struct {
	w   io.Writer
	err error
}

func New(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Raw writes s unescaped.
func (h *Writer) Raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

// Text writes s HTML escaped.
func (h *Writer) Text(s string) {
	h.Raw(templ.EscapeString(s))
}

// Printf writes a formatted string unescaped. Escape arguments with templ.EscapeString.
func (h *Writer) Printf(format string, args ...any) {
	h.Raw(fmt.Sprintf(format, args...))
}

// Tag writes an element with escaped attributes and text content.
// Attributes are name/value pairs.
func (h *Writer) Tag(name, text string, attrs ...string) {
	h.Open(name, attrs...)
	h.Text(text)
	h.Raw("</" + name + ">")
}

// Open writes a start tag with escaped attributes given as name/value pairs.
// An attribute with an empty value is written as a boolean attribute.
func (h *Writer) Open(name string, attrs ...string) {
	h.Raw("<" + name)
	for i := 0; i+1 < len(attrs); i += 2 {
		if attrs[i+1] == "" {
			h.Raw(" " + attrs[i])
			continue
		}
		h.Raw(" " + attrs[i] + `="` + templ.EscapeString(attrs[i+1]) + `"`)
	}
	h.Raw(">")
}

func (h *Writer) Close(name string) {
	h.Raw("</" + name + ">")
}

// Component renders c into the same writer.
func (h *Writer) Component(ctx context.Context, c templ.Component) {
	if h.err != nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

func (h *Writer) Err() error {
	return h.err
}
