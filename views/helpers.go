package views

import (
	"context"
	"io"
	"time"

	"github.com/a-h/templ"
)

// htmlWriter keeps the first write error so components can emit markup
// without checking every call.
type htmlWriter struct {
	ctx context.Context
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(parts ...string) {
	for _, s := range parts {
		if h.err != nil {
			return
		}
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) attr(name, value string) {
	h.raw(" ", name, `="`, templ.EscapeString(value), `"`)
}

func (h *htmlWriter) component(c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(h.ctx, h.w)
}

// component builds a templ.Component from a function that writes through an
// htmlWriter.
func component(fn func(h *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{ctx: ctx, w: w}
		fn(h)
		return h.err
	})
}

// FormatDate renders t as "Jan 2, 2006", or "" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}

// StatusClass returns pill classes for a page status.
func StatusClass(status string) string {
	base := "inline-flex items-center rounded px-2 py-0.5 text-xs font-semibold uppercase tracking-wide"
	switch status {
	case "published":
		return base + " bg-green-100 text-green-800"
	case "private":
		return base + " bg-amber-100 text-amber-800"
	default:
		return base + " bg-stone-200 text-stone-700"
	}
}
