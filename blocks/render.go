package blocks

import (
	"bytes"
	"context"
	"encoding/json"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// Default class lists, used when a block carries no style at all.
const (
	HeroDefaultClasses  = "bg-gradient-to-r from-blue-600 to-purple-600 py-20"
	TextDefaultClasses  = "bg-white py-12"
	StatsDefaultClasses = TextDefaultClasses

	heroTextFallback = "text-white"
)

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// Render converts blocks into a markup fragment, one section per block in
// input order. It is pure and safe for concurrent use.
func Render(blocks []Block) string {
	var sb strings.Builder
	for _, b := range blocks {
		writeBlock(&sb, b)
	}
	return sb.String()
}

// RenderBlock renders a single block.
func RenderBlock(b Block) string {
	var sb strings.Builder
	writeBlock(&sb, b)
	return sb.String()
}

// Component returns blocks as a templ.Component for embedding in layouts.
func Component(blocks []Block) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, Render(blocks))
		return err
	})
}

func writeBlock(sb *strings.Builder, b Block) {
	classes := b.Style.Classes()
	switch c := b.Content().(type) {
	case Hero:
		writeHero(sb, classOr(classes, HeroDefaultClasses), b.Style.Text(), c)
	case RichText:
		openSection(sb, classOr(classes, TextDefaultClasses), "")
		sb.WriteString(`<div class="container mx-auto px-4 prose max-w-none">`)
		// Sanitization is owned by whoever stores the page.
		sb.WriteString(c.Body())
		sb.WriteString(`</div></section>`)
	case Stats:
		writeStats(sb, classOr(classes, StatsDefaultClasses), c)
	case Unknown:
		openSection(sb, classes, "")
		sb.WriteString(textEscaper.Replace(dump(c.Data)))
		sb.WriteString(`</section>`)
	}
}

func writeHero(sb *strings.Builder, classes, textColor string, h Hero) {
	if textColor == "" {
		textColor = heroTextFallback
	}
	var inline string
	if h.BgImage != "" {
		inline = "background-image: url('" + h.BgImage + "'); background-size: cover; background-position: center;"
	}
	openSection(sb, classes, inline)
	sb.WriteString(`<div class="container mx-auto px-4 text-center">`)
	sb.WriteString(`<h1 class="text-5xl font-bold mb-4 `)
	sb.WriteString(html.EscapeString(textColor))
	sb.WriteString(`">`)
	sb.WriteString(html.EscapeString(h.Heading))
	sb.WriteString(`</h1><p class="text-xl opacity-90 `)
	sb.WriteString(html.EscapeString(textColor))
	sb.WriteString(`">`)
	sb.WriteString(html.EscapeString(h.Sub))
	sb.WriteString(`</p></div></section>`)
}

func writeStats(sb *strings.Builder, classes string, s Stats) {
	openSection(sb, classes, "")
	sb.WriteString(`<div class="container mx-auto px-4 grid grid-cols-2 md:grid-cols-4 gap-8">`)
	for _, it := range s.Items {
		sb.WriteString(`<div class="text-center"><div class="text-4xl font-bold">`)
		sb.WriteString(html.EscapeString(it.Number))
		sb.WriteString(`</div><div class="mt-2">`)
		sb.WriteString(html.EscapeString(it.Label))
		sb.WriteString(`</div></div>`)
	}
	sb.WriteString(`</div></section>`)
}

func openSection(sb *strings.Builder, classes, inlineStyle string) {
	sb.WriteString(`<section class="`)
	sb.WriteString(html.EscapeString(classes))
	sb.WriteString(`"`)
	if inlineStyle != "" {
		sb.WriteString(` style="`)
		sb.WriteString(html.EscapeString(inlineStyle))
		sb.WriteString(`"`)
	}
	sb.WriteString(`>`)
}

func classOr(classes, fallback string) string {
	if classes == "" {
		return fallback
	}
	return classes
}

// dump serializes unknown block data compactly, keeping the author's key
// order. Absent or null data is an empty object.
func dump(data json.RawMessage) string {
	if len(data) == 0 || isNull(data) {
		return "{}"
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return "{}"
	}
	return buf.String()
}
