// Package views holds the default templ components for a blockpage site.
// Sites that want their own look pass a different blockpage.ViewFuncs.
package views

import (
	"strconv"
	"time"

	"github.com/a-h/templ"

	"github.com/eringen/blockpage"
)

// New returns the default view set for the site described by cfg.
func New(cfg blockpage.SiteConfig) blockpage.ViewFuncs {
	return blockpage.ViewFuncs{
		Page:           func(p blockpage.Page, nav []blockpage.Page) templ.Component { return Page(cfg, p, nav) },
		Index:          func(pages, nav []blockpage.Page) templ.Component { return Index(cfg, pages, nav) },
		NotFound:       func(nav []blockpage.Page) templ.Component { return NotFound(cfg, nav) },
		ServerError:    func() templ.Component { return ServerError(cfg) },
		AdminLogin:     AdminLogin,
		AdminDashboard: AdminDashboard,
		AdminForm:      AdminForm,
		AdminPreview:   AdminPreview,
		AdminImages:    AdminImages,
	}
}

// Layout is the public page shell: head metadata, header navigation, and
// body in <main>.
func Layout(cfg blockpage.SiteConfig, meta blockpage.PageMeta, jsonLD string, nav []blockpage.Page, body templ.Component) templ.Component {
	return component(func(h *htmlWriter) {
		title := meta.Title
		if title == "" {
			title = cfg.Name
		} else if title != cfg.Name {
			title += " | " + cfg.Name
		}
		ogType := meta.OGType
		if ogType == "" {
			ogType = "website"
		}

		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(title)
		h.raw(`</title>`)
		if meta.Description != "" {
			h.raw(`<meta name="description"`)
			h.attr("content", meta.Description)
			h.raw(`>`)
		}
		if meta.URL != "" {
			h.raw(`<link rel="canonical"`)
			h.attr("href", meta.URL)
			h.raw(`><meta property="og:url"`)
			h.attr("content", meta.URL)
			h.raw(`>`)
		}
		h.raw(`<meta property="og:title"`)
		h.attr("content", title)
		h.raw(`><meta property="og:type"`)
		h.attr("content", ogType)
		h.raw(`>`)
		h.raw(`<link rel="alternate" type="application/rss+xml"`)
		h.attr("title", cfg.Name)
		h.raw(` href="/feed.xml">`)
		h.raw(`<link rel="icon" href="/favicon.svg" type="image/svg+xml">`)
		h.raw(`<link rel="stylesheet" href="/public/styles.css">`)
		if jsonLD != "" {
			// json.Marshal escapes <, > and &, so the payload cannot close the tag.
			h.raw(`<script type="application/ld+json">`, jsonLD, `</script>`)
		}
		h.raw(`</head><body class="min-h-screen flex flex-col bg-stone-50 text-stone-900">`)
		h.component(header(cfg, nav))
		h.raw(`<main class="flex-1">`)
		h.component(body)
		h.raw(`</main>`)
		h.raw(`<footer class="border-t border-stone-200 py-8 text-center text-sm text-stone-500">&copy; `)
		h.raw(strconv.Itoa(time.Now().Year()), " ")
		h.text(cfg.Name)
		h.raw(`</footer></body></html>`)
	})
}

func header(cfg blockpage.SiteConfig, nav []blockpage.Page) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<header class="border-b border-stone-200 bg-white"><nav class="container mx-auto px-4 flex items-center justify-between py-4">`)
		h.raw(`<a href="/" class="text-lg font-bold">`)
		h.text(cfg.Name)
		h.raw(`</a>`)
		if len(nav) > 0 {
			h.raw(`<ul class="flex gap-6">`)
			for _, p := range nav {
				h.raw(`<li><a class="hover:underline"`)
				h.attr("href", p.Link())
				h.raw(`>`)
				h.text(p.Title)
				h.raw(`</a></li>`)
			}
			h.raw(`</ul>`)
		}
		h.raw(`</nav></header>`)
	})
}
