package views

import (
	"github.com/a-h/templ"

	"github.com/eringen/blockpage"
	"github.com/eringen/blockpage/blocks"
)

// Page renders a published page. The block fragment is embedded as is.
func Page(cfg blockpage.SiteConfig, p blockpage.Page, nav []blockpage.Page) templ.Component {
	meta := blockpage.PageMeta{
		Title:       p.Title,
		Description: blockpage.PageSummary(p),
		URL:         blockpage.PageURL(cfg, p),
		OGType:      "article",
	}
	jsonLD := blockpage.WebPageJsonLD(p, cfg)
	if p.Slug == blockpage.HomeSlug {
		meta.Title = cfg.Name
		meta.OGType = "website"
		jsonLD = blockpage.WebsiteJsonLD(cfg)
	}
	return Layout(cfg, meta, jsonLD, nav, blocks.Component(p.Blocks))
}

// Index lists published pages when no home page exists.
func Index(cfg blockpage.SiteConfig, pages, nav []blockpage.Page) templ.Component {
	body := component(func(h *htmlWriter) {
		h.raw(`<section class="container mx-auto px-4 py-12"><h1 class="text-3xl font-bold mb-8">`)
		h.text(cfg.Name)
		h.raw(`</h1>`)
		if cfg.Description != "" {
			h.raw(`<p class="mb-8 text-stone-600">`)
			h.text(cfg.Description)
			h.raw(`</p>`)
		}
		if len(pages) == 0 {
			h.raw(`<p class="text-stone-500">Nothing published yet.</p>`)
		} else {
			h.raw(`<ul class="space-y-4">`)
			for _, p := range pages {
				h.raw(`<li><a class="text-xl font-semibold hover:underline"`)
				h.attr("href", p.Link())
				h.raw(`>`)
				h.text(p.Title)
				h.raw(`</a>`)
				if s := blockpage.PageSummary(p); s != "" {
					h.raw(`<p class="text-stone-600">`)
					h.text(s)
					h.raw(`</p>`)
				}
				h.raw(`</li>`)
			}
			h.raw(`</ul>`)
		}
		h.raw(`</section>`)
	})
	meta := blockpage.PageMeta{Title: cfg.Name, Description: cfg.Description, URL: blockpage.BuildURL(cfg.URL)}
	return Layout(cfg, meta, blockpage.WebsiteJsonLD(cfg), nav, body)
}

// NotFound is shown for unknown slugs and for pages that are not published.
func NotFound(cfg blockpage.SiteConfig, nav []blockpage.Page) templ.Component {
	body := component(func(h *htmlWriter) {
		h.raw(`<section class="container mx-auto px-4 py-20 text-center">`)
		h.raw(`<h1 class="text-5xl font-bold mb-4">404</h1>`)
		h.raw(`<p class="text-xl mb-8">Page not found.</p>`)
		h.raw(`<a href="/" class="underline">Back to home</a></section>`)
	})
	return Layout(cfg, blockpage.PageMeta{Title: "Page not found"}, "", nav, body)
}

// ServerError does not touch the page sources; they may be what failed.
func ServerError(cfg blockpage.SiteConfig) templ.Component {
	body := component(func(h *htmlWriter) {
		h.raw(`<section class="container mx-auto px-4 py-20 text-center">`)
		h.raw(`<h1 class="text-5xl font-bold mb-4">500</h1>`)
		h.raw(`<p class="text-xl">Something went wrong. Please try again later.</p></section>`)
	})
	return Layout(cfg, blockpage.PageMeta{Title: "Server error"}, "", nil, body)
}
