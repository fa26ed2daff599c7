package views

import (
	"encoding/json"
	"strconv"

	"github.com/a-h/templ"

	"github.com/eringen/blockpage"
	"github.com/eringen/blockpage/blocks"
)

var statuses = []blockpage.Status{blockpage.StatusDraft, blockpage.StatusPublished, blockpage.StatusPrivate}

func adminLayout(title string, body templ.Component) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<meta name="robots" content="noindex"><title>`)
		h.text(title)
		h.raw(` | Admin</title><link rel="stylesheet" href="/public/styles.css">`)
		h.raw(`<script src="/public/htmx.min.js" defer></script>`)
		h.raw(`</head><body class="bg-stone-100 text-stone-900"><div class="container mx-auto px-4 py-8">`)
		h.component(body)
		h.raw(`</div></body></html>`)
	})
}

func csrfField(h *htmlWriter, token string) {
	h.raw(`<input type="hidden" name="_csrf"`)
	h.attr("value", token)
	h.raw(`>`)
}

// hxHeaders is the hx-headers value that carries the CSRF token on htmx
// DELETE requests.
func hxHeaders(token string) string {
	b, _ := json.Marshal(map[string]string{"X-CSRF-Token": token})
	return string(b)
}

// AdminLogin is the password form.
func AdminLogin(showError bool, csrfToken string) templ.Component {
	return adminLayout("Login", component(func(h *htmlWriter) {
		h.raw(`<form method="post" action="/admin/login/" class="mx-auto max-w-sm space-y-4 bg-white p-6 rounded shadow">`)
		csrfField(h, csrfToken)
		h.raw(`<h1 class="text-2xl font-bold">Admin login</h1>`)
		if showError {
			h.raw(`<p class="text-red-700" role="alert">Invalid password.</p>`)
		}
		h.raw(`<input type="password" name="password" required autofocus class="w-full border rounded px-3 py-2" placeholder="Password">`)
		h.raw(`<button type="submit" class="w-full rounded bg-stone-900 px-4 py-2 text-white">Log in</button></form>`)
	}))
}

// AdminDashboard lists every page regardless of status.
func AdminDashboard(pages []blockpage.Page, message string, csrfToken string) templ.Component {
	return adminLayout("Pages", component(func(h *htmlWriter) {
		h.raw(`<div id="dashboard"><div class="flex items-center justify-between mb-6"><h1 class="text-2xl font-bold">Pages</h1><div class="flex gap-4">`)
		h.raw(`<a href="/admin/pages/new/" class="rounded bg-stone-900 px-4 py-2 text-white">New page</a>`)
		h.raw(`<a href="/admin/images/" class="rounded border px-4 py-2">Images</a>`)
		h.raw(`<form method="post" action="/admin/logout/">`)
		csrfField(h, csrfToken)
		h.raw(`<button type="submit" class="rounded border px-4 py-2">Log out</button></form></div></div>`)
		if message != "" {
			h.raw(`<p class="mb-4 rounded bg-green-50 px-4 py-2 text-green-800" role="status">`)
			h.text(message)
			h.raw(`</p>`)
		}
		if len(pages) == 0 {
			h.raw(`<p class="text-stone-500">No pages yet.</p></div>`)
			return
		}
		h.raw(`<table class="w-full bg-white rounded shadow"><thead><tr class="text-left">`)
		h.raw(`<th class="p-3">Title</th><th class="p-3">Slug</th><th class="p-3">Status</th><th class="p-3">Header</th><th class="p-3">Updated</th><th class="p-3"></th></tr></thead><tbody>`)
		for _, p := range pages {
			h.raw(`<tr class="border-t" data-slug="`, templ.EscapeString(p.Slug), `"><td class="p-3"><a class="font-semibold hover:underline"`)
			h.attr("href", "/admin/pages/"+blockpage.PathEscape(p.Slug)+"/")
			h.raw(`>`)
			h.text(p.Title)
			h.raw(`</a></td><td class="p-3 font-mono text-sm">/`)
			h.text(p.Slug)
			h.raw(`</td><td class="p-3"><span`)
			h.attr("class", StatusClass(string(p.Status)))
			h.raw(`>`)
			h.text(string(p.Status))
			h.raw(`</span></td><td class="p-3">`)
			if p.ShowInHeader {
				h.raw(`yes`)
			}
			h.raw(`</td><td class="p-3 text-sm">`)
			h.text(FormatDate(p.UpdatedAt))
			h.raw(`</td><td class="p-3 flex gap-3"><a class="underline"`)
			h.attr("href", "/admin/pages/"+blockpage.PathEscape(p.Slug)+"/preview/")
			h.raw(`>Preview</a><button type="button" class="text-red-700 underline" hx-target="#dashboard" hx-select="#dashboard" hx-swap="outerHTML" hx-confirm="Delete this page?"`)
			h.attr("hx-delete", "/admin/pages/"+blockpage.PathEscape(p.Slug)+"/")
			h.attr("hx-headers", hxHeaders(csrfToken))
			h.raw(`>Delete</button></td></tr>`)
		}
		h.raw(`</tbody></table></div>`)
	}))
}

// AdminForm edits one page. Blocks are edited as a JSON array.
func AdminForm(form blockpage.PageForm, csrfToken string) templ.Component {
	title := "New page"
	if form.OriginalSlug != "" {
		title = "Edit " + form.Title
	}
	return adminLayout(title, component(func(h *htmlWriter) {
		h.raw(`<a href="/admin/" class="underline">&larr; Pages</a><h1 class="text-2xl font-bold my-6">`)
		h.text(title)
		h.raw(`</h1>`)
		if form.Error != "" {
			h.raw(`<p class="mb-4 rounded bg-red-50 px-4 py-2 text-red-800" role="alert">`)
			h.text(form.Error)
			h.raw(`</p>`)
		}
		h.raw(`<form method="post" action="/admin/save/" class="space-y-4 bg-white p-6 rounded shadow">`)
		csrfField(h, csrfToken)
		h.raw(`<input type="hidden" name="original_slug"`)
		h.attr("value", form.OriginalSlug)
		h.raw(`>`)

		h.raw(`<label class="block"><span class="font-semibold">Title</span><input type="text" name="title" required class="w-full border rounded px-3 py-2"`)
		h.attr("value", form.Title)
		h.raw(`></label>`)

		h.raw(`<label class="block"><span class="font-semibold">Slug</span><input type="text" name="slug" class="w-full border rounded px-3 py-2 font-mono" placeholder="derived from title"`)
		h.attr("value", form.Slug)
		h.raw(`></label>`)

		h.raw(`<label class="block"><span class="font-semibold">Status</span><select name="status" class="w-full border rounded px-3 py-2">`)
		for _, s := range statuses {
			h.raw(`<option`)
			h.attr("value", string(s))
			if s == form.Status {
				h.raw(` selected`)
			}
			h.raw(`>`)
			h.text(string(s))
			h.raw(`</option>`)
		}
		h.raw(`</select></label>`)

		h.raw(`<label class="flex items-center gap-2"><input type="checkbox" name="show_in_header" value="1"`)
		if form.ShowInHeader {
			h.raw(` checked`)
		}
		h.raw(`><span>Show in header navigation</span></label>`)

		h.raw(`<label class="block"><span class="font-semibold">Blocks</span>`)
		h.raw(`<textarea name="blocks" rows="24" spellcheck="false" class="w-full border rounded px-3 py-2 font-mono text-sm">`)
		h.text(form.BlocksJSON)
		h.raw(`</textarea></label>`)
		h.raw(`<p class="text-sm text-stone-600">Block types: `)
		h.raw(`<code>hero</code> (heading, sub, bgImage), `)
		h.raw(`<code>text</code> (html, content or markdown), `)
		h.raw(`<code>stats</code> (items of number and label). `)
		h.raw(`Each block may carry a <code>style</code> object of utility classes.</p>`)

		h.raw(`<div class="flex gap-4"><button type="submit" class="rounded bg-stone-900 px-4 py-2 text-white">Save</button>`)
		if form.OriginalSlug != "" {
			h.raw(`<a class="rounded border px-4 py-2"`)
			h.attr("href", "/admin/pages/"+blockpage.PathEscape(form.OriginalSlug)+"/preview/")
			h.raw(`>Preview</a>`)
		}
		h.raw(`</div></form>`)
	}))
}

// AdminPreview renders a page in any status under a preview banner.
func AdminPreview(p blockpage.Page) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><meta name="robots" content="noindex"><title>Preview: `)
		h.text(p.Title)
		h.raw(`</title><link rel="stylesheet" href="/public/styles.css"></head><body>`)
		h.raw(`<div class="bg-amber-100 px-4 py-2 text-sm text-amber-900">Preview of <strong>`)
		h.text(p.Title)
		h.raw(`</strong> (`)
		h.text(string(p.Status))
		h.raw(`) &middot; <a class="underline"`)
		h.attr("href", "/admin/pages/"+blockpage.PathEscape(p.Slug)+"/")
		h.raw(`>Edit</a></div><main>`)
		h.component(blocks.Component(p.Blocks))
		h.raw(`</main></body></html>`)
	})
}

// AdminImages is the media library.
func AdminImages(images []blockpage.Image, csrfToken string) templ.Component {
	return adminLayout("Images", component(func(h *htmlWriter) {
		h.raw(`<div id="images"><a href="/admin/" class="underline">&larr; Pages</a><h1 class="text-2xl font-bold my-6">Images</h1>`)
		h.raw(`<form method="post" action="/admin/images/upload/" enctype="multipart/form-data" class="mb-6 flex gap-4 bg-white p-4 rounded shadow">`)
		csrfField(h, csrfToken)
		h.raw(`<input type="file" name="image" accept="image/jpeg,image/png,image/gif" required>`)
		h.raw(`<button type="submit" class="rounded bg-stone-900 px-4 py-2 text-white">Upload</button></form>`)
		if len(images) == 0 {
			h.raw(`<p class="text-stone-500">No images uploaded.</p></div>`)
			return
		}
		h.raw(`<ul class="grid grid-cols-2 md:grid-cols-4 gap-4">`)
		for _, img := range images {
			src := img.URL()
			h.raw(`<li class="bg-white rounded shadow p-2"><img loading="lazy" class="w-full"`)
			h.attr("src", src)
			h.attr("alt", img.OriginalName)
			h.raw(`><p class="mt-2 font-mono text-xs break-all">`)
			h.text(src)
			h.raw(`</p><p class="text-xs text-stone-500">`)
			h.raw(strconv.Itoa(img.Width), "&times;", strconv.Itoa(img.Height), " &middot; ", strconv.Itoa(img.Size/1024), " KB")
			h.raw(`</p><button type="button" class="text-red-700 underline text-sm" hx-target="#images" hx-select="#images" hx-swap="outerHTML" hx-confirm="Delete this image?"`)
			h.attr("hx-delete", "/admin/images/"+blockpage.PathEscape(img.Filename)+"/")
			h.attr("hx-headers", hxHeaders(csrfToken))
			h.raw(`>Delete</button></li>`)
		}
		h.raw(`</ul></div>`)
	}))
}
