package blockpage

import (
	"net/url"
	"strings"
	"time"

	"github.com/eringen/blockpage/blocks"
)

// Status is the publication state of a page.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusPrivate   Status = "private"
)

// ParseStatus validates s. An empty string means draft.
func ParseStatus(s string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case "", StatusDraft:
		return StatusDraft, true
	case StatusPublished:
		return StatusPublished, true
	case StatusPrivate:
		return StatusPrivate, true
	}
	return "", false
}

// Page is an admin-authored document: metadata plus ordered blocks.
type Page struct {
	ID           int64
	Slug         string
	Title        string
	Status       Status
	Blocks       []blocks.Block
	ShowInHeader bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Visible reports whether anonymous visitors may see the page.
func (p Page) Visible() bool {
	return p.Status == StatusPublished
}

// Link is the public path of the page.
func (p Page) Link() string {
	if p.Slug == HomeSlug {
		return "/"
	}
	return "/" + p.Slug + "/"
}

// Image is an uploaded media file.
type Image struct {
	Filename     string
	OriginalName string
	Width        int
	Height       int
	Size         int
	UploadedAt   string
}

// URL is the public path of the image, usable as a hero bgImage or an img src.
func (img Image) URL() string {
	return "/public/" + uploadsSubdir + "/" + url.PathEscape(img.Filename)
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
}
