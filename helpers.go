package blockpage

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
)

// HomeSlug is the slug of the page served at "/".
const HomeSlug = "home"

// ErrInvalidPage wraps page validation failures.
var ErrInvalidPage = errors.New("blockpage: invalid page")

// reservedSlugs are first path segments owned by the application.
var reservedSlugs = map[string]struct{}{
	"admin":  {},
	"api":    {},
	"public": {},
	"p":      {},
}

// Slugify converts a title to a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		case r == '_':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// NormalizeSlug strips surrounding slashes and whitespace and lowercases s.
// Admin-entered slugs are stored in this form.
func NormalizeSlug(s string) string {
	return strings.ToLower(strings.Trim(strings.TrimSpace(s), "/"))
}

// IsReservedSlug reports whether slug collides with an application route.
func IsReservedSlug(slug string) bool {
	_, ok := reservedSlugs[slug]
	return ok
}

// ValidatePage normalizes p in place and checks it can be stored.
func ValidatePage(p *Page) error {
	p.Title = strings.TrimSpace(p.Title)
	p.Slug = NormalizeSlug(p.Slug)
	if p.Slug == "" {
		p.Slug = Slugify(p.Title)
	}
	if p.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidPage)
	}
	if p.Slug == "" {
		return fmt.Errorf("%w: slug is required", ErrInvalidPage)
	}
	if Slugify(p.Slug) != p.Slug {
		return fmt.Errorf("%w: slug %q may only contain a-z, 0-9, '-' and '_'", ErrInvalidPage, p.Slug)
	}
	if IsReservedSlug(p.Slug) {
		return fmt.Errorf("%w: slug %q is reserved", ErrInvalidPage, p.Slug)
	}
	status, ok := ParseStatus(string(p.Status))
	if !ok {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidPage, p.Status)
	}
	p.Status = status
	return nil
}

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// PageURL is the canonical absolute URL of p.
func PageURL(cfg SiteConfig, p Page) string {
	if p.Slug == HomeSlug {
		return BuildURL(cfg.URL)
	}
	return BuildURL(cfg.URL, p.Slug)
}

// PathEscape escapes a string for use in a URL path.
func PathEscape(s string) string {
	return url.PathEscape(s)
}

// WebsiteJsonLD returns a JSON-LD string for a WebSite schema using SiteConfig.
func WebsiteJsonLD(cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "WebSite",
		"name":        cfg.Name,
		"url":         BuildURL(cfg.URL),
		"description": cfg.Description,
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// WebPageJsonLD returns a JSON-LD string for a WebPage schema.
func WebPageJsonLD(p Page, cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebPage",
		"name":     p.Title,
		"url":      PageURL(cfg, p),
	}
	if !p.UpdatedAt.IsZero() {
		data["dateModified"] = p.UpdatedAt.UTC().Format("2006-01-02")
	}
	if cfg.Name != "" {
		data["isPartOf"] = map[string]string{
			"@type": "WebSite",
			"name":  cfg.Name,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
