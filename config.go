package blockpage

import "time"

// SiteConfig holds all configuration for a blockpage site.
type SiteConfig struct {
	Name        string // Site name (default "Site")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for feeds and meta tags

	Addr          string // Listen address (default ":3000")
	DatabasePath  string // SQLite path (default "data/pages.db")
	LocalPagesDir string // Directory of YAML fallback pages (default "content/pages")

	AdminPassword string // Required: admin login password
	SessionSecret string // Required: session encryption secret
	CookieSecure  bool   // Set true for HTTPS

	// TrustedHTML skips the admin HTML policy for text block markup on save.
	// The renderer itself never sanitizes.
	TrustedHTML bool

	PageCacheTTL time.Duration // Page cache TTL (default 5min)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Site"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/pages.db"
	}
	if c.LocalPagesDir == "" {
		c.LocalPagesDir = "content/pages"
	}
	if c.PageCacheTTL == 0 {
		c.PageCacheTTL = 5 * time.Minute
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithSources appends extra page sources consulted after the database and
// before the local YAML pages.
func WithSources(sources ...PageSource) Option {
	return func(a *App) {
		a.extraSources = append(a.extraSources, sources...)
	}
}
