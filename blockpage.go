// Package blockpage is a page engine built with Go, Echo, and templ.
// Admins author pages as ordered lists of typed blocks; the engine stores
// them in SQLite, resolves public requests by slug, and renders the blocks
// into the site layout.
//
// Users provide their own templ templates via the ViewFuncs struct, and
// blockpage handles the handler logic, middleware, and database operations.
package blockpage

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// PageForm is the admin edit form state.
type PageForm struct {
	OriginalSlug string // empty for a new page
	Title        string
	Slug         string
	Status       Status
	ShowInHeader bool
	BlocksJSON   string
	Error        string
}

// ViewFuncs holds user-provided templ components that the framework calls
// when rendering pages.
type ViewFuncs struct {
	Page           func(page Page, nav []Page) templ.Component
	Index          func(pages []Page, nav []Page) templ.Component
	NotFound       func(nav []Page) templ.Component
	ServerError    func() templ.Component
	AdminLogin     func(showError bool, csrfToken string) templ.Component
	AdminDashboard func(pages []Page, message string, csrfToken string) templ.Component
	AdminForm      func(form PageForm, csrfToken string) templ.Component
	AdminPreview   func(page Page) templ.Component
	AdminImages    func(images []Image, csrfToken string) templ.Component
}

// App is the central blockpage application. It wires together the store,
// page sources, handlers, middleware, and user-provided templates.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Cache  *PageCache
	Local  *LocalPages
	Pages  Chain
	Views  ViewFuncs

	loginLimiter *LoginLimiter
	preparer     *ContentPreparer
	customRoutes []func(*App)
	extraSources []PageSource
	staticDir    string
}

// New creates a new blockpage App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Setup opens the store, loads local pages, and registers middleware and
// routes. Start calls it; tests call it directly and drive a.Echo.
func (a *App) Setup() error {
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("blockpage: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("blockpage: SessionSecret is required")
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("blockpage: init store: %w", err)
	}
	a.Store = store
	a.Cache = NewPageCache(a.Store, a.Config.PageCacheTTL)

	local, err := LoadLocalPages(a.Config.LocalPagesDir)
	if err != nil {
		a.Store.Close()
		return fmt.Errorf("blockpage: load local pages: %w", err)
	}
	a.Local = local

	// Database first, then caller-supplied sources, then shipped defaults.
	a.Pages = Chain{a.Cache}
	a.Pages = append(a.Pages, a.extraSources...)
	a.Pages = append(a.Pages, a.Local)

	a.preparer = NewContentPreparer(a.Config.TrustedHTML)
	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start runs Setup and starts the server.
func (a *App) Start() error {
	if err := a.Setup(); err != nil {
		return err
	}
	a.Echo.Logger.Infof("blockpage: %d local pages from %s", a.Local.Len(), a.Config.LocalPagesDir)
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// User's static assets
	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	// Public routes
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/", a.handleHome)
	e.GET("/p/:slug/", handlePageRedirect)
	e.GET("/:slug/", a.handlePage)

	// JSON API
	api := e.Group("/api")
	api.GET("/pages", a.handleAPIListPages)
	api.GET("/pages/header/menu", a.handleAPIHeaderMenu)
	api.GET("/pages/:slug", a.handleAPIGetPage)
	api.POST("/pages", a.handleAPICreatePage, requireAdminJSON)
	api.PUT("/pages/:slug", a.handleAPIUpdatePage, requireAdminJSON)
	api.DELETE("/pages/:slug", a.handleAPIDeletePage, requireAdminJSON)
	api.POST("/render", handleAPIRender, requireAdminJSON)

	// Admin routes
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)
	admin := e.Group("/admin", requireAdmin)
	admin.GET("/pages/new/", a.handleAdminNew)
	admin.GET("/pages/:slug/", a.handleAdminEdit)
	admin.GET("/pages/:slug/preview/", a.handleAdminPreview)
	admin.POST("/save/", a.handleAdminSave)
	admin.DELETE("/pages/:slug/", a.handleAdminDelete)
	admin.GET("/images/", a.handleImageList)
	admin.POST("/images/upload/", a.handleImageUpload)
	admin.DELETE("/images/:filename/", a.handleImageDelete)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.loginLimiter != nil {
		a.loginLimiter.Close()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("blockpage: required environment variable %s is not set", key)
	}
	return v
}
