package blockpage

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"
)

func (a *App) handleHome(c echo.Context) error {
	ctx := c.Request().Context()
	nav, err := a.headerPages(ctx)
	if err != nil {
		return err
	}
	page, err := a.Pages.Page(ctx, HomeSlug)
	switch {
	case err == nil && page.Visible():
		return Render(c, a.Views.Page(page, nav))
	case err != nil && !errors.Is(err, ErrNotFound):
		return err
	}
	pages, err := a.publishedPages(ctx)
	if err != nil {
		return err
	}
	return Render(c, a.Views.Index(pages, nav))
}

func (a *App) handlePage(c echo.Context) error {
	ctx := c.Request().Context()
	slug := NormalizeSlug(c.Param("slug"))
	if slug == HomeSlug {
		return c.Redirect(http.StatusMovedPermanently, "/")
	}
	page, err := a.Pages.Page(ctx, slug)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	nav, navErr := a.headerPages(ctx)
	if navErr != nil {
		return navErr
	}
	// Drafts and private pages are indistinguishable from missing ones.
	if err != nil || !page.Visible() {
		return RenderStatus(c, http.StatusNotFound, a.Views.NotFound(nav))
	}
	return Render(c, a.Views.Page(page, nav))
}

func handlePageRedirect(c echo.Context) error {
	slug := NormalizeSlug(c.Param("slug"))
	return c.Redirect(http.StatusMovedPermanently, "/"+PathEscape(slug)+"/")
}

func (a *App) handleSitemap(c echo.Context) error {
	pages, err := a.publishedPages(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderSitemap(c, pages)
}

func (a *App) handleFeed(c echo.Context) error {
	pages, err := a.publishedPages(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderRSS(c, pages)
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

func (a *App) handleRobots(c echo.Context) error {
	return c.File(a.staticDir + "/robots.txt")
}

// publishedPages lists every visible page across all sources.
func (a *App) publishedPages(ctx context.Context) ([]Page, error) {
	all, err := a.Pages.Pages(ctx)
	if err != nil {
		return nil, err
	}
	pages := make([]Page, 0, len(all))
	for _, p := range all {
		if p.Visible() {
			pages = append(pages, p)
		}
	}
	return pages, nil
}

// headerPages returns the navigation entries, oldest first.
func (a *App) headerPages(ctx context.Context) ([]Page, error) {
	pages, err := a.publishedPages(ctx)
	if err != nil {
		return nil, err
	}
	nav := pages[:0]
	for _, p := range pages {
		if p.ShowInHeader {
			nav = append(nav, p)
		}
	}
	sort.SliceStable(nav, func(i, j int) bool {
		return nav[i].CreatedAt.Before(nav[j].CreatedAt)
	})
	return nav, nil
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	if strings.HasPrefix(c.Request().URL.Path, "/api/") {
		a.apiErrorHandler(err, c)
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		nav, _ := a.headerPages(c.Request().Context())
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(nav))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
