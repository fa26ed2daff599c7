package blockpage

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/blockpage/blocks"
)

// pageJSON is the wire form of a page.
type pageJSON struct {
	Slug         string         `json:"slug"`
	Title        string         `json:"title"`
	Blocks       []blocks.Block `json:"blocks"`
	Status       Status         `json:"status"`
	ShowInHeader bool           `json:"show_in_header"`
	CreatedAt    *time.Time     `json:"created_at,omitempty"`
	UpdatedAt    *time.Time     `json:"updated_at,omitempty"`
}

func toPageJSON(p Page) pageJSON {
	out := pageJSON{
		Slug:         p.Slug,
		Title:        p.Title,
		Blocks:       p.Blocks,
		Status:       p.Status,
		ShowInHeader: p.ShowInHeader,
	}
	if out.Blocks == nil {
		out.Blocks = []blocks.Block{}
	}
	if !p.CreatedAt.IsZero() {
		t := p.CreatedAt
		out.CreatedAt = &t
	}
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		out.UpdatedAt = &t
	}
	return out
}

func toPageList(pages []Page) []pageJSON {
	out := make([]pageJSON, 0, len(pages))
	for _, p := range pages {
		out = append(out, toPageJSON(p))
	}
	return out
}

// pageInput is the body of create and update requests. Nil fields, and an
// empty slug, are left unchanged on update.
type pageInput struct {
	Slug         *string         `json:"slug"`
	Title        *string         `json:"title"`
	Blocks       *[]blocks.Block `json:"blocks"`
	Status       *string         `json:"status"`
	ShowInHeader *bool           `json:"show_in_header"`
}

func (in pageInput) apply(p *Page) {
	if in.Slug != nil && strings.TrimSpace(*in.Slug) != "" {
		p.Slug = *in.Slug
	}
	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Blocks != nil {
		p.Blocks = *in.Blocks
	}
	if in.Status != nil {
		p.Status = Status(*in.Status)
	}
	if in.ShowInHeader != nil {
		p.ShowInHeader = *in.ShowInHeader
	}
}

func (a *App) handleAPIListPages(c echo.Context) error {
	var status Status
	if q := c.QueryParam("status"); q != "" {
		s, ok := ParseStatus(q)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown status")
		}
		status = s
	}
	if IsAdmin(c) {
		pages, err := a.Store.ListPages(status)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, toPageList(pages))
	}
	if status != "" && status != StatusPublished {
		return c.JSON(http.StatusOK, []pageJSON{})
	}
	pages, err := a.publishedPages(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPageList(pages))
}

func (a *App) handleAPIHeaderMenu(c echo.Context) error {
	nav, err := a.headerPages(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPageList(nav))
}

func (a *App) handleAPIGetPage(c echo.Context) error {
	slug := NormalizeSlug(c.Param("slug"))
	if IsAdmin(c) {
		p, err := a.Store.GetPageAny(slug)
		if err == nil {
			return c.JSON(http.StatusOK, toPageJSON(p))
		}
		if !errors.Is(err, ErrNotFound) {
			return err
		}
	}
	p, err := a.Pages.Page(c.Request().Context(), slug)
	if err != nil {
		return err
	}
	if !p.Visible() && !IsAdmin(c) {
		return ErrNotFound
	}
	return c.JSON(http.StatusOK, toPageJSON(p))
}

func (a *App) handleAPICreatePage(c echo.Context) error {
	var in pageInput
	if err := c.Bind(&in); err != nil {
		return err
	}
	var p Page
	in.apply(&p)
	saved, err := a.savePage("", p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toPageJSON(saved))
}

func (a *App) handleAPIUpdatePage(c echo.Context) error {
	slug := NormalizeSlug(c.Param("slug"))
	current, err := a.Store.GetPageAny(slug)
	if err != nil {
		return err
	}
	var in pageInput
	if err := c.Bind(&in); err != nil {
		return err
	}
	in.apply(&current)
	saved, err := a.savePage(slug, current)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPageJSON(saved))
}

func (a *App) handleAPIDeletePage(c echo.Context) error {
	if err := a.deletePage(NormalizeSlug(c.Param("slug"))); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

type renderRequest struct {
	Blocks []blocks.Block `json:"blocks"`
}

type renderResponse struct {
	HTML string `json:"html"`
}

func handleAPIRender(c echo.Context) error {
	var req renderRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, renderResponse{HTML: blocks.Render(req.Blocks)})
}
