package blockpage

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/blockpage/blocks"
)

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.AdminLogin(false, CsrfToken(c)))
	}
	return a.renderAdminDashboard(c, c.QueryParam("msg"))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) != 1 {
		a.loginLimiter.Record(ip)
		return RenderStatus(c, http.StatusUnauthorized, a.Views.AdminLogin(true, CsrfToken(c)))
	}
	a.loginLimiter.Reset(ip)
	if err := setAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handleAdminNew(c echo.Context) error {
	return Render(c, a.Views.AdminForm(PageForm{Status: StatusDraft, BlocksJSON: "[]"}, CsrfToken(c)))
}

func (a *App) handleAdminEdit(c echo.Context) error {
	page, err := a.Store.GetPageAny(NormalizeSlug(c.Param("slug")))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.ErrNotFound
		}
		return err
	}
	form := PageForm{
		OriginalSlug: page.Slug,
		Title:        page.Title,
		Slug:         page.Slug,
		Status:       page.Status,
		ShowInHeader: page.ShowInHeader,
		BlocksJSON:   encodeBlocksIndent(page.Blocks),
	}
	return Render(c, a.Views.AdminForm(form, CsrfToken(c)))
}

func (a *App) handleAdminPreview(c echo.Context) error {
	page, err := a.Store.GetPageAny(NormalizeSlug(c.Param("slug")))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.ErrNotFound
		}
		return err
	}
	return Render(c, a.Views.AdminPreview(page))
}

func (a *App) handleAdminSave(c echo.Context) error {
	if err := c.Request().ParseForm(); err != nil {
		return err
	}
	form := PageForm{
		OriginalSlug: NormalizeSlug(c.FormValue("original_slug")),
		Title:        c.FormValue("title"),
		Slug:         c.FormValue("slug"),
		Status:       Status(c.FormValue("status")),
		ShowInHeader: c.FormValue("show_in_header") != "",
		BlocksJSON:   c.FormValue("blocks"),
	}
	bs, err := decodeBlocksForm(form.BlocksJSON)
	if err == nil {
		_, err = a.savePage(form.OriginalSlug, Page{
			Slug:         form.Slug,
			Title:        form.Title,
			Status:       form.Status,
			Blocks:       bs,
			ShowInHeader: form.ShowInHeader,
		})
	}
	if err != nil {
		code := statusFor(err)
		if code >= 500 {
			return err
		}
		form.Error = err.Error()
		return RenderStatus(c, code, a.Views.AdminForm(form, CsrfToken(c)))
	}
	return c.Redirect(http.StatusSeeOther, "/admin/?msg="+url.QueryEscape("saved"))
}

func (a *App) handleAdminDelete(c echo.Context) error {
	if err := a.deletePage(NormalizeSlug(c.Param("slug"))); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	return a.renderAdminDashboard(c, "deleted")
}

func (a *App) renderAdminDashboard(c echo.Context, msg string) error {
	pages, err := a.Store.ListPages("")
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminDashboard(pages, msg, CsrfToken(c)))
}

// savePage validates and prepares p, then creates it (originalSlug empty) or
// updates the page stored under originalSlug.
func (a *App) savePage(originalSlug string, p Page) (Page, error) {
	if err := ValidatePage(&p); err != nil {
		return Page{}, err
	}
	prepared, err := a.preparer.Prepare(p.Blocks)
	if err != nil {
		return Page{}, fmt.Errorf("%w: %v", ErrInvalidPage, err)
	}
	p.Blocks = prepared

	var saved Page
	if originalSlug == "" {
		saved, err = a.Store.CreatePage(p)
	} else {
		saved, err = a.Store.UpdatePage(originalSlug, p)
	}
	if err != nil {
		return Page{}, err
	}
	a.Cache.Invalidate()
	return saved, nil
}

func (a *App) deletePage(slug string) error {
	if err := a.Store.DeletePage(slug); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return nil
}

// decodeBlocksForm parses the blocks textarea. Blank input is an empty page.
func decodeBlocksForm(raw string) ([]blocks.Block, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var bs []blocks.Block
	if err := json.Unmarshal([]byte(raw), &bs); err != nil {
		return nil, fmt.Errorf("%w: blocks must be a JSON array of objects", ErrInvalidPage)
	}
	return bs, nil
}

func encodeBlocksIndent(bs []blocks.Block) string {
	if len(bs) == 0 {
		return "[]"
	}
	b, err := blocks.MarshalIndent(bs, "  ")
	if err != nil {
		return "[]"
	}
	return string(b)
}
