package blockpage

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// renderSitemap lists the site root followed by every published page.
func (a *App) renderSitemap(c echo.Context, pages []Page) error {
	urls := []sitemapURL{{Loc: BuildURL(a.Config.URL)}}
	for _, p := range pages {
		loc := PageURL(a.Config, p)
		if p.Slug == HomeSlug {
			urls[0].LastMod = lastMod(p)
			continue
		}
		urls = append(urls, sitemapURL{Loc: loc, LastMod: lastMod(p)})
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}

func lastMod(p Page) string {
	if p.UpdatedAt.IsZero() {
		return ""
	}
	return p.UpdatedAt.UTC().Format("2006-01-02")
}
