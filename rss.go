package blockpage

import (
	"encoding/xml"
	"html"
	"net/http"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
	"github.com/microcosm-cc/bluemonday"

	"github.com/eringen/blockpage/blocks"
)

const summaryLimit = 200

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate,omitempty"`
	GUID        string `xml:"guid"`
}

var textOnly = bluemonday.StrictPolicy()

// renderRSS writes published pages, most recently updated first.
func (a *App) renderRSS(c echo.Context, pages []Page) error {
	sorted := append([]Page(nil), pages...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].UpdatedAt.After(sorted[j].UpdatedAt)
	})
	items := make([]rssItem, 0, len(sorted))
	for _, p := range sorted {
		link := PageURL(a.Config, p)
		item := rssItem{
			Title:       p.Title,
			Link:        link,
			Description: PageSummary(p),
			GUID:        link,
		}
		if !p.UpdatedAt.IsZero() {
			item.PubDate = p.UpdatedAt.UTC().Format(time.RFC1123Z)
		}
		items = append(items, item)
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.Name,
			Link:        a.Config.URL,
			Description: a.Config.Description,
			Items:       items,
		},
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}

// PageSummary is a plain-text excerpt of the page: the first hero sub-heading,
// else the text of the first non-empty text block.
func PageSummary(p Page) string {
	for _, b := range p.Blocks {
		switch v := b.Content().(type) {
		case blocks.Hero:
			if s := strings.TrimSpace(v.Sub); s != "" {
				return truncate(s, summaryLimit)
			}
		case blocks.RichText:
			s := strings.Join(strings.Fields(html.UnescapeString(textOnly.Sanitize(v.Body()))), " ")
			if s != "" {
				return truncate(s, summaryLimit)
			}
		}
	}
	return ""
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n])) + "…"
}
