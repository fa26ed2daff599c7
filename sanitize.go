package blockpage

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/oklog/ulid/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/eringen/blockpage/blocks"
)

// ContentPreparer normalizes admin-submitted blocks before they are stored.
// The renderer embeds text block markup verbatim, so this is the one place
// untrusted markup is cleaned.
type ContentPreparer struct {
	policy  *bluemonday.Policy
	md      goldmark.Markdown
	trusted bool
	newID   func() string
}

// NewContentPreparer builds a preparer. With trusted set, text block markup
// is stored as authored.
func NewContentPreparer(trusted bool) *ContentPreparer {
	return &ContentPreparer{
		policy:  newBlockHTMLPolicy(),
		md:      goldmark.New(goldmark.WithExtensions(extension.GFM)),
		trusted: trusted,
		newID:   func() string { return ulid.Make().String() },
	}
}

func newBlockHTMLPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("section", "figure", "figcaption")
	policy.AllowAttrs("class").Globally()
	policy.AllowAttrs("loading").OnElements("img")
	policy.RequireNoFollowOnLinks(true)
	return policy
}

// Prepare returns a cleaned copy of bs in the same order:
//   - blocks without an ID get a ULID
//   - text blocks with data.markdown get data.html rendered from it
//   - text block html/content is sanitized unless trusted
//   - hero background images that are not plain http(s) or relative URLs are dropped
func (cp *ContentPreparer) Prepare(bs []blocks.Block) ([]blocks.Block, error) {
	out := make([]blocks.Block, 0, len(bs))
	for i, b := range bs {
		if strings.TrimSpace(b.ID) == "" {
			b.ID = cp.newID()
		}
		switch blocks.Kind(b.Type) {
		case blocks.KindText:
			if src := b.Field("markdown"); src != "" {
				var buf bytes.Buffer
				if err := cp.md.Convert([]byte(src), &buf); err != nil {
					return nil, fmt.Errorf("block %d: render markdown: %w", i, err)
				}
				b = b.SetField("html", buf.String())
			}
			if !cp.trusted {
				for _, key := range []string{"html", "content"} {
					if v := b.Field(key); v != "" {
						b = b.SetField(key, cp.policy.Sanitize(v))
					}
				}
			}
		case blocks.KindHero:
			if img := b.Field("bgImage"); img != "" && !safeImageURL(img) {
				b = b.DeleteField("bgImage")
			}
		}
		out = append(out, b)
	}
	return out, nil
}

// safeImageURL accepts relative paths and http(s) URLs that cannot break out
// of a CSS url('...') value.
func safeImageURL(raw string) bool {
	if strings.ContainsAny(raw, "'\"()\\<>;") || strings.IndexFunc(raw, isSpaceOrControl) >= 0 {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "", "http", "https":
		return true
	}
	return false
}

func isSpaceOrControl(r rune) bool {
	return r <= ' ' || r == 0x7f
}
