package blockpage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eringen/blockpage/blocks"
)

// PageSource resolves page documents by slug. Implementations return
// ErrNotFound for unknown slugs.
type PageSource interface {
	Page(ctx context.Context, slug string) (Page, error)
	Pages(ctx context.Context) ([]Page, error)
}

// Chain consults sources in order. The first source that has a page wins;
// ErrNotFound falls through to the next source, any other error aborts.
type Chain []PageSource

// Page implements PageSource.
func (ch Chain) Page(ctx context.Context, slug string) (Page, error) {
	for _, src := range ch {
		p, err := src.Page(ctx, slug)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return Page{}, err
		}
	}
	return Page{}, ErrNotFound
}

// Pages implements PageSource. Pages are merged by slug with earlier
// sources taking precedence.
func (ch Chain) Pages(ctx context.Context) ([]Page, error) {
	seen := make(map[string]struct{})
	var out []Page
	for _, src := range ch {
		pages, err := src.Pages(ctx)
		if err != nil {
			return nil, err
		}
		for _, p := range pages {
			if _, dup := seen[p.Slug]; dup {
				continue
			}
			seen[p.Slug] = struct{}{}
			out = append(out, p)
		}
	}
	return out, nil
}

// LocalPages is a read-only set of page documents loaded from YAML files.
// It backs the default content shipped with a site (about, contact, ...).
type LocalPages struct {
	pages  []Page
	bySlug map[string]int
}

type localPageFile struct {
	Slug         string    `yaml:"slug"`
	Title        string    `yaml:"title"`
	Status       string    `yaml:"status"`
	ShowInHeader bool      `yaml:"show_in_header"`
	UpdatedAt    string    `yaml:"updated_at"`
	Blocks       yaml.Node `yaml:"blocks"`
}

// LoadLocalPages reads every *.yaml / *.yml file in dir. A missing
// directory yields an empty set.
func LoadLocalPages(dir string) (*LocalPages, error) {
	lp := &LocalPages{bySlug: make(map[string]int)}
	if dir == "" {
		return lp, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return lp, nil
		}
		return nil, fmt.Errorf("read local pages: %w", err)
	}
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		p, err := ParseLocalPage(raw)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", e.Name(), err)
		}
		if p.Slug == "" {
			p.Slug = NormalizeSlug(strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
		}
		if IsReservedSlug(p.Slug) {
			return nil, fmt.Errorf("parse %s: %w: slug %q is reserved", e.Name(), ErrInvalidPage, p.Slug)
		}
		if _, dup := lp.bySlug[p.Slug]; dup {
			return nil, fmt.Errorf("parse %s: duplicate slug %q", e.Name(), p.Slug)
		}
		lp.bySlug[p.Slug] = len(lp.pages)
		lp.pages = append(lp.pages, p)
	}
	sort.SliceStable(lp.pages, func(i, j int) bool { return lp.pages[i].Slug < lp.pages[j].Slug })
	for i, p := range lp.pages {
		lp.bySlug[p.Slug] = i
	}
	return lp, nil
}

// ParseLocalPage decodes a single YAML page document.
func ParseLocalPage(raw []byte) (Page, error) {
	var f localPageFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return Page{}, err
	}
	status, ok := ParseStatus(f.Status)
	if !ok {
		return Page{}, fmt.Errorf("%w: unknown status %q", ErrInvalidPage, f.Status)
	}
	// Blocks go through JSON so YAML and stored pages share one lenient decoder.
	var bs []blocks.Block
	if f.Blocks.Kind != 0 {
		var js bytes.Buffer
		if err := nodeJSON(&js, &f.Blocks); err != nil {
			return Page{}, fmt.Errorf("encode blocks: %w", err)
		}
		if err := json.Unmarshal(js.Bytes(), &bs); err != nil {
			return Page{}, fmt.Errorf("decode blocks: %w", err)
		}
	}
	p := Page{
		Slug:         NormalizeSlug(f.Slug),
		Title:        f.Title,
		Status:       status,
		ShowInHeader: f.ShowInHeader,
		Blocks:       bs,
	}
	if f.UpdatedAt != "" {
		if t, err := time.Parse("2006-01-02", f.UpdatedAt); err == nil {
			p.UpdatedAt = t
			p.CreatedAt = t
		}
	}
	return p, nil
}

// nodeJSON writes n as JSON. Mapping keys keep their document order.
func nodeJSON(buf *bytes.Buffer, n *yaml.Node) error {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			buf.WriteString("null")
			return nil
		}
		return nodeJSON(buf, n.Content[0])
	case yaml.AliasNode:
		return nodeJSON(buf, n.Alias)
	case yaml.SequenceNode:
		buf.WriteByte('[')
		for i, c := range n.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := nodeJSON(buf, c); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case yaml.MappingNode:
		buf.WriteByte('{')
		for i := 0; i+1 < len(n.Content); i += 2 {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := scalarJSON(buf, n.Content[i].Value); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := nodeJSON(buf, n.Content[i+1]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return err
		}
		return scalarJSON(buf, v)
	}
	return fmt.Errorf("line %d: unsupported YAML node", n.Line)
}

func scalarJSON(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Truncate(buf.Len() - 1)
	return nil
}

// Page implements PageSource.
func (lp *LocalPages) Page(_ context.Context, slug string) (Page, error) {
	i, ok := lp.bySlug[slug]
	if !ok {
		return Page{}, ErrNotFound
	}
	return lp.pages[i], nil
}

// Pages implements PageSource. Pages are ordered by slug.
func (lp *LocalPages) Pages(_ context.Context) ([]Page, error) {
	return lp.pages, nil
}

// Len returns the number of loaded pages.
func (lp *LocalPages) Len() int {
	return len(lp.pages)
}
