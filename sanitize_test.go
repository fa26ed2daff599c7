package blockpage

import (
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareAssignsIDs(t *testing.T) {
	cp := NewContentPreparer(false)
	in := mustBlocks(t, `[{"id":"keep","type":"hero"},{"type":"text"},{"id":"  ","type":"stats"}]`)

	out, err := cp.Prepare(in)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "keep", out[0].ID)
	_, err = ulid.ParseStrict(out[1].ID)
	assert.NoError(t, err, "generated id %q is a ULID", out[1].ID)
	assert.NotEqual(t, out[1].ID, out[2].ID)
	assert.Equal(t, []string{"hero", "text", "stats"}, []string{out[0].Type, out[1].Type, out[2].Type})
}

func TestPrepareSanitizesTextMarkup(t *testing.T) {
	cp := NewContentPreparer(false)
	in := mustBlocks(t, `[{"type":"text","data":{
		"html":"<p class=\"lead\" onclick=\"x()\">Hi<script>alert(1)</script></p>",
		"content":"<img src=x onerror=alert(1)>ok"}}]`)

	out, err := cp.Prepare(in)
	require.NoError(t, err)
	html := out[0].Field("html")
	assert.Equal(t, `<p class="lead">Hi</p>`, html)
	content := out[0].Field("content")
	assert.NotContains(t, content, "onerror")
	assert.Contains(t, content, "ok")
}

func TestPrepareTrustedKeepsMarkup(t *testing.T) {
	cp := NewContentPreparer(true)
	raw := `<div onclick="x()">raw</div>`
	in := mustBlocks(t, `[{"type":"text","data":{"html":"<div onclick=\"x()\">raw</div>"}}]`)

	out, err := cp.Prepare(in)
	require.NoError(t, err)
	assert.Equal(t, raw, out[0].Field("html"))
}

func TestPrepareRendersMarkdown(t *testing.T) {
	cp := NewContentPreparer(false)
	in := mustBlocks(t, `[{"type":"text","data":{"markdown":"# Title\n\nSome **bold** text","html":"<p>stale</p>"}}]`)

	out, err := cp.Prepare(in)
	require.NoError(t, err)
	html := out[0].Field("html")
	assert.Contains(t, html, "<h1")
	assert.Contains(t, html, "<strong>bold</strong>")
	assert.NotContains(t, html, "stale")
	assert.Equal(t, "# Title\n\nSome **bold** text", out[0].Field("markdown"), "source kept for editing")
}

func TestPrepareMarkdownDropsRawHTML(t *testing.T) {
	cp := NewContentPreparer(true)
	in := mustBlocks(t, `[{"type":"text","data":{"markdown":"<script>alert(1)</script>\n\ntext"}}]`)

	out, err := cp.Prepare(in)
	require.NoError(t, err)
	assert.NotContains(t, out[0].Field("html"), "<script>")
}

func TestPrepareHeroBackground(t *testing.T) {
	cp := NewContentPreparer(false)
	tests := []struct {
		url  string
		keep bool
	}{
		{"/public/uploads/cat.jpg", true},
		{"https://cdn.example.com/a.png", true},
		{"javascript:alert(1)", false},
		{"x.jpg'); background:red; ('", false},
		{"a b.jpg", false},
	}
	for _, tt := range tests {
		in := mustBlocks(t, `[{"type":"hero","data":{"heading":"H"}}]`)
		in[0] = in[0].SetField("bgImage", tt.url)

		out, err := cp.Prepare(in)
		require.NoError(t, err)
		if tt.keep {
			assert.Equal(t, tt.url, out[0].Field("bgImage"))
		} else {
			assert.Empty(t, out[0].Field("bgImage"), "bgImage %q", tt.url)
		}
		assert.Equal(t, "H", out[0].Field("heading"))
	}
}

func TestPrepareLeavesOtherBlocksAlone(t *testing.T) {
	cp := NewContentPreparer(false)
	in := mustBlocks(t, `[{"id":"m","type":"map","data":{"html":"<script>x</script>"}}]`)

	out, err := cp.Prepare(in)
	require.NoError(t, err)
	assert.Equal(t, `{"html":"<script>x</script>"}`, string(out[0].Data))
}

func TestPrepareEmpty(t *testing.T) {
	out, err := NewContentPreparer(false).Prepare(nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}
