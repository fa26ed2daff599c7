package blocks

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBlocks(t *testing.T, src string) []Block {
	t.Helper()
	var out []Block
	require.NoError(t, json.Unmarshal([]byte(src), &out))
	return out
}

func parseFragment(t *testing.T, fragment string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	require.NoError(t, err)
	return doc
}

func TestRenderEmpty(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", Render(nil))
	assert.Equal(t, "", Render([]Block{}))
	assert.Equal(t, "", Render(decodeBlocks(t, `[]`)))
}

func TestRenderHeroWithTextColor(t *testing.T) {
	t.Parallel()

	bs := decodeBlocks(t, `[{"type":"hero","data":{"heading":"Welcome","sub":"Learn with us"},"style":{"textColor":"text-white"}}]`)
	doc := parseFragment(t, Render(bs))

	sections := doc.Find("section")
	require.Equal(t, 1, sections.Length())
	assert.Equal(t, "text-white transition-all", sections.AttrOr("class", "<missing>"))
	assert.Equal(t, "Welcome", sections.Find("h1").Text())
	assert.Equal(t, "Learn with us", sections.Find("p").Text())
}

func TestRenderHeroWithoutData(t *testing.T) {
	t.Parallel()

	doc := parseFragment(t, Render([]Block{{Type: "hero"}}))

	section := doc.Find("section")
	require.Equal(t, 1, section.Length())
	assert.Equal(t, HeroDefaultClasses, section.AttrOr("class", ""))
	assert.Equal(t, "", section.Find("h1").Text())
	assert.Equal(t, "", section.Find("p").Text())
	assert.True(t, section.Find("h1").HasClass("text-white"), "heading falls back to white text")
}

func TestRenderHeroTextColorFallbackIsIndependent(t *testing.T) {
	t.Parallel()

	bs := decodeBlocks(t, `[{"type":"hero","data":{"heading":"Hi"},"style":{"bgColor":"bg-black","padding":"py-8"}}]`)
	doc := parseFragment(t, Render(bs))

	assert.Equal(t, "bg-black py-8 transition-all", doc.Find("section").AttrOr("class", ""))
	assert.True(t, doc.Find("h1").HasClass("text-white"))
	assert.True(t, doc.Find("p").HasClass("text-white"))
}

func TestRenderHeroEscapesText(t *testing.T) {
	t.Parallel()

	bs := decodeBlocks(t, `[{"type":"hero","data":{"heading":"<b>bold</b>","sub":"a & b"}}]`)
	out := Render(bs)

	assert.Contains(t, out, "&lt;b&gt;bold&lt;/b&gt;")
	assert.Contains(t, out, "a &amp; b")
}

func TestRenderHeroBackgroundImage(t *testing.T) {
	t.Parallel()

	bs := decodeBlocks(t, `[{"type":"hero","data":{"heading":"x","bgImage":"/public/uploads/cover.jpg"}}]`)
	doc := parseFragment(t, Render(bs))

	style := doc.Find("section").AttrOr("style", "")
	assert.Contains(t, style, "background-image: url('/public/uploads/cover.jpg')")
}

func TestRenderTextPrefersHTML(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		data string
		want string
	}{
		{"html", `{"html":"<p>rich</p>","content":"<p>plain</p>"}`, "<p>rich</p>"},
		{"content", `{"content":"<p>plain</p>"}`, "<p>plain</p>"},
		{"empty", `{}`, ""},
		{"null", `null`, ""},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			bs := decodeBlocks(t, `[{"type":"text","data":`+tc.data+`}]`)
			out := Render(bs)
			want := `<section class="` + TextDefaultClasses + `"><div class="container mx-auto px-4 prose max-w-none">` + tc.want + `</div></section>`
			assert.Equal(t, want, out)
		})
	}
}

func TestRenderTextDoesNotSanitize(t *testing.T) {
	t.Parallel()

	bs := decodeBlocks(t, `[{"type":"text","data":{"html":"<script>alert(1)</script>"}}]`)
	assert.Contains(t, Render(bs), "<script>alert(1)</script>")
}

func TestRenderStats(t *testing.T) {
	t.Parallel()

	bs := decodeBlocks(t, `[{"type":"stats","data":{"items":[{"number":"50,000+","label":"Students"}]}}]`)
	doc := parseFragment(t, Render(bs))

	section := doc.Find("section")
	require.Equal(t, 1, section.Length())
	assert.Equal(t, TextDefaultClasses, section.AttrOr("class", ""))

	grid := section.Find(".grid")
	require.Equal(t, 1, grid.Length())
	items := grid.Children()
	require.Equal(t, 1, items.Length())
	assert.Equal(t, "50,000+", items.Find(".text-4xl").Text())
	assert.Equal(t, "Students", items.Find(".mt-2").Text())
}

func TestRenderStatsWithoutItems(t *testing.T) {
	t.Parallel()

	for _, data := range []string{`{}`, `null`, `{"items":"nope"}`, `{"items":null}`} {
		bs := decodeBlocks(t, `[{"type":"stats","data":`+data+`}]`)
		doc := parseFragment(t, Render(bs))
		grid := doc.Find("section .grid")
		require.Equal(t, 1, grid.Length(), data)
		assert.Equal(t, 0, grid.Children().Length(), data)
	}
}

func TestRenderStatsCoercesNumbers(t *testing.T) {
	t.Parallel()

	bs := decodeBlocks(t, `[{"type":"stats","data":{"items":[{"number":1500,"label":true},{"label":"only label"},"junk"]}}]`)
	doc := parseFragment(t, Render(bs))

	items := doc.Find("section .grid").Children()
	require.Equal(t, 3, items.Length())
	assert.Equal(t, "1500", items.Eq(0).Find(".text-4xl").Text())
	assert.Equal(t, "true", items.Eq(0).Find(".mt-2").Text())
	assert.Equal(t, "", items.Eq(1).Find(".text-4xl").Text())
	assert.Equal(t, "only label", items.Eq(1).Find(".mt-2").Text())
	assert.Equal(t, "", items.Eq(2).Text())
}

func TestRenderUnknownType(t *testing.T) {
	t.Parallel()

	out := Render(decodeBlocks(t, `[{"type":"unknown_widget","data":{"foo":"bar"}}]`))
	assert.Equal(t, `<section class="">{"foo":"bar"}</section>`, out)
}

func TestRenderUnknownTypeKeepsKeyOrder(t *testing.T) {
	t.Parallel()

	out := Render(decodeBlocks(t, `[{"type":"gallery","data":{ "z": 1, "a": [ "x" ] }}]`))
	assert.Equal(t, `<section class="">{"z":1,"a":["x"]}</section>`, out)
}

func TestRenderUnknownTypeWithStyle(t *testing.T) {
	t.Parallel()

	out := Render(decodeBlocks(t, `[{"type":"faq","data":{"q":"<x>"},"style":{"shadow":"shadow-lg"}}]`))
	assert.Equal(t, `<section class="shadow-lg transition-all">{"q":"&lt;x&gt;"}</section>`, out)
}

func TestRenderUnknownTypeNullData(t *testing.T) {
	t.Parallel()

	for _, src := range []string{
		`[{"type":"widget"}]`,
		`[{"type":"widget","data":null}]`,
		`[{"data":{}}]`,
		`[{"type":42}]`,
	} {
		assert.Equal(t, `<section class="">{}</section>`, Render(decodeBlocks(t, src)), src)
	}
}

func TestRenderMissingTypeIsUnknown(t *testing.T) {
	t.Parallel()

	out := Render([]Block{{Data: json.RawMessage(`{"heading":"x"}`)}})
	assert.Equal(t, `<section class="">{"heading":"x"}</section>`, out)
}

func TestRenderNoStyleUsesDefaults(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"hero":  HeroDefaultClasses,
		"text":  TextDefaultClasses,
		"stats": StatsDefaultClasses,
		"other": "",
	}
	for typ, want := range cases {
		for _, style := range []string{``, `,"style":null`, `,"style":{}`, `,"style":{"bgColor":"  "}`, `,"style":"bg-red"`} {
			bs := decodeBlocks(t, `[{"type":"`+typ+`","data":{}`+style+`}]`)
			doc := parseFragment(t, Render(bs))
			assert.Equal(t, want, doc.Find("section").AttrOr("class", "<missing>"), typ+style)
		}
	}
}

func TestRenderStyleComposition(t *testing.T) {
	t.Parallel()

	style := `{
		"transitionDuration":"duration-300",
		"hoverEffect":"hover:scale-105",
		"backdropBlur":"backdrop-blur-sm",
		"shadow":"shadow-xl",
		"borderRadius":"rounded-2xl",
		"borderColor":"border-gray-200",
		"border":"border",
		"padding":"py-16",
		"fontWeight":"font-bold",
		"fontSize":"text-lg",
		"textColor":"text-gray-900",
		"bgOpacity":"bg-opacity-80",
		"bgColor":"bg-gray-50",
		"unrelated":"ignored"
	}`
	want := "bg-gray-50 bg-opacity-80 text-gray-900 text-lg font-bold py-16 border border-gray-200 rounded-2xl shadow-xl backdrop-blur-sm hover:scale-105 duration-300 transition-all"

	for _, typ := range []string{"hero", "text", "stats", "custom"} {
		bs := decodeBlocks(t, `[{"type":"`+typ+`","data":{},"style":`+style+`}]`)
		doc := parseFragment(t, Render(bs))
		got := doc.Find("section").AttrOr("class", "")
		assert.Equal(t, want, got, typ)
		assert.NotContains(t, got, HeroDefaultClasses, typ)
		assert.NotContains(t, got, TextDefaultClasses, typ)
	}
}

func TestRenderStyleCoercesScalars(t *testing.T) {
	t.Parallel()

	bs := decodeBlocks(t, `[{"type":"text","data":{},"style":{"bgOpacity":80,"shadow":{"nested":true},"border":false}}]`)
	doc := parseFragment(t, Render(bs))
	assert.Equal(t, "80 false transition-all", doc.Find("section").AttrOr("class", ""))
}

func TestRenderPreservesOrder(t *testing.T) {
	t.Parallel()

	a := Block{Type: "hero", Data: json.RawMessage(`{"heading":"A"}`)}
	b := Block{Type: "text", Data: json.RawMessage(`{"html":"<p>B</p>"}`)}
	c := Block{Type: "x", Data: json.RawMessage(`{"c":1}`)}

	assert.Equal(t, Render([]Block{a})+Render([]Block{b})+Render([]Block{c}), Render([]Block{a, b, c}))
	assert.Equal(t, RenderBlock(c)+RenderBlock(a), Render([]Block{c, a}))

	doc := parseFragment(t, Render([]Block{a, b, a}))
	require.Equal(t, 3, doc.Find("section").Length())
	assert.Equal(t, "A", doc.Find("section").Eq(2).Find("h1").Text())
}

func TestRenderIsDeterministicUnderConcurrency(t *testing.T) {
	t.Parallel()

	bs := decodeBlocks(t, `[
		{"type":"hero","data":{"heading":"H","sub":"S"}},
		{"type":"stats","data":{"items":[{"number":"1","label":"one"},{"number":"2","label":"two"}]}},
		{"type":"mystery","data":{"k":"v"}}
	]`)
	want := Render(bs)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, Render(bs))
		}()
	}
	wg.Wait()
}

func TestRenderNonObjectBlocks(t *testing.T) {
	t.Parallel()

	bs := decodeBlocks(t, `[null, 5, {"type":"hero","data":{"heading":"ok"}}]`)
	require.Len(t, bs, 3)

	doc := parseFragment(t, Render(bs))
	sections := doc.Find("section")
	require.Equal(t, 3, sections.Length())
	assert.Equal(t, "{}", sections.Eq(0).Text())
	assert.Equal(t, "ok", sections.Eq(2).Find("h1").Text())
}

func TestStyleKeysAreCaseSensitive(t *testing.T) {
	t.Parallel()

	bs := decodeBlocks(t, `[{"type":"text","data":{},"style":{"BGCOLOR":"bg-red-500","textcolor":"x"}}]`)
	require.NotNil(t, bs[0].Style)
	doc := parseFragment(t, Render(bs))
	assert.Equal(t, TextDefaultClasses, doc.Find("section").AttrOr("class", ""))

	bs = decodeBlocks(t, `[{"type":"text","data":{},"style":{"bgColor":"bg-red-500","BgColor":"bg-blue-500"}}]`)
	doc = parseFragment(t, Render(bs))
	assert.Equal(t, "bg-red-500 transition-all", doc.Find("section").AttrOr("class", ""))
}

func TestMarshalKeepsMarkupCharacters(t *testing.T) {
	t.Parallel()

	bs := decodeBlocks(t, `[{"type":"faq","data":{"z":1,"q":"Q&A <b>"}}]`)
	out, err := Marshal(bs)
	require.NoError(t, err)
	assert.Equal(t, `[{"type":"faq","data":{"z":1,"q":"Q&A <b>"}}]`, string(out))

	var back []Block
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, Render(bs), Render(back))

	indented, err := MarshalIndent(bs, "  ")
	require.NoError(t, err)
	assert.Contains(t, string(indented), `"q": "Q&A <b>"`)
	assert.False(t, strings.HasSuffix(string(indented), "\n"))
}

func TestSetFieldKeepsMarkupCharacters(t *testing.T) {
	t.Parallel()

	b := Block{Type: "text", Data: json.RawMessage(`{"markdown":"a & b"}`)}
	b = b.SetField("html", "<p>a &amp; b</p>")
	assert.Equal(t, `{"html":"<p>a &amp; b</p>","markdown":"a & b"}`, string(b.Data))

	b = b.DeleteField("markdown")
	assert.Equal(t, `{"html":"<p>a &amp; b</p>"}`, string(b.Data))
}
