package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/apimark/internal/config"
	"git.home.luguber.info/inful/apimark/internal/grouping"
	"git.home.luguber.info/inful/apimark/internal/linker"
	"git.home.luguber.info/inful/apimark/internal/model"
	"git.home.luguber.info/inful/apimark/internal/store"
)

func newTestRenderer(t *testing.T, opts Options) *Renderer {
	t.Helper()
	st, err := store.Merge([]store.Partition{{Source: "test", Entities: []*model.Entity{
		{UID: "Foo", Kind: model.KindNamespace, Name: "Foo"},
		{UID: "Foo.Bar", Kind: model.KindClass, Name: "Bar", FullName: "Foo.Bar", Namespace: "Foo", Parent: "Foo"},
	}}})
	require.NoError(t, err)
	policy := grouping.NewPolicy(st, config.TypesGrouping{})
	return NewRenderer(linker.New(st, policy, false, nil), st, opts)
}

func TestRenderText_InlineCodeSpan_RoundTripsExactly(t *testing.T) {
	r := newTestRenderer(t, Options{})
	require.Equal(t, "`X`", r.RenderText("<code>X</code>", linker.FromPage))
}

func TestRenderText_ResolvableXref_BecomesLink(t *testing.T) {
	r := newTestRenderer(t, Options{})
	got := r.RenderText(`See <xref href="Foo.Bar" data-throw-if-not-resolved="false"></xref>.`, linker.FromPage)
	require.Equal(t, "See [Foo.Bar](../Foo/Bar.md).", got)
}

func TestRenderText_UnresolvableXref_BecomesCodeLiteral(t *testing.T) {
	r := newTestRenderer(t, Options{})
	got := r.RenderText(`Uses <xref href="Xyz.Unknown" data-throw-if-not-resolved="false"></xref> internally.`, linker.FromPage)
	require.Equal(t, "Uses `Xyz.Unknown` internally.", got)
	require.NotContains(t, got, "](")
}

func TestRenderText_UnresolvableGenericXref_KeepsAngleBracketsInLiteral(t *testing.T) {
	r := newTestRenderer(t, Options{})
	got := r.RenderText(`Uses <xref href="Xyz.Box{Xyz.Item}"></xref> internally.`, linker.FromPage)
	require.Equal(t, "Uses `Xyz.Box<Xyz.Item>` internally.", got)
}

func TestRenderText_InlineCodeWithGenerics_SurvivesTagStrip(t *testing.T) {
	r := newTestRenderer(t, Options{})
	require.Equal(t, "`List<T>`", r.RenderText("<code>List<T></code>", linker.FromPage))
}

func TestRenderText_FencedCodeWithAngleBrackets_SurvivesTagStrip(t *testing.T) {
	r := newTestRenderer(t, Options{UnescapeCodeBlockEntities: true})
	got := r.RenderText("<pre><code class=\"lang-csharp\">List&lt;int&gt; xs = new();</code></pre>", linker.FromPage)
	require.Equal(t, "```csharp\nList<int> xs = new();\n```", got)
}

func TestRenderText_LangwordXref_BecomesKeywordCode(t *testing.T) {
	r := newTestRenderer(t, Options{})
	got := r.RenderText(`Returns <xref uid="langword_csharp_null" name="null"></xref> on failure.`, linker.FromPage)
	require.Equal(t, "Returns `null` on failure.", got)
}

func TestRenderText_ParagraphMarkers_BecomeBlankLines(t *testing.T) {
	r := newTestRenderer(t, Options{})
	require.Equal(t, "first\n\nsecond", r.RenderText("<p>first</p><p>second</p>", linker.FromPage))
}

func TestRenderText_TaggedCodeBlock_KeepsLanguageAndTrims(t *testing.T) {
	r := newTestRenderer(t, Options{})
	got := r.RenderText("<pre><code class=\"lang-csharp\">\nvar x = 1;\n</code></pre>", linker.FromPage)
	require.Equal(t, "```csharp\nvar x = 1;\n```", got)
}

func TestRenderText_CodeBlockEntities_UnescapedWhenConfigured(t *testing.T) {
	raw := "<pre><code class=\"lang-csharp\">a &lt; b</code></pre>"

	plain := newTestRenderer(t, Options{})
	require.Contains(t, plain.RenderText(raw, linker.FromPage), "a &lt; b")

	unescaping := newTestRenderer(t, Options{UnescapeCodeBlockEntities: true})
	require.Contains(t, unescaping.RenderText(raw, linker.FromPage), "a < b")
}

func TestRenderText_Hyperlink_BecomesMarkdownLink(t *testing.T) {
	r := newTestRenderer(t, Options{})
	got := r.RenderText(`<a href="https://example.com">docs</a>`, linker.FromPage)
	require.Equal(t, "[docs](https://example.com)", got)
}

func TestRenderText_LineBreak_DefaultsToBlankLine(t *testing.T) {
	r := newTestRenderer(t, Options{})
	require.Equal(t, "a\n\nb", r.RenderText("a<br/>b", linker.FromPage))
}

func TestRenderText_LineBreak_CustomSubstitution(t *testing.T) {
	r := newTestRenderer(t, Options{LineBreak: "  \n"})
	require.Equal(t, "a  \nb", r.RenderText("a<br/>b", linker.FromPage))
}

func TestRenderText_ResidualTags_AreStripped(t *testing.T) {
	r := newTestRenderer(t, Options{})
	require.Equal(t, "keep this", r.RenderText("<em>keep</em> <span data-x=\"1\">this</span>", linker.FromPage))
}

func TestRenderText_DictShapedLiteral_IsCodeQuoted(t *testing.T) {
	r := newTestRenderer(t, Options{})
	require.Equal(t, "defaults to `{mode:fast}`", r.RenderText("defaults to {mode:fast}", linker.FromPage))
}

func TestRenderText_ExcessNewlines_CollapseToTwo(t *testing.T) {
	r := newTestRenderer(t, Options{})
	got := r.RenderText("a\n\n\n\n\nb", linker.FromPage)
	require.Equal(t, "a\n\nb", got)
}

func TestRenderText_ForceHardLineBreaks(t *testing.T) {
	r := newTestRenderer(t, Options{ForceHardLineBreaks: true})
	require.Equal(t, "a  \nb", r.RenderText("a\nb", linker.FromPage))
}

func TestRenderText_ExampleBlock_BecomesLabeledFence(t *testing.T) {
	r := newTestRenderer(t, Options{})
	got := r.RenderText("<example><pre><code class=\"lang-csharp\">Run();</code></pre></example>", linker.FromPage)
	require.Equal(t, "Example:\n\n```csharp\nRun();\n```", got)
}

func TestRenderText_InterlinkRewrite_LinkifiesResolvableTokens(t *testing.T) {
	r := newTestRenderer(t, Options{RewriteInterlinks: true})
	got := r.RenderText("Use Foo.Bar for this.", linker.FromPage)
	require.Equal(t, "Use [Foo.Bar](../Foo/Bar.md) for this.", got)
}

func TestRenderText_InterlinkRewrite_LeavesUnresolvableTokensAlone(t *testing.T) {
	r := newTestRenderer(t, Options{RewriteInterlinks: true})
	got := r.RenderText("Use Other.Thing for this.", linker.FromPage)
	require.Equal(t, "Use Other.Thing for this.", got)
}

func TestRender_NilSummary_StaysNil(t *testing.T) {
	r := newTestRenderer(t, Options{})
	require.Nil(t, r.Render(nil, linker.FromPage))
}

func TestRender_Idempotent(t *testing.T) {
	r := newTestRenderer(t, Options{})
	raw := `<p>Uses <xref href="Foo.Bar"></xref> and <code>X</code>.</p>`
	first := r.RenderText(raw, linker.FromPage)
	second := r.RenderText(raw, linker.FromPage)
	require.Equal(t, first, second)
}

func TestFrontmatterSafe_StripsTagsAndReplacesUnsafeCharacters(t *testing.T) {
	got := FrontmatterSafe("<p>Note: a \"quoted\"\nvalue\\here</p>", 0)
	require.Equal(t, "Note- a 'quoted' value/here", got)
}

func TestFrontmatterSafe_TruncatesWithEllipsis(t *testing.T) {
	got := FrontmatterSafe(strings.Repeat("x", 200), 0)
	require.Equal(t, DefaultDescriptionLimit+3, len(got))
	require.True(t, strings.HasSuffix(got, "..."))
}

func TestFrontmatterSafe_ShortInput_Unchanged(t *testing.T) {
	require.Equal(t, "short", FrontmatterSafe("short", 0))
}
