// Package render converts rich-text summary fragments into Markdown.
//
// The conversion is an ordered pipeline of pure string transforms. The order
// is load-bearing: later rules must not re-match text produced by earlier
// rules (code fences are extracted before inline code, inline code before
// the residual tag strip, and so on). Keep additions in pipeline order.
package render

import (
	"html"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/apimark/internal/linker"
	"git.home.luguber.info/inful/apimark/internal/model"
	"git.home.luguber.info/inful/apimark/internal/store"
)

// Options holds the text-rendering knobs from configuration.
type Options struct {
	// LineBreak substitutes explicit <br/> markup. Default is a blank line.
	LineBreak string
	// ForceHardLineBreaks rewrites every remaining single newline to
	// HardLineBreak as the final pipeline step.
	ForceHardLineBreaks bool
	HardLineBreak       string
	// UnescapeCodeBlockEntities unescapes HTML entities inside fenced code.
	UnescapeCodeBlockEntities bool
	// RewriteInterlinks linkifies bare Namespace.Type tokens that resolve.
	RewriteInterlinks bool
}

// Renderer renders summaries against a linker and store.
type Renderer struct {
	linker *linker.Linker
	store  *store.Store
	opts   Options
}

// NewRenderer creates a Renderer. Zero-value options get defaults.
func NewRenderer(l *linker.Linker, st *store.Store, opts Options) *Renderer {
	if opts.LineBreak == "" {
		opts.LineBreak = "\n\n"
	}
	if opts.HardLineBreak == "" {
		opts.HardLineBreak = "  \n"
	}
	return &Renderer{linker: l, store: st, opts: opts}
}

var (
	reParagraph     = regexp.MustCompile(`<p\b[^>]*>`)
	reParagraphEnd  = regexp.MustCompile(`</p>`)
	reExampleFenced = regexp.MustCompile(`(?s)<example>\s*<pre><code(?:\s+class="lang-([A-Za-z0-9+#-]+)")?>(.*?)</code></pre>\s*</example>`)
	reExamplePlain  = regexp.MustCompile(`(?s)<example>(.*?)</example>`)
	reXref          = regexp.MustCompile(`<xref\s+href="([^"]+)"[^>]*?/?>(?:</xref>)?`)
	reLangword      = regexp.MustCompile(`<xref\s+uid="langword_csharp_([^"]+)"[^>]*?/?>(?:</xref>)?`)
	reCodeBlock     = regexp.MustCompile("(?s)<pre><code(?:\\s+class=\"lang-([A-Za-z0-9+#-]+)\")?>(.*?)</code></pre>")
	reInlineCode    = regexp.MustCompile(`(?s)<code[^>]*>(.*?)</code>`)
	reHyperlink     = regexp.MustCompile(`(?s)<a\s+href="([^"]+)"[^>]*>(.*?)</a>`)
	reLineBreak     = regexp.MustCompile(`<br\s*/?>`)
	reResidualTag   = regexp.MustCompile(`</?[A-Za-z][^>]*>`)
	reDictLiteral   = regexp.MustCompile(`\{[^{}\n` + "`" + `]+:[^{}\n` + "`" + `]+\}`)
	reCodeSpan      = regexp.MustCompile("(?s)```.*?```|`[^`\n]+`")
	reManyNewlines  = regexp.MustCompile(`\n{3,}`)
	reTagSplit      = regexp.MustCompile(`<[^>]+>`)
	reQualifiedName = regexp.MustCompile(`\b[A-Za-z_][A-Za-z0-9_]*(?:\.[A-Za-z_][A-Za-z0-9_]*)+\b`)
)

// Render converts an optional summary. A nil summary stays nil; callers
// decide how absence renders (usually by emitting nothing).
func (r *Renderer) Render(summary *string, mode linker.Mode) *string {
	if summary == nil {
		return nil
	}
	out := r.RenderText(*summary, mode)
	return &out
}

// RenderText runs the full transform pipeline over a raw fragment.
func (r *Renderer) RenderText(raw string, mode linker.Mode) string {
	s := raw

	// 1. Paragraph markers become blank-line separation.
	s = reParagraph.ReplaceAllString(s, "\n\n")
	s = reParagraphEnd.ReplaceAllString(s, "\n\n")

	// 2. Example blocks become a labeled fenced code block.
	s = reExampleFenced.ReplaceAllString(s, "\n\nExample:\n\n```$1\n$2\n```\n\n")
	s = reExamplePlain.ReplaceAllString(s, "\n\nExample:\n\n```\n$1\n```\n\n")

	// 2.5 Optional: linkify bare Namespace.Type prose tokens that resolve.
	if r.opts.RewriteInterlinks {
		s = r.rewriteInterlinks(s, mode)
	}

	// 3. Embedded cross-references resolve through the linker.
	s = reXref.ReplaceAllStringFunc(s, func(m string) string {
		ref := reXref.FindStringSubmatch(m)[1]
		if dec, err := url.QueryUnescape(ref); err == nil {
			ref = dec
		}
		ref = html.UnescapeString(ref)
		if kw, ok := strings.CutPrefix(ref, "langword_csharp_"); ok {
			return "`" + kw + "`"
		}
		return r.linker.Resolve(ref, mode, false)
	})

	// 4. Reserved-keyword cross-references become inline code.
	s = reLangword.ReplaceAllString(s, "`$1`")

	// 5. Tagged code blocks become Markdown fences, content trimmed.
	s = reCodeBlock.ReplaceAllStringFunc(s, func(m string) string {
		parts := reCodeBlock.FindStringSubmatch(m)
		lang, body := parts[1], parts[2]
		if r.opts.UnescapeCodeBlockEntities {
			body = html.UnescapeString(body)
		}
		return "\n```" + lang + "\n" + strings.TrimSpace(body) + "\n```\n"
	})

	// 6. Inline code spans.
	s = reInlineCode.ReplaceAllString(s, "`$1`")

	// Everything backticked so far is final output. Code spans may contain
	// angle brackets (generic fallbacks, unescaped fences) that the later
	// rules would mangle, so they are swapped for opaque placeholders here
	// and restored after the last rule runs.
	s, spans := extractCodeSpans(s)

	// 7. Hyperlinks.
	s = reHyperlink.ReplaceAllString(s, "[$2]($1)")

	// 8. Explicit line breaks.
	s = reLineBreak.ReplaceAllString(s, r.opts.LineBreak)

	// 9. Residual HTML-looking tags are stripped entirely.
	s = reResidualTag.ReplaceAllString(s, "")

	// 10. {k:v}-shaped literal runs are code-quoted so they cannot be
	// mistaken for front matter or Markdown syntax.
	s = reDictLiteral.ReplaceAllString(s, "`$0`")

	// 11. Collapse 3+ consecutive newlines to exactly 2.
	s = reManyNewlines.ReplaceAllString(s, "\n\n")

	s = strings.TrimSpace(s)

	// 12. Optionally force remaining single newlines to hard line breaks.
	if r.opts.ForceHardLineBreaks {
		s = forceHardBreaks(s, r.opts.HardLineBreak)
	}

	return restoreCodeSpans(s, spans)
}

// extractCodeSpans replaces fenced blocks and inline code with NUL-framed
// placeholders no pipeline rule can match. The input markup cannot contain
// NUL bytes, so placeholders never collide with real content.
func extractCodeSpans(s string) (string, []string) {
	if !strings.Contains(s, "`") {
		return s, nil
	}
	var spans []string
	out := reCodeSpan.ReplaceAllStringFunc(s, func(m string) string {
		spans = append(spans, m)
		return "\x00" + strconv.Itoa(len(spans)-1) + "\x00"
	})
	return out, spans
}

func restoreCodeSpans(s string, spans []string) string {
	for i, span := range spans {
		s = strings.Replace(s, "\x00"+strconv.Itoa(i)+"\x00", span, 1)
	}
	return s
}

// rewriteInterlinks linkifies qualified-name tokens in prose. Text inside
// tags is left alone so attribute values never get rewritten.
func (r *Renderer) rewriteInterlinks(s string, mode linker.Mode) string {
	var b strings.Builder
	last := 0
	for _, loc := range reTagSplit.FindAllStringIndex(s, -1) {
		b.WriteString(r.rewriteProse(s[last:loc[0]], mode))
		b.WriteString(s[loc[0]:loc[1]])
		last = loc[1]
	}
	b.WriteString(r.rewriteProse(s[last:], mode))
	return b.String()
}

func (r *Renderer) rewriteProse(s string, mode linker.Mode) string {
	return reQualifiedName.ReplaceAllStringFunc(s, func(tok string) string {
		ent, ok := r.store.Get(tok)
		if !ok || !(ent.Kind.IsType() || ent.Kind == model.KindNamespace) {
			return tok
		}
		return r.linker.Resolve(tok, mode, false)
	})
}

// forceHardBreaks appends the hard line-break sequence to every line that is
// directly followed by another non-empty line.
func forceHardBreaks(s, seq string) string {
	if !strings.HasSuffix(seq, "\n") {
		seq += "\n"
	}
	lines := strings.Split(s, "\n")
	var b strings.Builder
	for i, line := range lines {
		if i == len(lines)-1 {
			b.WriteString(line)
			break
		}
		b.WriteString(line)
		if line != "" && lines[i+1] != "" {
			b.WriteString(seq)
		} else {
			b.WriteString("\n")
		}
	}
	return b.String()
}
