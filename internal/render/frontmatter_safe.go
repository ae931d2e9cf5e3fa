package render

import (
	"strings"

	"golang.org/x/net/html"
)

// DefaultDescriptionLimit bounds front-matter description length, in runes.
const DefaultDescriptionLimit = 150

// StripTags removes all HTML markup from a fragment, keeping text content.
// Parsing uses the tolerant x/net/html tokenizer rather than regexes so
// malformed markup cannot leak tags into front matter.
func StripTags(s string) string {
	tok := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	for {
		switch tok.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(tok.Text())
		}
	}
}

var frontmatterReplacer = strings.NewReplacer(
	"\r\n", " ",
	"\n", " ",
	`"`, "'",
	`\`, "/",
	":", "-",
)

// FrontmatterSafe makes a raw summary safe to embed as a YAML front-matter
// string value: tags stripped, unsafe characters replaced, whitespace
// collapsed, and the result truncated to limit runes with an ellipsis
// marker. limit <= 0 selects DefaultDescriptionLimit.
func FrontmatterSafe(raw string, limit int) string {
	if limit <= 0 {
		limit = DefaultDescriptionLimit
	}
	s := StripTags(raw)
	s = frontmatterReplacer.Replace(s)
	s = strings.Join(strings.Fields(s), " ")
	if runes := []rune(s); len(runes) > limit {
		s = string(runes[:limit]) + "..."
	}
	return s
}
