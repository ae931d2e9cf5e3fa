package page

import (
	"strings"

	"git.home.luguber.info/inful/apimark/internal/frontmatter"
	"git.home.luguber.info/inful/apimark/internal/linker"
	"git.home.luguber.info/inful/apimark/internal/model"
)

// IndexPage renders the single root index: front matter with the configured
// slug, a heading, an alphabetical list of namespace links, and a trailing
// attribution line.
func (a *Assembler) IndexPage() ([]byte, error) {
	position := 0
	fm := frontmatter.Fields{
		Title:           "API Reference",
		SidebarPosition: &position,
		Slug:            a.cfg.IndexSlug,
	}
	head, err := fm.Encode()
	if err != nil {
		return nil, err
	}

	var namespaces []*model.Entity
	for _, e := range a.store.All() {
		if e.Kind == model.KindNamespace && e.Identified() {
			namespaces = append(namespaces, e)
		}
	}

	var b strings.Builder
	b.Write(head)
	b.WriteString("\n# API Reference\n\n")
	for _, ns := range a.sortByName(namespaces) {
		b.WriteString("- ")
		b.WriteString(a.linker.Resolve(ns.UID, linker.FromIndex, true))
		b.WriteString("\n")
	}
	b.WriteString("\n---\n\n*Generated by apimark*\n")

	return []byte(b.String()), nil
}
