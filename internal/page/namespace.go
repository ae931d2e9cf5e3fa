package page

import (
	"strings"

	"git.home.luguber.info/inful/apimark/internal/frontmatter"
	"git.home.luguber.info/inful/apimark/internal/linker"
	"git.home.luguber.info/inful/apimark/internal/model"
)

// NamespacePage renders a namespace index: one subsection per type kind in
// the fixed order Classes, Structs, Interfaces, Enums, Delegates, each
// listing matching types alphabetically with a name-only link and the
// rendered summary.
func (a *Assembler) NamespacePage(e *model.Entity) ([]byte, error) {
	fm := frontmatter.Fields{
		Title:        "Namespace " + e.Name,
		SidebarLabel: e.Name,
	}
	head, err := fm.Encode()
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.Write(head)
	b.WriteString("\n# Namespace ")
	b.WriteString(linker.EscapeDisplay(e.Name))
	b.WriteString("\n\n")

	a.writeSummary(&b, e, linker.FromPage)

	for _, kind := range model.TypeKinds {
		var types []*model.Entity
		// Unidentified entities never got a page; listing them here would
		// link into nothing.
		for _, t := range a.store.ByNamespace(e.Name, kind) {
			if t.Identified() {
				types = append(types, t)
			}
		}
		if len(types) == 0 {
			continue
		}
		// Section labels match the grouping subdirectory names.
		label, labelErr := kind.Subdir()
		if labelErr != nil {
			return nil, labelErr
		}
		b.WriteString("## ")
		b.WriteString(label)
		b.WriteString("\n\n")
		for _, t := range a.sortByName(types) {
			b.WriteString("### ")
			b.WriteString(a.linker.Resolve(t.UID, linker.FromPage, true))
			b.WriteString("\n\n")
			a.writeSummary(&b, t, linker.FromPage)
		}
	}

	return []byte(strings.TrimRight(b.String(), "\n") + "\n"), nil
}
