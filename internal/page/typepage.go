package page

import (
	"strings"

	"git.home.luguber.info/inful/apimark/internal/frontmatter"
	"git.home.luguber.info/inful/apimark/internal/linker"
	"git.home.luguber.info/inful/apimark/internal/model"
	"git.home.luguber.info/inful/apimark/internal/render"
)

// collapseThreshold is the list length above which relationship lists are
// wrapped in a <details> block.
const collapseThreshold = 8

// TypePage renders the full page of a type-kind entity. Sections appear in
// a fixed order: front matter, heading, summary, assembly, declaration,
// inheritance, derived types, implemented interfaces, then the member
// sections, the restated implements list, and extension methods.
func (a *Assembler) TypePage(e *model.Entity) ([]byte, error) {
	mode := a.pageMode(e)

	fm := frontmatter.Fields{
		Title:        string(e.Kind) + " " + e.Name,
		SidebarLabel: e.Name,
	}
	if e.Summary != nil {
		fm.Description = render.FrontmatterSafe(*e.Summary, 0)
	}
	head, err := fm.Encode()
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.Write(head)
	b.WriteString("\n# ")
	b.WriteString(linker.EscapeDisplay(string(e.Kind) + " " + e.Name))
	b.WriteString("\n\n")

	a.writeSummary(&b, e, mode)

	if len(e.Assemblies) > 0 {
		b.WriteString("**Assembly:** ")
		b.WriteString(e.Assemblies[0])
		b.WriteString("\n\n")
	}

	a.writeDeclaration(&b, e)

	// The trivial chain (universal root only) is not worth a section.
	if len(e.Inheritance) > 1 {
		links := make([]string, 0, len(e.Inheritance))
		for _, uid := range e.Inheritance {
			links = append(links, a.linker.Resolve(uid, mode, false))
		}
		b.WriteString("**Inheritance:**\n")
		b.WriteString(strings.Join(links, " -> "))
		b.WriteString("\n\n")
	}

	a.writeRelationList(&b, "Derived", e.DerivedClasses, mode)
	a.writeRelationList(&b, "Implements", e.Implements, mode)

	a.writeMemberSection(&b, e, "Properties", model.KindProperty, mode)
	a.writeInheritedSection(&b, e, "Inherited Properties", model.KindProperty, mode)
	a.writeMemberSection(&b, e, "Fields", model.KindField, mode)
	a.writeMemberSection(&b, e, "Methods", model.KindMethod, mode)
	a.writeInheritedSection(&b, e, "Inherited Methods", model.KindMethod, mode)
	a.writeMemberSection(&b, e, "Events", model.KindEvent, mode)

	if len(e.Implements) > 0 {
		b.WriteString("## Implements\n\n")
		for _, uid := range e.Implements {
			b.WriteString("- ")
			b.WriteString(a.linker.Resolve(uid, mode, false))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	a.writeExtensionMethods(&b, e, mode)

	return []byte(strings.TrimRight(b.String(), "\n") + "\n"), nil
}

// writeRelationList emits a relationship list, collapsible when it would
// otherwise dominate the page.
func (a *Assembler) writeRelationList(b *strings.Builder, label string, refs []string, mode linker.Mode) {
	if len(refs) == 0 {
		return
	}
	if len(refs) > collapseThreshold {
		b.WriteString("<details>\n<summary>")
		b.WriteString(label)
		b.WriteString("</summary>\n\n")
		for _, uid := range refs {
			b.WriteString("- ")
			b.WriteString(a.linker.Resolve(uid, mode, false))
			b.WriteString("\n")
		}
		b.WriteString("\n</details>\n\n")
		return
	}
	b.WriteString("**")
	b.WriteString(label)
	b.WriteString(":**\n")
	for _, uid := range refs {
		b.WriteString("- ")
		b.WriteString(a.linker.Resolve(uid, mode, false))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func (a *Assembler) writeMemberSection(b *strings.Builder, e *model.Entity, label string, kind model.Kind, mode linker.Mode) {
	members := a.store.ChildrenOf(e.UID, kind)
	if len(members) == 0 {
		return
	}
	b.WriteString("## ")
	b.WriteString(label)
	b.WriteString("\n\n")
	for _, m := range members {
		a.writeMember(b, m, mode)
	}
}

func (a *Assembler) writeInheritedSection(b *strings.Builder, e *model.Entity, label string, kind model.Kind, mode linker.Mode) {
	members := a.inheritedMembers(e, kind)
	if len(members) == 0 {
		return
	}
	b.WriteString("## ")
	b.WriteString(label)
	b.WriteString("\n\n")
	for _, m := range members {
		a.writeMember(b, m, mode)
	}
}
