package page

import (
	"strings"

	"git.home.luguber.info/inful/apimark/internal/linker"
	"git.home.luguber.info/inful/apimark/internal/model"
)

// universalRoot is the base of every inheritance chain; its members are not
// surfaced as inherited.
const universalRoot = "System.Object"

// inheritedMembers collects the immediate base type's direct members of the
// given kind. Resolution is single-level only: it does not recurse further
// up the chain and does not deduplicate against members the type overrides.
// Both are documented limitations, not bugs to fix silently.
func (a *Assembler) inheritedMembers(e *model.Entity, kind model.Kind) []*model.Entity {
	if len(e.Inheritance) == 0 {
		return nil
	}
	base := e.Inheritance[len(e.Inheritance)-1]
	if base == universalRoot {
		return nil
	}
	parent, ok := a.store.Get(base)
	if !ok {
		return nil
	}
	return a.store.ChildrenOf(parent.UID, kind)
}

// extensionMethodIndex maps reconstructed extension signatures
// ({firstParameterType}.{declaringTypeFullName}) to method uids. Built once
// on first use; the store never changes afterwards.
func (a *Assembler) extensionMethodIndex() map[string]string {
	a.extOnce.Do(func() {
		idx := make(map[string]string)
		for _, m := range a.store.All() {
			if m.Kind != model.KindMethod || len(m.Parameters) == 0 {
				continue
			}
			declaring, ok := a.store.Get(m.Parent)
			if !ok || declaring.FullName == "" {
				continue
			}
			key := m.Parameters[0].Type + "." + declaring.FullName
			if _, taken := idx[key]; !taken {
				idx[key] = m.UID
			}
		}
		a.extIndex = idx
	})
	return a.extIndex
}

// writeExtensionMethods lists recorded extension-method signatures,
// resolving each best-effort against the reconstructed signature index.
// Unmatched entries render as plain escaped text, never a broken link.
func (a *Assembler) writeExtensionMethods(b *strings.Builder, e *model.Entity, mode linker.Mode) {
	if len(e.ExtensionMethods) == 0 {
		return
	}
	idx := a.extensionMethodIndex()
	b.WriteString("## Extension Methods\n\n")
	for _, sig := range e.ExtensionMethods {
		b.WriteString("- ")
		if uid, ok := idx[sig]; ok {
			b.WriteString(a.linker.Resolve(uid, mode, false))
		} else {
			b.WriteString(linker.EscapeDisplay(sig))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}
