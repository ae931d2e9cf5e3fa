// Package page composes Markdown documents from entities: one page per
// type, one index page per namespace, and a single root index.
//
// Pages are assembled in a fixed section order so repeated runs over the
// same store and configuration produce byte-identical output.
package page

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/apimark/internal/config"
	apimarkerrors "git.home.luguber.info/inful/apimark/internal/errors"
	"git.home.luguber.info/inful/apimark/internal/grouping"
	"git.home.luguber.info/inful/apimark/internal/linker"
	"git.home.luguber.info/inful/apimark/internal/model"
	"git.home.luguber.info/inful/apimark/internal/render"
	"git.home.luguber.info/inful/apimark/internal/store"
)

// Assembler renders entity pages against a read-only store, a precomputed
// grouping policy, and the shared linker/renderer pair.
type Assembler struct {
	cfg      *config.Config
	store    *store.Store
	policy   *grouping.Policy
	linker   *linker.Linker
	renderer *render.Renderer
	collator *collate.Collator

	extOnce  sync.Once
	extIndex map[string]string // {firstParamType}.{declaringTypeFullName} -> method uid
}

// NewAssembler wires an Assembler.
func NewAssembler(cfg *config.Config, st *store.Store, policy *grouping.Policy, lk *linker.Linker, rd *render.Renderer) *Assembler {
	return &Assembler{
		cfg:      cfg,
		store:    st,
		policy:   policy,
		linker:   lk,
		renderer: rd,
		collator: collate.New(language.English),
	}
}

// OutputRelPath computes an entity's page path relative to the output root.
// Member kinds render on their parent's page and have no path of their own;
// a non-type kind reaching the subdirectory computation is an internal
// invariant violation, surfaced rather than defaulted.
func (a *Assembler) OutputRelPath(e *model.Entity) (string, error) {
	switch {
	case e.Kind == model.KindNamespace:
		return path.Join(e.Name, e.Name+".md"), nil
	case e.Kind.IsType():
		name := linker.SanitizeName(e.Name) + ".md"
		if a.policy.IsGrouped(e.Namespace) {
			sub, err := e.Kind.Subdir()
			if err != nil {
				return "", apimarkerrors.Wrap(err, apimarkerrors.CategoryInternal, apimarkerrors.SeverityFatal,
					fmt.Sprintf("cannot compute grouping subdirectory for %s", e.UID))
			}
			return path.Join(e.Namespace, sub, name), nil
		}
		return path.Join(e.Namespace, name), nil
	default:
		return "", apimarkerrors.New(apimarkerrors.CategoryInternal, apimarkerrors.SeverityFatal,
			fmt.Sprintf("entity %s of kind %s has no page path", e.UID, e.Kind))
	}
}

// pageMode returns the link mode for the entity's own page position.
func (a *Assembler) pageMode(e *model.Entity) linker.Mode {
	if e.Kind.IsType() && a.policy.IsGrouped(e.Namespace) {
		return linker.FromGroupedPage
	}
	return linker.FromPage
}

func (a *Assembler) writeSummary(b *strings.Builder, e *model.Entity, mode linker.Mode) {
	md := a.renderer.Render(e.Summary, mode)
	if md == nil || *md == "" {
		return
	}
	b.WriteString(*md)
	b.WriteString("\n\n")
}

func (a *Assembler) writeDeclaration(b *strings.Builder, e *model.Entity) {
	if e.Declaration != "" {
		b.WriteString("```csharp title=\"Declaration\"\n")
		b.WriteString(e.Declaration)
		b.WriteString("\n```\n\n")
	}
	if src := e.Source; src != nil && src.RepoURL != "" && src.Path != "" {
		branch := src.Branch
		if branch == "" {
			branch = "main"
		}
		fmt.Fprintf(b, "[View Source](%s/blob/%s/%s#L%d)\n\n",
			strings.TrimSuffix(src.RepoURL, "/"), branch, src.Path, src.StartLine)
	}
}

// tableCell flattens rendered text into a single Markdown table cell.
func tableCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.TrimSpace(s)
}

// writeMember emits one member block. The heading carries the member's
// display name; its derived anchor is what member links point at.
func (a *Assembler) writeMember(b *strings.Builder, m *model.Entity, mode linker.Mode) {
	b.WriteString("### ")
	b.WriteString(linker.EscapeDisplay(m.Name))
	b.WriteString("\n\n")

	a.writeSummary(b, m, mode)
	a.writeDeclaration(b, m)

	if ret := m.Returns; ret != nil && ret.Type != "" && ret.Type != "System.Void" {
		label := "Returns"
		if m.Kind == model.KindEvent {
			label = "Event Type"
		}
		b.WriteString("##### ")
		b.WriteString(label)
		b.WriteString("\n\n")
		b.WriteString(a.linker.Resolve(ret.Type, mode, true))
		if desc := strings.TrimSpace(ret.Description); desc != "" {
			b.WriteString(": ")
			b.WriteString(a.renderer.RenderText(desc, mode))
		}
		b.WriteString("\n\n")
	}

	a.writeParameters(b, m.Parameters, mode)
	a.writeTypeParameters(b, m.TypeParameters, mode)
	a.writeExceptions(b, m.Exceptions, mode)
}

// writeParameters renders a 3-column table when any parameter carries a
// description and a 2-column table otherwise.
func (a *Assembler) writeParameters(b *strings.Builder, params []model.Parameter, mode linker.Mode) {
	if len(params) == 0 {
		return
	}
	b.WriteString("##### Parameters\n\n")

	hasDesc := false
	for _, p := range params {
		if strings.TrimSpace(p.Description) != "" {
			hasDesc = true
			break
		}
	}

	if hasDesc {
		b.WriteString("| Type | Name | Description |\n")
		b.WriteString("|---|---|---|\n")
		for _, p := range params {
			fmt.Fprintf(b, "| %s | `%s` | %s |\n",
				tableCell(a.linker.Resolve(p.Type, mode, true)), p.ID,
				tableCell(a.renderer.RenderText(p.Description, mode)))
		}
	} else {
		b.WriteString("| Type | Name |\n")
		b.WriteString("|---|---|\n")
		for _, p := range params {
			fmt.Fprintf(b, "| %s | `%s` |\n",
				tableCell(a.linker.Resolve(p.Type, mode, true)), p.ID)
		}
	}
	b.WriteString("\n")
}

func (a *Assembler) writeTypeParameters(b *strings.Builder, params []model.TypeParameter, mode linker.Mode) {
	if len(params) == 0 {
		return
	}
	b.WriteString("##### Type Parameters\n\n")

	hasDesc := false
	for _, p := range params {
		if strings.TrimSpace(p.Description) != "" {
			hasDesc = true
			break
		}
	}

	if hasDesc {
		b.WriteString("| Name | Description |\n")
		b.WriteString("|---|---|\n")
		for _, p := range params {
			fmt.Fprintf(b, "| `%s` | %s |\n", p.ID, tableCell(a.renderer.RenderText(p.Description, mode)))
		}
	} else {
		for _, p := range params {
			fmt.Fprintf(b, "- `%s`\n", p.ID)
		}
	}
	b.WriteString("\n")
}

func (a *Assembler) writeExceptions(b *strings.Builder, excs []model.ThrownException, mode linker.Mode) {
	if len(excs) == 0 {
		return
	}
	b.WriteString("##### Exceptions\n\n")
	for _, ex := range excs {
		b.WriteString("- ")
		b.WriteString(a.linker.Resolve(ex.Type, mode, true))
		if desc := strings.TrimSpace(ex.Description); desc != "" {
			b.WriteString(": ")
			b.WriteString(a.renderer.RenderText(desc, mode))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

// sortByName orders entities alphabetically by display name using a
// locale-stable collator, copying first so store-owned slices stay intact.
func (a *Assembler) sortByName(list []*model.Entity) []*model.Entity {
	sorted := append([]*model.Entity(nil), list...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return a.collator.CompareString(sorted[i].Name, sorted[j].Name) < 0
	})
	return sorted
}
