// Package linker resolves symbolic references into Markdown fragments.
//
// Resolution is total: every input string yields either a hyperlink to the
// referenced entity's page or an inline code-quoted literal. A reference is
// never rendered as a broken link and never fails the run.
package linker

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/apimark/internal/grouping"
	"git.home.luguber.info/inful/apimark/internal/metrics"
	"git.home.luguber.info/inful/apimark/internal/model"
	"git.home.luguber.info/inful/apimark/internal/store"
)

// Mode names the calling page's position in the output tree. It selects the
// relative prefix for link targets and is always passed explicitly by the
// caller, never inferred.
type Mode int

const (
	// FromGroupedPage is a type page nested under a kind subdirectory.
	FromGroupedPage Mode = iota
	// FromPage is a type or namespace page directly under its namespace.
	FromPage
	// FromIndex is the root index page.
	FromIndex
)

// Prefix returns the relative path prefix for links written from this mode.
func (m Mode) Prefix() string {
	switch m {
	case FromGroupedPage:
		return "../../"
	case FromIndex:
		return "./"
	default:
		return "../"
	}
}

// Linker maps symbolic references to Markdown links against a read-only
// store and a precomputed grouping policy.
type Linker struct {
	store    *store.Store
	policy   *grouping.Policy
	ext      string
	recorder metrics.Recorder
}

// New creates a Linker. When bareLinks is set, targets omit the .md
// extension. A nil recorder falls back to NoopRecorder.
func New(st *store.Store, policy *grouping.Policy, bareLinks bool, recorder metrics.Recorder) *Linker {
	ext := ".md"
	if bareLinks {
		ext = ""
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Linker{store: st, policy: policy, ext: ext, recorder: recorder}
}

// Resolve turns a symbolic reference into a Markdown fragment.
//
// Lookup order: the reference verbatim; then, for references carrying a
// single generic argument in braces, the arity-collapsed form (Foo{Bar} is
// retried as Foo`1). Multi-argument generics are deliberately not collapsed
// and fall through to the literal fallback.
//
// nameOnly selects the short display name for resolved type links instead
// of the fully qualified one.
func (l *Linker) Resolve(ref string, mode Mode, nameOnly bool) string {
	ent, ok := l.store.Get(ref)
	if !ok {
		if collapsed, did := collapseSingleGeneric(ref); did {
			ent, ok = l.store.Get(collapsed)
		}
	}
	if !ok {
		l.recorder.UnresolvedReference()
		return codeLiteral(ref)
	}

	switch {
	case ent.Kind.IsType():
		return fmt.Sprintf("[%s](%s)", EscapeDisplay(displayName(ent, nameOnly)), l.typePath(ent, mode))
	case ent.Kind == model.KindNamespace:
		return fmt.Sprintf("[%s](%s%s/%s%s)", EscapeDisplay(ent.Name), mode.Prefix(), ent.Name, ent.Name, l.ext)
	default:
		return l.memberLink(ref, ent, mode, nameOnly)
	}
}

// memberLink links to the member's anchor on its parent type's page. A
// member whose parent cannot be resolved degrades to the literal fallback.
func (l *Linker) memberLink(ref string, ent *model.Entity, mode Mode, nameOnly bool) string {
	parent, ok := l.store.Get(ent.Parent)
	if !ok || !parent.Kind.IsType() {
		l.recorder.UnresolvedReference()
		return codeLiteral(ref)
	}
	return fmt.Sprintf("[%s](%s#%s)",
		EscapeDisplay(displayName(ent, nameOnly)), l.typePath(parent, mode), MemberAnchor(ent.Name))
}

// typePath computes the page path of a resolved type entity. Callers
// guarantee ent.Kind.IsType(), so the subdirectory lookup cannot fail.
func (l *Linker) typePath(ent *model.Entity, mode Mode) string {
	var b strings.Builder
	b.WriteString(mode.Prefix())
	b.WriteString(ent.Namespace)
	b.WriteString("/")
	if l.policy.IsGrouped(ent.Namespace) {
		sub, _ := ent.Kind.Subdir()
		b.WriteString(sub)
		b.WriteString("/")
	}
	b.WriteString(SanitizeName(ent.Name))
	b.WriteString(l.ext)
	return b.String()
}

func displayName(ent *model.Entity, nameOnly bool) string {
	if nameOnly || ent.FullName == "" {
		return ent.Name
	}
	return ent.FullName
}

// collapseSingleGeneric rewrites Foo{Bar} to Foo`1. It only fires for a
// single brace pair wrapping a single type argument; anything else (multiple
// arguments, nested generics) is a known, accepted gap and returns false.
func collapseSingleGeneric(ref string) (string, bool) {
	if strings.Count(ref, "{") != 1 || strings.Count(ref, "}") != 1 {
		return "", false
	}
	open := strings.Index(ref, "{")
	closing := strings.Index(ref, "}")
	if closing < open {
		return "", false
	}
	if strings.Contains(ref[open+1:closing], ",") {
		return "", false
	}
	return ref[:open] + "`1" + ref[closing+1:], true
}

// codeLiteral renders an unresolved reference as inline code with generic
// brace punctuation normalized to angle brackets for display.
func codeLiteral(ref string) string {
	display := strings.ReplaceAll(ref, "{", "<")
	display = strings.ReplaceAll(display, "}", ">")
	return "`" + display + "`"
}

// EscapeDisplay escapes reserved HTML characters in link/display text.
func EscapeDisplay(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// SanitizeName makes a display name safe for file paths and link targets by
// turning generic angle brackets into backtick delimiters: List<T> becomes
// List`T`.
func SanitizeName(s string) string {
	s = strings.ReplaceAll(s, "<", "`")
	s = strings.ReplaceAll(s, ">", "`")
	return s
}

// MemberAnchor derives the fragment anchor for a member heading: the display
// name lowercased with parentheses and question marks stripped. Overloads
// sharing a name collide on the same anchor; this is a documented limitation.
func MemberAnchor(name string) string {
	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, "(", "")
	s = strings.ReplaceAll(s, ")", "")
	s = strings.ReplaceAll(s, "?", "")
	return s
}
