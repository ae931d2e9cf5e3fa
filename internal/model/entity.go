// Package model defines the immutable entity record the rest of the
// generator operates on. Entities are created once during ingestion and
// never mutated afterwards; optional fields are pointers so absence stays
// a first-class state instead of a sentinel value.
package model

// SourceLocation points at the declaration in the source repository.
// When present it produces a "View Source" link on the entity's page.
type SourceLocation struct {
	RepoURL   string
	Branch    string
	Path      string
	StartLine int
}

// Parameter describes one method/delegate parameter.
type Parameter struct {
	ID          string
	Type        string // symbolic type reference, resolved via the linker
	Description string
}

// TypeParameter describes one generic type parameter.
type TypeParameter struct {
	ID          string
	Description string
}

// ThrownException describes one documented exception.
type ThrownException struct {
	Type        string // symbolic type reference
	Description string
}

// ReturnInfo describes a method/event return value.
type ReturnInfo struct {
	Type        string // symbolic type reference
	Description string
}

// Entity is one documented symbol: a namespace, a type, or a member.
type Entity struct {
	UID       string
	Kind      Kind
	Name      string // display name; may carry generic markers like "<T>"
	FullName  string
	Namespace string

	// Parent is the uid of the owning entity (type for a member, namespace
	// for a type); empty for namespaces. Children lists direct member uids
	// in declaration order. Neither side is integrity-checked; dangling
	// references degrade to code-quoted literals at render time.
	Parent   string
	Children []string

	// Summary is the raw rich-text fragment from the dump; nil means the
	// symbol has no summary, which renders as no output (not empty string).
	Summary *string

	Declaration string
	Source      *SourceLocation
	Assemblies  []string

	// Inheritance lists ancestor uids with the universal root first and the
	// immediate base last. Inherited members are resolved one level only.
	Inheritance      []string
	DerivedClasses   []string
	Implements       []string
	ExtensionMethods []string

	Returns        *ReturnInfo
	Parameters     []Parameter
	TypeParameters []TypeParameter
	Exceptions     []ThrownException
}

// Identified reports whether the entity carries the fields every template
// needs. Entities failing this are skipped with a warning, not fatal.
func (e *Entity) Identified() bool {
	return e != nil && e.UID != "" && e.Name != "" && e.Kind != ""
}
