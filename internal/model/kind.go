package model

import (
	"fmt"
	"strings"
)

// Kind is the closed set of entity kinds the generator understands.
// Dispatch on Kind happens in three places (page template selection,
// link path shape, kind subdirectory naming); each switches exhaustively
// so new kinds fail loudly instead of falling through.
type Kind string

const (
	KindNamespace Kind = "Namespace"
	KindClass     Kind = "Class"
	KindInterface Kind = "Interface"
	KindStruct    Kind = "Struct"
	KindEnum      Kind = "Enum"
	KindDelegate  Kind = "Delegate"
	KindProperty  Kind = "Property"
	KindField     Kind = "Field"
	KindMethod    Kind = "Method"
	KindEvent     Kind = "Event"
)

// TypeKinds lists the kinds that get their own page, in the fixed order
// namespace pages enumerate them.
var TypeKinds = []Kind{KindClass, KindStruct, KindInterface, KindEnum, KindDelegate}

// ParseKind normalizes a raw kind string from the input dump.
// Unknown kinds return ok=false; callers skip the entity with a warning.
func ParseKind(raw string) (Kind, bool) {
	switch Kind(strings.TrimSpace(raw)) {
	case KindNamespace:
		return KindNamespace, true
	case KindClass:
		return KindClass, true
	case KindInterface:
		return KindInterface, true
	case KindStruct:
		return KindStruct, true
	case KindEnum:
		return KindEnum, true
	case KindDelegate:
		return KindDelegate, true
	case KindProperty:
		return KindProperty, true
	case KindField:
		return KindField, true
	case KindMethod:
		return KindMethod, true
	case KindEvent:
		return KindEvent, true
	default:
		return "", false
	}
}

// IsType reports whether entities of this kind get their own page.
func (k Kind) IsType() bool {
	switch k {
	case KindClass, KindInterface, KindStruct, KindEnum, KindDelegate:
		return true
	}
	return false
}

// IsMember reports whether entities of this kind render on their parent's page.
func (k Kind) IsMember() bool {
	switch k {
	case KindProperty, KindField, KindMethod, KindEvent:
		return true
	}
	return false
}

// Subdir returns the kind subdirectory name used when a namespace is grouped.
// Asking for the subdirectory of a non-type kind is an internal invariant
// violation and must not be silently defaulted.
func (k Kind) Subdir() (string, error) {
	switch k {
	case KindClass:
		return "Classes", nil
	case KindInterface:
		return "Interfaces", nil
	case KindStruct:
		return "Structs", nil
	case KindEnum:
		return "Enums", nil
	case KindDelegate:
		return "Delegates", nil
	default:
		return "", fmt.Errorf("kind %q has no grouping subdirectory", string(k))
	}
}
