// Package store holds all documentation entities for a run, indexed for
// constant-time lookup by uid, by parent+kind, and by namespace+kind.
//
// The store is built once from ingestion partitions and is read-only
// afterwards, which makes unsynchronized concurrent reads during page
// rendering safe by construction.
package store

import (
	"fmt"

	apimarkerrors "git.home.luguber.info/inful/apimark/internal/errors"
	"git.home.luguber.info/inful/apimark/internal/model"
)

type parentKindKey struct {
	parent string
	kind   model.Kind
}

type namespaceKindKey struct {
	namespace string
	kind      model.Kind
}

// Store is the read-only entity index.
type Store struct {
	ordered     []*model.Entity
	byUID       map[string]*model.Entity
	byParent    map[parentKindKey][]*model.Entity
	byNamespace map[namespaceKindKey][]*model.Entity
}

// Partition is one ingestion worker's local result, merged into a Store in
// a single synchronized step so duplicate-uid collisions are detected once
// instead of racing a shared map during ingestion.
type Partition struct {
	Source   string // originating input file, for collision reporting
	Entities []*model.Entity
}

// Merge combines ingestion partitions into a Store. A duplicate uid across
// partitions is a fatal input error: the store cannot resolve references
// against an ambiguous index.
func Merge(partitions []Partition) (*Store, error) {
	s := &Store{
		byUID:       make(map[string]*model.Entity),
		byParent:    make(map[parentKindKey][]*model.Entity),
		byNamespace: make(map[namespaceKindKey][]*model.Entity),
	}
	origin := make(map[string]string)

	for _, part := range partitions {
		for _, e := range part.Entities {
			if prev, exists := origin[e.UID]; exists {
				return nil, apimarkerrors.New(apimarkerrors.CategoryInput, apimarkerrors.SeverityFatal,
					fmt.Sprintf("duplicate uid %q (first seen in %s, again in %s)", e.UID, prev, part.Source))
			}
			origin[e.UID] = part.Source
			s.insert(e)
		}
	}
	return s, nil
}

func (s *Store) insert(e *model.Entity) {
	s.ordered = append(s.ordered, e)
	s.byUID[e.UID] = e
	if e.Parent != "" {
		k := parentKindKey{parent: e.Parent, kind: e.Kind}
		s.byParent[k] = append(s.byParent[k], e)
	}
	if e.Namespace != "" {
		k := namespaceKindKey{namespace: e.Namespace, kind: e.Kind}
		s.byNamespace[k] = append(s.byNamespace[k], e)
	}
}

// Get looks up an entity by uid. An unknown uid is not an error; the
// linker degrades unresolved references to code-quoted literals.
func (s *Store) Get(uid string) (*model.Entity, bool) {
	e, ok := s.byUID[uid]
	return e, ok
}

// All returns every entity in ingestion order.
func (s *Store) All() []*model.Entity {
	return s.ordered
}

// ChildrenOf returns the direct members of parentUID with the given kind,
// in ingestion order.
func (s *Store) ChildrenOf(parentUID string, kind model.Kind) []*model.Entity {
	return s.byParent[parentKindKey{parent: parentUID, kind: kind}]
}

// ByNamespace returns entities of the given kind owned by a namespace.
func (s *Store) ByNamespace(namespace string, kind model.Kind) []*model.Entity {
	return s.byNamespace[namespaceKindKey{namespace: namespace, kind: kind}]
}

// Len reports the number of entities in the store.
func (s *Store) Len() int { return len(s.ordered) }
