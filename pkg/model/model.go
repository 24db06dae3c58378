// Package model holds the read-only C4 architecture model consumed by the
// exporters: people, software systems, containers, components, deployment
// nodes and the relationships between them.
//
// Elements form a closed sum type (see [Element]); containment is expressed
// through typed parent pointers rather than a generic tree, so a container
// always knows its software system and a component its container.
//
// The model performs only the checks needed to keep references resolvable:
// unique non-empty ids and relationships whose endpoints exist.
package model

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidElementID is returned by [Model.Add] when the element id is empty.
	ErrInvalidElementID = errors.New("element ID must not be empty")

	// ErrDuplicateElementID is returned by [Model.Add] when an element with the
	// same id already exists. Ids are unique across the whole workspace.
	ErrDuplicateElementID = errors.New("duplicate element ID")

	// ErrUnknownSource is returned by [Model.AddRelationship] when the source
	// element has not been added to the model.
	ErrUnknownSource = errors.New("unknown source element")

	// ErrUnknownDestination is returned by [Model.AddRelationship] when the
	// destination element has not been added to the model.
	ErrUnknownDestination = errors.New("unknown destination element")

	// ErrDuplicateRelationshipID is returned by [Model.AddRelationship] when a
	// relationship with the same id already exists.
	ErrDuplicateRelationshipID = errors.New("duplicate relationship ID")
)

// Relationship is a directed, described dependency between two elements.
type Relationship struct {
	ID          string
	Source      Element
	Destination Element
	Description string
	Technology  string
	Tags        []string
}

// Model is the set of elements and relationships of one workspace.
//
// The zero value is not usable - use New.
// Model is not safe for concurrent mutation; once built it is only read.
type Model struct {
	// Enterprise is the name of the enterprise boundary, if any.
	Enterprise string

	elements  []Element
	byID      map[string]Element
	rels      []*Relationship
	relByID   map[string]*Relationship
	relsByEnd map[string][]*Relationship // element id -> relationships touching it
}

// New creates an empty model.
func New(enterprise string) *Model {
	return &Model{
		Enterprise: enterprise,
		byID:       make(map[string]Element),
		relByID:    make(map[string]*Relationship),
		relsByEnd:  make(map[string][]*Relationship),
	}
}

// Add registers an element. Parent pointers must already be set; the parent
// does not need to be added first.
func (m *Model) Add(e Element) error {
	id := ID(e)
	if id == "" {
		return ErrInvalidElementID
	}
	if _, exists := m.byID[id]; exists {
		return ErrDuplicateElementID
	}
	m.byID[id] = e
	m.elements = append(m.elements, e)
	return nil
}

// AddRelationship registers a relationship between two elements already in
// the model. An empty id is replaced with "<source>-><destination>".
func (m *Model) AddRelationship(r *Relationship) error {
	if r.Source == nil || m.byID[ID(r.Source)] == nil {
		return ErrUnknownSource
	}
	if r.Destination == nil || m.byID[ID(r.Destination)] == nil {
		return ErrUnknownDestination
	}
	if r.ID == "" {
		r.ID = ID(r.Source) + "->" + ID(r.Destination)
	}
	if _, exists := m.relByID[r.ID]; exists {
		return ErrDuplicateRelationshipID
	}
	m.rels = append(m.rels, r)
	m.relByID[r.ID] = r
	m.relsByEnd[ID(r.Source)] = append(m.relsByEnd[ID(r.Source)], r)
	if ID(r.Destination) != ID(r.Source) {
		m.relsByEnd[ID(r.Destination)] = append(m.relsByEnd[ID(r.Destination)], r)
	}
	return nil
}

// Element returns the element with the given id.
func (m *Model) Element(id string) (Element, bool) {
	e, ok := m.byID[id]
	return e, ok
}

// Elements returns all elements in insertion order.
// The returned slice is a copy.
func (m *Model) Elements() []Element {
	return slices.Clone(m.elements)
}

// Relationship returns the relationship with the given id.
func (m *Model) Relationship(id string) (*Relationship, bool) {
	r, ok := m.relByID[id]
	return r, ok
}

// Relationships returns all relationships in insertion order.
// The returned slice is a copy.
func (m *Model) Relationships() []*Relationship {
	return slices.Clone(m.rels)
}

// RelationshipsOf returns the relationships whose source or destination is e.
func (m *Model) RelationshipsOf(e Element) []*Relationship {
	return slices.Clone(m.relsByEnd[ID(e)])
}

// ChildrenOf returns the elements whose direct parent is e, in insertion order.
func (m *Model) ChildrenOf(e Element) []Element {
	var out []Element
	for _, c := range m.elements {
		if p := Parent(c); p != nil && ID(p) == ID(e) {
			out = append(out, c)
		}
	}
	return out
}

// ElementCount returns the number of elements.
func (m *Model) ElementCount() int { return len(m.elements) }

// RelationshipCount returns the number of relationships.
func (m *Model) RelationshipCount() int { return len(m.rels) }
