package view

import (
	"errors"
	"slices"

	"github.com/uniknow/c4puml/pkg/model"
)

var (
	// ErrEmptyKey is returned by [Set.Add] for a view without a key.
	ErrEmptyKey = errors.New("view key must not be empty")

	// ErrDuplicateKey is returned by [Set.Add] when the key is already taken.
	ErrDuplicateKey = errors.New("duplicate view key")
)

// Configuration carries workspace-wide view settings.
type Configuration struct {
	Styles model.Styles
}

// Set is the ordered collection of views over one model.
type Set struct {
	Configuration Configuration

	model *model.Model
	views []*View
	byKey map[string]*View
}

// NewSet creates an empty view set over m. m may be nil for tests that
// never need the enterprise name.
func NewSet(m *model.Model) *Set {
	return &Set{model: m, byKey: make(map[string]*View)}
}

// Model returns the model the views project.
func (s *Set) Model() *model.Model { return s.model }

// Add appends v and attaches it to the set, which makes the set's styles
// reachable through [View.Styles].
func (s *Set) Add(v *View) error {
	if v.Key == "" {
		return ErrEmptyKey
	}
	if _, exists := s.byKey[v.Key]; exists {
		return ErrDuplicateKey
	}
	v.set = s
	s.views = append(s.views, v)
	s.byKey[v.Key] = v
	return nil
}

// View returns the view with the given key.
func (s *Set) View(key string) (*View, bool) {
	v, ok := s.byKey[key]
	return v, ok
}

// Views returns all views in declaration order.
func (s *Set) Views() []*View {
	return slices.Clone(s.views)
}

// Len returns the number of views.
func (s *Set) Len() int { return len(s.views) }

// IsEmpty reports whether the set has no views.
func (s *Set) IsEmpty() bool { return len(s.views) == 0 }
