// Package view defines the named projections of a model that get rendered
// as diagrams: which elements and relationships appear, how each
// relationship is annotated in that view, and how the view animates.
package view

import (
	"slices"

	"github.com/uniknow/c4puml/pkg/model"
)

// Kind identifies the C4 level (or special mode) of a view.
type Kind int

const (
	KindSystemLandscape Kind = iota
	KindSystemContext
	KindContainer
	KindComponent
	KindDynamic
	KindDeployment
)

var kindNames = [...]string{
	KindSystemLandscape: "SystemLandscape",
	KindSystemContext:   "SystemContext",
	KindContainer:       "Container",
	KindComponent:       "Component",
	KindDynamic:         "Dynamic",
	KindDeployment:      "Deployment",
}

// String returns the name of the kind.
func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// ElementView places an element in a view.
// Hidden elements are still declared (relationships refer to them) but are
// followed by a hide directive.
type ElementView struct {
	Element model.Element
	Hidden  bool
}

// Visible reports whether the element is shown.
func (ev ElementView) Visible() bool { return !ev.Hidden }

// RelationshipView places a relationship in a view, optionally overriding
// its description, giving it a step order (dynamic views) or marking it as
// a response, which reverses the drawn direction.
type RelationshipView struct {
	Relationship *model.Relationship
	Order        string
	Description  string
	Response     bool
}

// AnimationStep lists the element and relationship ids revealed at one step.
type AnimationStep struct {
	Order         int
	Elements      []string
	Relationships []string
}

// View is one diagram-sized projection of the model.
type View struct {
	Kind        Kind
	Key         string
	Title       string
	Description string

	// SoftwareSystem scopes context, container, dynamic and deployment views.
	SoftwareSystem *model.SoftwareSystem
	// Container scopes component views and container-level dynamic views.
	Container *model.Container
	// Environment scopes deployment views.
	Environment string

	EnterpriseBoundaryVisible bool

	Elements      []ElementView
	Relationships []RelationshipView
	Animations    []AnimationStep

	set *Set
}

// Name returns the title of the view, falling back to its key.
func (v *View) Name() string {
	if v.Title != "" {
		return v.Title
	}
	return v.Key
}

// AddElement appends e to the view unless it is already present.
func (v *View) AddElement(e model.Element, hidden bool) {
	if v.Contains(e) {
		return
	}
	v.Elements = append(v.Elements, ElementView{Element: e, Hidden: hidden})
}

// AddRelationship appends a relationship view.
func (v *View) AddRelationship(rv RelationshipView) {
	v.Relationships = append(v.Relationships, rv)
}

// ElementView returns the element view for e, matched by id.
func (v *View) ElementView(e model.Element) (ElementView, bool) {
	id := model.ID(e)
	for _, ev := range v.Elements {
		if model.ID(ev.Element) == id {
			return ev, true
		}
	}
	return ElementView{}, false
}

// Contains reports whether e is part of the view.
func (v *View) Contains(e model.Element) bool {
	_, ok := v.ElementView(e)
	return ok
}

// IsVisible reports whether e is part of the view and not hidden.
// Visibility always belongs to the element passed in: for an instance
// wrapper it is the wrapper's flag, not that of the wrapped element.
func (v *View) IsVisible(e model.Element) bool {
	ev, ok := v.ElementView(e)
	return ok && ev.Visible()
}

// IsHidden reports whether e is part of the view and explicitly hidden.
// Elements outside the view are not hidden; they are simply absent.
func (v *View) IsHidden(e model.Element) bool {
	ev, ok := v.ElementView(e)
	return ok && ev.Hidden
}

// ElementsWhere returns the elements of the view matching pred, in view order.
func (v *View) ElementsWhere(pred func(model.Element) bool) []model.Element {
	var out []model.Element
	for _, ev := range v.Elements {
		if pred(ev.Element) {
			out = append(out, ev.Element)
		}
	}
	return out
}

// AnyElement reports whether any element of the view matches pred.
func (v *View) AnyElement(pred func(model.Element) bool) bool {
	return slices.ContainsFunc(v.Elements, func(ev ElementView) bool { return pred(ev.Element) })
}

// Styles returns the styles of the view set this view belongs to, or nil.
func (v *View) Styles() *model.Styles {
	if v.set == nil {
		return nil
	}
	return &v.set.Configuration.Styles
}

// Model returns the model behind the view set, or nil for a detached view.
func (v *View) Model() *model.Model {
	if v.set == nil {
		return nil
	}
	return v.set.Model()
}

// Set returns the view set this view belongs to.
func (v *View) Set() *Set { return v.set }

// Clone returns a shallow copy of v with independent element, relationship
// and animation slices. The clone stays attached to the same view set.
func (v *View) Clone() *View {
	c := *v
	c.Elements = slices.Clone(v.Elements)
	c.Relationships = slices.Clone(v.Relationships)
	c.Animations = slices.Clone(v.Animations)
	return &c
}
