package plantuml

import (
	"cmp"
	"slices"

	"github.com/uniknow/c4puml/pkg/model"
	"github.com/uniknow/c4puml/pkg/view"
)

// frames splits v into cumulative pages. Dynamic views page by distinct
// relationship order; other views page by animation step. A view with a
// single step yields no frames.
func frames(v *view.View) []*view.View {
	if v.Kind == view.KindDynamic {
		return orderFrames(v)
	}
	return animationFrames(v)
}

// animationFrames builds frame n from animation steps 1..n. A relationship
// is drawn as soon as both of its ends are on the page.
func animationFrames(v *view.View) []*view.View {
	if len(v.Animations) < 2 {
		return nil
	}
	steps := slices.Clone(v.Animations)
	slices.SortStableFunc(steps, func(a, b view.AnimationStep) int { return cmp.Compare(a.Order, b.Order) })

	var (
		out      []*view.View
		elements = make(map[string]bool)
		named    = make(map[string]bool)
	)
	for _, step := range steps {
		for _, id := range step.Elements {
			elements[id] = true
		}
		for _, id := range step.Relationships {
			named[id] = true
		}
		for _, rv := range v.Relationships {
			if rv.Relationship != nil && named[rv.Relationship.ID] {
				elements[model.ID(rv.Relationship.Source)] = true
				elements[model.ID(rv.Relationship.Destination)] = true
			}
		}
		out = append(out, filterView(v, elements, func(rv view.RelationshipView) bool {
			return elements[model.ID(rv.Relationship.Source)] && elements[model.ID(rv.Relationship.Destination)]
		}))
	}
	return out
}

// orderFrames builds frame n from the relationships carrying one of the
// first n distinct orders, plus the elements they touch.
func orderFrames(v *view.View) []*view.View {
	var orders []string
	for _, rv := range v.Relationships {
		if !slices.Contains(orders, rv.Order) {
			orders = append(orders, rv.Order)
		}
	}
	if len(orders) < 2 {
		return nil
	}

	out := make([]*view.View, 0, len(orders))
	for n := 1; n <= len(orders); n++ {
		shown := orders[:n]
		elements := make(map[string]bool)
		for _, rv := range v.Relationships {
			if rv.Relationship != nil && slices.Contains(shown, rv.Order) {
				elements[model.ID(rv.Relationship.Source)] = true
				elements[model.ID(rv.Relationship.Destination)] = true
			}
		}
		out = append(out, filterView(v, elements, func(rv view.RelationshipView) bool {
			return slices.Contains(shown, rv.Order)
		}))
	}
	return out
}

// filterView copies v keeping the elements whose id is in elements and the
// relationships accepted by keep. View order and visibility are preserved.
func filterView(v *view.View, elements map[string]bool, keep func(view.RelationshipView) bool) *view.View {
	f := v.Clone()
	f.Animations = nil
	f.Elements = slices.DeleteFunc(f.Elements, func(ev view.ElementView) bool {
		return !elements[model.ID(ev.Element)]
	})
	f.Relationships = slices.DeleteFunc(f.Relationships, func(rv view.RelationshipView) bool {
		return rv.Relationship == nil || rv.Relationship.Source == nil ||
			rv.Relationship.Destination == nil || !keep(rv)
	})
	return f
}
