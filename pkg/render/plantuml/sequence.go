package plantuml

import (
	"github.com/uniknow/c4puml/pkg/model"
	"github.com/uniknow/c4puml/pkg/view"
)

// exportSequence renders a dynamic view without boundaries: every element
// touched by a relationship is declared once, in the order it is first
// met, followed by the relationships in view order.
func (e *Exporter) exportSequence(v *view.View) (*Diagram, error) {
	r := e.newRenderer(v)
	r.writeHeader()
	for _, el := range participants(v) {
		if err := r.writeElement(el); err != nil {
			return nil, err
		}
	}
	if err := r.writeRelationships(); err != nil {
		return nil, err
	}
	r.writeFooter()

	def, err := r.finish()
	if err != nil {
		return nil, err
	}
	e.logger.Debug("rendered sequence view", "key", v.Key)
	return &Diagram{Key: v.Key, Definition: def}, nil
}

// participants returns the distinct ends of the view's relationships,
// source before destination, first occurrence wins.
func participants(v *view.View) []model.Element {
	var (
		out  []model.Element
		seen = make(map[string]bool)
	)
	add := func(el model.Element) {
		if el == nil || seen[model.ID(el)] {
			return
		}
		seen[model.ID(el)] = true
		out = append(out, el)
	}
	for _, rv := range v.Relationships {
		if rv.Relationship == nil {
			continue
		}
		add(rv.Relationship.Source)
		add(rv.Relationship.Destination)
	}
	return out
}
