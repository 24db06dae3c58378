package plantuml

import (
	c4errors "github.com/uniknow/c4puml/pkg/errors"
	"github.com/uniknow/c4puml/pkg/view"
)

// renderer writes one view into one buffer. It borrows the exporter's
// session for group numbering and custom includes.
type renderer struct {
	exp  *Exporter
	view *view.View
	w    *lineWriter
}

func (e *Exporter) newRenderer(v *view.View) *renderer {
	return &renderer{exp: e, view: v, w: &lineWriter{}}
}

func (r *renderer) writeHeader() {
	r.w.line("@startuml")
	r.w.line("title " + oneLine(r.view.Name()))
	if r.view.Description != "" {
		r.w.line("caption " + oneLine(r.view.Description))
	}
	r.w.blank()

	for _, inc := range r.exp.sess.resolveIncludes(r.view) {
		r.w.line(inc.Directive())
	}
	if r.exp.legend {
		r.w.line(LegendDirective)
	}
	r.w.blank()
}

func (r *renderer) writeFooter() {
	r.w.line("@enduml")
}

// finish checks that every boundary was closed and returns the source.
func (r *renderer) finish() (string, error) {
	if !r.w.balanced() {
		return "", c4errors.New(c4errors.ErrCodeInternal,
			"unbalanced boundaries in view %s (depth %d)", r.view.Key, r.w.depth)
	}
	return r.w.String(), nil
}

// writeBody writes elements and boundaries according to the view kind.
func (r *renderer) writeBody() error {
	switch r.view.Kind {
	case view.KindSystemLandscape, view.KindSystemContext:
		return r.writeLandscape(r.view.EnterpriseBoundaryVisible)
	case view.KindContainer:
		return r.writeContainers()
	case view.KindComponent:
		return r.writeComponents()
	case view.KindDynamic:
		switch {
		case r.view.Container != nil:
			return r.writeComponents()
		case r.view.SoftwareSystem != nil:
			return r.writeContainers()
		default:
			return r.writeLandscape(false)
		}
	case view.KindDeployment:
		return r.writeDeployment()
	}
	return c4errors.New(c4errors.ErrCodeUnsupportedView, "view %s has unknown kind %d", r.view.Key, int(r.view.Kind))
}

func (r *renderer) writeRelationships() error {
	for _, rv := range r.view.Relationships {
		if err := r.writeRelationship(rv); err != nil {
			return err
		}
	}
	return nil
}
