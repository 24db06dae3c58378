package plantuml

import (
	"fmt"

	c4errors "github.com/uniknow/c4puml/pkg/errors"
	"github.com/uniknow/c4puml/pkg/model"
	"github.com/uniknow/c4puml/pkg/view"
)

// writeRelationship writes a Rel_D line. Responses are drawn from the
// destination back to the source.
func (r *renderer) writeRelationship(rv view.RelationshipView) error {
	rel := rv.Relationship
	if rel == nil || rel.Source == nil || rel.Destination == nil {
		return c4errors.New(c4errors.ErrCodeInvalidInput, "view %s has a relationship without endpoints", r.view.Key)
	}

	src, dst := rel.Source, rel.Destination
	if rv.Response {
		src, dst = dst, src
	}

	desc := oneLine(relationshipDescription(rv))
	if rel.Technology == "" {
		r.w.line(fmt.Sprintf(`Rel_D(%s, %s, "%s")`, model.ID(src), model.ID(dst), desc))
	} else {
		r.w.line(fmt.Sprintf(`Rel_D(%s, %s, "%s", "%s")`, model.ID(src), model.ID(dst), desc, oneLine(rel.Technology)))
	}
	return nil
}

// relationshipDescription prefixes the step order, if any, to the view's
// description or, failing that, the relationship's own.
func relationshipDescription(rv view.RelationshipView) string {
	desc := ""
	if rv.Order != "" {
		desc = rv.Order + ". "
	}
	switch {
	case rv.Description != "":
		desc += rv.Description
	case rv.Relationship.Description != "":
		desc += rv.Relationship.Description
	}
	return desc
}
