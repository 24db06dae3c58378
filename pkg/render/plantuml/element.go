package plantuml

import (
	"fmt"

	c4errors "github.com/uniknow/c4puml/pkg/errors"
	"github.com/uniknow/c4puml/pkg/model"
)

// writeElement writes the declaration of e followed, when e is hidden in
// the view, by a hide directive.
//
// Instance wrappers are labelled with the attributes of the element they
// wrap, but the id in the declaration, the visibility check and the hide
// directive all use the wrapper itself.
func (r *renderer) writeElement(e model.Element) error {
	id := model.ID(e)
	decl, err := r.declaration(id, model.Display(e))
	if err != nil {
		return err
	}
	r.w.line(decl)

	if r.view.IsHidden(e) {
		r.w.line("hide " + id)
	}
	return nil
}

// declaration chooses the C4 macro for d and formats it with id.
func (r *renderer) declaration(id string, d model.Element) (string, error) {
	b := d.Base()
	name := oneLine(b.Name)
	desc := oneLine(b.Description)

	switch x := d.(type) {
	case *model.Person:
		macro := "Person"
		if x.Location == model.LocationExternal {
			macro = "Person_Ext"
		}
		return fmt.Sprintf(`%s(%s, "%s", "%s")`, macro, id, name, desc), nil

	case *model.SoftwareSystem:
		macro := "System"
		if x.Location == model.LocationExternal {
			macro = "System_Ext"
		}
		return fmt.Sprintf(`%s(%s, "%s", "%s")`, macro, id, name, desc), nil

	case *model.Container:
		macro := "Container" + r.containerShape(x)
		return withTechnology(macro, id, name, oneLine(x.Technology), desc), nil

	case *model.Component:
		if model.HasTag(x, model.TagUseCase) {
			return fmt.Sprintf(`UseCase(%s, "%s", "%s", "%s")`, id, name, oneLine(x.Technology), desc), nil
		}
		return withTechnology("Component", id, name, oneLine(x.Technology), desc), nil

	case *model.InfrastructureNode:
		if x.Technology == "" {
			return fmt.Sprintf(`Deployment_Node(%s, "%s")`, id, name), nil
		}
		return fmt.Sprintf(`Deployment_Node(%s, "%s", "%s")`, id, name, oneLine(x.Technology)), nil

	case *model.DeploymentNode:
		return "", c4errors.New(c4errors.ErrCodeUnsupportedElement,
			"deployment node %s can only be rendered as a boundary", id)

	case *model.SoftwareSystemInstance, *model.ContainerInstance:
		return "", c4errors.New(c4errors.ErrCodeUnsupportedElement,
			"instance %s does not reference an element", id)
	}
	return "", c4errors.New(c4errors.ErrCodeUnsupportedElement, "element %s has unsupported kind %T", id, d)
}

// containerShape maps the styled shape of c to the macro suffix.
func (r *renderer) containerShape(c *model.Container) string {
	style := r.view.Styles().FindElementStyle(c)
	switch *style.Shape {
	case model.ShapeCylinder:
		return "Db"
	case model.ShapePipe:
		return "Queue"
	}
	return ""
}

// withTechnology formats a macro with the optional technology argument
// placed before the description.
func withTechnology(macro, id, name, technology, desc string) string {
	if technology == "" {
		return fmt.Sprintf(`%s(%s, "%s", "%s")`, macro, id, name, desc)
	}
	return fmt.Sprintf(`%s(%s, "%s", "%s", "%s")`, macro, id, name, technology, desc)
}
