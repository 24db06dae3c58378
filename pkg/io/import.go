package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	c4errors "github.com/uniknow/c4puml/pkg/errors"
	"github.com/uniknow/c4puml/pkg/model"
	"github.com/uniknow/c4puml/pkg/view"
)

// Workspace is a decoded workspace: the model and the views over it.
type Workspace struct {
	Name        string
	Description string
	Model       *model.Model
	Views       *view.Set
}

// ReadWorkspace decodes a Structurizr workspace JSON document from r.
//
// Relationships may be declared on any element; a relationship without a
// sourceId starts at the element it is declared on. Element views accept an
// optional "visible" flag (default true). Relationship endpoints missing
// from a view's element list are added to it, so that every relationship
// line refers to a declared element.
//
// All decoding and reference errors carry [c4errors.ErrCodeInvalidWorkspace].
// ReadWorkspace does not close r.
func ReadWorkspace(r io.Reader) (*Workspace, error) {
	var doc workspaceDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, c4errors.Wrap(c4errors.ErrCodeInvalidWorkspace, err, "decode workspace")
	}

	b := &builder{m: model.New("")}
	if doc.Model.Enterprise != nil {
		b.m.Enterprise = doc.Model.Enterprise.Name
	}
	if err := b.addModel(&doc.Model); err != nil {
		return nil, err
	}
	set, err := b.buildViews(&doc.Views)
	if err != nil {
		return nil, err
	}
	return &Workspace{Name: doc.Name, Description: doc.Description, Model: b.m, Views: set}, nil
}

// DecodeWorkspace decodes a workspace held in memory.
func DecodeWorkspace(data []byte) (*Workspace, error) {
	return ReadWorkspace(bytes.NewReader(data))
}

// ImportWorkspace reads the workspace JSON file at path.
func ImportWorkspace(path string) (*Workspace, error) {
	if err := c4errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadWorkspace(f)
}

type pendingRel struct {
	owner string
	doc   relationshipDoc
}

type builder struct {
	m    *model.Model
	rels []pendingRel

	systemRefs    []instanceRef[*model.SoftwareSystemInstance]
	containerRefs []instanceRef[*model.ContainerInstance]
}

// instanceRef remembers which element an instance wrapper points at until
// every element of the model is known.
type instanceRef[T model.Element] struct {
	inst T
	ref  string
}

func invalid(format string, args ...any) error {
	return c4errors.New(c4errors.ErrCodeInvalidWorkspace, format, args...)
}

func elementBase(d elementDoc) model.ElementBase {
	return model.ElementBase{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Tags:        splitTags(d.Tags),
		Group:       d.Group,
		URL:         d.URL,
		Properties:  d.Properties,
	}
}

func (b *builder) add(e model.Element, d elementDoc) error {
	if err := b.m.Add(e); err != nil {
		return c4errors.Wrap(c4errors.ErrCodeInvalidWorkspace, err, "element %q", d.ID)
	}
	for _, r := range d.Relationships {
		b.rels = append(b.rels, pendingRel{owner: d.ID, doc: r})
	}
	return nil
}

func (b *builder) addModel(md *modelDoc) error {
	for _, p := range md.People {
		if err := b.add(&model.Person{ElementBase: elementBase(p.elementDoc), Location: model.ParseLocation(p.Location)}, p.elementDoc); err != nil {
			return err
		}
	}
	for _, s := range md.SoftwareSystems {
		sys := &model.SoftwareSystem{ElementBase: elementBase(s.elementDoc), Location: model.ParseLocation(s.Location)}
		if err := b.add(sys, s.elementDoc); err != nil {
			return err
		}
		for _, c := range s.Containers {
			ctr := &model.Container{ElementBase: elementBase(c.elementDoc), Technology: c.Technology, SoftwareSystem: sys}
			if err := b.add(ctr, c.elementDoc); err != nil {
				return err
			}
			for _, k := range c.Components {
				cmp := &model.Component{ElementBase: elementBase(k.elementDoc), Technology: k.Technology, Container: ctr}
				if err := b.add(cmp, k.elementDoc); err != nil {
					return err
				}
			}
		}
	}
	for i := range md.DeploymentNodes {
		if err := b.addDeploymentNode(&md.DeploymentNodes[i], nil); err != nil {
			return err
		}
	}

	if err := b.resolveInstances(); err != nil {
		return err
	}
	return b.resolveRelationships()
}

func (b *builder) addDeploymentNode(d *deploymentNodeDoc, parent *model.DeploymentNode) error {
	n := &model.DeploymentNode{
		ElementBase: elementBase(d.elementDoc),
		Technology:  d.Technology,
		Environment: d.Environment,
		Instances:   int(d.Instances),
		Parent:      parent,
	}
	if n.Instances == 0 {
		n.Instances = 1
	}
	if err := b.add(n, d.elementDoc); err != nil {
		return err
	}

	for i := range d.Children {
		if err := b.addDeploymentNode(&d.Children[i], n); err != nil {
			return err
		}
	}
	for _, in := range d.InfrastructureNodes {
		e := &model.InfrastructureNode{ElementBase: elementBase(in.elementDoc), Technology: in.Technology, Environment: in.Environment, Parent: n}
		if err := b.add(e, in.elementDoc); err != nil {
			return err
		}
	}
	for _, si := range d.SoftwareSystemInstances {
		e := &model.SoftwareSystemInstance{ElementBase: elementBase(si.elementDoc), Environment: si.Environment, InstanceID: si.InstanceID, Parent: n}
		if err := b.add(e, si.elementDoc); err != nil {
			return err
		}
		b.systemRefs = append(b.systemRefs, instanceRef[*model.SoftwareSystemInstance]{e, si.SoftwareSystemID})
	}
	for _, ci := range d.ContainerInstances {
		e := &model.ContainerInstance{ElementBase: elementBase(ci.elementDoc), Environment: ci.Environment, InstanceID: ci.InstanceID, Parent: n}
		if err := b.add(e, ci.elementDoc); err != nil {
			return err
		}
		b.containerRefs = append(b.containerRefs, instanceRef[*model.ContainerInstance]{e, ci.ContainerID})
	}
	return nil
}

// resolveInstances links instance wrappers to the elements they stand for.
func (b *builder) resolveInstances() error {
	for _, r := range b.systemRefs {
		sys, err := lookup[*model.SoftwareSystem](b.m, r.ref)
		if err != nil {
			return fmt.Errorf("software system instance %q: %w", r.inst.ID, err)
		}
		r.inst.SoftwareSystem = sys
	}
	for _, r := range b.containerRefs {
		ctr, err := lookup[*model.Container](b.m, r.ref)
		if err != nil {
			return fmt.Errorf("container instance %q: %w", r.inst.ID, err)
		}
		r.inst.Container = ctr
	}
	return nil
}

func (b *builder) resolveRelationships() error {
	for _, p := range b.rels {
		srcID := p.doc.SourceID
		if srcID == "" {
			srcID = p.owner
		}
		src, ok := b.m.Element(srcID)
		if !ok {
			return invalid("relationship %q: unknown source %q", p.doc.ID, srcID)
		}
		dst, ok := b.m.Element(p.doc.DestinationID)
		if !ok {
			return invalid("relationship %q: unknown destination %q", p.doc.ID, p.doc.DestinationID)
		}
		r := &model.Relationship{
			ID:          p.doc.ID,
			Source:      src,
			Destination: dst,
			Description: p.doc.Description,
			Technology:  p.doc.Technology,
			Tags:        splitTags(p.doc.Tags),
		}
		if err := b.m.AddRelationship(r); err != nil {
			return c4errors.Wrap(c4errors.ErrCodeInvalidWorkspace, err, "relationship %q", p.doc.ID)
		}
	}
	return nil
}

// lookup finds the element with the given id and checks its kind.
func lookup[T model.Element](m *model.Model, id string) (T, error) {
	var zero T
	e, ok := m.Element(id)
	if !ok {
		return zero, invalid("unknown element %q", id)
	}
	t, ok := e.(T)
	if !ok {
		return zero, invalid("element %q is a %s, not a %T", id, model.Kind(e), zero)
	}
	return t, nil
}

func (b *builder) buildViews(vd *viewsDoc) (*view.Set, error) {
	set := view.NewSet(b.m)
	for _, st := range vd.Configuration.Styles.Elements {
		style := model.ElementStyle{Tag: st.Tag}
		if shape, ok := model.ParseShape(st.Shape); ok {
			style.Shape = &shape
		}
		set.Configuration.Styles.Elements = append(set.Configuration.Styles.Elements, style)
	}

	groups := []struct {
		kind view.Kind
		docs []viewDoc
	}{
		{view.KindSystemLandscape, vd.SystemLandscapeViews},
		{view.KindSystemContext, vd.SystemContextViews},
		{view.KindContainer, vd.ContainerViews},
		{view.KindComponent, vd.ComponentViews},
		{view.KindDynamic, vd.DynamicViews},
		{view.KindDeployment, vd.DeploymentViews},
	}
	for _, g := range groups {
		for i := range g.docs {
			v, err := b.buildView(g.kind, &g.docs[i])
			if err != nil {
				return nil, fmt.Errorf("view %q: %w", g.docs[i].Key, err)
			}
			if err := set.Add(v); err != nil {
				return nil, c4errors.Wrap(c4errors.ErrCodeInvalidWorkspace, err, "view %q", v.Key)
			}
		}
	}
	return set, nil
}

func (b *builder) buildView(kind view.Kind, d *viewDoc) (*view.View, error) {
	v := &view.View{
		Kind:                      kind,
		Key:                       d.Key,
		Title:                     d.Title,
		Description:               d.Description,
		Environment:               d.Environment,
		EnterpriseBoundaryVisible: d.EnterpriseBoundaryVisible == nil || *d.EnterpriseBoundaryVisible,
	}
	if err := b.scopeView(v, d); err != nil {
		return nil, err
	}

	for _, ev := range d.Elements {
		e, ok := b.m.Element(ev.ID)
		if !ok {
			return nil, invalid("unknown element %q", ev.ID)
		}
		v.AddElement(e, ev.Visible != nil && !*ev.Visible)
	}
	for _, rv := range d.Relationships {
		r, ok := b.m.Relationship(rv.ID)
		if !ok {
			return nil, invalid("unknown relationship %q", rv.ID)
		}
		v.AddRelationship(view.RelationshipView{
			Relationship: r,
			Order:        rv.Order,
			Description:  rv.Description,
			Response:     rv.Response,
		})
		v.AddElement(r.Source, false)
		v.AddElement(r.Destination, false)
	}
	for _, a := range d.Animations {
		v.Animations = append(v.Animations, view.AnimationStep{Order: a.Order, Elements: a.Elements, Relationships: a.Relationships})
	}
	return v, nil
}

func (b *builder) scopeView(v *view.View, d *viewDoc) error {
	var err error
	if d.SoftwareSystemID != "" {
		if v.SoftwareSystem, err = lookup[*model.SoftwareSystem](b.m, d.SoftwareSystemID); err != nil {
			return err
		}
	}
	if d.ContainerID != "" {
		if v.Container, err = lookup[*model.Container](b.m, d.ContainerID); err != nil {
			return err
		}
	}
	if d.ElementID != "" {
		e, ok := b.m.Element(d.ElementID)
		if !ok {
			return invalid("unknown element %q", d.ElementID)
		}
		switch x := e.(type) {
		case *model.SoftwareSystem:
			v.SoftwareSystem = x
		case *model.Container:
			v.Container = x
			v.SoftwareSystem = x.SoftwareSystem
		default:
			return invalid("view cannot be scoped to %s %q", model.Kind(e), d.ElementID)
		}
	}
	return nil
}
