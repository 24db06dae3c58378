package plantuml

import (
	"github.com/uniknow/c4puml/pkg/model"
)

// writeGrouped writes elems, wrapping elements that share a group in one
// group boundary. Groups appear in the order they are first met; ungrouped
// elements come after all groups.
func (r *renderer) writeGrouped(elems []model.Element) error {
	var (
		order   []string
		byGroup = make(map[string][]model.Element)
		loose   []model.Element
	)
	for _, e := range elems {
		g := e.Base().Group
		if g == "" {
			loose = append(loose, e)
			continue
		}
		if _, seen := byGroup[g]; !seen {
			order = append(order, g)
		}
		byGroup[g] = append(byGroup[g], e)
	}

	for _, g := range order {
		members := byGroup[g]
		err := r.groupBoundary(g, func() error {
			return r.writeAll(members)
		})
		if err != nil {
			return err
		}
	}
	return r.writeAll(loose)
}

func (r *renderer) writeAll(elems []model.Element) error {
	for _, e := range elems {
		if err := r.writeElement(e); err != nil {
			return err
		}
	}
	return nil
}

// writeLandscape lays out people and software systems. With the enterprise
// boundary enabled, internal people and systems are drawn inside it.
func (r *renderer) writeLandscape(enterprise bool) error {
	all := r.view.ElementsWhere(func(model.Element) bool { return true })

	name := ""
	if m := r.view.Model(); m != nil {
		name = m.Enterprise
	}
	if !enterprise || name == "" || !r.view.AnyElement(isInternal) {
		return r.writeGrouped(all)
	}

	inside := r.view.ElementsWhere(isInternal)
	outside := r.view.ElementsWhere(func(e model.Element) bool { return !isInternal(e) })
	if err := r.enterpriseBoundary(name, func() error {
		return r.writeGrouped(inside)
	}); err != nil {
		return err
	}
	return r.writeGrouped(outside)
}

// writeContainers writes everything that is not a container, then one
// system boundary per software system owning containers in the view.
func (r *renderer) writeContainers() error {
	var (
		systems []*model.SoftwareSystem
		owned   = make(map[string][]model.Element)
		rest    []model.Element
	)
	for _, ev := range r.view.Elements {
		c, ok := ev.Element.(*model.Container)
		if !ok || c.SoftwareSystem == nil {
			rest = append(rest, ev.Element)
			continue
		}
		id := c.SoftwareSystem.ID
		if _, seen := owned[id]; !seen {
			systems = append(systems, c.SoftwareSystem)
		}
		owned[id] = append(owned[id], c)
	}

	if err := r.writeGrouped(rest); err != nil {
		return err
	}
	for _, s := range systems {
		members := owned[s.ID]
		if err := r.softwareSystemBoundary(s, func() error {
			return r.writeGrouped(members)
		}); err != nil {
			return err
		}
	}
	return nil
}

// writeComponents writes everything that is not a component, then one
// container boundary per container owning components in the view.
func (r *renderer) writeComponents() error {
	var (
		containers []*model.Container
		owned      = make(map[string][]model.Element)
		rest       []model.Element
	)
	for _, ev := range r.view.Elements {
		c, ok := ev.Element.(*model.Component)
		if !ok || c.Container == nil {
			rest = append(rest, ev.Element)
			continue
		}
		id := c.Container.ID
		if _, seen := owned[id]; !seen {
			containers = append(containers, c.Container)
		}
		owned[id] = append(owned[id], c)
	}

	if err := r.writeGrouped(rest); err != nil {
		return err
	}
	for _, c := range containers {
		members := owned[c.ID]
		if err := r.containerBoundary(c, func() error {
			return r.writeGrouped(members)
		}); err != nil {
			return err
		}
	}
	return nil
}

// writeDeployment writes elements living outside any deployment node of
// the view, then every top-level deployment node with its contents.
func (r *renderer) writeDeployment() error {
	var (
		roots []*model.DeploymentNode
		flat  []model.Element
	)
	for _, ev := range r.view.Elements {
		switch x := ev.Element.(type) {
		case *model.DeploymentNode:
			if x.Parent == nil || !r.view.Contains(x.Parent) {
				roots = append(roots, x)
			}
		default:
			if !r.insideNode(x) {
				flat = append(flat, x)
			}
		}
	}

	if err := r.writeGrouped(flat); err != nil {
		return err
	}
	for _, n := range roots {
		if err := r.writeNode(n); err != nil {
			return err
		}
	}
	return nil
}

// writeNode writes n as a boundary holding its child nodes first, then the
// infrastructure nodes and instances it hosts.
func (r *renderer) writeNode(n *model.DeploymentNode) error {
	return r.deploymentNodeBoundary(n, func() error {
		var hosted []model.Element
		for _, ev := range r.view.Elements {
			p := model.Parent(ev.Element)
			if p == nil || model.ID(p) != n.ID {
				continue
			}
			if child, ok := ev.Element.(*model.DeploymentNode); ok {
				if err := r.writeNode(child); err != nil {
					return err
				}
				continue
			}
			hosted = append(hosted, ev.Element)
		}
		return r.writeAll(hosted)
	})
}

// insideNode reports whether e is hosted by a deployment node of the view.
func (r *renderer) insideNode(e model.Element) bool {
	p, ok := model.Parent(e).(*model.DeploymentNode)
	return ok && r.view.Contains(p)
}

func isInternal(e model.Element) bool {
	switch x := e.(type) {
	case *model.Person:
		return x.Location == model.LocationInternal
	case *model.SoftwareSystem:
		return x.Location == model.LocationInternal
	}
	return false
}
