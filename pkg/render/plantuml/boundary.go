package plantuml

import (
	"fmt"

	"github.com/uniknow/c4puml/pkg/model"
)

// boundary writes open, runs body one level deeper and closes the block,
// even when body fails. The error of body is returned after the close so
// the buffer never ends up unbalanced.
func (r *renderer) boundary(open string, body func() error) error {
	r.w.line(open)
	r.w.indent()
	err := body()
	r.w.outdent()
	r.w.line("}")
	r.w.blank()
	return err
}

func (r *renderer) enterpriseBoundary(name string, body func() error) error {
	return r.boundary(fmt.Sprintf(`Enterprise_Boundary(enterprise, "%s") {`, oneLine(name)), body)
}

// groupBoundary numbers groups from the session counter, which is never
// reset between views.
func (r *renderer) groupBoundary(group string, body func() error) error {
	id := r.exp.sess.nextGroup
	r.exp.sess.nextGroup++
	return r.boundary(fmt.Sprintf(`Boundary(group_%d, "%s") {`, id, oneLine(group)), body)
}

func (r *renderer) softwareSystemBoundary(s *model.SoftwareSystem, body func() error) error {
	return r.boundary(fmt.Sprintf(`System_Boundary("%s_boundary", "%s") {`, s.ID, oneLine(s.Name)), body)
}

func (r *renderer) containerBoundary(c *model.Container, body func() error) error {
	return r.boundary(fmt.Sprintf(`Container_Boundary("%s_boundary", "%s") {`, c.ID, oneLine(c.Name)), body)
}

// deploymentNodeBoundary opens a Deployment_Node block. A node hidden in the
// view is hidden from inside its own block.
func (r *renderer) deploymentNodeBoundary(n *model.DeploymentNode, body func() error) error {
	label := oneLine(n.Name)
	if n.Instances > 1 {
		label += fmt.Sprintf(" (x%d)", n.Instances)
	}

	var open string
	if n.Technology == "" {
		open = fmt.Sprintf(`Deployment_Node(%s, "%s") {`, n.ID, label)
	} else {
		open = fmt.Sprintf(`Deployment_Node(%s, "%s", "%s") {`, n.ID, label, oneLine(n.Technology))
	}

	return r.boundary(open, func() error {
		if r.view.IsHidden(n) {
			r.w.line("hide " + n.ID)
		}
		return body()
	})
}
