package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/uniknow/c4puml/pkg/model"
	"github.com/uniknow/c4puml/pkg/view"
)

// Options configures DOT generation.
type Options struct {
	// Detailed adds kind and technology lines to node labels.
	Detailed bool
}

// ToDOT converts a view to Graphviz DOT. Boundaries become clusters: software
// systems around their containers, containers around their components and
// deployment nodes around what they host. Hidden elements are kept but
// drawn invisible so edges to them still lay out.
func ToDOT(v *view.View, opts Options) string {
	g := &graph{view: v, opts: opts}
	g.buf.WriteString("digraph G {\n")
	g.buf.WriteString("  rankdir=TB;\n")
	g.buf.WriteString("  bgcolor=\"transparent\";\n")
	g.buf.WriteString("  compound=true;\n")
	g.buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	g.buf.WriteString("  ranksep=0.6;\n")
	g.buf.WriteString("  nodesep=0.4;\n")
	fmt.Fprintf(&g.buf, "  label=%q;\n", v.Name())
	g.buf.WriteString("\n")

	g.writeTree(nil, 1)

	g.buf.WriteString("\n")
	for _, rv := range v.Relationships {
		r := rv.Relationship
		if r == nil || r.Source == nil || r.Destination == nil {
			continue
		}
		src, dst := r.Source, r.Destination
		if rv.Response {
			src, dst = dst, src
		}
		label := rv.Description
		if label == "" {
			label = r.Description
		}
		if rv.Order != "" {
			label = rv.Order + ". " + label
		}
		if r.Technology != "" {
			label += "\n[" + r.Technology + "]"
		}
		fmt.Fprintf(&g.buf, "  %q -> %q [label=%q];\n", model.ID(src), model.ID(dst), label)
	}

	g.buf.WriteString("}\n")
	return g.buf.String()
}

type graph struct {
	buf  bytes.Buffer
	view *view.View
	opts Options
}

// writeTree writes the elements of the view whose enclosing boundary is
// parent, recursing into clusters.
func (g *graph) writeTree(parent model.Element, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, ev := range g.view.Elements {
		if !sameElement(g.enclosing(ev.Element), parent) {
			continue
		}
		g.writeNode(indent, ev)
	}
	for _, b := range g.boundaries(parent) {
		fmt.Fprintf(&g.buf, "%ssubgraph %q {\n", indent, "cluster_"+model.ID(b))
		fmt.Fprintf(&g.buf, "%s  label=%q;\n", indent, clusterLabel(b))
		fmt.Fprintf(&g.buf, "%s  style=dashed;\n", indent)
		if g.view.IsHidden(b) {
			fmt.Fprintf(&g.buf, "%s  style=invis;\n", indent)
		}
		g.writeTree(b, depth+1)
		fmt.Fprintf(&g.buf, "%s}\n", indent)
	}
}

func (g *graph) writeNode(indent string, ev view.ElementView) {
	if _, ok := ev.Element.(*model.DeploymentNode); ok {
		return
	}
	d := model.Display(ev.Element)
	attrs := []string{fmt.Sprintf("label=%q", g.label(d))}
	if shape := dotShape(g.view.Styles().FindElementStyle(d)); shape != "" {
		attrs = append(attrs, "shape="+shape)
	}
	if isExternal(d) {
		attrs = append(attrs, "fillcolor=lightgrey")
	}
	if ev.Hidden {
		attrs = append(attrs, "style=invis")
	}
	fmt.Fprintf(&g.buf, "%s%q [%s];\n", indent, model.ID(ev.Element), strings.Join(attrs, ", "))
}

func (g *graph) label(d model.Element) string {
	name := model.Name(d)
	if !g.opts.Detailed {
		return name
	}
	parts := []string{name, "[" + model.Kind(d) + "]"}
	if tech := model.Technology(d); tech != "" {
		parts = append(parts, tech)
	}
	return strings.Join(parts, "\n")
}

// enclosing returns the cluster an element is drawn in, or nil for the top
// level. A software system or container only becomes a cluster when it is
// not itself an element of the view; deployment nodes are always clusters.
func (g *graph) enclosing(e model.Element) model.Element {
	switch x := e.(type) {
	case *model.Container:
		if x.SoftwareSystem != nil && !g.view.Contains(x.SoftwareSystem) {
			return x.SoftwareSystem
		}
	case *model.Component:
		if x.Container != nil && !g.view.Contains(x.Container) {
			return x.Container
		}
	case *model.DeploymentNode, *model.InfrastructureNode, *model.SoftwareSystemInstance, *model.ContainerInstance:
		if n, ok := model.Parent(x).(*model.DeploymentNode); ok && g.view.Contains(n) {
			return n
		}
	case *model.Person, *model.SoftwareSystem:
	}
	return nil
}

// boundaries returns the clusters directly inside parent, in first-seen order.
func (g *graph) boundaries(parent model.Element) []model.Element {
	var out []model.Element
	seen := make(map[string]bool)
	for _, ev := range g.view.Elements {
		var b model.Element
		if n, ok := ev.Element.(*model.DeploymentNode); ok {
			if sameElement(g.enclosing(n), parent) {
				b = n
			}
		} else if parent == nil {
			if p := g.enclosing(ev.Element); p != nil {
				if _, isNode := p.(*model.DeploymentNode); !isNode {
					b = p
				}
			}
		}
		if b != nil && !seen[model.ID(b)] {
			seen[model.ID(b)] = true
			out = append(out, b)
		}
	}
	return out
}

func sameElement(a, b model.Element) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return model.ID(a) == model.ID(b)
}

func clusterLabel(b model.Element) string {
	if n, ok := b.(*model.DeploymentNode); ok && n.Instances > 1 {
		return fmt.Sprintf("%s (x%d)", n.Name, n.Instances)
	}
	return model.Name(b)
}

func isExternal(e model.Element) bool {
	switch x := e.(type) {
	case *model.Person:
		return x.Location == model.LocationExternal
	case *model.SoftwareSystem:
		return x.Location == model.LocationExternal
	}
	return false
}

func dotShape(s model.ElementStyle) string {
	switch *s.Shape {
	case model.ShapeCylinder:
		return "cylinder"
	case model.ShapePipe:
		return "cds"
	case model.ShapeHexagon:
		return "hexagon"
	case model.ShapeCircle:
		return "circle"
	case model.ShapeEllipse:
		return "ellipse"
	case model.ShapeFolder:
		return "folder"
	case model.ShapeComponent:
		return "component"
	case model.ShapePerson, model.ShapeRobot:
		return "egg"
	}
	return ""
}

// RenderSVG renders DOT source to SVG in process.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the root svg tag so the drawing scales with its
// container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
