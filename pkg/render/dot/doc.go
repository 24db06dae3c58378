// Package dot renders C4 views as Graphviz node-link diagrams.
//
// [ToDOT] turns a view into DOT source with one cluster per boundary, and
// [RenderSVG] lays it out in process with [github.com/goccy/go-graphviz]:
//
//	src := dot.ToDOT(v, dot.Options{Detailed: true})
//	svg, err := dot.RenderSVG(ctx, src)
//
// The output is a quick preview of a view's structure, not a replacement
// for the C4-PlantUML notation.
package dot
