// Package plantuml renders C4 views as C4-PlantUML source.
//
// # Overview
//
// An [Exporter] turns a [view.View] into a [Diagram]: a header with the
// notation includes, the view's elements nested in their boundaries, the
// relationships, and a trailer. Views that animate also produce frames,
// one cumulative page per step.
//
// # Usage
//
//	exp := plantuml.New(plantuml.WithLegend(true))
//	if err := exp.AddIncludeURL("https://example.com/theme.puml", "theme"); err != nil {
//		return err
//	}
//	diagrams, err := exp.Export(set)
//
// [Exporter.Export] keeps going when a view fails; the failures come back
// joined into one error next to the diagrams that did render.
//
// # Layout
//
// Boundaries follow element ownership:
//
//   - Landscape and context views may wrap internal people and systems in
//     an enterprise boundary
//   - Container views wrap containers in their software system
//   - Component views wrap components in their container
//   - Deployment views nest deployment nodes and the instances they host
//
// Elements sharing a group are wrapped in a group boundary. Group ids come
// from a counter owned by the exporter and keep increasing from one view to
// the next.
//
// # Sequence mode
//
// With [WithSequenceDiagrams], dynamic views skip boundaries entirely and
// list their participants in order of first appearance.
package plantuml
