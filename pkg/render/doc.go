// Package render groups the output formats of c4puml.
//
// [plantuml] is the primary renderer: it writes C4-PlantUML macros and
// leaves layout to PlantUML. [dot] writes the same view as a Graphviz graph
// with boundaries as clusters and renders it to SVG in process, for
// previews where no PlantUML server is at hand.
package render
