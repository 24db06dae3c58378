// Package pkg holds the libraries behind c4puml.
//
// # Overview
//
// c4puml turns a C4 architecture model into C4-PlantUML source, one
// diagram per view. The packages split along the path a workspace takes:
//
//	workspace.json
//	      ↓
//	  [io]                  decode into [model] elements and [view] views
//	      ↓
//	  [render/plantuml]     one Diagram (plus animation frames) per view
//	      ↓
//	  [io] / [server]       .puml files or JSON responses
//
// [pipeline] runs that path with caching ([cache]) and is shared by the
// command line and the HTTP API. [render/dot] lays the same views out with
// Graphviz when SVG output is wanted.
//
// # Quick Start
//
//	ws, err := io.ImportWorkspace("workspace.json")
//	if err != nil {
//	    return err
//	}
//	exp := plantuml.New(plantuml.WithLegend(true))
//	diagrams, err := exp.Export(ws.Views)
//	// diagrams holds every view that rendered; err joins the failures.
//
// # Supporting packages
//
//   - [config]: c4puml.toml and XDG directories
//   - [errors]: coded errors shared by every layer
//   - [observability]: hooks fired on export, cache and HTTP events
//   - [buildinfo]: version stamping
package pkg
