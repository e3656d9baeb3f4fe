// Package pkg provides the core libraries for nodegrav graph layout.
//
// # Overview
//
// Nodegrav animates graphs with a force-directed simulation and persists the
// simulation state between sessions. The pkg directory is organized into
// five main areas:
//
//  1. [graph] - The in-memory graph model (nodes, edges, visual state)
//  2. [layout] - The layout-algorithm contract, registry, state store, runner
//  3. [layout/force] - The Fruchterman-Reingold simulation and extra forces
//  4. [render/dot] - Graphviz DOT export and SVG/PNG rendering
//  5. [observability] - Pluggable hooks for step and state events
//
// # Architecture
//
// The typical data flow through nodegrav:
//
//	graph JSON document
//	         ↓
//	    [graph] package (build the multigraph)
//	         ↓
//	    [layout] package (construct algorithm from persisted state)
//	         ↓
//	    [layout/force] package (step the simulation, frame by frame)
//	         ↓
//	    [render/dot] package (export positions)
//	         ↓
//	    DOT/SVG/PNG output + persisted layout state
//
// # Quick Start
//
//	g, doc, err := graph.ReadFile("graph.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	runner := layout.NewRunner(layout.NewMemoryStore(), doc.ID, nil)
//	runner.SetRunning(ctx, force.Name, true)
//	runner.StepN(ctx, g, force.Name, geom.R(0, 0, 1000, 1000), 300)
//
//	fmt.Print(dot.ToDOT(g, dot.Options{Pinned: true}))
package pkg
