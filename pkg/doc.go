// Package pkg provides the core libraries of ifctree.
//
// # Overview
//
// ifctree reads the flat entity list of an IFC model, indexes the inverse
// relations between entities and materializes, for each selected element, a
// tree of rows: attributes, property and quantity sets, classifications,
// materials, tasks and the spatial container. The pkg directory is organized
// into these areas:
//
//  1. [ifc] - Data model, collaborator interfaces and the relation index
//  2. [props] - Row trees: resolvers, memo, materializer and explorers
//  3. [units] - Unit symbols and precision per model
//  4. [store], [io] - Entity stores (memory, sqlite, mongo) and JSON model files
//  5. [pipeline] - Orchestration (load → index → materialize → render)
//  6. [render/nodelink] - Graphviz diagrams of row trees
//  7. [cache], [session], [observability], [errors] - Infrastructure
//
// # Architecture
//
// The typical data flow through ifctree:
//
//	Model file or stored model
//	         ↓
//	    [io] / [store] (entities by handle)
//	         ↓
//	    [ifc/relations] (inverse relation index, cached by content hash)
//	         ↓
//	    [props] (materialize rows, memoized per model and handle)
//	         ↓
//	    tree / JSON / YAML / DOT / SVG / PNG
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil, nil, logger)
//	ws := runner.NewWorkspace()
//	model, _ := runner.Load(ctx, ws, "office.json")
//
//	m := ws.Materializer(pipeline.Options{DisplayUnits: true}.Props(logger))
//	rows, _ := m.Materialize(ctx, props.Selection{model.Info.ID: {20}})
//	_ = io.WriteRows(os.Stdout, rows, "json")
package pkg
