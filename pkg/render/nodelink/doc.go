// Package nodelink renders materialized property tables as node-link diagrams.
//
// # Overview
//
// The property table is a tree; this package draws it with Graphviz as boxes
// connected left to right. Element rows are highlighted, group rows
// (Attributes, PropertySets, a property set, ...) are filled grey, and leaf
// rows show "Name: Value".
//
// # Usage
//
// Convert rows to DOT, then render:
//
//	dot := nodelink.ToDOT(rows, nodelink.Options{MaxDepth: 3})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot)
//
// [Render] does both steps for a format name ("dot", "svg" or "png").
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz], which embeds Graphviz as
// WebAssembly, so no external binaries are required.
package nodelink
