// Package pipeline loads models and runs the materialization pipeline.
//
// It is the shared entry point of the CLI and the HTTP server: both resolve a
// model reference, build (or fetch from cache) its relation index and then
// materialize or render property tables. Centralizing this keeps the two
// front ends consistent.
//
// # Architecture
//
// A [Workspace] holds the loaded models: entities of model files live in an
// in-memory store, models referenced by ID are read from the persistent
// store. The workspace implements [ifc.EntityStore] by routing each model to
// its backend, and carries the relation index and unit resolver shared by
// every materializer created from it.
//
// A [Runner] owns the byte cache and the persistent store:
//
//  1. Load: read a model file (or look up a stored model) into a workspace
//  2. Index: build the relation index, cached under the file's content hash
//  3. Render: materialize rows and draw them, cached as artifacts
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, nil, logger)
//	ws := runner.NewWorkspace()
//	model, err := runner.Load(ctx, ws, "office.json")
//	if err != nil {
//	    return err
//	}
//	m := ws.Materializer(pipeline.Options{DisplayUnits: true}.Props(logger))
//	rows, err := m.Materialize(ctx, props.Selection{model.Info.ID: handles})
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ifctree/pkg/errors"
	"github.com/matzehuels/ifctree/pkg/props"
	"github.com/matzehuels/ifctree/pkg/render/nodelink"
)

// Cache TTLs.
const (
	// TTLIndex is the lifetime of cached relation indexes. Keys embed the
	// model hash, so entries never go stale; the TTL only bounds disk use.
	TTLIndex = 7 * 24 * time.Hour

	// TTLArtifact is the lifetime of rendered artifacts.
	TTLArtifact = 24 * time.Hour
)

// Options are the per-request materialization settings shared by the CLI and
// the HTTP server.
type Options struct {
	// DisplayUnits appends unit symbols to measure values.
	DisplayUnits bool

	// Workers bounds concurrent handle builds. Zero uses props.DefaultWorkers.
	Workers int

	// Depth limits rendered diagrams. Zero draws the whole tree.
	Depth int

	// Format is the render format (dot, svg or png).
	Format string
}

// Props converts o to materializer options.
func (o Options) Props(logger *log.Logger) props.Options {
	return props.Options{DisplayUnits: o.DisplayUnits, Workers: o.Workers, Logger: logger}
}

// ValidateForRender checks the render settings and fills defaults.
func (o *Options) ValidateForRender() error {
	if o.Format == "" {
		o.Format = nodelink.FormatSVG
	}
	if err := errors.ValidateFormat(o.Format, nodelink.Formats...); err != nil {
		return err
	}
	if o.Depth < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "depth must not be negative")
	}
	return nil
}
