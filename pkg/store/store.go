// Package store defines the persistent entity store contract.
//
// Backends live in subpackages: [memory] for the CLI and tests, [sqlite] for
// a single-file local library of models and [mongo] for shared deployments.
// The persistent backends implement [Store]; all three implement
// ifc.EntityStore and can feed the relation index and the materializer
// directly.
//
// [memory]: github.com/matzehuels/ifctree/pkg/store/memory
// [sqlite]: github.com/matzehuels/ifctree/pkg/store/sqlite
// [mongo]: github.com/matzehuels/ifctree/pkg/store/mongo
package store

import (
	"context"
	"errors"

	"github.com/matzehuels/ifctree/pkg/ifc"
)

// ErrModelNotFound is returned when a model ID is unknown to the store.
var ErrModelNotFound = errors.New("model not found")

// ModelInfo describes a stored model.
type ModelInfo struct {
	ID       ifc.ModelID `json:"id"`
	Name     string      `json:"name,omitempty"`
	Entities int         `json:"entities"`
}

// Store is a persistent entity store.
type Store interface {
	ifc.EntityStore

	// Save replaces the model identified by info.ID with entities.
	Save(ctx context.Context, info ModelInfo, entities []*ifc.Entity) error

	// Model returns the description of one model, or ErrModelNotFound.
	Model(ctx context.Context, id ifc.ModelID) (ModelInfo, error)

	// Models lists stored models sorted by ID.
	Models(ctx context.Context) ([]ModelInfo, error)

	// Delete removes a model. Deleting an unknown model is not an error.
	Delete(ctx context.Context, id ifc.ModelID) error

	Close() error
}
