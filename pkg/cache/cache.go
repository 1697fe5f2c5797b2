// Package cache provides byte caches for derived model data.
//
// Building the relation index of a large model means scanning every
// relationship entity, so ifctree keeps built indexes (and rendered
// artifacts) in a cache keyed by the content hash of the model file. A
// changed file hashes differently and never hits a stale entry.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under the XDG cache directory (CLI)
//   - [RedisCache]: shared cache for the HTTP server
//   - [NullCache]: disables caching
//
// # Keys
//
// [Keyer] derives keys from content hashes. [ScopedKeyer] prefixes every key,
// which lets several deployments share one Redis database.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Cache stores opaque byte values with an optional TTL. A TTL of zero means
// the entry does not expire.
type Cache interface {
	// Get returns the value for key and whether it was found. A miss is not
	// an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer generates cache keys.
type Keyer interface {
	// IndexKey returns the key of the relation index built from a model file.
	IndexKey(modelHash string) string

	// ArtifactKey returns the key of a rendered artifact.
	ArtifactKey(modelHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the inputs that change a rendered artifact.
type ArtifactKeyOpts struct {
	Handles []uint32 `json:"handles"`
	Format  string   `json:"format"`
	Units   bool     `json:"units"`
	Depth   int      `json:"depth,omitempty"`
}

// indexVersion is bumped whenever the serialized index layout changes.
const indexVersion = "v1"

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// IndexKey implements Keyer.
func (DefaultKeyer) IndexKey(modelHash string) string {
	return fmt.Sprintf("index:%s:%s", indexVersion, modelHash)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(modelHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+strings.ToLower(opts.Format), modelHash, opts)
}

var _ Keyer = DefaultKeyer{}
