package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/ifctree/pkg/errors"
	"github.com/matzehuels/ifctree/pkg/ifc"
)

// Model is a decoded model document.
type Model struct {
	ID       ifc.ModelID   `json:"id"`
	Name     string        `json:"name,omitempty"`
	Entities []*ifc.Entity `json:"entities"`
}

// DisplayName returns the model name, or its ID when unnamed.
func (m *Model) DisplayName() string {
	if m.Name != "" {
		return m.Name
	}
	return string(m.ID)
}

// ReadModel decodes a model document from r.
//
// Every entity is stamped with the model's ID. ReadModel returns an
// INVALID_MODEL error if the JSON is malformed, an entity lacks a handle or
// kind, or a handle appears twice. An empty id is accepted here; callers
// that persist the model must assign one.
//
// ReadModel does not close r.
func ReadModel(r io.Reader) (*Model, error) {
	var m Model
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidModel, err, "decode model")
	}
	if m.ID != "" {
		if err := errors.ValidateModelID(string(m.ID)); err != nil {
			return nil, err
		}
	}

	seen := make(map[ifc.Handle]struct{}, len(m.Entities))
	for i, e := range m.Entities {
		if e == nil {
			return nil, errors.New(errors.ErrCodeInvalidModel, "entity %d is null", i)
		}
		if _, dup := seen[e.Handle]; dup {
			return nil, errors.New(errors.ErrCodeInvalidModel, "duplicate handle %s", e.Handle)
		}
		seen[e.Handle] = struct{}{}
		e.Model = m.ID
	}
	return &m, nil
}

// ImportModel reads the model document at path. A document without an id
// takes the file name without extension.
func ImportModel(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	m, err := ReadModel(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if m.ID == "" {
		m.SetID(ifc.ModelID(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))))
	}
	return m, nil
}

// SetID renames the model and restamps its entities.
func (m *Model) SetID(id ifc.ModelID) {
	m.ID = id
	for _, e := range m.Entities {
		e.Model = id
	}
}
