package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/ifctree/pkg/errors"
	"github.com/matzehuels/ifctree/pkg/props"
)

// Row export formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// RowFormats lists the formats accepted by [WriteRows].
var RowFormats = []string{FormatJSON, FormatYAML}

// WriteModel encodes m as indented JSON.
// The output can be re-imported with [ReadModel].
func WriteModel(w io.Writer, m *Model) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportModel writes m to a JSON file at path.
// This is a convenience wrapper around [WriteModel] for file-based output.
func ExportModel(m *Model, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteModel(f, m)
}

// WriteRows writes a materialized table in the given format.
func WriteRows(w io.Writer, rows []*props.Row, format string) error {
	if err := errors.ValidateFormat(format, RowFormats...); err != nil {
		return err
	}
	if rows == nil {
		rows = []*props.Row{}
	}
	switch strings.ToLower(format) {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rows); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	}
}
