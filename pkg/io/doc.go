// Package io provides JSON import and export of IFC models and YAML/JSON
// export of materialized property tables.
//
// # Model Format
//
// ifctree does not parse STEP files itself. Models are exchanged as JSON
// documents produced by an upstream IFC parser:
//
//	{
//	  "id": "office",
//	  "name": "Office Building",
//	  "entities": [
//	    {"handle": 1, "kind": "IFCWALL", "attributes": [
//	      {"name": "Name", "value": {"type": "IFCLABEL", "value": "Wall-01"}},
//	      {"name": "ObjectPlacement", "value": {"ref": 12}},
//	      {"name": "Tag", "value": null}
//	    ]}
//	  ]
//	}
//
// An attribute value is one of:
//
//   - null: unset
//   - {"type": T, "value": V}: a typed scalar (string, number or bool)
//   - {"ref": H, "weak": bool}: a reference to entity H
//   - {"list": [...]}: a list of values
//
// The attribute list keeps declaration order. Kinds are normalized to upper
// case, so "IfcWall" and "IFCWALL" are the same kind.
//
// # Import
//
// Use [ImportModel] to read a model from a file path, or [ReadModel] to read
// from any io.Reader. A model without an id takes the file's base name.
// Both functions reject documents with duplicate handles or entities without
// a kind.
//
// # Export
//
// [WriteModel] and [ExportModel] write the same format back. [WriteRows]
// writes a materialized table as JSON or YAML.
package io
