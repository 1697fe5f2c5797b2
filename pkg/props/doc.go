// Package props materializes the element property table of IFC models.
//
// # Overview
//
// Selecting an element in a BIM viewer shows its semantic context as a
// collapsible tree: the element's own attributes, the property and quantity
// sets that define it, its classifications and materials, the processes it is
// assigned to and the spatial structure that contains it. None of this lives
// on the element itself. It is spread across the model and reachable only
// through inverse relations, so building the tree is a graph walk.
//
// The package splits that walk into small parts:
//
//   - [ProjectAttributes] flattens an entity's direct attributes into rows
//   - [Resolver] turns related entities into labeled sub-trees, one method per
//     relation category (property sets, quantity sets, classifications,
//     materials, spatial container, tasks)
//   - [Memo] caches the finished row of each (model, handle)
//   - [Materializer] drives the walk for a whole [Selection]
//
// # Rows
//
// The output unit is [Row]: a label/value map plus ordered children.
// Group rows carry only a Name; leaf rows carry Name and Value:
//
//	{data: {Name: "Wall-01"}, children: [
//	    {data: {Name: "Attributes"}, children: [{data: {Name: "Class", Value: "IfcWall"}}, ...]},
//	    {data: {Name: "PropertySets"}, children: [
//	        {data: {Name: "Pset_WallCommon"}, children: [{data: {Name: "IsExternal", Value: "true "}}]},
//	    ]},
//	]}
//
// Category rows are attached only when they have children.
//
// # Robustness
//
// Real IFC exports are frequently incomplete. Every lookup that can fail
// (missing entity, missing relation, unknown unit) contributes nothing and the
// walk continues with the siblings. Task nesting may be cyclic; the task walk
// carries the handles on the current path and truncates any branch that would
// re-enter one of them. The only error [Materializer.Materialize] returns is
// the context's.
//
// # Memoization
//
// A [Materializer] owns one [Memo]. Rows are cached per (model, handle) and
// reused verbatim until the selection becomes empty, which clears the memo for
// every model. Clearing bumps a generation counter so rows still being built
// for an earlier selection are not inserted afterwards.
//
// # Concurrency
//
// Handles of one selection are resolved concurrently (bounded by
// [Options.Workers]), and the four relation categories of each handle fan out
// in parallel. Output order always follows the selection.
//
// # Exploration
//
// [Explorer] offers two further walks over the same stores:
// [Explorer.Decomposition] builds a spatial decomposition tree grouped by
// entity class, and [Explorer.Attributes] follows forward and inverse
// attributes selected by a list of [ifc.Matcher] values.
package props
