package props

import (
	"context"

	"github.com/matzehuels/ifctree/pkg/ifc"
	"github.com/matzehuels/ifctree/pkg/observability"
)

// Tasks renders the processes an element is assigned to. Each task expands
// recursively through IsNestedBy into a nested Tasks row.
//
// Task nesting is not guaranteed to be acyclic. A child whose handle is
// already on the path from the root task is dropped, so every task appears at
// most once per path and the walk terminates.
func (r *Resolver) Tasks(ctx context.Context, tasks []*ifc.Entity) *Row {
	row := NewRow("Tasks")
	path := make(map[ifc.Handle]struct{})
	for _, t := range tasks {
		row.Add(r.taskRow(ctx, t, path))
	}
	return row
}

func (r *Resolver) taskRow(ctx context.Context, task *ifc.Entity, path map[ifc.Handle]struct{}) *Row {
	path[task.Handle] = struct{}{}
	defer delete(path, task.Handle)

	name, _ := task.Name()
	ident, _ := task.Scalar("Identification")
	desc, _ := task.Scalar("Description")

	row := NewRow(name)
	row.Add(
		Field("Identification", ident),
		Field("Name", name),
		Field("Description", desc),
	)

	nested, ok := r.index.Related(task.Model, task.Handle, ifc.IsNestedBy)
	if !ok {
		return row
	}
	sub := NewRow("Tasks")
	for _, h := range nested {
		if _, onPath := path[h]; onPath {
			r.logger.Debug("task cycle truncated", "model", task.Model, "task", task.Handle, "child", h)
			observability.Materialize().OnCycleDetected(ctx, string(task.Model), uint32(h))
			continue
		}
		child, ok := r.fetch(ctx, task.Model, h)
		if !ok {
			continue
		}
		sub.Add(r.taskRow(ctx, child, path))
	}
	row.Add(nonEmpty(sub))
	return row
}
