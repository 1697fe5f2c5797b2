package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ifctree/internal/config"
	ierrors "github.com/matzehuels/ifctree/pkg/errors"
	"github.com/matzehuels/ifctree/pkg/ifc"
	"github.com/matzehuels/ifctree/pkg/pipeline"
	"github.com/matzehuels/ifctree/pkg/props"
)

// inspectOpts holds the flags of the inspect command.
type inspectOpts struct {
	entities []string
	format   string
	output   string
	units    bool
	workers  int
	noCache  bool
}

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	opts := inspectOpts{format: formatTree}

	cmd := &cobra.Command{
		Use:   "inspect MODEL... -e HANDLE",
		Short: "Materialize the property table of selected elements",
		Long: `Materialize the property table of selected elements.

MODEL is a model file or the ID of a stored model. The selected handles are
looked up in every given model; handles that do not resolve are skipped.`,
		Example: `  ifctree inspect office.json -e 20
  ifctree inspect office.json -e 20,21 --format json -o table.json
  ifctree inspect office --units=false -e 20`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd, args, opts)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.entities, "entity", "e", nil, "entity handles to select (repeatable, comma-separated)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: tree, json, yaml")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.units, "units", true, "append unit symbols to measure values")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "concurrent element builds (default from config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	_ = cmd.MarkFlagRequired("entity")

	return cmd
}

func (c *CLI) runInspect(cmd *cobra.Command, args []string, opts inspectOpts) error {
	ctx := cmd.Context()
	if err := ierrors.ValidateFormat(opts.format, outputFormats...); err != nil {
		return err
	}
	handles, err := parseHandles(opts.entities)
	if err != nil {
		return err
	}

	l, err := c.open(ctx, args, opts.noCache)
	if err != nil {
		return err
	}
	defer l.Close()

	popts := l.options(cmd, opts.units, opts.workers)
	prog := newProgress(c.Logger)
	m := l.ws.Materializer(popts.Props(c.Logger))
	sel := l.selection(handles)
	rows, err := m.Materialize(ctx, sel)
	if err != nil {
		return err
	}
	prog.done("Materialized property table")
	if len(rows) == 0 {
		return ierrors.New(ierrors.ErrCodeEntityNotFound, "none of the selected handles exist")
	}
	if missing := sel.Distinct() - len(rows); missing > 0 {
		printWarning("%d selected handles did not resolve", missing)
	}

	return writeOutput(cmd.OutOrStdout(), opts.output, func(w io.Writer) error {
		return writeRows(w, rows, opts.format)
	})
}

// =============================================================================
// Shared Model Loading
// =============================================================================

// loaded is a runner with a workspace holding the models of one command.
type loaded struct {
	runner *pipeline.Runner
	ws     *pipeline.Workspace
	cfg    *config.Config
	models []pipeline.Model
}

// open creates a runner and loads every model reference into a fresh workspace.
func (c *CLI) open(ctx context.Context, refs []string, noCache bool) (*loaded, error) {
	r, cfg, err := c.newRunner(ctx, noCache)
	if err != nil {
		return nil, err
	}
	l := &loaded{runner: r, ws: newWorkspace(r, cfg), cfg: cfg}
	for _, ref := range refs {
		m, err := r.Load(ctx, l.ws, ref)
		if err != nil {
			l.Close()
			return nil, err
		}
		l.models = append(l.models, m)
	}
	return l, nil
}

// Close releases the runner's cache and store.
func (l *loaded) Close() {
	_ = l.runner.Close()
}

// selection selects handles in every loaded model.
func (l *loaded) selection(handles []ifc.Handle) props.Selection {
	sel := make(props.Selection, len(l.models))
	for _, m := range l.models {
		sel[m.Info.ID] = append(sel[m.Info.ID], handles...)
	}
	return sel
}

// options merges command flags over the config defaults. The units flag
// wins only when set explicitly.
func (l *loaded) options(cmd *cobra.Command, units bool, workers int) pipeline.Options {
	opts := pipeline.Options{
		DisplayUnits: l.cfg.Units.Display,
		Workers:      l.cfg.Materialize.Workers,
	}
	if f := cmd.Flags().Lookup("units"); f != nil && f.Changed {
		opts.DisplayUnits = units
	}
	if workers > 0 {
		opts.Workers = workers
	}
	return opts
}

// writeOutput runs write against the file at path, or against stdout when
// path is empty.
func writeOutput(stdout io.Writer, path string, write func(io.Writer) error) error {
	if path == "" {
		return write(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	printSuccess("Wrote output")
	printFile(path)
	return nil
}
