package cli

import (
	"io"

	"github.com/spf13/cobra"

	ierrors "github.com/matzehuels/ifctree/pkg/errors"
	"github.com/matzehuels/ifctree/pkg/ifc"
	"github.com/matzehuels/ifctree/pkg/props"
)

// exploreOpts holds the flags shared by the tree and attrs commands.
type exploreOpts struct {
	format  string
	output  string
	include []string
	noCache bool
}

func (o *exploreOpts) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.format, "format", "f", formatTree, "output format: tree, json, yaml")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable caching")
}

// treeCommand creates the tree command, which prints the spatial
// decomposition of a model.
func (c *CLI) treeCommand() *cobra.Command {
	var opts exploreOpts

	cmd := &cobra.Command{
		Use:   "tree MODEL [HANDLE]",
		Short: "Show the spatial decomposition of a model",
		Long: `Show the spatial decomposition of a model.

Starting from HANDLE, or from the project when no handle is given, the
aggregation and containment relations are followed down to the elements.
Contained elements are grouped by class.`,
		Example: `  ifctree tree office.json
  ifctree tree office.json 10 --format yaml`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExplore(cmd, args, opts, func(x *props.Explorer, model ifc.ModelID, h ifc.Handle) *props.Row {
				return x.Decomposition(cmd.Context(), model, h)
			})
		},
	}
	opts.bind(cmd)

	return cmd
}

// attrsCommand creates the attrs command, which prints the attribute
// tree of one entity.
func (c *CLI) attrsCommand() *cobra.Command {
	var opts exploreOpts

	cmd := &cobra.Command{
		Use:   "attrs MODEL [HANDLE]",
		Short: "Show the attribute tree of an entity",
		Long: `Show the attribute tree of an entity.

Referenced entities and inverse relations are followed when their attribute
name is selected. --include replaces the default selection with exact names.`,
		Example: `  ifctree attrs office.json 20
  ifctree attrs office.json 20 --include Name,IsDefinedBy,HasProperties`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			include := ifc.Exacts(opts.include...)
			return c.runExplore(cmd, args, opts, func(x *props.Explorer, model ifc.ModelID, h ifc.Handle) *props.Row {
				return x.Attributes(cmd.Context(), model, h, include...)
			})
		},
	}
	opts.bind(cmd)
	cmd.Flags().StringSliceVar(&opts.include, "include", nil, "attribute names to follow (default: built-in selection)")

	return cmd
}

func (c *CLI) runExplore(cmd *cobra.Command, args []string, opts exploreOpts,
	build func(x *props.Explorer, model ifc.ModelID, h ifc.Handle) *props.Row) error {
	ctx := cmd.Context()
	if err := ierrors.ValidateFormat(opts.format, outputFormats...); err != nil {
		return err
	}

	l, err := c.open(ctx, args[:1], opts.noCache)
	if err != nil {
		return err
	}
	defer l.Close()

	model := l.models[0].Info.ID
	x := l.ws.Explorer(c.Logger)

	var h ifc.Handle
	if len(args) == 2 {
		n, err := ierrors.ParseHandle(args[1])
		if err != nil {
			return err
		}
		h = ifc.Handle(n)
	} else {
		p, ok := x.Project(ctx, model)
		if !ok {
			return ierrors.New(ierrors.ErrCodeEntityNotFound, "model %s has no project; give a handle", model)
		}
		h = p
	}

	row := build(x, model, h)
	if err := ctx.Err(); err != nil {
		return err
	}
	if row == nil {
		return ierrors.New(ierrors.ErrCodeEntityNotFound, "entity %s not found in %s", h, model)
	}

	return writeOutput(cmd.OutOrStdout(), opts.output, func(w io.Writer) error {
		return writeRows(w, []*props.Row{row}, opts.format)
	})
}
