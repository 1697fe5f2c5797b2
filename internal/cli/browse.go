package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	ierrors "github.com/matzehuels/ifctree/pkg/errors"
)

// browseCommand creates the browse command, an interactive view of the
// property table.
func (c *CLI) browseCommand() *cobra.Command {
	var (
		entities []string
		units    bool
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "browse MODEL... -e HANDLE",
		Short: "Browse the property table of selected elements interactively",
		Example: `  ifctree browse office.json -e 20,21`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			handles, err := parseHandles(entities)
			if err != nil {
				return err
			}

			l, err := c.open(ctx, args, noCache)
			if err != nil {
				return err
			}
			defer l.Close()

			popts := l.options(cmd, units, 0)
			rows, err := l.ws.Materializer(popts.Props(c.Logger)).Materialize(ctx, l.selection(handles))
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				return ierrors.New(ierrors.ErrCodeEntityNotFound, "none of the selected handles exist")
			}

			title := fmt.Sprintf("%d elements", len(rows))
			if len(l.models) == 1 {
				title = fmt.Sprintf("%s · %s", l.models[0].Info.ID, title)
			}
			_, err = tea.NewProgram(NewRowBrowserModel(title, rows), tea.WithContext(ctx)).Run()
			return err
		},
	}

	cmd.Flags().StringSliceVarP(&entities, "entity", "e", nil, "entity handles to select (repeatable, comma-separated)")
	cmd.Flags().BoolVar(&units, "units", true, "append unit symbols to measure values")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	_ = cmd.MarkFlagRequired("entity")

	return cmd
}
