package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	ierrors "github.com/matzehuels/ifctree/pkg/errors"
	"github.com/matzehuels/ifctree/pkg/ifc"
)

// importCommand creates the import command, which copies a model file into
// the persistent store.
func (c *CLI) importCommand() *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import a model file into the persistent store",
		Long: `Import a model file into the persistent store.

The store backend is taken from the config file (sqlite or mongo). A model with
the same ID is replaced.`,
		Example: `  ifctree import office.json
  ifctree import office.json --id office-v2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, _, err := c.newRunner(ctx, true)
			if err != nil {
				return err
			}
			defer r.Close()

			spinner := newSpinner(ctx, "Importing "+args[0]+"...")
			spinner.Start()
			info, err := r.Import(ctx, args[0], ifc.ModelID(id))
			if err != nil {
				spinner.StopWithError("Import failed")
				return err
			}
			spinner.StopWithSuccess(fmt.Sprintf("Imported %s", info.ID))
			printKeyValue("Name", info.Name)
			printKeyValue("Entities", fmt.Sprint(info.Entities))
			printNextStep("Inspect it", fmt.Sprintf("%s tree %s", appName, info.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "model ID (default: the file's ID or base name)")

	return cmd
}

// modelsCommand creates the models command. Without arguments it lists the
// persistent store; with model references it loads them and shows what
// was loaded.
func (c *CLI) modelsCommand() *cobra.Command {
	var remove string

	cmd := &cobra.Command{
		Use:   "models [MODEL...]",
		Short: "List stored models or describe model files",
		Example: `  ifctree models
  ifctree models office.json
  ifctree models --delete office`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if len(args) > 0 {
				l, err := c.open(ctx, args, false)
				if err != nil {
					return err
				}
				defer l.Close()
				_, err = fmt.Fprintln(out, workspaceTable(l.ws.Models()))
				return err
			}

			r, _, err := c.newRunner(ctx, true)
			if err != nil {
				return err
			}
			defer r.Close()
			if r.Store == nil {
				printInfo("No persistent store configured")
				printDetail("Set [store] backend to sqlite or mongo in the config file")
				return nil
			}

			if remove != "" {
				if _, err := r.Store.Model(ctx, ifc.ModelID(remove)); err != nil {
					return ierrors.Wrap(ierrors.ErrCodeModelNotFound, err, "model %q", remove)
				}
				if err := r.Store.Delete(ctx, ifc.ModelID(remove)); err != nil {
					return ierrors.Wrap(ierrors.ErrCodeStore, err, "delete %q", remove)
				}
				printSuccess("Deleted %s", remove)
				return nil
			}

			models, err := r.Store.Models(ctx)
			if err != nil {
				return ierrors.Wrap(ierrors.ErrCodeStore, err, "list models")
			}
			if len(models) == 0 {
				printInfo("Store is empty")
				printNextStep("Add a model", appName+" import FILE")
				return nil
			}
			_, err = fmt.Fprintln(out, modelsTable(models))
			return err
		},
	}

	cmd.Flags().StringVar(&remove, "delete", "", "delete a stored model")

	return cmd
}
