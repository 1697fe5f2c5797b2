// Package cli implements the ifctree command-line interface.
//
// The commands load model files (or stored models) into a workspace and
// print what the property engine derives from them. The CLI is built using
// cobra and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - inspect: Materialize the property table of selected elements
//   - tree, attrs: Navigate the spatial decomposition and raw attributes
//   - render: Draw a property table as a node-link diagram
//   - browse: Explore a property table in the terminal
//   - import, models: Manage the persistent model store
//   - serve: Expose loaded models over HTTP
//   - cache: Manage the index and render cache
//
// # Configuration
//
// Defaults come from a TOML file ($XDG_CONFIG_HOME/ifctree/config.toml, or
// --config). Flags given on the command line win over the file.
//
// # Example
//
//	import "github.com/matzehuels/ifctree/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli
