package cmd

import (
	"fmt"

	"mediator/internal/pathquery"

	"github.com/spf13/cobra"
)

// NoMatchError reports a path that matched nothing in the status document.
type NoMatchError struct {
	Path string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no status value at %s", e.Path)
}

var getCmd = &cobra.Command{
	Use:   "get <path>",
	Short: "Print the status value at a path",
	Long: `Prints the text content of the element addressed by <path>, relative
to the document root segment. When several elements match, the last one in
document order wins. Exits with status 1 when nothing matches. Paths that
already start with the root segment, as printed by "path --status", are
accepted too.

Example:
  mediator get '/mw-air-interface-pac/air-interface[layer-protocol="radio-1"]/tx-power'`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	application, err := newApplication(cmd)
	if err != nil {
		return err
	}

	store := application.Services().Store
	value, ok, err := store.Read(commandContext(cmd), documentPath(store.Root(), args[0]))
	if err != nil {
		return err
	}
	if !ok {
		return &NoMatchError{Path: args[0]}
	}
	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

// documentPath strips the root segment from a path that already carries
// it, so status paths can be passed back to get, list and set.
func documentPath(root, path string) string {
	if rel, ok := pathquery.Relative(root, path); ok {
		return rel
	}
	return path
}

func init() {
	rootCmd.AddCommand(getCmd)
}
