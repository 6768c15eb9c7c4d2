package cmd

import (
	"fmt"

	pkgstrings "mediator/pkg/strings"

	"github.com/spf13/cobra"
)

// listPlain prints one value per line instead of a table.
var listPlain bool

var listCmd = &cobra.Command{
	Use:   "list <path>",
	Short: "Print every status value at a path",
	Long: `Prints the text content of every element addressed by <path>, in
document order. Use --plain for one value per line, suitable for scripts.`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	application, err := newApplication(cmd)
	if err != nil {
		return err
	}

	store := application.Services().Store
	values, err := store.ReadAll(commandContext(cmd), documentPath(store.Root(), args[0]))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if listPlain {
		for _, v := range values {
			fmt.Fprintln(out, v)
		}
		return nil
	}

	if len(values) == 0 {
		printEmpty(out, fmt.Sprintf("No status values at %s", args[0]))
		return nil
	}
	t := newTable(out, "#", "VALUE")
	for i, v := range values {
		t.AppendRow([]interface{}{i + 1, pkgstrings.TruncateValue(v, pkgstrings.DefaultValueMaxLen)})
	}
	t.Render()
	return nil
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listPlain, "plain", false, "Print one value per line")
}
