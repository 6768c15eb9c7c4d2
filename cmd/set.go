package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var setCmd = &cobra.Command{
	Use:   "set <path> <value>",
	Short: "Write a status value at a path",
	Long: `Replaces the text content of every element addressed by <path> with
<value> and persists the document. A path that matches nothing still
rewrites the document unchanged.`,
	Args: cobra.ExactArgs(2),
	RunE: runSet,
}

func runSet(cmd *cobra.Command, args []string) error {
	application, err := newApplication(cmd)
	if err != nil {
		return err
	}

	store := application.Services().Store
	if err := store.Write(commandContext(cmd), documentPath(store.Root(), args[0]), args[1]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], args[1])
	return nil
}

func init() {
	rootCmd.AddCommand(setCmd)
}
