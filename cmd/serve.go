package cmd

import (
	"github.com/spf13/cobra"
)

// serveCmd keeps the status document fresh until the process is signalled.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Keep the status document fresh until interrupted",
	Long: `Loads the status document and reloads it from its backing store on
every status.refreshInterval. Failed reloads are logged and the previous
document keeps being served.

When status.watch is set and the fs driver is in use, changes to the status
file trigger an early reload. When metrics.enabled is set, Prometheus
metrics are served at metrics.address under /metrics.

The process notifies systemd when ready and stops on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

// runServe is the main entry point for the serve command
func runServe(cmd *cobra.Command, args []string) error {
	application, err := newApplication(cmd)
	if err != nil {
		return err
	}
	return application.Run(commandContext(cmd))
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
