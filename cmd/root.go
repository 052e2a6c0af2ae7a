package cmd

import (
	"fmt"
	"os"

	"record-reconciler/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "record-reconciler",
	Short: "Record Reconciliation Service",
	Long: `Record Reconciler builds a field-by-field comparison report between a
source-of-truth record set and a secondary record set. It can run one-off
reconciliations from the CLI, import CSV datasets from object storage, or
serve reports over HTTP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// CLI invocations get the console encoder, debug level so the
		// timestamps come out human-readable.
		l, logErr := logger.New(&logger.Config{Level: "debug", Format: "console"})
		if logErr != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		l.Error("command failed", zap.Error(err))
		_ = l.Sync()
		os.Exit(1)
	}
}
