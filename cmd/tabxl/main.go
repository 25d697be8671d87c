// Package main provides the CLI entry point for tabxl-go.
package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tabxl",
		Short: "Convert tabular data to and from Excel workbooks",
		Long: `tabxl-go writes tables, CSV files and SQL query results to xlsx workbooks
and reads xlsx/xls workbooks back as JSON.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				log.SetLevel(log.DebugLevel)
			}
		},
	}
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")

	rootCmd.AddCommand(newDumpCmd(), newConvertCmd(), newQueryCmd())
	return rootCmd
}
