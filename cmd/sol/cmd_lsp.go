package main

import (
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/sol/sol/codebase"
)

func newLSPCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Sol language server on stdin/stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				commonlog.Configure(2, nil)
			}
			server := codebase.NewLSPServer("0.1.0")
			return server.RunStdio()
		},
	}

	cmd.Flags().BoolVar(&verbose, "verbose", false, "log protocol traffic to stderr")

	return cmd
}
