package main

import (
	"context"

	"github.com/ignaciocaff/procstmt/pkg/logging"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// NewRootCommand returns the root command with all subcommands attached
func NewRootCommand(fs afero.Fs, ctx context.Context, logger *logging.Logger) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "procstmt",
		Short:         "Prepare and execute statements and stored procedure calls.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(NewExecCommand(fs, ctx, logger))
	return rootCmd
}
