package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "version",
		Short:         "Print version information",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Format == "json" {
				f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
				return f.Success(opts.Build)
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "ocsreport %s (commit %s, built %s, %s)\n",
				opts.Build.Version, opts.Build.Commit, opts.Build.Date, runtime.Version())
			return err
		},
	}
}
