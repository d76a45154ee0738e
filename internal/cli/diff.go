package cli

import (
	"github.com/spf13/cobra"

	"github.com/TraperRoku/skrypt-ocsInventory/internal/report"
)

// NewDiffCommand creates the diff command, a dry run that prints only the
// new and removed titles.
func NewDiffCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts, DryRun: true}

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Show new and removed software without changing anything",
		Long: `Compare the fleet with the baseline and print the titles that appeared and
disappeared, with the attribution a real run would mail. The baseline is
not modified and no mail is sent.

Examples:
  ocsreport diff
  ocsreport diff --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := executeRun(opts, cmd)
			f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
			if err != nil {
				if opts.Format == "json" {
					if encErr := f.Failure(err, nil); encErr != nil {
						return encErr
					}
				}
				return err
			}

			if opts.Format == "json" {
				return f.encode(CLIResponse{Status: "ok", Data: summary.Result, RunID: summary.RunID})
			}
			return report.WriteSummary(cmd.OutOrStdout(), summary.Result)
		},
	}

	return cmd
}
