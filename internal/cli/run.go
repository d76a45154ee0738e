package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/TraperRoku/skrypt-ocsInventory/internal/report"
	"github.com/TraperRoku/skrypt-ocsInventory/internal/runner"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	DryRun bool

	// RunIDs overrides the run ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDs runner.RunIDGenerator

	// Now overrides the report clock (for testing).
	Now func() time.Time
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Reconcile the fleet against the baseline and mail new software",
		Long: `Read the software installed across the OCS Inventory NG fleet, compare it
with the baseline of known titles, record new and removed titles, and mail
a report listing every new title with the computer it was first seen on.

On the first run the baseline is empty: every installed title is recorded
as known and no report is sent.

Exit codes:
  0 - Run completed
  1 - Inventory, baseline, or mail server unavailable
  2 - Invalid configuration

Examples:
  ocsreport run
  ocsreport run --config /etc/ocsreport/ocsreport.yaml
  ocsreport run --dry-run --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := executeRun(opts, cmd)
			return writeRunOutput(cmd, opts.RootOptions, summary, err)
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "print the result without changing the baseline or sending mail")

	return cmd
}

// executeRun builds the collaborators from configuration and performs one run.
func executeRun(opts *RunOptions, cmd *cobra.Command) (runner.Summary, error) {
	overrides := map[string]any{}
	if opts.DryRun {
		// Nothing is mailed, so incomplete mail settings must not block a preview.
		overrides["email.enabled"] = false
	}

	cfg, err := opts.loadConfig(overrides)
	if err != nil {
		return runner.Summary{}, err
	}
	ctx, logger := withLogger(cmd, cfg)
	if cfg.ConfigFile != "" {
		logger.Debug().Str("path", cfg.ConfigFile).Msg("config loaded")
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return runner.Summary{}, err
	}
	defer closeLogged(ctx, "baseline", st.Close)

	reader, closeReader, err := openReader(ctx, cfg)
	if err != nil {
		return runner.Summary{}, err
	}
	defer closeLogged(ctx, "inventory database", closeReader)

	r := &runner.Runner{
		Store:         st,
		Reader:        reader,
		Sink:          newSink(cfg),
		Now:           opts.Now,
		RunIDs:        opts.RunIDs,
		SubjectPrefix: cfg.Email.SubjectPrefix,
		DryRun:        opts.DryRun,
	}
	return r.Run(ctx)
}

// writeRunOutput prints a run summary and passes runErr through.
// JSON output always carries the summary, including a partial one on failure.
func writeRunOutput(cmd *cobra.Command, opts *RootOptions, summary runner.Summary, runErr error) error {
	if opts.Format == "json" {
		resp := CLIResponse{Status: "ok", Data: summary, RunID: summary.RunID}
		if runErr != nil {
			resp.Status = "error"
			resp.Error = &CLIError{Code: errorCode(runErr), Message: runErr.Error()}
		}
		f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		if err := f.encode(resp); err != nil {
			return err
		}
		return runErr
	}

	if runErr != nil {
		return runErr
	}

	w := cmd.OutOrStdout()
	if summary.Bootstrap.Ran {
		fmt.Fprintf(w, "Baseline was empty: recorded %d titles as known.\n\n", summary.Bootstrap.Inserted)
	}
	if err := report.WriteSummary(w, summary.Result); err != nil {
		return err
	}

	fmt.Fprintln(w)
	switch {
	case summary.DryRun:
		fmt.Fprintln(w, "Dry run: baseline and mail left untouched.")
	case summary.Notified:
		fmt.Fprintf(w, "Report sent: %s\n", summary.Subject)
	default:
		fmt.Fprintln(w, "No report sent.")
	}
	return nil
}
