package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/TraperRoku/skrypt-ocsInventory/internal/inventory"
	"github.com/TraperRoku/skrypt-ocsInventory/internal/reconcile"
)

// baselineOverrides disables mail for commands that never send any.
var baselineOverrides = map[string]any{"email.enabled": false}

// NewBaselineCommand creates the baseline command group.
func NewBaselineCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Inspect or initialize the baseline of known software",
	}

	cmd.AddCommand(newBaselineListCommand(rootOpts))
	cmd.AddCommand(newBaselineInitCommand(rootOpts))

	return cmd
}

func newBaselineListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every known title with the computer it was first seen on",
		Long: `Print the baseline ordered by title.

Examples:
  ocsreport baseline list
  ocsreport baseline list --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(baselineOverrides)
			if err != nil {
				return err
			}
			ctx, _ := withLogger(cmd, cfg)

			st, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeLogged(ctx, "baseline", st.Close)

			entries, err := st.Entries(ctx)
			if err != nil {
				return err
			}

			if opts.Format == "json" {
				f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
				return f.Success(entries)
			}
			return writeEntries(cmd.OutOrStdout(), entries)
		},
	}
}

// writeEntries renders the baseline as a table.
func writeEntries(w io.Writer, entries []inventory.HistoryEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "Baseline is empty.")
		return err
	}

	table := tablewriter.NewTable(w)
	table.Header("Title", "First seen on", "First seen at")
	for _, e := range entries {
		if err := table.Append(string(e.Title), e.FirstSeenHost, e.FirstSeenAt.Format(time.DateTime)); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "%d titles\n", len(entries))
	return err
}

func newBaselineInitCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the history table and populate it if empty",
		Long: `Create the history table if needed and, when it holds no rows, record
every title currently installed in the fleet as known. No report is sent.

A populated baseline is left untouched.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(baselineOverrides)
			if err != nil {
				return err
			}
			ctx, logger := withLogger(cmd, cfg)

			st, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeLogged(ctx, "baseline", st.Close)

			stats := reconcile.BootstrapStats{}
			empty, err := st.IsEmpty(ctx)
			if err != nil {
				return err
			}
			if empty {
				reader, closeReader, err := openReader(ctx, cfg)
				if err != nil {
					return err
				}
				defer closeLogged(ctx, "inventory database", closeReader)

				snapshot, err := reader.ReadSnapshot(ctx)
				if err != nil {
					return err
				}
				stats, err = reconcile.Bootstrap(ctx, st, snapshot)
				if err != nil {
					return err
				}
			} else {
				logger.Info().Msg("baseline already populated")
			}

			if opts.Format == "json" {
				f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
				return f.Success(stats)
			}

			w := cmd.OutOrStdout()
			if !stats.Ran {
				count, err := st.Count(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "Baseline already holds %d titles; nothing to do.\n", count)
				return nil
			}
			fmt.Fprintf(w, "Baseline initialized with %d titles.\n", stats.Inserted)
			return nil
		},
	}
}
