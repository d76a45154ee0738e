package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/TraperRoku/skrypt-ocsInventory/internal/config"
	"github.com/TraperRoku/skrypt-ocsInventory/internal/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	LogLevel   string
	ConfigFile string

	// Build describes the binary for the version command.
	Build BuildInfo

	// EnvFiles overrides the dotenv files config.Load reads (for testing).
	// Nil means the config package defaults.
	EnvFiles []string
}

// BuildInfo is stamped into the binary at link time.
type BuildInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the ocsreport CLI.
func NewRootCommand(build BuildInfo) *cobra.Command {
	opts := &RootOptions{Build: build}

	cmd := &cobra.Command{
		Use:   "ocsreport",
		Short: "Report software newly installed across an OCS Inventory NG fleet",
		Long: `ocsreport compares the software currently reported by OCS Inventory NG
against a persisted baseline of known titles, records what appeared and
disappeared, and mails a report listing every title new to the fleet with
the computer it was first seen on.

Meant to run unattended from cron or a systemd timer.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if opts.LogLevel != "" && !logging.ValidLevel(opts.LogLevel) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid log level %q", opts.LogLevel))
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output (debug logging)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (trace|debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file (default ./ocsreport.yaml)")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewDiffCommand(opts))
	cmd.AddCommand(NewBaselineCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewVersionCommand(opts))

	return cmd
}

// loadConfig reads configuration, applying the global flags on top.
func (o *RootOptions) loadConfig(overrides map[string]any) (*config.Config, error) {
	all := make(map[string]any, len(overrides)+1)
	for k, v := range overrides {
		all[k] = v
	}
	switch {
	case o.LogLevel != "":
		all["log.level"] = o.LogLevel
	case o.Verbose:
		all["log.level"] = "debug"
	}

	return config.Load(config.LoadOptions{
		ConfigFile: o.ConfigFile,
		EnvFiles:   o.EnvFiles,
		Overrides:  all,
	})
}

// withLogger builds the configured logger and attaches it to the command context.
func withLogger(cmd *cobra.Command, cfg *config.Config) (context.Context, *zerolog.Logger) {
	logger := logging.NewLoggerFromConfig(&cfg.Log)
	return logging.WithLogger(commandContext(cmd), &logger), &logger
}

// commandContext returns the command's context, or Background if unset.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
