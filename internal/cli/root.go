// Package cli wires the cobra command tree and exit-code discipline.
package cli

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/letta-tools/lettaq/internal/appctx"
	"github.com/letta-tools/lettaq/internal/commands"
	"github.com/letta-tools/lettaq/internal/config"
	"github.com/letta-tools/lettaq/internal/output"
	"github.com/letta-tools/lettaq/internal/version"
)

// NewRootCmd creates the root cobra command.
func NewRootCmd() *cobra.Command {
	var flags appctx.GlobalFlags
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:           "lettaq",
		Short:         "Diagnostics CLI for the Letta API",
		Long:          "lettaq probes the hosted Letta agent API and prints formatted results: endpoint discovery, agent configuration, model listings.",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip setup for help and version commands
			if cmd.Name() == "help" || cmd.Name() == "version" {
				return nil
			}

			cfg, err := config.Load(config.FlagOverrides{
				BaseURL: flags.BaseURL,
				AgentID: flags.AgentID,
				Timeout: timeout,
			})
			if err != nil {
				return err
			}

			app := appctx.NewApp(cfg)
			app.Flags = flags
			app.ApplyFlags()

			cmd.SetContext(appctx.WithApp(cmd.Context(), app))
			return nil
		},
	}

	cmd.Flags().SetInterspersed(true)
	cmd.PersistentFlags().SetInterspersed(true)
	cmd.PersistentFlags().SetNormalizeFunc(normalizeFlag)

	// Output format flags
	cmd.PersistentFlags().BoolVarP(&flags.JSON, "json", "j", false, "Output as JSON")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false, "Output data only, no envelope")
	cmd.PersistentFlags().BoolVar(&flags.Styled, "styled", false, "Force styled output (ANSI colors)")
	cmd.PersistentFlags().BoolVar(&flags.IDsOnly, "ids-only", false, "Output only identifiers")
	cmd.PersistentFlags().BoolVar(&flags.Count, "count", false, "Output only count")

	// Context flags
	cmd.PersistentFlags().StringVar(&flags.BaseURL, "base-url", "", "API base URL (default: "+config.DefaultBaseURL+")")
	cmd.PersistentFlags().StringVar(&flags.AgentID, "agent", "", "Agent ID (default: LETTA_AGENT_ID)")
	cmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Per-request timeout (default: 15s)")

	// Behavior flags
	cmd.PersistentFlags().CountVarP(&flags.Verbose, "verbose", "v", "Verbose output (debug logging to stderr)")

	return cmd
}

// Execute runs the root command and maps errors to exit codes.
func Execute() {
	cmd := NewRootCmd()

	cmd.AddCommand(commands.NewProbeCmd())
	cmd.AddCommand(commands.NewAPICmd())
	cmd.AddCommand(commands.NewModelsCmd())
	cmd.AddCommand(commands.NewAgentCmd())
	cmd.AddCommand(commands.NewAccountCmd())
	cmd.AddCommand(commands.NewAuthCmd())
	cmd.AddCommand(commands.NewConfigCmd())
	cmd.AddCommand(commands.NewDoctorCmd())

	executedCmd, err := cmd.ExecuteC()
	if err != nil {
		err = transformCobraError(err)
		apiErr := output.AsError(err)

		if app := appctx.FromContext(executedCmd.Context()); app != nil {
			_ = app.Err(err)
			os.Exit(apiErr.ExitCode())
		}

		// App not available (e.g. failure during setup)
		writer := output.New(output.DefaultOptions())
		_ = writer.Err(err)
		os.Exit(apiErr.ExitCode())
	}
}

// normalizeFlag lets config-file key spellings work as flags (base_url → base-url).
func normalizeFlag(f *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

// transformCobraError converts Cobra's flag/argument errors into usage errors
// so they exit with the usage code instead of the generic one.
func transformCobraError(err error) error {
	msg := err.Error()

	if strings.HasPrefix(msg, "flag needs an argument: ") {
		flag := strings.TrimPrefix(msg, "flag needs an argument: ")
		return output.ErrUsage(flag + " requires a value")
	}

	if strings.HasPrefix(msg, "unknown flag: ") {
		flag := strings.TrimPrefix(msg, "unknown flag: ")
		return output.ErrUsage("Unknown option: " + flag)
	}

	if strings.HasPrefix(msg, "unknown command ") ||
		strings.Contains(msg, "invalid argument") ||
		strings.Contains(msg, "arg(s)") {
		return output.ErrUsage(msg)
	}

	return err
}
