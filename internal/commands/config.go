package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/letta-tools/lettaq/internal/appctx"
	"github.com/letta-tools/lettaq/internal/config"
	"github.com/letta-tools/lettaq/internal/output"
)

// NewConfigCmd creates the config command group.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	cmd.AddCommand(
		newConfigShowCmd(),
		newConfigSetCmd(),
		newConfigUnsetCmd(),
	)

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration and where each value came from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appctx.FromContext(cmd.Context())
			cfg := app.Config

			resolved := map[string]any{
				"base_url":        cfg.BaseURL,
				"agent_id":        cfg.AgentID,
				"format":          cfg.Format,
				"timeout_seconds": cfg.Timeout.Seconds(),
				"config_file":     config.ConfigFilePath(),
				"sources":         cfg.Sources,
			}

			return app.OK(resolved, output.WithSummary("Configuration for "+cfg.BaseURL))
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Persist a config value",
		Long:  "Persist a value to the config file. Keys: base_url, agent_id, format, timeout_seconds.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appctx.FromContext(cmd.Context())

			key, value := args[0], args[1]
			if err := config.Set(key, value); err != nil {
				return output.ErrUsageHint("Cannot set config value", err.Error())
			}

			return app.OK(map[string]any{
				"key":   key,
				"value": value,
			}, output.WithSummary(fmt.Sprintf("Set %s = %s", key, value)))
		},
	}
}

func newConfigUnsetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unset <key>",
		Short: "Remove a key from the config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appctx.FromContext(cmd.Context())

			if err := config.Unset(args[0]); err != nil {
				return output.ErrUsageHint("Cannot unset config value", err.Error())
			}

			return app.OK(map[string]any{
				"key": args[0],
			}, output.WithSummary("Unset "+args[0]))
		},
	}
}
