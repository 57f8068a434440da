package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/letta-tools/lettaq/internal/api"
	"github.com/letta-tools/lettaq/internal/appctx"
	"github.com/letta-tools/lettaq/internal/auth"
	"github.com/letta-tools/lettaq/internal/output"
)

// NewAuthCmd creates the auth command group.
func NewAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the API credential",
	}

	cmd.AddCommand(
		newAuthLoginCmd(),
		newAuthStatusCmd(),
		newAuthLogoutCmd(),
	)

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var apiKey string
	var noVerify bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store an API key",
		Long:  "Store an API key in the system keyring (or a file fallback). Reads the key from --key or stdin.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appctx.FromContext(cmd.Context())

			if apiKey == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "API key: ")
				reader := bufio.NewReader(cmd.InOrStdin())
				line, err := reader.ReadString('\n')
				if err != nil && line == "" {
					return output.ErrUsage("No API key provided")
				}
				apiKey = strings.TrimSpace(line)
			}
			if apiKey == "" {
				return output.ErrUsage("No API key provided")
			}

			if !noVerify {
				// One round-trip with the candidate key before storing it,
				// without touching the stored credential.
				client := api.NewClient(app.Config, auth.NewManagerWithToken(apiKey))
				resp, err := client.Get(cmd.Context(), modelsPath)
				if err != nil {
					return err
				}
				if resp.StatusCode == 401 || resp.StatusCode == 403 {
					return output.ErrAuth(fmt.Sprintf("API rejected the key (HTTP %d)", resp.StatusCode))
				}
			}

			if err := app.Auth.Login(apiKey); err != nil {
				return fmt.Errorf("store credential: %w", err)
			}

			where := "system keyring"
			if !app.Auth.Store().UsesKeyring() {
				where = "credentials file"
			}
			return app.OK(map[string]any{
				"stored":  true,
				"storage": where,
			}, output.WithSummary("Credential stored in "+where))
		},
	}

	cmd.Flags().StringVar(&apiKey, "key", "", "API key (read from stdin if omitted)")
	cmd.Flags().BoolVar(&noVerify, "no-verify", false, "Skip the verification round-trip")

	return cmd
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show where the active credential comes from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appctx.FromContext(cmd.Context())

			source := app.Auth.Source()
			status := map[string]any{
				"authenticated": source != auth.SourceNone,
				"source":        string(source),
				"base_url":      app.Config.BaseURL,
			}

			var summary string
			switch source {
			case auth.SourceEnv:
				summary = "Authenticated via " + auth.EnvAPIKey
			case auth.SourceStore:
				if app.Auth.Store().UsesKeyring() {
					summary = "Authenticated via system keyring"
				} else {
					summary = "Authenticated via credentials file"
				}
			default:
				summary = "Not authenticated"
			}

			return app.OK(status, output.WithSummary(summary))
		},
	}
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored credential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appctx.FromContext(cmd.Context())

			envSet := os.Getenv(auth.EnvAPIKey) != ""
			if err := app.Auth.Logout(); err != nil {
				return fmt.Errorf("remove credential: %w", err)
			}

			summary := "Credential removed"
			if envSet {
				summary = "Stored credential removed; " + auth.EnvAPIKey + " is still set"
			}
			return app.OK(map[string]any{"logged_out": true}, output.WithSummary(summary))
		},
	}
}
