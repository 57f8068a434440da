package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/letta-tools/lettaq/internal/appctx"
	"github.com/letta-tools/lettaq/internal/output"
	"github.com/letta-tools/lettaq/internal/probe"
)

// NewAccountCmd creates the account command.
//
// Account, user, and usage live behind paths that are not uniformly
// implemented, so this is a probe batch over the account set rather
// than a single request: whatever exists gets printed.
func NewAccountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "account",
		Short: "Show account, user, and usage info",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appctx.FromContext(cmd.Context())
			if err := app.RequireCredential(); err != nil {
				return err
			}

			runner := probe.NewRunner(app.Client, app.Log)
			results := runner.Run(cmd.Context(), probe.AccountEndpoints())

			if app.Flags.JSON || app.Flags.Quiet {
				return app.OK(results, output.WithSummary(probe.Summarize(results)))
			}

			var b strings.Builder
			if err := probe.WriteReport(&b, results); err != nil {
				return err
			}
			fmt.Fprintf(&b, "\n%s\n", probe.Summarize(results))
			return app.Output.Raw(b.String())
		},
	}
}
