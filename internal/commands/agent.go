package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/letta-tools/lettaq/internal/appctx"
	"github.com/letta-tools/lettaq/internal/output"
)

// NewAgentCmd creates the agent command.
func NewAgentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Show the configured agent",
		Long:  "Fetch the configuration of the agent identified by LETTA_AGENT_ID (or --agent).",
		Args:  cobra.NoArgs,
		RunE:  runAgentShow,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the configured agent",
		Args:  cobra.NoArgs,
		RunE:  runAgentShow,
	})

	return cmd
}

func runAgentShow(cmd *cobra.Command, args []string) error {
	app := appctx.FromContext(cmd.Context())
	if err := app.RequireCredential(); err != nil {
		return err
	}
	agentID, err := app.RequireAgentID()
	if err != nil {
		return err
	}

	path := fmt.Sprintf("/v1/agents/%s", agentID)
	resp, err := app.Client.Get(cmd.Context(), path)
	if err != nil {
		return err
	}
	if resp.StatusCode == 404 {
		return output.ErrNotFound("Agent", agentID)
	}
	if err := resp.Err(); err != nil {
		return err
	}

	data, err := resp.JSON()
	if err != nil {
		return err
	}

	return app.OK(data, output.WithSummary(fmt.Sprintf("Agent %s", agentID)))
}
