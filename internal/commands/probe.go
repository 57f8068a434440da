package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/letta-tools/lettaq/internal/appctx"
	"github.com/letta-tools/lettaq/internal/output"
	"github.com/letta-tools/lettaq/internal/probe"
)

// NewProbeCmd creates the probe command for speculative endpoint discovery.
func NewProbeCmd() *cobra.Command {
	var manifestPath string

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Probe API endpoints and report what exists",
		Long: `Issue one GET per candidate endpoint and report the outcome.

Each endpoint is attempted independently: a refused connection or server
error on one path never prevents the rest from being probed. A 404 means
the endpoint is not implemented and is reported as absent, not as an
error. The command always exits 0; failures are part of the report.

A custom endpoint list can be supplied as a YAML manifest:

  endpoints:
    - path: /v1/models/
      description: available models
    - path: /v1/agents/{agent_id}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appctx.FromContext(cmd.Context())

			endpoints := probe.DefaultEndpoints()
			if manifestPath != "" {
				var err error
				endpoints, err = probe.LoadManifest(manifestPath)
				if err != nil {
					return output.ErrUsageHint("Cannot load manifest", err.Error())
				}
			}
			endpoints = probe.ExpandEndpoints(endpoints, map[string]string{
				"agent_id": app.Config.AgentID,
			})

			if !app.Client.HasCredential() {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: no API credential configured, probing unauthenticated")
			}

			runner := probe.NewRunner(app.Client, app.Log)
			results := runner.Run(cmd.Context(), endpoints)

			// Machine formats get the structured results; the default is
			// the plain-text report.
			if app.Flags.JSON || app.Flags.Quiet {
				return app.OK(results, output.WithSummary(probe.Summarize(results)))
			}

			var b strings.Builder
			fmt.Fprintf(&b, "Probing %s\n\n", app.Config.BaseURL)
			if err := probe.WriteReport(&b, results); err != nil {
				return err
			}
			fmt.Fprintf(&b, "\n%s\n", probe.Summarize(results))
			return app.Output.Raw(b.String())
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "f", "", "YAML endpoint manifest (default: built-in discovery set)")

	return cmd
}
