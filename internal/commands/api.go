package commands

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/letta-tools/lettaq/internal/appctx"
	"github.com/letta-tools/lettaq/internal/output"
)

// NewAPICmd creates the api command for raw API access.
func NewAPICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "api <verb> <path>",
		Short: "Raw API access",
		Long:  "Make raw API requests against any endpoint. Useful for paths not covered by dedicated commands.",
	}

	cmd.AddCommand(newAPIGetCmd())

	return cmd
}

func newAPIGetCmd() *cobra.Command {
	var jqExpr string

	cmd := &cobra.Command{
		Use:   "get <path>",
		Short: "GET request to the API",
		Long:  "Make a raw GET request to any API endpoint and print the JSON response.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appctx.FromContext(cmd.Context())
			if err := app.RequireCredential(); err != nil {
				return err
			}

			path := parsePath(args[0])
			resp, err := app.Client.Get(cmd.Context(), path)
			if err != nil {
				return err
			}
			if err := resp.Err(); err != nil {
				return err
			}

			data, err := resp.JSON()
			if err != nil {
				return err
			}

			if jqExpr != "" {
				filtered, err := applyJQ(data, jqExpr)
				if err != nil {
					return err
				}
				return app.OK(filtered)
			}

			summary := fmt.Sprintf("GET %s: %s", path, dataSummary(data))
			return app.OK(data, output.WithSummary(summary))
		},
	}

	cmd.Flags().StringVar(&jqExpr, "jq", "", "Filter the response through a jq expression")

	return cmd
}

// parsePath extracts and normalizes the API path.
// Handles full URLs, relative paths, and auto-adds the leading slash.
func parsePath(input string) string {
	// Extract path from a full URL, e.g. https://api.letta.com/v1/agents/
	urlPattern := regexp.MustCompile(`^https?://[^/]+(/.*)`)
	if matches := urlPattern.FindStringSubmatch(input); len(matches) > 1 {
		return matches[1]
	}

	if !strings.HasPrefix(input, "/") {
		input = "/" + input
	}

	return input
}
