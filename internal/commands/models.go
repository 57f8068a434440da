package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/letta-tools/lettaq/internal/appctx"
	"github.com/letta-tools/lettaq/internal/models"
	"github.com/letta-tools/lettaq/internal/output"
)

const modelsPath = "/v1/models/"

// NewModelsCmd creates the models command.
func NewModelsCmd() *cobra.Command {
	var filter string
	var jqExpr string

	cmd := &cobra.Command{
		Use:   "models",
		Short: "List available models",
		Long: `List the models the API offers, optionally filtered by a
case-insensitive substring over the model identifier or handle:

  lettaq models --filter claude`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appctx.FromContext(cmd.Context())
			if err := app.RequireCredential(); err != nil {
				return err
			}

			resp, err := app.Client.Get(cmd.Context(), modelsPath)
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

			records, err := models.Decode(data)
			if err != nil {
				return err
			}

			total := len(records)
			matched := models.Filter(records, filter)

			if jqExpr != "" {
				raw, err := json.Marshal(matched)
				if err != nil {
					return err
				}
				filtered, err := applyJQ(raw, jqExpr)
				if err != nil {
					return err
				}
				return app.OK(filtered)
			}

			summary := fmt.Sprintf("%d %s", total, pluralize(total, "model", "models"))
			if filter != "" {
				summary = fmt.Sprintf("%d of %d %s matching %q",
					len(matched), total, pluralize(total, "model", "models"), filter)
			}
			// nil would render as "(no data)"; an empty match is still a list
			if matched == nil {
				matched = []models.Record{}
			}
			return app.OK(matched, output.WithSummary(summary))
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "Case-insensitive substring filter over identifier/handle")
	cmd.Flags().StringVar(&jqExpr, "jq", "", "Filter the matching records through a jq expression")

	return cmd
}
