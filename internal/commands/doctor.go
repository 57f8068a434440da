package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/letta-tools/lettaq/internal/appctx"
	"github.com/letta-tools/lettaq/internal/auth"
	"github.com/letta-tools/lettaq/internal/config"
	"github.com/letta-tools/lettaq/internal/output"
	"github.com/letta-tools/lettaq/internal/version"
)

// Check represents a single diagnostic check result.
type Check struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "pass", "fail", "skip", "warn"
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

// DoctorResult holds the complete diagnostic results.
type DoctorResult struct {
	Checks  []Check `json:"checks"`
	Passed  int     `json:"passed"`
	Failed  int     `json:"failed"`
	Warned  int     `json:"warned"`
	Skipped int     `json:"skipped"`
}

func (r *DoctorResult) add(c Check) {
	r.Checks = append(r.Checks, c)
	switch c.Status {
	case "pass":
		r.Passed++
	case "fail":
		r.Failed++
	case "warn":
		r.Warned++
	case "skip":
		r.Skipped++
	}
}

// Summary returns a human-readable summary of the results.
func (r *DoctorResult) Summary() string {
	if r.Failed == 0 && r.Warned == 0 && r.Passed > 0 {
		if r.Skipped > 0 {
			return fmt.Sprintf("All %d checks passed, %d skipped", r.Passed, r.Skipped)
		}
		return fmt.Sprintf("All %d checks passed", r.Passed)
	}
	parts := []string{}
	if r.Passed > 0 {
		parts = append(parts, fmt.Sprintf("%d passed", r.Passed))
	}
	if r.Failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", r.Failed))
	}
	if r.Warned > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", r.Warned, pluralize(r.Warned, "warning", "warnings")))
	}
	if r.Skipped > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", r.Skipped))
	}
	return strings.Join(parts, ", ")
}

// NewDoctorCmd creates the doctor command.
func NewDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check CLI health and diagnose issues",
		Long: `Run diagnostic checks on configuration, credentials, and API
connectivity. Always exits 0; failures are part of the report.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appctx.FromContext(cmd.Context())

			result := &DoctorResult{}
			result.add(checkVersion())
			result.add(checkConfigFile())
			result.add(checkDotenv())
			result.add(checkCredential(app))
			result.add(checkKeyring(app))
			result.add(checkAgentID(app))
			result.add(checkConnectivity(cmd, app))

			return app.OK(result, output.WithSummary(result.Summary()))
		},
	}
}

func checkVersion() Check {
	return Check{
		Name:    "version",
		Status:  "pass",
		Message: version.Full(),
	}
}

func checkConfigFile() Check {
	path := config.ConfigFilePath()
	data, err := os.ReadFile(path) //nolint:gosec // G304: own config path
	if err != nil {
		return Check{
			Name:    "config file",
			Status:  "skip",
			Message: "No config file (defaults in use)",
			Hint:    "Create one with: lettaq config set <key> <value>",
		}
	}
	if !json.Valid(data) {
		return Check{
			Name:    "config file",
			Status:  "fail",
			Message: fmt.Sprintf("Config at %s is not valid JSON", path),
			Hint:    "Fix or delete the file",
		}
	}
	return Check{
		Name:    "config file",
		Status:  "pass",
		Message: path,
	}
}

func checkDotenv() Check {
	if _, err := os.Stat(".env"); err != nil {
		return Check{
			Name:    ".env",
			Status:  "skip",
			Message: "No .env in current directory",
		}
	}
	return Check{
		Name:    ".env",
		Status:  "pass",
		Message: ".env loaded from current directory",
	}
}

func checkCredential(app *appctx.App) Check {
	switch app.Auth.Source() {
	case auth.SourceEnv:
		return Check{
			Name:    "credential",
			Status:  "pass",
			Message: "Set via " + auth.EnvAPIKey,
		}
	case auth.SourceStore:
		where := "system keyring"
		if !app.Auth.Store().UsesKeyring() {
			where = "credentials file"
		}
		return Check{
			Name:    "credential",
			Status:  "pass",
			Message: "Stored in " + where,
		}
	default:
		return Check{
			Name:    "credential",
			Status:  "fail",
			Message: "No API credential configured",
			Hint:    "Set " + auth.EnvAPIKey + " or run: lettaq auth login",
		}
	}
}

func checkKeyring(app *appctx.App) Check {
	if app.Auth.Store().UsesKeyring() {
		return Check{
			Name:    "keyring",
			Status:  "pass",
			Message: "System keyring available",
		}
	}
	return Check{
		Name:    "keyring",
		Status:  "warn",
		Message: "System keyring unavailable, file fallback in use",
		Hint:    "Stored credentials are plaintext on disk",
	}
}

func checkAgentID(app *appctx.App) Check {
	if app.Config.AgentID == "" {
		return Check{
			Name:    "agent id",
			Status:  "warn",
			Message: "No agent id configured",
			Hint:    "Set LETTA_AGENT_ID to probe agent detail endpoints",
		}
	}
	return Check{
		Name:    "agent id",
		Status:  "pass",
		Message: app.Config.AgentID,
	}
}

func checkConnectivity(cmd *cobra.Command, app *appctx.App) Check {
	resp, err := app.Client.Get(cmd.Context(), "/v1/health/")
	if err != nil {
		e := output.AsError(err)
		msg := e.Message
		if e.Hint != "" {
			msg = e.Hint
		}
		return Check{
			Name:    "connectivity",
			Status:  "fail",
			Message: fmt.Sprintf("Cannot reach %s: %s", app.Config.BaseURL, msg),
			Hint:    "Check network access and LETTA_BASE_URL",
		}
	}
	if resp.StatusCode == 401 && app.Client.HasCredential() {
		return Check{
			Name:    "connectivity",
			Status:  "warn",
			Message: "Server reachable but credential rejected (401)",
			Hint:    "Run: lettaq auth login",
		}
	}
	return Check{
		Name:    "connectivity",
		Status:  "pass",
		Message: fmt.Sprintf("%s answered HTTP %d", app.Config.BaseURL, resp.StatusCode),
	}
}
