package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letta-tools/lettaq/internal/appctx"
	"github.com/letta-tools/lettaq/internal/auth"
	"github.com/letta-tools/lettaq/internal/config"
	"github.com/letta-tools/lettaq/internal/output"
)

// newTestApp builds an App pointed at a test server, with a file-backed
// credential store in a temp dir, a credential in the environment, and
// JSON output captured in a buffer.
func newTestApp(t *testing.T, baseURL string) (*appctx.App, *bytes.Buffer) {
	t.Helper()
	t.Setenv("LETTAQ_NO_KEYRING", "1")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(auth.EnvAPIKey, "test-key")

	cfg := config.Default()
	cfg.BaseURL = baseURL
	cfg.Timeout = 2 * time.Second

	app := appctx.NewApp(cfg)
	var buf bytes.Buffer
	app.Output = output.New(output.Options{Format: output.FormatJSON, Writer: &buf})
	return app, &buf
}

func appCtx(t *testing.T, app *appctx.App) context.Context {
	t.Helper()
	return appctx.WithApp(context.Background(), app)
}

// execute runs a command with the app in context, flags parsed from args.
func execute(t *testing.T, cmd *cobra.Command, app *appctx.App, args ...string) error {
	t.Helper()
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(appctx.WithApp(context.Background(), app))
}

func decodeEnvelope(t *testing.T, buf *bytes.Buffer) output.Response {
	t.Helper()
	var resp output.Response
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp), "output: %s", buf.String())
	return resp
}

func TestApplyJQ(t *testing.T) {
	raw := json.RawMessage(`{"models":[{"model":"a"},{"model":"b"}]}`)

	got, err := applyJQ(raw, ".models | length")
	require.NoError(t, err)
	assert.Equal(t, 2, got)

	got, err = applyJQ(raw, ".models[].model")
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, got)

	got, err = applyJQ(raw, ".missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestApplyJQErrors(t *testing.T) {
	raw := json.RawMessage(`{"a":1}`)

	_, err := applyJQ(raw, ".[invalid")
	require.Error(t, err)
	assert.Equal(t, output.CodeUsage, output.AsError(err).Code)

	_, err = applyJQ(json.RawMessage(`not json`), ".")
	require.Error(t, err)
	assert.Equal(t, output.CodeParse, output.AsError(err).Code)
}

func TestDataSummary(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"array", `[1,2,3]`, "3 items"},
		{"single item array", `[1]`, "1 item"},
		{"object with name", `{"name":"my-agent"}`, "my-agent"},
		{"object with id", `{"id":"agent-1"}`, "agent-1"},
		{"object with status", `{"status":"ok"}`, "ok"},
		{"opaque object", `{"foo":1}`, "API response"},
		{"scalar", `42`, "API response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dataSummary(json.RawMessage(tt.raw)))
		})
	}
}

func TestPluralize(t *testing.T) {
	assert.Equal(t, "model", pluralize(1, "model", "models"))
	assert.Equal(t, "models", pluralize(0, "model", "models"))
	assert.Equal(t, "models", pluralize(5, "model", "models"))
}
