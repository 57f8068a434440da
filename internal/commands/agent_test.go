package commands

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letta-tools/lettaq/internal/output"
)

func TestAgentShow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/agents/agent-42", r.URL.Path)
		w.Write([]byte(`{"id":"agent-42","name":"helper","model":"claude-3-opus"}`))
	}))
	defer srv.Close()

	app, buf := newTestApp(t, srv.URL)
	app.Config.AgentID = "agent-42"
	err := execute(t, NewAgentCmd(), app)
	require.NoError(t, err)

	resp := decodeEnvelope(t, buf)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok, "data = %T", resp.Data)
	assert.Equal(t, "helper", data["name"])
	assert.Equal(t, "Agent agent-42", resp.Summary)
}

func TestAgentShowSubcommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"agent-42"}`))
	}))
	defer srv.Close()

	app, _ := newTestApp(t, srv.URL)
	app.Config.AgentID = "agent-42"
	err := execute(t, NewAgentCmd(), app, "show")
	require.NoError(t, err)
}

func TestAgentNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(http.NotFound))
	defer srv.Close()

	app, _ := newTestApp(t, srv.URL)
	app.Config.AgentID = "agent-missing"
	err := execute(t, NewAgentCmd(), app)
	require.Error(t, err)

	e := output.AsError(err)
	assert.Equal(t, output.CodeNotFound, e.Code)
	assert.Contains(t, e.Message, "agent-missing")
}

func TestAgentRequiresAgentID(t *testing.T) {
	app, _ := newTestApp(t, "http://unused.invalid")
	err := execute(t, NewAgentCmd(), app)
	require.Error(t, err)

	e := output.AsError(err)
	assert.Equal(t, output.CodeUsage, e.Code)
	assert.Contains(t, e.Hint, "LETTA_AGENT_ID")
}

func TestAccountReport(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/users/me", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"user-1","email":"dev@example.com"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	app, buf := newTestApp(t, srv.URL)
	err := execute(t, NewAccountCmd(), app)
	require.NoError(t, err, "absent account endpoints are not an error")

	out := buf.String()
	assert.Contains(t, out, "GET /v1/users/me -> 200")
	assert.Contains(t, out, `"email": "dev@example.com"`)
	assert.Contains(t, out, "GET /v1/account -> 404 (not present)")
	assert.Contains(t, out, "4 probed, 1 ok, 3 absent")
}

func TestAccountRequiresCredential(t *testing.T) {
	app, _ := newTestApp(t, "http://unused.invalid")
	t.Setenv("LETTA_API_KEY", "")

	err := execute(t, NewAccountCmd(), app)
	require.Error(t, err)
	assert.Equal(t, output.CodeAuth, output.AsError(err).Code)
}
