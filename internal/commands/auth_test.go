package commands

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letta-tools/lettaq/internal/output"
)

func TestAuthLoginStoresVerifiedKey(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	app, buf := newTestApp(t, srv.URL)
	err := execute(t, NewAuthCmd(), app, "login", "--key", "sk-new-key")
	require.NoError(t, err)

	assert.Equal(t, "Bearer sk-new-key", gotAuth, "verification uses the candidate key")

	creds, err := app.Auth.Store().Load(app.Config.BaseURL)
	require.NoError(t, err)
	assert.Equal(t, "sk-new-key", creds.APIKey)

	resp := decodeEnvelope(t, buf)
	assert.Contains(t, resp.Summary, "credentials file")
}

func TestAuthLoginRejectedKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	app, _ := newTestApp(t, srv.URL)
	err := execute(t, NewAuthCmd(), app, "login", "--key", "sk-bad-key")
	require.Error(t, err)
	assert.Equal(t, output.CodeAuth, output.AsError(err).Code)

	_, loadErr := app.Auth.Store().Load(app.Config.BaseURL)
	assert.Error(t, loadErr, "rejected key must not be stored")
}

func TestAuthLoginNoVerifySkipsRoundTrip(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer srv.Close()

	app, _ := newTestApp(t, srv.URL)
	err := execute(t, NewAuthCmd(), app, "login", "--key", "sk-unverified", "--no-verify")
	require.NoError(t, err)
	assert.Zero(t, requests)
}

func TestAuthLoginReadsStdin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	app, _ := newTestApp(t, srv.URL)
	cmd := NewAuthCmd()
	cmd.SetIn(strings.NewReader("sk-from-stdin\n"))
	cmd.SetErr(&strings.Builder{})
	cmd.SetArgs([]string{"login"})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	require.NoError(t, cmd.ExecuteContext(appCtx(t, app)))

	creds, err := app.Auth.Store().Load(app.Config.BaseURL)
	require.NoError(t, err)
	assert.Equal(t, "sk-from-stdin", creds.APIKey)
}

func TestAuthLoginEmptyKey(t *testing.T) {
	app, _ := newTestApp(t, "http://unused.invalid")
	cmd := NewAuthCmd()
	cmd.SetIn(strings.NewReader("\n"))
	cmd.SetErr(&strings.Builder{})
	cmd.SetArgs([]string{"login"})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	err := cmd.ExecuteContext(appCtx(t, app))
	require.Error(t, err)
	assert.Equal(t, output.CodeUsage, output.AsError(err).Code)
}

func TestAuthStatus(t *testing.T) {
	app, buf := newTestApp(t, "http://unused.invalid")
	err := execute(t, NewAuthCmd(), app, "status")
	require.NoError(t, err)

	resp := decodeEnvelope(t, buf)
	status, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, status["authenticated"])
	assert.Equal(t, "env", status["source"])
	assert.Contains(t, resp.Summary, "LETTA_API_KEY")
}

func TestAuthStatusUnauthenticated(t *testing.T) {
	app, buf := newTestApp(t, "http://unused.invalid")
	t.Setenv("LETTA_API_KEY", "")

	err := execute(t, NewAuthCmd(), app, "status")
	require.NoError(t, err, "status reports, it does not require a credential")

	resp := decodeEnvelope(t, buf)
	status := resp.Data.(map[string]any)
	assert.Equal(t, false, status["authenticated"])
	assert.Equal(t, "Not authenticated", resp.Summary)
}

func TestAuthLogout(t *testing.T) {
	app, buf := newTestApp(t, "http://unused.invalid")
	t.Setenv("LETTA_API_KEY", "")
	require.NoError(t, app.Auth.Login("sk-stored"))

	err := execute(t, NewAuthCmd(), app, "logout")
	require.NoError(t, err)

	_, loadErr := app.Auth.Store().Load(app.Config.BaseURL)
	assert.Error(t, loadErr)

	resp := decodeEnvelope(t, buf)
	assert.Equal(t, "Credential removed", resp.Summary)
}

func TestAuthLogoutWarnsAboutEnv(t *testing.T) {
	app, buf := newTestApp(t, "http://unused.invalid")

	err := execute(t, NewAuthCmd(), app, "logout")
	require.NoError(t, err)

	resp := decodeEnvelope(t, buf)
	assert.Contains(t, resp.Summary, "LETTA_API_KEY is still set")
}
