// Package appctx provides application context helpers.
package appctx

import (
	"context"
	"log/slog"
	"os"

	"github.com/letta-tools/lettaq/internal/api"
	"github.com/letta-tools/lettaq/internal/auth"
	"github.com/letta-tools/lettaq/internal/config"
	"github.com/letta-tools/lettaq/internal/output"
)

// contextKey is a private type for context keys.
type contextKey string

const appKey contextKey = "app"

// App holds the shared application context for all commands.
type App struct {
	Config *config.Config
	Auth   *auth.Manager
	Client *api.Client
	Output *output.Writer
	Log    *slog.Logger

	// Flags holds the global flag values
	Flags GlobalFlags
}

// GlobalFlags holds values for global CLI flags.
type GlobalFlags struct {
	// Output format flags
	JSON    bool
	Quiet   bool
	Styled  bool // Force ANSI styled output (even when piped)
	IDsOnly bool
	Count   bool

	// Context flags
	BaseURL string
	AgentID string

	// Behavior flags
	Verbose int
}

// NewApp creates a new App with the given configuration.
func NewApp(cfg *config.Config) *App {
	store := auth.NewStore(config.ConfigDir())
	authMgr := auth.NewManager(store, cfg.BaseURL)
	client := api.NewClient(cfg, authMgr)

	format := output.FormatAuto
	switch cfg.Format {
	case "json":
		format = output.FormatJSON
	case "quiet":
		format = output.FormatQuiet
	case "styled":
		format = output.FormatStyled
	}

	return &App{
		Config: cfg,
		Auth:   authMgr,
		Client: client,
		Log:    slog.New(slog.DiscardHandler),
		Output: output.New(output.Options{
			Format: format,
			Writer: os.Stdout,
		}),
	}
}

// ApplyFlags applies global flag values to the app configuration.
func (a *App) ApplyFlags() {
	// Apply output format from flags (order matters: specific modes first)
	switch {
	case a.Flags.IDsOnly:
		a.Output = output.New(output.Options{Format: output.FormatIDs, Writer: os.Stdout})
	case a.Flags.Count:
		a.Output = output.New(output.Options{Format: output.FormatCount, Writer: os.Stdout})
	case a.Flags.Quiet:
		a.Output = output.New(output.Options{Format: output.FormatQuiet, Writer: os.Stdout})
	case a.Flags.JSON:
		a.Output = output.New(output.Options{Format: output.FormatJSON, Writer: os.Stdout})
	case a.Flags.Styled:
		a.Output = output.New(output.Options{Format: output.FormatStyled, Writer: os.Stdout})
	}

	// Verbose mode: debug logging to stderr. LETTAQ_DEBUG=1 matches -v.
	verbose := a.Flags.Verbose
	if verbose == 0 && os.Getenv("LETTAQ_DEBUG") != "" {
		verbose = 1
	}
	if verbose > 0 {
		a.Log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
}

// OK outputs a success response.
func (a *App) OK(data any, opts ...output.ResponseOption) error {
	return a.Output.OK(data, opts...)
}

// Err outputs an error response.
func (a *App) Err(err error) error {
	return a.Output.Err(err)
}

// RequireCredential fails fast when no bearer credential is configured.
// Targeted commands call this; the probe batch deliberately does not,
// so unauthenticated discovery still reaches the server and reports 401s.
func (a *App) RequireCredential() error {
	if a.Auth.Token() == "" {
		return output.ErrAuth("No API credential configured")
	}
	return nil
}

// RequireAgentID returns the configured agent id or a usage error.
func (a *App) RequireAgentID() (string, error) {
	if a.Config.AgentID == "" {
		return "", output.ErrUsageHint(
			"No agent specified",
			"Set LETTA_AGENT_ID, use --agent, or run: lettaq config set agent_id <id>",
		)
	}
	return a.Config.AgentID, nil
}

// WithApp stores the app in the context.
func WithApp(ctx context.Context, app *App) context.Context {
	return context.WithValue(ctx, appKey, app)
}

// FromContext retrieves the app from the context.
func FromContext(ctx context.Context) *App {
	app, _ := ctx.Value(appKey).(*App)
	return app
}
