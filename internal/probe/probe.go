// Package probe implements speculative endpoint discovery: issue one GET
// per candidate path, classify the answer, and report every endpoint
// exactly once. A failure on one endpoint never aborts the batch.
package probe

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/letta-tools/lettaq/internal/api"
	"github.com/letta-tools/lettaq/internal/output"
)

// Endpoint describes one candidate path to probe.
type Endpoint struct {
	Path        string `yaml:"path" json:"path"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Outcome classifies a probe result.
type Outcome string

const (
	OutcomeOK        Outcome = "ok"        // 2xx with parseable JSON
	OutcomeNotFound  Outcome = "absent"    // 404: endpoint not implemented, benign
	OutcomeHTTPError Outcome = "http"      // other non-2xx status
	OutcomeParse     Outcome = "parse"     // 2xx but body is not JSON
	OutcomeTransport Outcome = "transport" // DNS, refused, timeout
)

// Result is one probe outcome. Produced once per endpoint, consumed for
// display, not retained.
type Result struct {
	Endpoint   Endpoint        `json:"endpoint"`
	Outcome    Outcome         `json:"outcome"`
	StatusCode int             `json:"status_code,omitempty"`
	Body       json.RawMessage `json:"body,omitempty"`
	Preview    string          `json:"preview,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// Runner executes probe batches sequentially.
type Runner struct {
	client *api.Client
	log    *slog.Logger
}

// NewRunner creates a Runner. log may be nil.
func NewRunner(client *api.Client, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Runner{client: client, log: log}
}

// Run probes each endpoint in order. Every endpoint yields exactly one
// Result; transport failures are recorded and the batch continues.
func (r *Runner) Run(ctx context.Context, endpoints []Endpoint) []Result {
	results := make([]Result, 0, len(endpoints))
	for _, ep := range endpoints {
		results = append(results, r.runOne(ctx, ep))
	}
	return results
}

func (r *Runner) runOne(ctx context.Context, ep Endpoint) Result {
	r.log.Debug("probe", "path", ep.Path)

	resp, err := r.client.Get(ctx, ep.Path)
	if err != nil {
		e := output.AsError(err)
		msg := e.Message
		if e.Hint != "" {
			msg = e.Hint
		}
		r.log.Debug("probe transport failure", "path", ep.Path, "error", msg)
		return Result{Endpoint: ep, Outcome: OutcomeTransport, Error: msg}
	}

	r.log.Debug("probe response", "path", ep.Path, "status", resp.StatusCode)

	switch {
	case resp.StatusCode == 404:
		return Result{Endpoint: ep, Outcome: OutcomeNotFound, StatusCode: 404}

	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		body, err := resp.JSON()
		if err != nil {
			return Result{
				Endpoint:   ep,
				Outcome:    OutcomeParse,
				StatusCode: resp.StatusCode,
				Preview:    api.BodyPreview(resp.Body),
			}
		}
		return Result{
			Endpoint:   ep,
			Outcome:    OutcomeOK,
			StatusCode: resp.StatusCode,
			Body:       body,
		}

	default:
		return Result{
			Endpoint:   ep,
			Outcome:    OutcomeHTTPError,
			StatusCode: resp.StatusCode,
			Preview:    api.BodyPreview(resp.Body),
		}
	}
}

// ExpandEndpoints substitutes {placeholder} path parameters. Placeholders
// without a known value are left literal: the server answers 404 and the
// report shows the endpoint as absent rather than silently dropping it.
func ExpandEndpoints(endpoints []Endpoint, params map[string]string) []Endpoint {
	expanded := make([]Endpoint, len(endpoints))
	for i, ep := range endpoints {
		expanded[i] = ep
		for k, v := range params {
			if v == "" {
				continue
			}
			expanded[i].Path = strings.ReplaceAll(expanded[i].Path, "{"+k+"}", v)
		}
	}
	return expanded
}
