package probe

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is a declarative list of endpoints to probe.
type Manifest struct {
	Endpoints []Endpoint `yaml:"endpoints"`
}

// LoadManifest reads a YAML endpoint manifest.
func LoadManifest(path string) ([]Endpoint, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: user-supplied manifest path
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if len(m.Endpoints) == 0 {
		return nil, fmt.Errorf("manifest %s declares no endpoints", path)
	}
	for i, ep := range m.Endpoints {
		if ep.Path == "" {
			return nil, fmt.Errorf("manifest %s: endpoint %d has no path", path, i+1)
		}
	}
	return m.Endpoints, nil
}

// DefaultEndpoints is the built-in discovery set: the documented surface
// plus speculative account/usage paths that may or may not exist.
func DefaultEndpoints() []Endpoint {
	return []Endpoint{
		{Path: "/v1/health/", Description: "service health"},
		{Path: "/v1/models/", Description: "available LLM models"},
		{Path: "/v1/models/embedding/", Description: "available embedding models"},
		{Path: "/v1/agents/", Description: "agents in the account"},
		{Path: "/v1/agents/{agent_id}", Description: "configured agent detail"},
		{Path: "/v1/account", Description: "account info (speculative)"},
		{Path: "/v1/user", Description: "user info (speculative)"},
		{Path: "/v1/users/me", Description: "current user (speculative)"},
		{Path: "/v1/usage", Description: "usage stats (speculative)"},
		{Path: "/v1/billing", Description: "billing info (speculative)"},
	}
}

// AccountEndpoints is the subset probed by the account command.
func AccountEndpoints() []Endpoint {
	return []Endpoint{
		{Path: "/v1/account", Description: "account info"},
		{Path: "/v1/user", Description: "user info"},
		{Path: "/v1/users/me", Description: "current user"},
		{Path: "/v1/usage", Description: "usage stats"},
	}
}
