// Package auth resolves the bearer credential presented to the API.
//
// Resolution order: LETTA_API_KEY environment variable, then the credential
// store (system keyring, with a file fallback). The credential is read once
// and held for the life of the process; it is never written back.
package auth

import (
	"errors"
	"os"
)

// TokenSource names where the active credential came from.
type TokenSource string

const (
	SourceNone  TokenSource = "none"
	SourceEnv   TokenSource = "env"
	SourceStore TokenSource = "store"
)

// EnvAPIKey is the environment variable holding the bearer credential.
const EnvAPIKey = "LETTA_API_KEY"

// Manager resolves and caches the bearer credential for one origin.
type Manager struct {
	store  *Store
	origin string

	token  string
	source TokenSource
	loaded bool
}

// NewManager creates a Manager for the given origin (the API base URL).
func NewManager(store *Store, origin string) *Manager {
	return &Manager{store: store, origin: origin}
}

// NewManagerWithToken creates a Manager holding a fixed token. Used to
// verify a candidate key without touching the stored credential.
func NewManagerWithToken(token string) *Manager {
	return &Manager{token: token, source: SourceEnv, loaded: true}
}

// Token returns the bearer credential, or "" if none is configured.
// The empty case is not an error here: speculative probes may run
// unauthenticated, and targeted commands decide whether to fail fast.
func (m *Manager) Token() string {
	m.resolve()
	return m.token
}

// Source reports where the active credential came from.
func (m *Manager) Source() TokenSource {
	m.resolve()
	return m.source
}

func (m *Manager) resolve() {
	if m.loaded {
		return
	}
	m.loaded = true
	m.source = SourceNone

	if v := os.Getenv(EnvAPIKey); v != "" {
		m.token = v
		m.source = SourceEnv
		return
	}

	creds, err := m.store.Load(m.origin)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			// Corrupt store entries surface on `auth status`; resolution
			// itself degrades to unauthenticated.
			m.token = ""
		}
		return
	}
	if creds.APIKey != "" {
		m.token = creds.APIKey
		m.source = SourceStore
	}
}

// Login stores an API key for the origin.
func (m *Manager) Login(apiKey string) error {
	if err := m.store.Save(m.origin, &Credentials{APIKey: apiKey, BaseURL: m.origin}); err != nil {
		return err
	}
	m.token = apiKey
	m.source = SourceStore
	m.loaded = true
	return nil
}

// Logout removes the stored credential for the origin.
func (m *Manager) Logout() error {
	if err := m.store.Delete(m.origin); err != nil {
		return err
	}
	m.token = ""
	m.source = SourceNone
	m.loaded = true
	return nil
}

// Store exposes the underlying credential store (for doctor checks).
func (m *Manager) Store() *Store {
	return m.store
}
