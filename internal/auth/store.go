package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zalando/go-keyring"
)

const serviceName = "lettaq"

// ErrNotFound is returned when no credential is stored.
var ErrNotFound = errors.New("no stored credential")

// Credentials holds the stored API key and metadata.
type Credentials struct {
	APIKey  string `json:"api_key"`
	BaseURL string `json:"base_url,omitempty"`
}

// Store handles credential storage, preferring the system keychain and
// falling back to a plaintext file under the config directory.
type Store struct {
	useKeyring  bool
	fallbackDir string
}

// NewStore creates a credential store.
func NewStore(fallbackDir string) *Store {
	// Skip keyring for tests or when explicitly disabled
	if os.Getenv("LETTAQ_NO_KEYRING") != "" {
		return &Store{useKeyring: false, fallbackDir: fallbackDir}
	}

	// Test if keyring is available
	testKey := "lettaq::test"
	err := keyring.Set(serviceName, testKey, "test")
	if err == nil {
		_ = keyring.Delete(serviceName, testKey) // Best-effort cleanup
		return &Store{useKeyring: true, fallbackDir: fallbackDir}
	}
	fmt.Fprintf(os.Stderr, "warning: system keyring unavailable, credentials stored in plaintext at %s\n",
		filepath.Join(fallbackDir, "credentials.json"))
	return &Store{useKeyring: false, fallbackDir: fallbackDir}
}

// key returns the keyring key for an origin.
func key(origin string) string {
	return fmt.Sprintf("lettaq::%s", origin)
}

// Load retrieves credentials for the given origin.
func (s *Store) Load(origin string) (*Credentials, error) {
	var data []byte

	if s.useKeyring {
		raw, err := keyring.Get(serviceName, key(origin))
		if err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("keyring read failed: %w", err)
		}
		data = []byte(raw)
	} else {
		raw, err := os.ReadFile(s.credentialsPath()) //nolint:gosec // G304: own config dir
		if err != nil {
			if os.IsNotExist(err) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		all := map[string]*Credentials{}
		if err := json.Unmarshal(raw, &all); err != nil {
			return nil, fmt.Errorf("credentials file is malformed: %w", err)
		}
		creds, ok := all[origin]
		if !ok {
			return nil, ErrNotFound
		}
		return creds, nil
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("stored credential is malformed: %w", err)
	}
	return &creds, nil
}

// Save stores credentials for the given origin.
func (s *Store) Save(origin string, creds *Credentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return err
	}

	if s.useKeyring {
		return keyring.Set(serviceName, key(origin), string(data))
	}

	all := map[string]*Credentials{}
	if raw, err := os.ReadFile(s.credentialsPath()); err == nil { //nolint:gosec // G304: own config dir
		_ = json.Unmarshal(raw, &all)
	}
	all[origin] = creds

	out, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.fallbackDir, 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.credentialsPath(), append(out, '\n'), 0o600)
}

// Delete removes credentials for the given origin.
func (s *Store) Delete(origin string) error {
	if s.useKeyring {
		err := keyring.Delete(serviceName, key(origin))
		if errors.Is(err, keyring.ErrNotFound) {
			return nil
		}
		return err
	}

	raw, err := os.ReadFile(s.credentialsPath()) //nolint:gosec // G304: own config dir
	if err != nil {
		return nil // Nothing stored
	}
	all := map[string]*Credentials{}
	if err := json.Unmarshal(raw, &all); err != nil {
		return fmt.Errorf("credentials file is malformed: %w", err)
	}
	delete(all, origin)

	out, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.credentialsPath(), append(out, '\n'), 0o600)
}

// UsesKeyring reports whether the system keyring is in use.
func (s *Store) UsesKeyring() bool {
	return s.useKeyring
}

func (s *Store) credentialsPath() string {
	return filepath.Join(s.fallbackDir, "credentials.json")
}
