package credential

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/99designs/keyring"

	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/model"
)

const serviceName = "provtrigger"

// Keyring item names.
const (
	KeyGitHubPAT          = "github-pat"
	KeyServiceNowPassword = "servicenow-password"
	KeyWebhookToken       = "webhook-token"
)

// EnvVar returns the environment variable that overrides a keyring item,
// e.g. PROVTRIGGER_GITHUB_PAT for github-pat.
func EnvVar(key string) string {
	return model.EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

// Store reads and writes secrets in a keyring.
type Store struct {
	ring keyring.Keyring
}

// NewStore wraps an already opened keyring.
func NewStore(ring keyring.Keyring) *Store {
	return &Store{ring: ring}
}

// Open returns a Store backed by the system keyring.
func Open() (*Store, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/provtrigger/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("provtrigger-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return NewStore(ring), nil
}

// Get retrieves a credential value by key.
func (s *Store) Get(key string) (string, error) {
	item, err := s.ring.Get(key)
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}
	return string(item.Data), nil
}

// Set stores a credential value by key.
func (s *Store) Set(key string, value string) error {
	err := s.ring.Set(keyring.Item{
		Key:   key,
		Data:  []byte(value),
		Label: serviceName + " " + key,
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}
	return nil
}

// Delete removes a credential by key. Removing a missing key is not an error.
func (s *Store) Delete(key string) error {
	err := s.ring.Remove(key)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}
	return nil
}

// Lookup resolves a secret from its environment variable first, then the
// keyring. A secret found in neither place is "" with a nil error. s may
// be nil when no keyring is available.
func (s *Store) Lookup(key string) (string, error) {
	if v := strings.TrimSpace(os.Getenv(EnvVar(key))); v != "" {
		return v, nil
	}
	if s == nil {
		return "", nil
	}
	v, err := s.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(v), nil
}

// Secrets resolves every secret the application uses.
func (s *Store) Secrets() (model.Secrets, error) {
	var (
		out model.Secrets
		err error
	)
	if out.GitHubPAT, err = s.Lookup(KeyGitHubPAT); err != nil {
		return model.Secrets{}, err
	}
	if out.ServiceNowPassword, err = s.Lookup(KeyServiceNowPassword); err != nil {
		return model.Secrets{}, err
	}
	if out.WebhookToken, err = s.Lookup(KeyWebhookToken); err != nil {
		return model.Secrets{}, err
	}
	return out, nil
}
