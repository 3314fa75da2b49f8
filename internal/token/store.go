package token

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Store persists the bearer token between runs (the localStorage analog).
type Store interface {
	Token() (string, error)
	Save(tok string, exp time.Time) error
	Clear() error
}

type tokenFile struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// FileStore keeps the token in a JSON file under the user config dir.
type FileStore struct {
	path string
}

// DefaultPath resolves the token file location, honoring XDG_CONFIG_HOME.
func DefaultPath() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "traincal", "token.json")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "traincal", "token.json")
}

// NewFileStore creates a FileStore at path ("" means DefaultPath).
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultPath()
	}
	return &FileStore{path: path}
}

// Token returns the stored token, or "" when none is stored. A file whose
// recorded expiry has passed is removed on read, so an expired login never
// lingers on disk; claim-level expiry is the Manager's concern.
func (s *FileStore) Token() (string, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	var tf tokenFile
	if err := json.Unmarshal(b, &tf); err != nil {
		return "", err
	}
	if !tf.ExpiresAt.IsZero() && time.Now().After(tf.ExpiresAt) {
		return "", s.Clear()
	}
	if tf.AccessToken == "" {
		return "", nil
	}
	return tf.AccessToken, nil
}

// Save writes the token with 0600 permissions, creating the directory.
func (s *FileStore) Save(tok string, exp time.Time) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(tokenFile{AccessToken: tok, ExpiresAt: exp}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o600)
}

// Clear removes the stored token; a missing file is not an error.
func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
