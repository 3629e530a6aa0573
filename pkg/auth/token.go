// Package auth manages the bearer token that protects the local HTTP API.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/zalando/go-keyring"
)

const (
	keyringService = "hiscore"
	keyringUser    = "api_token"
	tokenFileName  = "api_token"
	tokenBytes     = 32
	fileMode       = 0600
)

// ErrNoToken is returned when no token has been stored.
var ErrNoToken = errors.New("no API token, run: hiscore auth token")

// Store keeps the API token in the OS keychain and falls back to a file in
// Dir when the keychain is not available.
type Store struct {
	Dir string
}

// NewStore returns a token store using dir for the fallback file.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// GenerateToken returns a new random hex token.
func GenerateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Wrap(err, "failed to generate token")
	}
	return hex.EncodeToString(b), nil
}

// Save stores token in the keychain, or in the fallback file.
func (s *Store) Save(token string) error {
	if strings.TrimSpace(token) == "" {
		return errors.New("token required")
	}

	if err := keyring.Set(keyringService, keyringUser, token); err != nil {
		slog.Warn("keychain unavailable, falling back to file", "error", err)
		return s.saveFile(token)
	}

	s.removeFile()
	return nil
}

// Get returns the stored token. A token found only in the fallback file is
// moved to the keychain when possible.
func (s *Store) Get() (string, error) {
	token, err := keyring.Get(keyringService, keyringUser)
	if err == nil && token != "" {
		return token, nil
	}

	token, err = s.readFile()
	if err != nil {
		return "", err
	}

	if err := keyring.Set(keyringService, keyringUser, token); err == nil {
		slog.Info("migrated token from file to OS keychain")
		s.removeFile()
	}

	return token, nil
}

// Delete removes the token from the keychain and the fallback file.
func (s *Store) Delete() error {
	err := keyring.Delete(keyringService, keyringUser)
	s.removeFile()
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return errors.Wrap(err, "failed to delete token from keychain")
	}
	return nil
}

func (s *Store) path() string {
	return filepath.Join(s.Dir, tokenFileName)
}

func (s *Store) saveFile(token string) error {
	if err := os.WriteFile(s.path(), []byte(token), fileMode); err != nil {
		return errors.Wrapf(err, "failed to write token file %s", s.path())
	}
	return nil
}

func (s *Store) readFile() (string, error) {
	b, err := os.ReadFile(s.path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNoToken
		}
		return "", errors.Wrapf(err, "failed to read token file %s", s.path())
	}
	token := strings.TrimSpace(string(b))
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

func (s *Store) removeFile() {
	if err := os.Remove(s.path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Debug("failed to remove token file", "path", s.path(), "error", err)
	}
}

// RequireToken rejects requests whose Authorization header does not carry
// token as a bearer token.
func RequireToken(token string) func(http.Handler) http.Handler {
	want := []byte(token)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(strings.TrimSpace(got)), want) != 1 {
				w.Header().Set("WWW-Authenticate", `Bearer realm="hiscore"`)
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
