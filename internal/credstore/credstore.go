// Package credstore persists the session credential across process
// restarts. It keeps three independent keys under one namespace
// directory: the access token, the refresh token, and the user record.
package credstore

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/minirag/minirag-go/internal/types"
	"github.com/pkg/errors"
)

const (
	accessTokenFile  = "access_token"
	refreshTokenFile = "refresh_token"
	userFile         = "user.json"
)

// Store is a file-backed credential store. Each field is written as its
// own file so individual writes stay atomic and idempotent. The store is
// only ever mutated by the session coordinator.
type Store struct {
	dir    string
	logger types.Logger
}

// New creates a store rooted at dir. The directory is created lazily on
// the first Save.
func New(dir string, logger types.Logger) *Store {
	return &Store{dir: dir, logger: logger}
}

// DefaultDir returns the conventional store location under the user's
// home directory.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".minirag"
	}
	return filepath.Join(home, ".minirag")
}

// Load reads the persisted credential. Absent files map to absent
// fields and a malformed user record is treated as no user; Load never
// fails on bad on-disk state.
func (s *Store) Load() types.Credential {
	var cred types.Credential

	cred.AccessToken = s.readKey(accessTokenFile)
	cred.RefreshToken = s.readKey(refreshTokenFile)

	if data := s.readKey(userFile); data != "" {
		var user types.User
		if err := json.Unmarshal([]byte(data), &user); err != nil {
			if s.logger != nil {
				s.logger.Warn("Discarding malformed user record", "error", err)
			}
		} else {
			cred.User = &user
		}
	}

	return cred
}

// Save persists all three fields. Fields that are absent in cred have
// their keys removed, so Save(Credential{}) is equivalent to Clear.
func (s *Store) Save(cred types.Credential) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return errors.Wrap(err, "failed to create credential directory")
	}

	if err := s.writeKey(accessTokenFile, cred.AccessToken); err != nil {
		return err
	}
	if err := s.writeKey(refreshTokenFile, cred.RefreshToken); err != nil {
		return err
	}

	var userData string
	if cred.User != nil {
		data, err := json.Marshal(cred.User)
		if err != nil {
			return errors.Wrap(err, "failed to marshal user record")
		}
		userData = string(data)
	}
	return s.writeKey(userFile, userData)
}

// Clear removes every persisted key.
func (s *Store) Clear() error {
	return s.Save(types.Credential{})
}

func (s *Store) readKey(name string) string {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return ""
	}
	return string(data)
}

func (s *Store) writeKey(name, value string) error {
	path := filepath.Join(s.dir, name)
	if value == "" {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "failed to remove %s", name)
		}
		return nil
	}
	if err := os.WriteFile(path, []byte(value), 0600); err != nil {
		return errors.Wrapf(err, "failed to write %s", name)
	}
	return nil
}
