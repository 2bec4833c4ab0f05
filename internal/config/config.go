// Package config manages the saved club configuration and resolves
// credentials from flags, environment and the config file.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

const (
	// EnvBearerToken is the environment variable holding the bearer token
	EnvBearerToken = "SPOND_BEARER_TOKEN"

	// EnvClubID is the environment variable holding the club ID
	EnvClubID = "SPOND_CLUB_ID"

	configDirName  = ".spond-reporting"
	configFileName = "config.json"
)

// Config is the persisted configuration. The bearer token is only present
// when the user explicitly opted in to saving it.
type Config struct {
	ClubID      string `json:"club_id"`
	BearerToken string `json:"bearer_token,omitempty"`
}

// Store reads and writes the config file
type Store struct {
	path string
}

// NewStore creates a store for the default config path (~/.spond-reporting/config.json)
func NewStore() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.Wrap(err, "failed to determine home directory")
	}
	return NewStoreAt(filepath.Join(home, configDirName, configFileName)), nil
}

// NewStoreAt creates a store for an explicit config file path
func NewStoreAt(path string) *Store {
	return &Store{path: path}
}

// Path returns the config file path
func (s *Store) Path() string {
	return s.path
}

// Load reads the config file. A missing file is not an error and returns an
// empty config.
func (s *Store) Load() (*Config, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, errors.Wrap(err, "failed to read config file")
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	return &cfg, nil
}

// Save writes the config file with restrictive permissions
func (s *Store) Save(cfg *Config) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	// Owner read/write only: the file may hold a bearer token
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}

	return nil
}

// Reset deletes the config file. Returns false if no file existed.
func (s *Store) Reset() (bool, error) {
	err := os.Remove(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrap(err, "failed to delete config file")
	}
	return true, nil
}

// Source identifies where a credential value came from
type Source string

const (
	SourceFlag  Source = "flag"
	SourceEnv   Source = "environment"
	SourceFile  Source = "config file"
	SourceLogin Source = "login"
	SourceNone  Source = "none"
)

// Credentials is the resolved credential set with provenance for logging
type Credentials struct {
	BearerToken string
	ClubID      string
	TokenSource Source
	ClubSource  Source
}

// Complete reports whether both credentials are present
func (c *Credentials) Complete() bool {
	return c.BearerToken != "" && c.ClubID != ""
}

// Resolve applies the precedence flags > environment > saved file. Either
// credential may still be empty afterwards; the caller decides whether to
// prompt or fail.
func Resolve(flagToken, flagClubID string, cfg *Config) *Credentials {
	creds := &Credentials{TokenSource: SourceNone, ClubSource: SourceNone}

	switch {
	case flagToken != "":
		creds.BearerToken = flagToken
		creds.TokenSource = SourceFlag
	case os.Getenv(EnvBearerToken) != "":
		creds.BearerToken = os.Getenv(EnvBearerToken)
		creds.TokenSource = SourceEnv
	case cfg != nil && cfg.BearerToken != "":
		creds.BearerToken = cfg.BearerToken
		creds.TokenSource = SourceFile
	}

	switch {
	case flagClubID != "":
		creds.ClubID = flagClubID
		creds.ClubSource = SourceFlag
	case os.Getenv(EnvClubID) != "":
		creds.ClubID = os.Getenv(EnvClubID)
		creds.ClubSource = SourceEnv
	case cfg != nil && cfg.ClubID != "":
		creds.ClubID = cfg.ClubID
		creds.ClubSource = SourceFile
	}

	return creds
}
