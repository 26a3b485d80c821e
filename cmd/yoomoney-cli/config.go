package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
)

// AuthConfig is the environment configuration of the login command.
type AuthConfig struct {
	ClientID       string `envconfig:"CLIENT_ID" required:"true"`
	ClientRedirect string `envconfig:"CLIENT_REDIRECT" required:"true"`
}

func loadAuthConfig() (AuthConfig, error) {
	var cfg AuthConfig
	err := envconfig.Process("", &cfg)
	return cfg, err
}

// storedConfig is the on-disk credential file.
type storedConfig struct {
	Token string `json:"token"`
}

func configLocation() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "yoomoney-cli", "config.json"), nil
}

// loadToken returns the stored token, or "" when no config file exists yet.
func loadToken() (string, error) {
	path, err := configLocation()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	var cfg storedConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return "", err
	}
	return cfg.Token, nil
}

func saveToken(token string) (string, error) {
	path, err := configLocation()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(storedConfig{Token: token}, "", "  ")
	if err != nil {
		return "", err
	}
	return path, os.WriteFile(path, data, 0o600)
}
