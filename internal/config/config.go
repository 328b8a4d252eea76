// Package config resolves the GitHub credential and application settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	appName  = "whatdidyougetdone"
	tokenKey = "GITHUB_TOKEN"
)

// ErrNoToken is returned when no credential can be found in either the
// config file or the environment. Callers print TokenGuidance and exit.
var ErrNoToken = errors.New("github token not found")

// Dir returns the application's config directory, creating it if needed.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config dir: %w", err)
	}
	dir := filepath.Join(base, appName)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config dir: %w", err)
	}
	return dir, nil
}

// Token resolves the GitHub credential: the .env file in the config
// directory wins, then the GITHUB_TOKEN environment variable. A token found
// only in the environment is persisted back to the file so future runs work
// without it. No token in either place yields ErrNoToken.
func Token() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	envFile := filepath.Join(dir, ".env")

	if values, err := godotenv.Read(envFile); err == nil {
		if token := values[tokenKey]; token != "" {
			return token, nil
		}
	}

	if token := os.Getenv(tokenKey); token != "" {
		if err := godotenv.Write(map[string]string{tokenKey: token}, envFile); err != nil {
			return "", fmt.Errorf("failed to persist token to %s: %w", envFile, err)
		}
		return token, nil
	}

	return "", ErrNoToken
}

// TokenGuidance is the remediation text printed when no credential exists.
func TokenGuidance() string {
	path := "your config directory"
	if dir, err := Dir(); err == nil {
		path = filepath.Join(dir, ".env")
	}
	return fmt.Sprintf(`GitHub token not found!
Either:
1. Create %s with GITHUB_TOKEN=your_token
2. Set GITHUB_TOKEN environment variable

You can create a token at: https://github.com/settings/tokens
Required scopes: repo, read:user`, path)
}
