package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const configFileName = "config.json"

// DefaultServerURL is used until the user points the client elsewhere.
const DefaultServerURL = "http://localhost:8000"

// Config is the durable per-user client state: the backend base URL and the
// bearer credential. It survives restarts but not the user clearing it.
// No expiry is tracked client-side; validity is determined only by server
// responses.
type Config struct {
	ServerURL   string `json:"serverUrl,omitempty"`
	AccessToken string `json:"accessToken,omitempty"`
}

// ConfigDir resolves the per-user config directory.
func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.draftpad).
	if v := strings.TrimSpace(os.Getenv("DRAFTPAD_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".draftpad"), nil
}

func configPath(dir string) string {
	return filepath.Join(dir, configFileName)
}

func LoadConfig(dir string) (*Config, error) {
	b, err := os.ReadFile(configPath(dir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{ServerURL: DefaultServerURL}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.ServerURL) == "" {
		cfg.ServerURL = DefaultServerURL
	}
	return &cfg, nil
}

func SaveConfig(dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	// The config holds a credential: atomic rename + 0600.
	return atomicWriteFile(dir, "config.json.*.tmp", configPath(dir), b, 0o600)
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}
