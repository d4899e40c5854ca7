// Package config manages the settings document.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

// ServerSettings configures the HTTP listener.
type ServerSettings struct {
	Port int `json:"port"`
}

// CatalogSettings configures the upstream movie providers and their cache.
type CatalogSettings struct {
	TMDBAPIKey        string `json:"tmdbApiKey"`
	OMDBAPIKey        string `json:"omdbApiKey"`
	CacheDatabasePath string `json:"cacheDatabasePath"`
	CacheTTLHours     int    `json:"cacheTtlHours"`
}

// MatchSettings configures the match lifecycle.
type MatchSettings struct {
	TTLHours int `json:"ttlHours"`
}

// StateSettings configures where the state snapshot lives.
type StateSettings struct {
	Path string `json:"path"`
}

// LogSettings configures file logging. An empty path keeps logs on stderr
// only.
type LogSettings struct {
	Path       string `json:"path"`
	MaxSizeMB  int    `json:"maxSizeMb"`
	MaxBackups int    `json:"maxBackups"`
	MaxAgeDays int    `json:"maxAgeDays"`
}

// Settings is the full configuration document.
type Settings struct {
	Server  ServerSettings  `json:"server"`
	Catalog CatalogSettings `json:"catalog"`
	Matches MatchSettings   `json:"matches"`
	State   StateSettings   `json:"state"`
	Log     LogSettings     `json:"log"`
}

// DefaultSettings returns the first-run configuration.
func DefaultSettings() Settings {
	return Settings{
		Server: ServerSettings{Port: 3000},
		Catalog: CatalogSettings{
			CacheDatabasePath: "data/cache.db",
			CacheTTLHours:     24,
		},
		Matches: MatchSettings{TTLHours: 48},
		State:   StateSettings{Path: "data/appData.json"},
		Log: LogSettings{
			Path:       "data/reelmatch.log",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 30,
		},
	}
}

// ApplyEnv overlays environment variables onto the settings. API keys and
// the port are the knobs deployments usually set outside the file.
func (s *Settings) ApplyEnv() {
	if v := os.Getenv("TMDB_API_KEY"); v != "" {
		s.Catalog.TMDBAPIKey = v
	}
	if v := os.Getenv("OMDB_API_KEY"); v != "" {
		s.Catalog.OMDBAPIKey = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			s.Server.Port = port
		}
	}
}

// Manager loads and saves the settings document.
type Manager struct {
	path string
	mu   sync.Mutex
}

// NewManager creates a manager for the given settings path.
func NewManager(path string) *Manager {
	return &Manager{path: path}
}

// Load reads the settings. A missing file yields the defaults.
func (m *Manager) Load() (Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	return settings, nil
}

// Save writes the settings atomically.
func (m *Manager) Save(settings Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	dir := filepath.Dir(m.path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create settings directory: %w", err)
		}
	}

	tmp := m.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	if err := os.Rename(tmp, m.path); err != nil {
		return fmt.Errorf("replace settings: %w", err)
	}
	return nil
}
