package config_test

import (
	"path/filepath"
	"testing"

	"reelmatch/config"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	mgr := config.NewManager(filepath.Join(t.TempDir(), "settings.json"))

	settings, err := mgr.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if settings.Server.Port != 3000 {
		t.Fatalf("default port = %d, want 3000", settings.Server.Port)
	}
	if settings.Matches.TTLHours != 48 {
		t.Fatalf("default match TTL = %d, want 48", settings.Matches.TTLHours)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	mgr := config.NewManager(path)

	settings := config.DefaultSettings()
	settings.Server.Port = 8080
	settings.Catalog.TMDBAPIKey = "abc"
	if err := mgr.Save(settings); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := mgr.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Server.Port != 8080 || loaded.Catalog.TMDBAPIKey != "abc" {
		t.Fatalf("loaded = %+v", loaded)
	}
}

func TestApplyEnvOverridesKeysAndPort(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "env-tmdb")
	t.Setenv("OMDB_API_KEY", "env-omdb")
	t.Setenv("PORT", "9090")

	settings := config.DefaultSettings()
	settings.ApplyEnv()

	if settings.Catalog.TMDBAPIKey != "env-tmdb" {
		t.Fatalf("TMDB key = %q", settings.Catalog.TMDBAPIKey)
	}
	if settings.Catalog.OMDBAPIKey != "env-omdb" {
		t.Fatalf("OMDB key = %q", settings.Catalog.OMDBAPIKey)
	}
	if settings.Server.Port != 9090 {
		t.Fatalf("port = %d, want 9090", settings.Server.Port)
	}
}
