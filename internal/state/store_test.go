package state_test

import (
	"testing"

	"github.com/spf13/afero"

	"reelmatch/internal/state"
	"reelmatch/models"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	store := state.NewStoreWithFs(afero.NewMemMapFs(), "data/appData.json")

	st, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(st.Users) != 2 {
		t.Fatalf("users = %d, want 2", len(st.Users))
	}
	if st.Users[models.UserOneID].Name != models.UserOneDefaultName {
		t.Fatalf("user1 name = %q, want default", st.Users[models.UserOneID].Name)
	}
	if len(st.Matches) != 0 {
		t.Fatalf("matches = %v, want empty", st.Matches)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := state.NewStoreWithFs(fs, "data/appData.json")

	st := models.DefaultAppState()
	st.Users[models.UserOneID].Name = "Alex"
	st.Users[models.UserOneID].Liked = []int64{42, 43}
	st.Users[models.UserOneID].Preferences.GenreWeights = map[string]float64{"Drama": 2}
	st.Users[models.UserOneID].Preferences.AvgRating = 8.0

	if err := store.Save(st); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	user := loaded.Users[models.UserOneID]
	if user.Name != "Alex" {
		t.Fatalf("name = %q, want Alex", user.Name)
	}
	if len(user.Liked) != 2 || user.Liked[0] != 42 {
		t.Fatalf("liked = %v, want [42 43]", user.Liked)
	}
	if user.Preferences.AvgRating != 8.0 {
		t.Fatalf("avg rating = %v, want 8.0", user.Preferences.AvgRating)
	}

	// No temp file left behind after the rename.
	if ok, _ := afero.Exists(fs, "data/appData.json.tmp"); ok {
		t.Fatalf("temp file left behind")
	}
}

func TestLoadCorruptFileFails(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "appData.json", []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	store := state.NewStoreWithFs(fs, "appData.json")
	if _, err := store.Load(); err == nil {
		t.Fatalf("Load() accepted a corrupt snapshot")
	}
}
