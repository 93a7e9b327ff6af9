package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()

	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Mode != ModePushToTalk {
		t.Fatalf("unexpected default mode: %q", cfg.Mode)
	}
	if cfg.Audio.SampleRate != 16000 {
		t.Fatalf("unexpected default sample rate: %d", cfg.Audio.SampleRate)
	}
	if cfg.Recording.MinDuration() != 300*time.Millisecond {
		t.Fatalf("unexpected min duration: %v", cfg.Recording.MinDuration())
	}
}

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Mode != Default().Mode {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadFromPartialFileFillsDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.json")
	partial := `{"mode":"toggle","stt":{"provider":"deepgram"}}`
	if err := os.WriteFile(path, []byte(partial), 0644); err != nil {
		t.Fatalf("write partial config: %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Mode != ModeToggle {
		t.Fatalf("explicit mode lost: %q", cfg.Mode)
	}
	if cfg.STT.Provider != "deepgram" {
		t.Fatalf("explicit provider lost: %q", cfg.STT.Provider)
	}
	if cfg.Audio.SampleRate != 16000 {
		t.Fatalf("default sample rate not applied: %d", cfg.Audio.SampleRate)
	}
	if len(cfg.Post.FillerWords) == 0 {
		t.Fatalf("default filler words not applied")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.json")
	cfg := Default()
	cfg.Mode = ModeToggle
	cfg.Recording.MaxDurationMS = 120_000
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Mode != ModeToggle || loaded.Recording.MaxDurationMS != 120_000 {
		t.Fatalf("round trip mismatch: %+v", loaded)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad mode", func(c *Config) { c.Mode = "hold_to_speak" }},
		{"zero sample rate", func(c *Config) { c.Audio.SampleRate = 0 }},
		{"negative min duration", func(c *Config) { c.Recording.MinDurationMS = -1 }},
		{"zero max duration", func(c *Config) { c.Recording.MaxDurationMS = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	t.Parallel()

	cfg := Default()
	snap := cfg.Snapshot()
	cfg.Post.FillerWords[0] = "mutated"
	if snap.Post.FillerWords[0] == "mutated" {
		t.Fatalf("snapshot shares filler word slice with source")
	}
}

func TestStoreReloadsOnFileChange(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.json")
	cfg := Default()
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	store := NewStore(cfg, path)
	if err := store.Watch(); err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer store.Close()

	updated := Default()
	updated.Mode = ModeToggle
	if err := updated.SaveTo(path); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if store.Snapshot().Mode == ModeToggle {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("store did not pick up the rewritten config")
}

func TestStoreUpdateRejectsInvalid(t *testing.T) {
	t.Parallel()

	store := NewStore(Default(), filepath.Join(t.TempDir(), "config.json"))
	bad := Default()
	bad.Audio.SampleRate = 0
	if err := store.Update(bad); err == nil {
		t.Fatalf("expected validation error")
	}
	if store.Snapshot().Audio.SampleRate != 16000 {
		t.Fatalf("invalid update leaked into store")
	}
}
