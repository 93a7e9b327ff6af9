// Package config handles application configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	appName        = "voicetype"
	configFileName = "config.json"
)

// Mode selects how the hotkey drives a recording session.
type Mode string

const (
	// ModePushToTalk records only while the hotkey is physically held.
	ModePushToTalk Mode = "push_to_talk"
	// ModeToggle starts recording on one press and stops on the next.
	ModeToggle Mode = "toggle"
)

// Config represents the application configuration. The dictation service
// never reads it directly; it takes an immutable Snapshot at session arm
// time, so edits only apply to the next session.
type Config struct {
	Mode      Mode            `json:"mode"`
	Hotkeys   HotkeysConfig   `json:"hotkeys"`
	Audio     AudioConfig     `json:"audio"`
	Recording RecordingConfig `json:"recording"`
	STT       STTConfig       `json:"stt"`
	Post      PostConfig      `json:"post_processing"`
	Injection InjectionConfig `json:"injection"`
	History   HistoryConfig   `json:"history"`
	Sounds    SoundsConfig    `json:"sounds"`
}

// HotkeysConfig holds the global key combinations.
type HotkeysConfig struct {
	PushToTalk string `json:"push_to_talk"`
	Toggle     string `json:"toggle"`
}

// AudioConfig describes microphone capture and per-frame conditioning.
type AudioConfig struct {
	SampleRate    int     `json:"sample_rate"`
	Channels      int     `json:"channels"`
	FrameSize     int     `json:"frame_size"`
	GateThreshold float64 `json:"gate_threshold"`
	GainTarget    float64 `json:"gain_target"`
	RingFrames    int     `json:"ring_frames"`
}

// RecordingConfig bounds a single session.
type RecordingConfig struct {
	MaxDurationMS    int `json:"max_duration_ms"`
	MinDurationMS    int `json:"min_duration_ms"`
	SilenceTimeoutMS int `json:"silence_timeout_ms"`
}

// MaxDuration returns the push-to-talk auto-seal bound.
func (r RecordingConfig) MaxDuration() time.Duration {
	return time.Duration(r.MaxDurationMS) * time.Millisecond
}

// MinDuration returns the accidental-tap discard threshold.
func (r RecordingConfig) MinDuration() time.Duration {
	return time.Duration(r.MinDurationMS) * time.Millisecond
}

// SilenceTimeout returns the toggle-mode silence auto-stop bound.
// Zero disables auto-stop.
func (r RecordingConfig) SilenceTimeout() time.Duration {
	return time.Duration(r.SilenceTimeoutMS) * time.Millisecond
}

// STTConfig selects and configures the transcription engine.
type STTConfig struct {
	Provider string `json:"provider"`
	APIKey   string `json:"api_key"`
	BaseURL  string `json:"base_url,omitempty"`
	Model    string `json:"model"`
	Language string `json:"language"`
	PoolSize int    `json:"pool_size"`
}

// PostConfig controls transcript post-processing.
type PostConfig struct {
	AutoCapitalize bool     `json:"auto_capitalize"`
	AutoPunctuate  bool     `json:"auto_punctuate"`
	RemoveFillers  bool     `json:"remove_fillers"`
	FillerWords    []string `json:"filler_words"`
	TargetLanguage string   `json:"target_language"`
}

// InjectionConfig controls how final text is delivered.
type InjectionConfig struct {
	// KeystrokeMaxChars is the longest text injected as synthetic
	// keystrokes; anything longer goes through clipboard paste.
	KeystrokeMaxChars int `json:"keystroke_max_chars"`
	RestoreDelayMS    int `json:"restore_delay_ms"`
}

// RestoreDelay returns how long to wait before restoring the clipboard
// after triggering paste, giving the target app time to read it.
func (i InjectionConfig) RestoreDelay() time.Duration {
	return time.Duration(i.RestoreDelayMS) * time.Millisecond
}

// HistoryConfig controls the local transcript history store.
type HistoryConfig struct {
	Enabled  bool   `json:"enabled"`
	Path     string `json:"path,omitempty"`
	TTLHours int    `json:"ttl_hours"`
}

// TTL returns the retention period for history entries.
func (h HistoryConfig) TTL() time.Duration {
	return time.Duration(h.TTLHours) * time.Hour
}

// SoundsConfig controls audible start/stop cues.
type SoundsConfig struct {
	Enabled bool `json:"enabled"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Mode: ModePushToTalk,
		Hotkeys: HotkeysConfig{
			PushToTalk: "ctrl+space",
			Toggle:     "ctrl+shift+r",
		},
		Audio: AudioConfig{
			SampleRate:    16000, // Whisper expects 16kHz
			Channels:      1,
			FrameSize:     1024,
			GateThreshold: 0.02,
			GainTarget:    0.2,
			RingFrames:    64,
		},
		Recording: RecordingConfig{
			MaxDurationMS:    90_000,
			MinDurationMS:    300,
			SilenceTimeoutMS: 2000,
		},
		STT: STTConfig{
			Provider: "whisper-api",
			Model:    "whisper-1",
			Language: "auto",
			PoolSize: 1,
		},
		Post: PostConfig{
			AutoCapitalize: true,
			AutoPunctuate:  true,
			RemoveFillers:  true,
			FillerWords:    []string{"um", "uh", "er", "ah", "hmm", "you know"},
			TargetLanguage: "en",
		},
		Injection: InjectionConfig{
			KeystrokeMaxChars: 64,
			RestoreDelayMS:    500,
		},
		History: HistoryConfig{
			Enabled:  true,
			TTLHours: 24 * 30,
		},
		Sounds: SoundsConfig{Enabled: true},
	}
}

// Load loads configuration from the default location.
// Returns defaults if the file doesn't exist.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, fmt.Errorf("get config path: %w", err)
	}
	return LoadFrom(path)
}

// LoadFrom loads configuration from an explicit path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save persists the configuration to the default location.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return fmt.Errorf("get config path: %w", err)
	}
	return c.SaveTo(path)
}

// SaveTo persists the configuration to an explicit path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate checks fields that have no safe fallback.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModePushToTalk, ModeToggle:
	default:
		return fmt.Errorf("invalid mode: %q", c.Mode)
	}
	if c.Audio.SampleRate <= 0 {
		return fmt.Errorf("invalid sample rate: %d", c.Audio.SampleRate)
	}
	if c.Recording.MinDurationMS < 0 || c.Recording.MaxDurationMS <= 0 {
		return fmt.Errorf("invalid recording bounds: min=%dms max=%dms",
			c.Recording.MinDurationMS, c.Recording.MaxDurationMS)
	}
	return nil
}

// applyDefaults fills zero-valued fields a partial config file left out.
func (c *Config) applyDefaults() {
	def := Default()
	if c.Mode == "" {
		c.Mode = def.Mode
	}
	if c.Hotkeys.PushToTalk == "" {
		c.Hotkeys.PushToTalk = def.Hotkeys.PushToTalk
	}
	if c.Hotkeys.Toggle == "" {
		c.Hotkeys.Toggle = def.Hotkeys.Toggle
	}
	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = def.Audio.SampleRate
	}
	if c.Audio.Channels == 0 {
		c.Audio.Channels = def.Audio.Channels
	}
	if c.Audio.FrameSize == 0 {
		c.Audio.FrameSize = def.Audio.FrameSize
	}
	if c.Audio.RingFrames == 0 {
		c.Audio.RingFrames = def.Audio.RingFrames
	}
	if c.Audio.GainTarget == 0 {
		c.Audio.GainTarget = def.Audio.GainTarget
	}
	if c.Recording.MaxDurationMS == 0 {
		c.Recording.MaxDurationMS = def.Recording.MaxDurationMS
	}
	if c.Recording.MinDurationMS == 0 {
		c.Recording.MinDurationMS = def.Recording.MinDurationMS
	}
	if c.STT.Provider == "" {
		c.STT.Provider = def.STT.Provider
	}
	if c.STT.Model == "" {
		c.STT.Model = def.STT.Model
	}
	if c.STT.PoolSize == 0 {
		c.STT.PoolSize = def.STT.PoolSize
	}
	if c.Post.FillerWords == nil {
		c.Post.FillerWords = append([]string(nil), def.Post.FillerWords...)
	}
	if c.Post.TargetLanguage == "" {
		c.Post.TargetLanguage = def.Post.TargetLanguage
	}
	if c.Injection.KeystrokeMaxChars == 0 {
		c.Injection.KeystrokeMaxChars = def.Injection.KeystrokeMaxChars
	}
	if c.Injection.RestoreDelayMS == 0 {
		c.Injection.RestoreDelayMS = def.Injection.RestoreDelayMS
	}
	if c.History.TTLHours == 0 {
		c.History.TTLHours = def.History.TTLHours
	}
}

// Snapshot returns a deep value copy, safe to hold for a session's
// lifetime while the underlying config file keeps changing.
func (c *Config) Snapshot() Config {
	out := *c
	out.Post.FillerWords = append([]string(nil), c.Post.FillerWords...)
	return out
}

// Path returns the default config file location.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get user config dir: %w", err)
	}
	return filepath.Join(dir, appName, configFileName), nil
}

// DataDir returns the default directory for on-disk state (history).
func DataDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get user config dir: %w", err)
	}
	return filepath.Join(dir, appName), nil
}
