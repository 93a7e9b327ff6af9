package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// WhisperLocal implements Provider using a local whisper.cpp install.
// It shells out to the whisper CLI, so transcription works fully
// offline once a model file is present.
type WhisperLocal struct {
	modelPath string
	binPath   string
}

// WhisperLocalConfig holds configuration for WhisperLocal.
type WhisperLocalConfig struct {
	ModelPath string // Path to a ggml model file
	BinPath   string // Path to the whisper binary (optional, found on PATH)
}

// NewWhisperLocal creates a new WhisperLocal provider.
func NewWhisperLocal(cfg WhisperLocalConfig) (*WhisperLocal, error) {
	if cfg.ModelPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		cfg.ModelPath = filepath.Join(homeDir, ".voicetype", "models", "ggml-base.bin")
	}

	w := &WhisperLocal{modelPath: cfg.ModelPath, binPath: cfg.BinPath}
	if w.binPath == "" {
		w.binPath = findWhisperBinary()
	}
	return w, nil
}

func (w *WhisperLocal) Name() string { return "whisper-local" }

func (w *WhisperLocal) DisplayName() string {
	if w.binPath == "" {
		return "Whisper Local (whisper.cpp not installed)"
	}
	return "Whisper Local"
}

func (w *WhisperLocal) IsLocal() bool { return true }

func (w *WhisperLocal) IsReady() bool {
	if w.binPath == "" {
		return false
	}
	_, err := os.Stat(w.modelPath)
	return err == nil
}

func (w *WhisperLocal) Close() error { return nil }

// Transcribe converts audio samples to text using local whisper.cpp.
func (w *WhisperLocal) Transcribe(ctx context.Context, samples []float32, language string) (*Result, error) {
	if !w.IsReady() {
		return nil, fmt.Errorf("whisper-local: binary or model missing (model: %s)", w.modelPath)
	}

	wavData := float32ToWAV(samples, 16000)

	audioPath := filepath.Join(os.TempDir(), fmt.Sprintf("voicetype_%d.wav", time.Now().UnixNano()))
	if err := os.WriteFile(audioPath, wavData, 0644); err != nil {
		return nil, fmt.Errorf("write audio file: %w", err)
	}
	defer os.Remove(audioPath)

	args := []string{
		"-m", w.modelPath,
		"-f", audioPath,
		"-oj", // JSON to stdout
		"--no-prints",
	}
	if language != "" && language != "auto" {
		args = append(args, "-l", language)
	}

	cmd := exec.CommandContext(ctx, w.binPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("whisper.cpp failed: %w, stderr: %s", err, stderr.String())
	}

	var out whisperCppOutput
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		// Older builds print plain text.
		return &Result{
			Text:       strings.TrimSpace(stdout.String()),
			Language:   language,
			Confidence: 0.8,
		}, nil
	}

	var sb strings.Builder
	for _, seg := range out.Transcription {
		sb.WriteString(seg.Text)
	}

	return &Result{
		Text:       strings.TrimSpace(sb.String()),
		Language:   out.Result.Language,
		Confidence: 0.9,
	}, nil
}

// whisperCppOutput mirrors whisper.cpp's -oj JSON shape.
type whisperCppOutput struct {
	Result struct {
		Language string `json:"language"`
	} `json:"result"`
	Transcription []struct {
		Text string `json:"text"`
	} `json:"transcription"`
}

func findWhisperBinary() string {
	// whisper-cli is the Homebrew name.
	for _, name := range []string{"whisper-cli", "whisper-cpp", "whisper"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}
