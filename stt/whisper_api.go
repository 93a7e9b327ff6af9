package stt

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// WhisperAPI implements Provider using OpenAI's audio transcription API.
type WhisperAPI struct {
	client     openai.Client
	model      string
	sampleRate int
	ready      bool
}

// WhisperAPIConfig holds configuration for WhisperAPI.
type WhisperAPIConfig struct {
	APIKey     string
	BaseURL    string // Optional, defaults to OpenAI's API
	Model      string // Optional, defaults to "whisper-1"
	SampleRate int    // Optional, defaults to 16000
}

// NewWhisperAPI creates a new WhisperAPI provider.
func NewWhisperAPI(cfg WhisperAPIConfig) *WhisperAPI {
	if cfg.Model == "" {
		cfg.Model = "whisper-1"
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 16000
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &WhisperAPI{
		client:     openai.NewClient(opts...),
		model:      cfg.Model,
		sampleRate: cfg.SampleRate,
		ready:      cfg.APIKey != "",
	}
}

func (w *WhisperAPI) Name() string        { return "whisper-api" }
func (w *WhisperAPI) DisplayName() string { return "OpenAI Whisper API" }
func (w *WhisperAPI) IsLocal() bool       { return false }
func (w *WhisperAPI) IsReady() bool       { return w.ready }
func (w *WhisperAPI) Close() error        { return nil }

// Transcribe uploads the buffer as WAV and returns the recognized text.
// The API reports no confidence; language detection is left to the
// post-processing layer when the hint is empty.
func (w *WhisperAPI) Transcribe(ctx context.Context, samples []float32, language string) (*Result, error) {
	if !w.ready {
		return nil, fmt.Errorf("whisper-api: API key required")
	}

	wavData := float32ToWAV(samples, w.sampleRate)

	params := openai.AudioTranscriptionNewParams{
		Model: openai.AudioModel(w.model),
		File:  openai.File(bytes.NewReader(wavData), "audio.wav", "audio/wav"),
	}
	var lang string
	if language != "" && language != "auto" {
		// The API rejects "auto"; omitting the field means auto-detect.
		params.Language = openai.String(language)
		lang = language
	}

	resp, err := w.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("whisper-api transcribe: %w", err)
	}

	return &Result{
		Text:       strings.TrimSpace(resp.Text),
		Language:   lang,
		Confidence: 1.0, // API doesn't return confidence, assume high
	}, nil
}
