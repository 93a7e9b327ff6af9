// Package stt provides speech-to-text provider interface and implementations.
package stt

import (
	"context"
	"fmt"
)

// Result represents the result of a transcription.
type Result struct {
	Text       string  `json:"text"`       // Transcribed text
	Language   string  `json:"language"`   // Detected language code, may be empty
	Confidence float64 `json:"confidence"` // Recognition confidence 0-1
}

// Provider defines the interface for speech-to-text engines. Both local
// (whisper.cpp) and remote (OpenAI, Deepgram) implementations satisfy it.
//
// The engine is opaque: it consumes a sealed PCM buffer and produces
// text. Cancellation via ctx is best-effort; callers must not depend on
// it being honored promptly.
type Provider interface {
	// Name returns the provider identifier.
	Name() string

	// DisplayName returns the human-readable provider name.
	DisplayName() string

	// IsLocal returns true if the provider runs without network calls.
	IsLocal() bool

	// IsReady returns true if the provider can accept buffers.
	IsReady() bool

	// Transcribe converts audio samples to text.
	// samples: mono PCM float32 at the provider's configured sample rate
	// language: source language code (empty or "auto" for auto-detect)
	Transcribe(ctx context.Context, samples []float32, language string) (*Result, error)

	// Close releases resources held by the provider.
	Close() error
}

// Registry holds registered STT providers.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry creates a new provider registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Register adds a provider to the registry.
func (r *Registry) Register(p Provider) {
	r.providers[p.Name()] = p
}

// Get returns a provider by name, nil if absent.
func (r *Registry) Get(name string) Provider {
	return r.providers[name]
}

// List returns all registered providers.
func (r *Registry) List() []Provider {
	result := make([]Provider, 0, len(r.providers))
	for _, p := range r.providers {
		result = append(result, p)
	}
	return result
}

// Pick returns the named provider, or any ready one when the name is
// empty or unknown.
func (r *Registry) Pick(name string) (Provider, error) {
	if p := r.Get(name); p != nil {
		return p, nil
	}
	for _, p := range r.providers {
		if p.IsReady() {
			return p, nil
		}
	}
	return nil, fmt.Errorf("no ready STT provider (requested %q)", name)
}

// Close releases all providers.
func (r *Registry) Close() error {
	for _, p := range r.providers {
		if err := p.Close(); err != nil {
			return err
		}
	}
	return nil
}
