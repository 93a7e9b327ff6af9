package stt

import (
	"context"
	"sync/atomic"
)

// Mock is a canned provider for tests and offline development.
type Mock struct {
	Result *Result
	Err    error
	// Block, when non-nil, delays completion until closed or the
	// context is cancelled.
	Block chan struct{}

	calls atomic.Int32
}

// NewMock returns a provider that always produces text.
func NewMock(text string) *Mock {
	return &Mock{Result: &Result{Text: text, Language: "en", Confidence: 0.95}}
}

func (m *Mock) Name() string        { return "mock" }
func (m *Mock) DisplayName() string { return "Mock Recognizer" }
func (m *Mock) IsLocal() bool       { return true }
func (m *Mock) IsReady() bool       { return true }
func (m *Mock) Close() error        { return nil }

// CallCount reports how many transcriptions were requested.
func (m *Mock) CallCount() int { return int(m.calls.Load()) }

func (m *Mock) Transcribe(ctx context.Context, samples []float32, language string) (*Result, error) {
	m.calls.Add(1)
	if m.Block != nil {
		select {
		case <-m.Block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.Err != nil {
		return nil, m.Err
	}
	out := *m.Result
	return &out, nil
}
