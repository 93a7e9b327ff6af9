package stt

import (
	"context"
	"encoding/binary"
	"errors"
	"testing"
)

type notReady struct{ Mock }

func (*notReady) Name() string  { return "offline" }
func (*notReady) IsReady() bool { return false }

func TestRegistryPickByName(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	m := NewMock("hello")
	r.Register(m)
	r.Register(&notReady{})

	p, err := r.Pick("mock")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name() != "mock" {
		t.Fatalf("picked wrong provider: %s", p.Name())
	}
}

func TestRegistryPickFallsBackToReady(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register(&notReady{})
	r.Register(NewMock("hello"))

	p, err := r.Pick("missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name() != "mock" {
		t.Fatalf("expected fallback to ready provider, got %s", p.Name())
	}
}

func TestRegistryPickNoneReady(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register(&notReady{})

	if _, err := r.Pick(""); err == nil {
		t.Fatalf("expected error when no provider is ready")
	}
}

func TestMockCancellation(t *testing.T) {
	t.Parallel()

	m := NewMock("hello")
	m.Block = make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Transcribe(ctx, nil, "")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if m.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", m.CallCount())
	}
}

func TestFloat32ToWAVHeader(t *testing.T) {
	t.Parallel()

	samples := []float32{0, 0.5, -0.5, 1, -1}
	data := float32ToWAV(samples, 16000)

	if len(data) != 44+len(samples)*2 {
		t.Fatalf("unexpected wav size: %d", len(data))
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		t.Fatalf("bad RIFF header: %q %q", data[0:4], data[8:12])
	}
	if got := binary.LittleEndian.Uint32(data[24:28]); got != 16000 {
		t.Fatalf("unexpected sample rate: %d", got)
	}
	if got := binary.LittleEndian.Uint16(data[22:24]); got != 1 {
		t.Fatalf("unexpected channel count: %d", got)
	}
	if got := binary.LittleEndian.Uint32(data[40:44]); got != uint32(len(samples)*2) {
		t.Fatalf("unexpected data chunk size: %d", got)
	}
}

func TestFloat32ToPCM16Clamps(t *testing.T) {
	t.Parallel()

	pcm := float32ToPCM16([]float32{2, -2})
	if got := int16(binary.LittleEndian.Uint16(pcm[0:2])); got != 32767 {
		t.Fatalf("expected positive clamp to 32767, got %d", got)
	}
	if got := int16(binary.LittleEndian.Uint16(pcm[2:4])); got != -32767 {
		t.Fatalf("expected negative clamp to -32767, got %d", got)
	}
}
