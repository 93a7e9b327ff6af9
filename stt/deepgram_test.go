package stt

import (
	"strings"
	"testing"
)

func TestNewDeepgramDefaults(t *testing.T) {
	t.Parallel()

	d := NewDeepgram(DeepgramConfig{APIKey: "k"})
	if d.cfg.BaseURL != "https://api.deepgram.com/v1" {
		t.Fatalf("unexpected base url: %q", d.cfg.BaseURL)
	}
	if d.cfg.Model != "nova-2" {
		t.Fatalf("unexpected model: %q", d.cfg.Model)
	}
	if d.cfg.SampleRate != 16000 {
		t.Fatalf("unexpected sample rate: %d", d.cfg.SampleRate)
	}
	if d.cfg.ChunkSize != 4096 {
		t.Fatalf("unexpected chunk size: %d", d.cfg.ChunkSize)
	}
}

func TestDeepgramReadiness(t *testing.T) {
	t.Parallel()

	if NewDeepgram(DeepgramConfig{}).IsReady() {
		t.Fatalf("expected provider without API key to be not ready")
	}
	if !NewDeepgram(DeepgramConfig{APIKey: "k"}).IsReady() {
		t.Fatalf("expected provider with API key to be ready")
	}
}

func TestListenURLDefaults(t *testing.T) {
	t.Parallel()

	d := NewDeepgram(DeepgramConfig{APIKey: "k"})
	url, err := d.listenURL("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(url, "wss://api.deepgram.com/v1/listen") {
		t.Fatalf("unexpected ws url: %s", url)
	}
	if !strings.Contains(url, "encoding=linear16") {
		t.Fatalf("expected encoding in url: %s", url)
	}
	if !strings.Contains(url, "sample_rate=16000") {
		t.Fatalf("expected sample_rate in url: %s", url)
	}
	if !strings.Contains(url, "channels=1") {
		t.Fatalf("expected channels in url: %s", url)
	}
	if strings.Contains(url, "language=") {
		t.Fatalf("expected no language param in url: %s", url)
	}
}

func TestListenURLWithLanguage(t *testing.T) {
	t.Parallel()

	d := NewDeepgram(DeepgramConfig{APIKey: "k", BaseURL: "http://localhost:8080/v1"})
	url, err := d.listenURL("en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(url, "ws://localhost:8080/v1/listen") {
		t.Fatalf("unexpected ws url: %s", url)
	}
	if !strings.Contains(url, "language=en") {
		t.Fatalf("expected language in url: %s", url)
	}
}

func TestListenURLAutoLanguageOmitted(t *testing.T) {
	t.Parallel()

	d := NewDeepgram(DeepgramConfig{APIKey: "k"})
	url, err := d.listenURL("auto")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(url, "language=") {
		t.Fatalf("expected auto to omit language param: %s", url)
	}
}

func TestListenURLInvalidBase(t *testing.T) {
	t.Parallel()

	d := NewDeepgram(DeepgramConfig{APIKey: "k", BaseURL: ":// bad"})
	if _, err := d.listenURL(""); err == nil {
		t.Fatalf("expected invalid base url error")
	}
}
