// Package types holds transient data types shared across the pipeline.
package types

import "time"

// Status identifies the pipeline state surfaced to the UI layer.
type Status string

const (
	StatusIdle              Status = "idle"
	StatusRecording         Status = "recording"
	StatusTranscribing      Status = "transcribing"
	StatusDeviceUnavailable Status = "device_unavailable"
	StatusEngineError       Status = "engine_error"
	StatusInjectionFailed   Status = "injection_failed"
)

// StatusEvent is emitted by the dictation service on every user-visible
// state change. The service never waits for acknowledgement.
type StatusEvent struct {
	Status    Status    `json:"status"`
	SessionID uint64    `json:"sessionId,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	Time      time.Time `json:"time"`
}

// InsertionStyle selects how final text reaches the focused application.
type InsertionStyle string

const (
	// StyleKeystrokes types the text as synthetic key events. Works in
	// fields that reject programmatic paste, but latency grows with length.
	StyleKeystrokes InsertionStyle = "keystrokes"
	// StyleClipboard pastes via the clipboard with save-and-restore.
	StyleClipboard InsertionStyle = "clipboard"
)

// ProcessedText is the final post-processed transcript handed to the
// injector. It is consumed immediately and never persisted.
type ProcessedText struct {
	Text  string         `json:"text"`
	Style InsertionStyle `json:"style"`
}
