// Package inject places processed text into the focused application,
// either by synthesizing keystrokes or through a clipboard paste.
package inject

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/JagadeeshAjjada/speech-to-text-desktop-application/clipboard"
	"github.com/JagadeeshAjjada/speech-to-text-desktop-application/internal/types"
)

var (
	// ErrNoFocusTarget is returned when no application accepts input.
	ErrNoFocusTarget = errors.New("inject: no focused input target")

	// ErrInjectionFailed is returned when the OS rejects the insertion.
	ErrInjectionFailed = errors.New("inject: insertion failed")
)

// Config controls insertion behavior.
type Config struct {
	// RestoreDelay is how long to wait after a paste before the saved
	// clipboard content is written back. The paste consumer must read
	// the pasteboard before it is restored.
	RestoreDelay time.Duration
}

// pasteboard abstracts the system clipboard for save and restore.
type pasteboard interface {
	GetText() (string, error)
	SetText(text string) error
}

type systemPasteboard struct{}

func (systemPasteboard) GetText() (string, error) { return clipboard.GetText() }
func (systemPasteboard) SetText(s string) error   { return clipboard.SetText(s) }

// injectorImpl is the platform backend.
type injectorImpl interface {
	// typeText synthesizes the text as individual key events.
	typeText(text string) error
	// pasteChord presses the platform paste shortcut.
	pasteChord() error
}

// Injector inserts text into the focused application. Insertions are
// serialized; concurrent calls queue on an internal mutex.
type Injector struct {
	cfg  Config
	mu   sync.Mutex
	impl injectorImpl
	clip pasteboard
}

// New creates an injector backed by the platform implementation.
func New(cfg Config) *Injector {
	return newInjector(cfg, newInjectorImpl(), systemPasteboard{})
}

func newInjector(cfg Config, impl injectorImpl, clip pasteboard) *Injector {
	if cfg.RestoreDelay <= 0 {
		cfg.RestoreDelay = 500 * time.Millisecond
	}
	return &Injector{cfg: cfg, impl: impl, clip: clip}
}

// Insert places the text according to its insertion style. It never
// retries; the caller surfaces failures to the user.
func (inj *Injector) Insert(p types.ProcessedText) error {
	if p.Text == "" {
		return nil
	}

	inj.mu.Lock()
	defer inj.mu.Unlock()

	switch p.Style {
	case types.StyleClipboard:
		return inj.insertViaClipboard(p.Text)
	default:
		return inj.typeKeystrokes(p.Text)
	}
}

func (inj *Injector) typeKeystrokes(text string) error {
	if err := inj.impl.typeText(text); err != nil {
		return fmt.Errorf("%w: %v", ErrInjectionFailed, err)
	}
	return nil
}

// insertViaClipboard saves the current clipboard, writes the text,
// triggers a paste, and restores the previous content. The restore
// runs even when the paste fails.
func (inj *Injector) insertViaClipboard(text string) error {
	saved, err := inj.clip.GetText()
	if err != nil {
		saved = ""
		slog.Warn("failed to read clipboard before insertion", "error", err)
	}

	defer func() {
		if err := inj.clip.SetText(saved); err != nil {
			slog.Warn("failed to restore clipboard", "error", err)
		}
	}()

	if err := inj.clip.SetText(text); err != nil {
		return fmt.Errorf("%w: set clipboard: %v", ErrInjectionFailed, err)
	}
	if err := inj.impl.pasteChord(); err != nil {
		return fmt.Errorf("%w: %v", ErrInjectionFailed, err)
	}

	// Give the focused application time to consume the pasteboard.
	time.Sleep(inj.cfg.RestoreDelay)
	return nil
}
