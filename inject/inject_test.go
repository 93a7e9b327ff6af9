package inject

import (
	"errors"
	"testing"
	"time"

	"github.com/JagadeeshAjjada/speech-to-text-desktop-application/internal/types"
)

type fakeImpl struct {
	typed    []string
	pastes   int
	typeErr  error
	pasteErr error
}

func (f *fakeImpl) typeText(text string) error {
	if f.typeErr != nil {
		return f.typeErr
	}
	f.typed = append(f.typed, text)
	return nil
}

func (f *fakeImpl) pasteChord() error {
	if f.pasteErr != nil {
		return f.pasteErr
	}
	f.pastes++
	return nil
}

type fakeClip struct {
	content string
	history []string
	getErr  error
	setErr  error
}

func (f *fakeClip) GetText() (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	return f.content, nil
}

func (f *fakeClip) SetText(text string) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.content = text
	f.history = append(f.history, text)
	return nil
}

func newTestInjector(impl *fakeImpl, clip *fakeClip) *Injector {
	return newInjector(Config{RestoreDelay: time.Millisecond}, impl, clip)
}

func TestInsertKeystrokes(t *testing.T) {
	t.Parallel()

	impl := &fakeImpl{}
	clip := &fakeClip{content: "previous"}
	inj := newTestInjector(impl, clip)

	err := inj.Insert(types.ProcessedText{Text: "hello", Style: types.StyleKeystrokes})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(impl.typed) != 1 || impl.typed[0] != "hello" {
		t.Fatalf("unexpected typed text: %v", impl.typed)
	}
	if len(clip.history) != 0 {
		t.Fatalf("keystroke insertion must not touch the clipboard: %v", clip.history)
	}
}

func TestInsertClipboardSavesAndRestores(t *testing.T) {
	t.Parallel()

	impl := &fakeImpl{}
	clip := &fakeClip{content: "previous"}
	inj := newTestInjector(impl, clip)

	err := inj.Insert(types.ProcessedText{Text: "dictated text", Style: types.StyleClipboard})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if impl.pastes != 1 {
		t.Fatalf("expected 1 paste, got %d", impl.pastes)
	}

	want := []string{"dictated text", "previous"}
	if len(clip.history) != 2 || clip.history[0] != want[0] || clip.history[1] != want[1] {
		t.Fatalf("unexpected clipboard writes: %v, want %v", clip.history, want)
	}
	if clip.content != "previous" {
		t.Fatalf("clipboard not restored: %q", clip.content)
	}
}

func TestInsertClipboardRestoresOnPasteFailure(t *testing.T) {
	t.Parallel()

	impl := &fakeImpl{pasteErr: errors.New("event tap denied")}
	clip := &fakeClip{content: "previous"}
	inj := newTestInjector(impl, clip)

	err := inj.Insert(types.ProcessedText{Text: "dictated text", Style: types.StyleClipboard})
	if !errors.Is(err, ErrInjectionFailed) {
		t.Fatalf("expected ErrInjectionFailed, got %v", err)
	}
	if clip.content != "previous" {
		t.Fatalf("clipboard not restored after failure: %q", clip.content)
	}
}

func TestInsertKeystrokeFailure(t *testing.T) {
	t.Parallel()

	impl := &fakeImpl{typeErr: errors.New("event tap denied")}
	inj := newTestInjector(impl, &fakeClip{})

	err := inj.Insert(types.ProcessedText{Text: "hello", Style: types.StyleKeystrokes})
	if !errors.Is(err, ErrInjectionFailed) {
		t.Fatalf("expected ErrInjectionFailed, got %v", err)
	}
	if len(impl.typed) != 0 {
		t.Fatalf("expected no typed text, got %v", impl.typed)
	}
}

func TestInsertEmptyTextIsNoop(t *testing.T) {
	t.Parallel()

	impl := &fakeImpl{}
	clip := &fakeClip{content: "previous"}
	inj := newTestInjector(impl, clip)

	if err := inj.Insert(types.ProcessedText{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(impl.typed) != 0 || impl.pastes != 0 || len(clip.history) != 0 {
		t.Fatalf("empty insertion must be a no-op")
	}
}
