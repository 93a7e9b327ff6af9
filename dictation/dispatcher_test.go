package dictation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/JagadeeshAjjada/speech-to-text-desktop-application/stt"
)

func sealedBuffer(seconds int) *AudioBuffer {
	b := NewAudioBuffer(16000)
	b.Append(make([]float32, seconds*16000))
	b.Seal()
	return b
}

func waitResult(t *testing.T, d *Dispatcher) Result {
	t.Helper()
	select {
	case r := <-d.Results():
		return r
	case <-time.After(waitTimeout):
		t.Fatalf("timed out waiting for result")
		return Result{}
	}
}

func TestDispatcherDeliversResult(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(stt.NewMock("hello"), 1)
	defer d.Close()

	d.Submit(sealedBuffer(1), 1, "en")

	r := waitResult(t, d)
	if r.Err != nil {
		t.Fatalf("unexpected error: %v", r.Err)
	}
	if r.SessionID != 1 || r.Text != "hello" {
		t.Fatalf("unexpected result: %+v", r)
	}
}

func TestDispatcherDeliversEngineError(t *testing.T) {
	t.Parallel()

	m := stt.NewMock("")
	m.Err = errors.New("model exploded")
	d := NewDispatcher(m, 1)
	defer d.Close()

	d.Submit(sealedBuffer(1), 7, "")

	r := waitResult(t, d)
	if r.SessionID != 7 || r.Err == nil {
		t.Fatalf("expected error result for session 7, got %+v", r)
	}
}

func TestSubmitCancelsOlderInflight(t *testing.T) {
	t.Parallel()

	m := stt.NewMock("late")
	m.Block = make(chan struct{})
	d := NewDispatcher(m, 1)
	defer d.Close()

	d.Submit(sealedBuffer(1), 1, "")
	// Wait until the first request is inside the engine.
	for m.CallCount() == 0 {
		time.Sleep(time.Millisecond)
	}
	d.Submit(sealedBuffer(1), 2, "")

	r1 := waitResult(t, d)
	if r1.SessionID != 1 || !errors.Is(r1.Err, context.Canceled) {
		t.Fatalf("expected cancelled result for session 1, got %+v", r1)
	}

	close(m.Block)
	r2 := waitResult(t, d)
	if r2.SessionID != 2 || r2.Err != nil {
		t.Fatalf("expected clean result for session 2, got %+v", r2)
	}
}

func TestExplicitCancel(t *testing.T) {
	t.Parallel()

	m := stt.NewMock("never")
	m.Block = make(chan struct{})
	d := NewDispatcher(m, 1)
	defer d.Close()

	cancel := d.Submit(sealedBuffer(1), 1, "")
	cancel()

	r := waitResult(t, d)
	if !errors.Is(r.Err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", r.Err)
	}
}

func TestCloseStopsWorkers(t *testing.T) {
	t.Parallel()

	m := stt.NewMock("hang")
	m.Block = make(chan struct{})
	d := NewDispatcher(m, 1)

	d.Submit(sealedBuffer(1), 1, "")
	d.Close()

	// Results is closed after the cancelled worker drains.
	for range d.Results() {
	}
}
