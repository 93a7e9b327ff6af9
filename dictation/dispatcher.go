package dictation

import (
	"context"
	"log/slog"
	"sync"

	"github.com/JagadeeshAjjada/speech-to-text-desktop-application/stt"
)

// Result is a finished transcription attempt, tagged with the session
// that produced the audio. Consumers must compare SessionID against
// the newest session before acting on Text.
type Result struct {
	SessionID  uint64
	Text       string
	Language   string
	Confidence float64
	Err        error
}

// Dispatcher runs transcriptions against an engine with a bounded
// worker pool. Submitting for a newer session cancels every older
// in-flight request; cancellation is best effort and the stale-result
// guard downstream is what actually protects correctness.
type Dispatcher struct {
	provider stt.Provider
	sem      chan struct{}
	results  chan Result

	mu       sync.Mutex
	inflight map[uint64]context.CancelFunc
	closed   bool

	wg sync.WaitGroup
}

// NewDispatcher creates a dispatcher over the given engine. poolSize
// bounds concurrent engine calls; values below 1 mean 1.
func NewDispatcher(provider stt.Provider, poolSize int) *Dispatcher {
	if poolSize < 1 {
		poolSize = 1
	}
	return &Dispatcher{
		provider: provider,
		sem:      make(chan struct{}, poolSize),
		results:  make(chan Result, 4),
		inflight: make(map[uint64]context.CancelFunc),
	}
}

// Submit queues a sealed buffer for transcription and returns a cancel
// function for this request. Requests for sessions older than
// sessionID are cancelled.
func (d *Dispatcher) Submit(buf *AudioBuffer, sessionID uint64, language string) context.CancelFunc {
	ctx, cancel := context.WithCancel(context.Background())

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		cancel()
		return cancel
	}
	for id, c := range d.inflight {
		if id < sessionID {
			c()
		}
	}
	d.inflight[sessionID] = cancel
	d.wg.Add(1)
	d.mu.Unlock()

	go d.run(ctx, buf, sessionID, language)
	return cancel
}

// Results delivers finished attempts, including failed and cancelled
// ones. The channel stays open until Close.
func (d *Dispatcher) Results() <-chan Result {
	return d.results
}

func (d *Dispatcher) run(ctx context.Context, buf *AudioBuffer, sessionID uint64, language string) {
	defer d.wg.Done()
	defer func() {
		d.mu.Lock()
		delete(d.inflight, sessionID)
		d.mu.Unlock()
	}()

	select {
	case d.sem <- struct{}{}:
		defer func() { <-d.sem }()
	case <-ctx.Done():
		d.deliver(Result{SessionID: sessionID, Err: ctx.Err()})
		return
	}

	slog.Debug("transcription started",
		"session_id", sessionID,
		"samples", len(buf.Samples()),
		"duration", buf.Duration(),
	)

	res, err := d.provider.Transcribe(ctx, buf.Samples(), language)
	if err != nil {
		d.deliver(Result{SessionID: sessionID, Err: err})
		return
	}
	d.deliver(Result{
		SessionID:  sessionID,
		Text:       res.Text,
		Language:   res.Language,
		Confidence: res.Confidence,
	})
}

// deliver never blocks forever on a stalled consumer; a result nobody
// reads within the buffer window is dropped.
func (d *Dispatcher) deliver(r Result) {
	select {
	case d.results <- r:
	default:
		slog.Warn("dropping unread transcription result", "session_id", r.SessionID)
	}
}

// Close cancels all in-flight requests and waits for workers to exit.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, c := range d.inflight {
		c()
	}
	d.mu.Unlock()

	d.wg.Wait()
	close(d.results)
}
