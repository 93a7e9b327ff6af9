// Package audiocapture provides microphone capture for dictation.
package audiocapture

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// ErrDeviceUnavailable is returned when no input device exists or
// microphone permission was denied.
var ErrDeviceUnavailable = errors.New("audiocapture: input device unavailable")

// ErrAlreadyCapturing is returned when trying to start capture while already capturing.
var ErrAlreadyCapturing = errors.New("audiocapture: already capturing")

// ErrUnsupported is returned on platforms without a capture backend.
var ErrUnsupported = errors.New("audiocapture: unsupported platform")

// Frame is one conditioned block of microphone samples. Samples are
// mono float32 in [-1, 1] at the configured sample rate. RMS is the
// post-conditioning amplitude, so consumers don't recompute it.
type Frame struct {
	Samples []float32
	RMS     float64
}

// Config holds configuration for audio capture.
type Config struct {
	SampleRate    int     // default 16000 Hz (optimal for Whisper)
	Channels      int     // default mono
	FrameSize     int     // samples per frame, default 1024
	GateThreshold float64 // frames below this RMS are dropped; 0 disables
	GainTarget    float64 // AGC target RMS; 0 disables
	RingFrames    int     // frame ring capacity, default 64
}

// DefaultConfig returns the default capture configuration.
func DefaultConfig() Config {
	return Config{
		SampleRate:    16000,
		Channels:      1,
		FrameSize:     1024,
		GateThreshold: 0.02,
		GainTarget:    0.2,
		RingFrames:    64,
	}
}

// deviceImpl is the platform-specific device backend. deliver is called
// from the capture thread; it must return quickly.
type deviceImpl interface {
	open(cfg Config, deliver func(samples []float32)) error
	close() error
}

// Capture owns the microphone device and conditions its frames.
//
// The device callback runs on a real-time thread: the per-frame chain
// (copy, gate, gain, ring push) never blocks. When the consumer falls
// behind, the oldest frame is dropped and the overrun counter
// increments.
type Capture struct {
	cfg  Config
	impl deviceImpl

	mu        sync.Mutex
	capturing bool
	startTime time.Time

	frames   chan Frame
	overruns atomic.Uint64
}

// New creates a capture instance backed by the platform device.
func New(cfg Config) (*Capture, error) {
	impl, err := newDeviceImpl()
	if err != nil {
		return nil, err
	}
	return newCapture(cfg, impl), nil
}

func newCapture(cfg Config, impl deviceImpl) *Capture {
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 16000
	}
	if cfg.Channels == 0 {
		cfg.Channels = 1
	}
	if cfg.FrameSize == 0 {
		cfg.FrameSize = 1024
	}
	if cfg.RingFrames == 0 {
		cfg.RingFrames = 64
	}
	return &Capture{
		cfg:    cfg,
		impl:   impl,
		frames: make(chan Frame, cfg.RingFrames),
	}
}

// Start opens the input device and begins delivering frames.
func (c *Capture) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capturing {
		return ErrAlreadyCapturing
	}

	if err := c.impl.open(c.cfg, c.handleFrame); err != nil {
		return err
	}

	c.capturing = true
	c.startTime = time.Now()
	return nil
}

// Stop closes the device. Safe to call when not capturing.
func (c *Capture) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.capturing {
		return nil
	}
	c.capturing = false
	return c.impl.close()
}

// IsCapturing returns true if the device is open.
func (c *Capture) IsCapturing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.capturing
}

// Frames is the single-consumer feed for the control loop.
func (c *Capture) Frames() <-chan Frame {
	return c.frames
}

// Overruns reports frames dropped because the consumer was too slow.
func (c *Capture) Overruns() uint64 {
	return c.overruns.Load()
}

// SampleRate returns the configured sample rate.
func (c *Capture) SampleRate() int {
	return c.cfg.SampleRate
}

// Duration returns how long capture has been running.
func (c *Capture) Duration() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.capturing {
		return 0
	}
	return time.Since(c.startTime)
}

// handleFrame runs on the capture thread. The sample memory belongs to
// the device backend, so the frame is copied before conditioning.
func (c *Capture) handleFrame(samples []float32) {
	if len(samples) == 0 {
		return
	}

	owned := make([]float32, len(samples))
	copy(owned, samples)

	rms := calculateRMS(owned)
	if c.cfg.GateThreshold > 0 && rms < c.cfg.GateThreshold {
		return // below the noise gate
	}
	if c.cfg.GainTarget > 0 && rms > 0 {
		rms = normalizeGain(owned, rms, c.cfg.GainTarget)
	}

	c.push(Frame{Samples: owned, RMS: rms})
}

// push writes a frame into the bounded ring without ever blocking.
// On a full ring the oldest frame is evicted first, so frame order is
// preserved for everything that survives.
func (c *Capture) push(f Frame) {
	select {
	case c.frames <- f:
		return
	default:
	}

	c.overruns.Add(1)
	select {
	case <-c.frames: // evict oldest
	default:
	}
	select {
	case c.frames <- f:
	default:
	}
}
