package dictation

import (
	"errors"
	"time"
)

// ErrSealed is returned when appending to a sealed buffer.
var ErrSealed = errors.New("dictation: buffer is sealed")

// AudioBuffer accumulates the PCM samples of one recording. It grows
// while the session is active and freezes on Seal. Only the control
// loop touches a buffer before sealing, so there is no lock; after
// sealing, ownership moves to the dispatcher and nothing mutates it.
type AudioBuffer struct {
	samples    []float32
	sampleRate int
	sealed     bool
}

// NewAudioBuffer allocates an empty buffer for the given sample rate.
func NewAudioBuffer(sampleRate int) *AudioBuffer {
	return &AudioBuffer{
		samples:    make([]float32, 0, sampleRate), // room for ~1s up front
		sampleRate: sampleRate,
	}
}

// Append adds one frame of samples.
func (b *AudioBuffer) Append(samples []float32) error {
	if b.sealed {
		return ErrSealed
	}
	b.samples = append(b.samples, samples...)
	return nil
}

// Seal freezes the buffer. Further appends fail with ErrSealed.
func (b *AudioBuffer) Seal() {
	b.sealed = true
}

// Sealed reports whether the buffer has been frozen.
func (b *AudioBuffer) Sealed() bool {
	return b.sealed
}

// Samples returns the accumulated PCM data.
func (b *AudioBuffer) Samples() []float32 {
	return b.samples
}

// SampleRate returns the buffer's sample rate.
func (b *AudioBuffer) SampleRate() int {
	return b.sampleRate
}

// Duration is the audio length represented by the buffer.
func (b *AudioBuffer) Duration() time.Duration {
	if b.sampleRate <= 0 {
		return 0
	}
	return time.Duration(len(b.samples)) * time.Second / time.Duration(b.sampleRate)
}
