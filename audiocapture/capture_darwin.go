//go:build darwin

package audiocapture

/*
#cgo CFLAGS: -x objective-c -fobjc-arc -mmacosx-version-min=13.0
#cgo LDFLAGS: -framework AVFoundation -framework CoreAudio -framework Foundation

#include <stdlib.h>

extern int startMicCapture(int sampleRate, int frameSize, char** errOut);
extern void stopMicCapture(void);
*/
import "C"

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"
)

// Global handler for the CGO callback. Only one capture at a time; the
// microphone is exclusively owned while a session is arming or active.
var (
	globalHandler   func([]float32)
	globalHandlerMu sync.RWMutex
)

//export goMicCallback
func goMicCallback(samples *C.float, count C.int) {
	n := int(count)
	if n <= 0 {
		return
	}

	globalHandlerMu.RLock()
	h := globalHandler
	globalHandlerMu.RUnlock()

	if h == nil {
		return
	}

	// Convert C array to Go slice without extra allocation.
	// Safe because the handler copies before this function returns.
	h(unsafe.Slice((*float32)(unsafe.Pointer(samples)), n))
}

// micDevice is the macOS implementation using an AVAudioEngine input tap.
type micDevice struct {
	mu      sync.Mutex
	running bool
}

func newDeviceImpl() (deviceImpl, error) {
	return &micDevice{}, nil
}

func (d *micDevice) open(cfg Config, deliver func(samples []float32)) error {
	if deliver == nil {
		return errors.New("audiocapture: nil handler")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return ErrAlreadyCapturing
	}

	globalHandlerMu.Lock()
	globalHandler = deliver
	globalHandlerMu.Unlock()

	var errStr *C.char
	result := C.startMicCapture(C.int(cfg.SampleRate), C.int(cfg.FrameSize), &errStr)
	if result != 0 {
		globalHandlerMu.Lock()
		globalHandler = nil
		globalHandlerMu.Unlock()

		if errStr != nil {
			detail := C.GoString(errStr)
			C.free(unsafe.Pointer(errStr))
			return fmt.Errorf("%w: %s", ErrDeviceUnavailable, detail)
		}
		return ErrDeviceUnavailable
	}

	d.running = true
	return nil
}

func (d *micDevice) close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running {
		return nil
	}

	C.stopMicCapture()

	globalHandlerMu.Lock()
	globalHandler = nil
	globalHandlerMu.Unlock()

	d.running = false
	return nil
}
