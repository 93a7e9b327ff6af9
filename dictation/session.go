package dictation

import (
	"time"

	"github.com/JagadeeshAjjada/speech-to-text-desktop-application/config"
)

// State is a recording session's position in its lifecycle.
type State string

const (
	StateIdle      State = "idle"
	StateArming    State = "arming"
	StateActive    State = "active"
	StateSealing   State = "sealing"
	StateCancelled State = "cancelled"
)

// session is one recording, from hotkey press to sealed buffer. IDs
// come from a monotonic counter; a larger ID always means a newer
// session, which is what the stale-result guard compares against.
//
// Sessions live entirely inside the control loop and are never shared
// across goroutines.
type session struct {
	id          uint64
	mode        config.Mode
	state       State
	buffer      *AudioBuffer
	cfg         config.Config // snapshot taken at arm time
	startedAt   time.Time
	lastFrameAt time.Time
}

func (s *session) active() bool {
	return s != nil && s.state == StateActive
}
