// Package sound plays short audio cues for recording transitions.
package sound

import (
	"log/slog"
	"os/exec"
)

// Cue identifies an audio cue.
type Cue string

const (
	CueStart Cue = "start"
	CueStop  Cue = "stop"
	CueError Cue = "error"
)

// Player plays cues through the platform audio tool. Playback is
// asynchronous and best effort; a missing tool only logs once per cue.
type Player struct {
	enabled bool
}

// New creates a player. A disabled player drops every cue.
func New(enabled bool) *Player {
	return &Player{enabled: enabled}
}

// Play starts the cue without waiting for it to finish.
func (p *Player) Play(cue Cue) {
	if p == nil || !p.enabled {
		return
	}
	name, args := cueCommand(cue)
	if name == "" {
		return
	}
	go func() {
		if err := exec.Command(name, args...).Run(); err != nil {
			slog.Debug("audio cue failed", "cue", string(cue), "error", err)
		}
	}()
}
