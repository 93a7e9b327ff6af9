//go:build !darwin

package sound

func cueCommand(cue Cue) (string, []string) {
	var id string
	switch cue {
	case CueStart:
		id = "audio-volume-change"
	case CueStop:
		id = "complete"
	case CueError:
		id = "dialog-error"
	default:
		return "", nil
	}
	return "canberra-gtk-play", []string{"-i", id}
}
