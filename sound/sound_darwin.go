//go:build darwin

package sound

func cueCommand(cue Cue) (string, []string) {
	var file string
	switch cue {
	case CueStart:
		file = "/System/Library/Sounds/Pop.aiff"
	case CueStop:
		file = "/System/Library/Sounds/Bottle.aiff"
	case CueError:
		file = "/System/Library/Sounds/Basso.aiff"
	default:
		return "", nil
	}
	return "afplay", []string{file}
}
