// Package clipboard wraps the system pasteboard.
package clipboard

import "errors"

// ErrUnsupported is returned on platforms without a clipboard backend.
var ErrUnsupported = errors.New("clipboard: unsupported platform")

// GetText returns the current clipboard text. An empty clipboard is
// not an error; it yields an empty string.
func GetText() (string, error) {
	return getText()
}

// SetText replaces the clipboard content.
func SetText(text string) error {
	return setText(text)
}
