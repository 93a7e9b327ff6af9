//go:build !darwin

package clipboard

func getText() (string, error) { return "", ErrUnsupported }

func setText(string) error { return ErrUnsupported }
