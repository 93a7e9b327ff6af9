//go:build !darwin

package audiocapture

func newDeviceImpl() (deviceImpl, error) {
	return nil, ErrUnsupported
}
