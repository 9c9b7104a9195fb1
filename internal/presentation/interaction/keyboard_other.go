//go:build !darwin && !linux

package interaction

import "errors"

type termState struct{}

// ErrRawModeUnsupported is returned on platforms without termios support.
var ErrRawModeUnsupported = errors.New("raw keyboard mode is not supported on this platform")

func (kr *KeyboardReader) enableRawMode() error {
	return ErrRawModeUnsupported
}

func (kr *KeyboardReader) disableRawMode() error {
	return nil
}
