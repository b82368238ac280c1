//go:build !windows && !linux && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly

package cli

import (
	"errors"
	"os"
)

func disableTerminalEcho(_ *os.File) (func(), error) {
	return nil, errors.New("password prompt is not supported on this platform")
}
