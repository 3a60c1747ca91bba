package apperror

import "errors"

var (
	ErrCameraNotOpened = errors.New("camera not opened")
	ErrSerialNotOpened = errors.New("serial port not opened")
	ErrNoFrame         = errors.New("no frame got")
	ErrStorage         = errors.New("storage unavailable")
	ErrTooManyFaults   = errors.New("too many consecutive faults")
)

const (
	ExitOK              = 0
	ExitFailure         = 1
	ExitCameraNotOpened = 2
	ExitSerialNotOpened = 3
	ExitNoFrame         = 4
	ExitStorage         = 5
)

// ExitCode - maps an error returned by the application to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrCameraNotOpened):
		return ExitCameraNotOpened
	case errors.Is(err, ErrSerialNotOpened):
		return ExitSerialNotOpened
	case errors.Is(err, ErrNoFrame):
		return ExitNoFrame
	case errors.Is(err, ErrStorage):
		return ExitStorage
	default:
		return ExitFailure
	}
}
