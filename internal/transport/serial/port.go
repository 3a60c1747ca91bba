package serial

import (
	"fmt"
	"io"
	"time"

	bugst "go.bug.st/serial"

	"github.com/rocketscienceinc/tictactoe-robot/internal/apperror"
)

const readChunk = 256

type device interface {
	io.ReadWriteCloser
	SetReadTimeout(t time.Duration) error
}

// Port - the controller link with a non-blocking availability check.
// Bytes picked up while polling are held until the next Read.
type Port struct {
	device  device
	poll    time.Duration
	pending []byte
	chunk   [readChunk]byte
}

func Open(name string, baud int, poll time.Duration) (*Port, error) {
	device, err := bugst.Open(name, &bugst.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   bugst.NoParity,
		StopBits: bugst.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", apperror.ErrSerialNotOpened, name, err)
	}

	return newPort(device, poll), nil
}

func newPort(device device, poll time.Duration) *Port {
	return &Port{device: device, poll: poll}
}

// Available - polls the device for at most the poll timeout.
func (that *Port) Available() (int, error) {
	if len(that.pending) > 0 {
		return len(that.pending), nil
	}

	if err := that.device.SetReadTimeout(that.poll); err != nil {
		return 0, fmt.Errorf("failed to set read timeout: %w", err)
	}

	n, err := that.device.Read(that.chunk[:])
	if err != nil {
		return 0, fmt.Errorf("failed to poll serial port: %w", err)
	}

	that.pending = append(that.pending, that.chunk[:n]...)

	return len(that.pending), nil
}

func (that *Port) Read(p []byte) (int, error) {
	if len(that.pending) > 0 {
		n := copy(p, that.pending)
		that.pending = that.pending[n:]
		return n, nil
	}

	if err := that.device.SetReadTimeout(bugst.NoTimeout); err != nil {
		return 0, fmt.Errorf("failed to set read timeout: %w", err)
	}

	n, err := that.device.Read(p)
	if err != nil {
		return n, fmt.Errorf("failed to read serial port: %w", err)
	}

	return n, nil
}

func (that *Port) Write(p []byte) (int, error) {
	n, err := that.device.Write(p)
	if err != nil {
		return n, fmt.Errorf("failed to write serial port: %w", err)
	}

	return n, nil
}

func (that *Port) Close() error {
	return that.device.Close()
}
