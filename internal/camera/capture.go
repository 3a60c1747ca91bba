package camera

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/rocketscienceinc/tictactoe-robot/internal/apperror"
)

const retryDelay = time.Millisecond

type Settings struct {
	Index      int
	Width      int
	Height     int
	FPS        int
	Continuous bool
}

type frameReader interface {
	Read(m *gocv.Mat) bool
	Close() error
}

// Capture - the latest-frame slot over a camera.
// In continuous mode a background goroutine keeps replacing the slot and Latest never blocks on the device.
type Capture struct {
	logger *slog.Logger
	device frameReader

	continuous bool

	mu     sync.Mutex
	latest gocv.Mat

	done chan struct{}
	wg   sync.WaitGroup
}

func Open(logger *slog.Logger, settings Settings) (*Capture, error) {
	device, err := gocv.OpenVideoCapture(settings.Index)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrCameraNotOpened, err)
	}

	if !device.IsOpened() {
		_ = device.Close()
		return nil, fmt.Errorf("%w: index %d", apperror.ErrCameraNotOpened, settings.Index)
	}

	device.Set(gocv.VideoCaptureFrameWidth, float64(settings.Width))
	device.Set(gocv.VideoCaptureFrameHeight, float64(settings.Height))
	device.Set(gocv.VideoCaptureFOURCC, device.ToCodec("MJPG"))
	device.Set(gocv.VideoCaptureFPS, float64(settings.FPS))

	return newCapture(logger, device, settings.Continuous), nil
}

func newCapture(logger *slog.Logger, device frameReader, continuous bool) *Capture {
	that := &Capture{
		logger:     logger.With("component", "camera"),
		device:     device,
		continuous: continuous,
		latest:     gocv.NewMat(),
		done:       make(chan struct{}),
	}

	if continuous {
		that.wg.Add(1)
		go that.run()
	}

	return that
}

func (that *Capture) run() {
	defer that.wg.Done()

	frame := gocv.NewMat()
	defer frame.Close()

	for {
		select {
		case <-that.done:
			return
		default:
		}

		if ok := that.device.Read(&frame); !ok || frame.Empty() {
			time.Sleep(retryDelay)
			continue
		}

		that.mu.Lock()
		frame.CopyTo(&that.latest)
		that.mu.Unlock()
	}
}

// Latest - a copy of the most recent frame owned by the caller, or false when none is available yet.
func (that *Capture) Latest() (gocv.Mat, bool) {
	if !that.continuous {
		frame := gocv.NewMat()
		if ok := that.device.Read(&frame); !ok || frame.Empty() {
			_ = frame.Close()
			return gocv.NewMat(), false
		}

		return frame, true
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if that.latest.Empty() {
		return gocv.NewMat(), false
	}

	return that.latest.Clone(), true
}

func (that *Capture) Continuous() bool {
	return that.continuous
}

func (that *Capture) Close() error {
	close(that.done)
	that.wg.Wait()

	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.latest.Close(); err != nil {
		that.logger.Error("could not release frame", "error", err)
	}

	if err := that.device.Close(); err != nil {
		return fmt.Errorf("failed to close camera: %w", err)
	}

	return nil
}
