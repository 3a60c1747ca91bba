package vision

import (
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/rocketscienceinc/tictactoe-robot/internal/entity"
)

const (
	ReaderPixel  = "pixel"
	ReaderWindow = "window"
)

var ErrUnknownReader = errors.New("unknown board reader")

// Variant - brightness sampling for one camera exposure setup.
// Samples above Bright or below Dark hold a piece, anything between is empty.
// Reading as side A the robot plays the dark pieces, side B the bright ones.
type Variant struct {
	Name   string
	Window int
	Bright float64
	Dark   float64
}

var (
	PixelVariant  = Variant{Name: ReaderPixel, Window: 0, Bright: 210, Dark: 100}
	WindowVariant = Variant{Name: ReaderWindow, Window: 20, Bright: 240, Dark: 150}
)

func VariantByName(name string) (Variant, error) {
	switch name {
	case ReaderPixel, "":
		return PixelVariant, nil
	case ReaderWindow:
		return WindowVariant, nil
	default:
		return Variant{}, fmt.Errorf("%w: %q", ErrUnknownReader, name)
	}
}

// Classify maps a brightness sample to a cell for the given role.
func (that Variant) Classify(brightness float64, role entity.Role) entity.Cell {
	var bright bool
	switch {
	case brightness > that.Bright:
		bright = true
	case brightness < that.Dark:
		bright = false
	default:
		return entity.Empty
	}

	selfBright := role == entity.RoleSideB
	if bright == selfBright {
		return entity.Self
	}

	return entity.Opponent
}

type BoardReader struct {
	variant Variant
}

func NewBoardReader(variant Variant) *BoardReader {
	return &BoardReader{variant: variant}
}

func (that *BoardReader) Read(frame gocv.Mat, centers entity.GridCenters, role entity.Role) (entity.Board, error) {
	var board entity.Board

	if frame.Empty() {
		return board, ErrEmptyFrame
	}

	if !centers.Complete() {
		return board, ErrNoGrid
	}

	if role == entity.RoleNone {
		return board, ErrNoRole
	}

	gray := frame
	if frame.Channels() > 1 {
		gray = gocv.NewMat()
		defer gray.Close()
		gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray)
	}

	bounds := image.Rect(0, 0, gray.Cols(), gray.Rows())
	for i, c := range centers {
		brightness, ok := that.sample(gray, bounds, c)
		if !ok {
			return entity.Board{}, fmt.Errorf("%w: center %d outside frame", ErrNoGrid, i)
		}

		board[i] = that.variant.Classify(brightness, role)
	}

	return board, nil
}

func (that *BoardReader) sample(gray gocv.Mat, bounds image.Rectangle, c entity.Point) (float64, bool) {
	pt := image.Pt(c.X, c.Y)
	if !pt.In(bounds) {
		return 0, false
	}

	if that.variant.Window <= 0 {
		return float64(gray.GetUCharAt(c.Y, c.X)), true
	}

	half := that.variant.Window / 2
	window := image.Rect(c.X-half, c.Y-half, c.X+half, c.Y+half).Intersect(bounds)

	region := gray.Region(window)
	defer region.Close()

	return region.Mean().Val1, true
}
