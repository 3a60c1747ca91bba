// Package vision locates the playing grid, the tray pieces and the board symbols in a camera frame.
//
// Every function degrades to a detection miss (an error from this package, or an empty result)
// instead of panicking, so a caller can simply retry on the next frame.
package vision

import (
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/rocketscienceinc/tictactoe-robot/internal/entity"
)

var (
	ErrEmptyFrame          = errors.New("empty frame")
	ErrFrameTooDark        = errors.New("frame too dark")
	ErrGridNotFound        = errors.New("grid not found")
	ErrUnsupportedRotation = errors.New("unsupported grid rotation")
	ErrNoGrid              = errors.New("grid centers unknown")
	ErrNoRole              = errors.New("role not selected")
	ErrUnknownStrategy     = errors.New("unknown grid strategy")
)

const (
	StrategyContour = "contour"
	StrategyColor   = "color"
)

const (
	minContourArea = 1000
	blurSize       = 5
	erodeRounds    = 2
)

// GridLocator finds the nine cell centers and the tray boundary in a frame.
type GridLocator interface {
	Locate(frame gocv.Mat) (entity.Grid, error)
}

func NewGridLocator(strategy string) (GridLocator, error) {
	switch strategy {
	case StrategyContour, "":
		return &ContourLocator{}, nil
	case StrategyColor:
		return &ColorLocator{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
}

// binarize runs gray -> blur -> otsu threshold -> erode on a BGR frame.
func binarize(frame gocv.Mat, inverted bool) gocv.Mat {
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray)
	gocv.GaussianBlur(gray, &gray, image.Pt(blurSize, blurSize), 0, 0, gocv.BorderDefault)

	return threshold(gray, inverted)
}

func threshold(gray gocv.Mat, inverted bool) gocv.Mat {
	mode := gocv.ThresholdBinary
	if inverted {
		mode = gocv.ThresholdBinaryInv
	}

	thres := gocv.NewMat()
	gocv.Threshold(gray, &thres, 0, 255, mode|gocv.ThresholdOtsu)
	erode(&thres, erodeRounds)

	return thres
}

func erode(mat *gocv.Mat, rounds int) {
	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(3, 3))
	defer kernel.Close()

	for i := 0; i < rounds; i++ {
		gocv.Erode(*mat, mat, kernel)
	}
}

func dilate(mat *gocv.Mat, rounds int) {
	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(3, 3))
	defer kernel.Close()

	for i := 0; i < rounds; i++ {
		gocv.Dilate(*mat, mat, kernel)
	}
}
