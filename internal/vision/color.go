package vision

import (
	"image"
	"math"

	"gocv.io/x/gocv"

	"github.com/rocketscienceinc/tictactoe-robot/internal/entity"
)

const minBoardSide = 100

var (
	boardLower = gocv.NewScalar(200, 200, 0, 0)
	boardUpper = gocv.NewScalar(255, 255, 200, 0)
)

// ColorLocator finds the board as the largest patch of its paint color and
// lays a rotated 3x3 lattice over its minimum area rectangle.
type ColorLocator struct{}

func (that *ColorLocator) Locate(frame gocv.Mat) (entity.Grid, error) {
	if frame.Empty() {
		return entity.Grid{Boundary: entity.NoBoundary}, ErrEmptyFrame
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(frame, &blurred, image.Pt(blurSize, blurSize), 0, 0, gocv.BorderDefault)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.InRangeWithScalar(blurred, boardLower, boardUpper, &mask)
	dilate(&mask, erodeRounds)
	erode(&mask, erodeRounds)

	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	largest, area := -1, 0.0
	for i := 0; i < contours.Size(); i++ {
		if a := gocv.ContourArea(contours.At(i)); a > area {
			largest, area = i, a
		}
	}

	if largest < 0 {
		return entity.Grid{Boundary: entity.NoBoundary}, ErrGridNotFound
	}

	rect := gocv.MinAreaRect(contours.At(largest))
	if rect.Width < minBoardSide || rect.Height < minBoardSide {
		return entity.Grid{Boundary: entity.NoBoundary}, ErrGridNotFound
	}

	centers := latticeCenters(rect)

	return entity.Grid{
		Centers:  centers,
		Boundary: boundaryFromCenters(centers, rect.Width/6),
		Angle:    rect.Angle,
	}, nil
}

// latticeCenters rotates the cell centers of an upright w x h board about the rect center.
func latticeCenters(rect gocv.RotatedRect) entity.GridCenters {
	angle := rect.Angle
	if angle >= 45 {
		angle -= 90
	}
	theta := angle * math.Pi / 180
	sin, cos := math.Sincos(theta)

	cx, cy := float64(rect.Center.X), float64(rect.Center.Y)
	w, h := float64(rect.Width), float64(rect.Height)

	centers := make(entity.GridCenters, 0, entity.GridCells)
	for row := 0; row < entity.BoardSize; row++ {
		for col := 0; col < entity.BoardSize; col++ {
			dx := -w/2 + float64(2*col+1)*w/6
			dy := -h/2 + float64(2*row+1)*h/6
			centers = append(centers, entity.Point{
				X: int(cos*dx - sin*dy + cx),
				Y: int(sin*dx + cos*dy + cy),
			})
		}
	}

	return centers
}
