package vision

import (
	"image"
	"math"
	"sort"

	"gocv.io/x/gocv"

	"github.com/rocketscienceinc/tictactoe-robot/internal/entity"
)

const (
	circleEpsilon     = 0.03
	circleMinVertices = 6
	circleMinRatio    = 0.7
	circleMaxRatio    = 1.3
)

// PieceLocator finds round pieces in the trays on both sides of the grid.
type PieceLocator struct{}

func NewPieceLocator() *PieceLocator {
	return &PieceLocator{}
}

// Locate - white pieces sit left of the grid on a dark tray, black pieces right of it on a light tray.
func (that *PieceLocator) Locate(frame gocv.Mat, boundary entity.Boundary) entity.PieceSet {
	pieces := entity.PieceSet{Black: []entity.Point{}, White: []entity.Point{}}
	if frame.Empty() || !boundary.Plausible(frame.Cols()) {
		return pieces
	}

	white := frame.Region(image.Rect(0, 0, boundary.Left, frame.Rows()))
	defer white.Close()
	pieces.White = findCircles(white, false, 0)

	black := frame.Region(image.Rect(boundary.Right, 0, frame.Cols(), frame.Rows()))
	defer black.Close()
	pieces.Black = findCircles(black, true, boundary.Right)

	return pieces
}

func findCircles(region gocv.Mat, inverted bool, offsetX int) []entity.Point {
	thres := binarize(region, inverted)
	defer thres.Close()

	contours := gocv.FindContours(thres, gocv.RetrievalTree, gocv.ChainApproxSimple)
	defer contours.Close()

	points := make([]entity.Point, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		if gocv.ContourArea(contour) < minContourArea {
			continue
		}

		if center, ok := isCircle(contour); ok {
			points = append(points, entity.Point{X: center.X + offsetX, Y: center.Y})
		}
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Y < points[j].Y
	})

	return points
}

// isCircle accepts polygons with enough vertices that fill their minimum enclosing circle.
func isCircle(contour gocv.PointVector) (image.Point, bool) {
	perimeter := gocv.ArcLength(contour, true)
	approx := gocv.ApproxPolyDP(contour, circleEpsilon*perimeter, true)
	defer approx.Close()

	x, y, r := gocv.MinEnclosingCircle(contour)
	circleArea := math.Pi * float64(r) * float64(r)
	if approx.Size() < circleMinVertices || circleArea == 0 {
		return image.Point{}, false
	}

	ratio := gocv.ContourArea(contour) / circleArea
	if ratio <= circleMinRatio || ratio >= circleMaxRatio {
		return image.Point{}, false
	}

	return image.Pt(int(x), int(y)), true
}
