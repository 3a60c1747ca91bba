package vision

import (
	"image"

	"gocv.io/x/gocv"

	"github.com/rocketscienceinc/tictactoe-robot/internal/entity"
)

const (
	darkFrameMean  = 10
	squareEpsilon  = 0.04
	squareMinRatio = 0.9
	squareMaxRatio = 1.1
)

// ContourLocator finds the grid as nine bright squares after Otsu thresholding.
type ContourLocator struct{}

func (that *ContourLocator) Locate(frame gocv.Mat) (entity.Grid, error) {
	if frame.Empty() {
		return entity.Grid{Boundary: entity.NoBoundary}, ErrEmptyFrame
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray)
	gocv.GaussianBlur(gray, &gray, image.Pt(blurSize, blurSize), 0, 0, gocv.BorderDefault)

	if gray.Mean().Val1 < darkFrameMean {
		return entity.Grid{Boundary: entity.NoBoundary}, ErrFrameTooDark
	}

	thres := threshold(gray, false)
	defer thres.Close()

	contours := gocv.FindContours(thres, gocv.RetrievalTree, gocv.ChainApproxSimple)
	defer contours.Close()

	raw := make([]image.Point, 0, entity.GridCells)
	var sample gocv.RotatedRect
	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		if gocv.ContourArea(contour) < minContourArea {
			continue
		}

		center, rect, ok := isSquare(contour)
		if !ok {
			continue
		}

		raw = append(raw, center)
		sample = rect
	}

	if len(raw) != entity.GridCells {
		return entity.Grid{Boundary: entity.NoBoundary}, ErrGridNotFound
	}

	centers, err := arrangeCenters(raw, sample.Angle)
	if err != nil {
		return entity.Grid{Boundary: entity.NoBoundary, Angle: sample.Angle}, err
	}

	return entity.Grid{
		Centers:  centers,
		Boundary: boundaryFromCenters(centers, sample.Width/2),
		Angle:    sample.Angle,
	}, nil
}

// isSquare accepts 4-vertex contours that fill their minimum area rectangle.
func isSquare(contour gocv.PointVector) (image.Point, gocv.RotatedRect, bool) {
	perimeter := gocv.ArcLength(contour, true)
	approx := gocv.ApproxPolyDP(contour, squareEpsilon*perimeter, true)
	defer approx.Close()

	rect := gocv.MinAreaRect(contour)
	rectArea := float64(rect.Width * rect.Height)
	if approx.Size() != 4 || rectArea == 0 {
		return image.Point{}, rect, false
	}

	ratio := gocv.ContourArea(contour) / rectArea
	if ratio <= squareMinRatio || ratio >= squareMaxRatio {
		return image.Point{}, rect, false
	}

	center, ok := polygonCentroid(contour.ToPoints())
	return center, rect, ok
}
