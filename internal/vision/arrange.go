package vision

import (
	"image"
	"math"

	"github.com/rocketscienceinc/tictactoe-robot/internal/entity"
)

// Canonical orders for the two rotation regimes the camera produces.
// Each entry is the raw centroid index that belongs at that row-major position.
var (
	mirroredOrder  = [entity.GridCells]int{2, 1, 0, 5, 4, 3, 8, 7, 6}
	diagonalSteep  = [entity.GridCells]int{3, 1, 0, 6, 4, 2, 8, 7, 5}
	diagonalFlat   = [entity.GridCells]int{0, 1, 3, 2, 4, 6, 5, 7, 8}
	identityOrder  = [entity.GridCells]int{0, 1, 2, 3, 4, 5, 6, 7, 8}
	collinearLimit = 10.0
)

// arrangeCenters reorders raw centroids into row-major order using the spread between
// the first three centroids and the rotation of one square.
func arrangeCenters(raw []image.Point, rotation float64) (entity.GridCenters, error) {
	if len(raw) != entity.GridCells {
		return nil, ErrGridNotFound
	}

	spread := vectorAngle(raw[1].Sub(raw[0]), raw[2].Sub(raw[0]))

	var order [entity.GridCells]int
	switch {
	case spread < collinearLimit:
		switch {
		case rotation > 60 && rotation < 90:
			order = mirroredOrder
		case rotation < 30 || rotation == 90:
			order = identityOrder
		default:
			return nil, ErrUnsupportedRotation
		}
	case spread > 85 && spread < 95:
		if rotation > 45 {
			order = diagonalSteep
		} else {
			order = diagonalFlat
		}
	default:
		return nil, ErrUnsupportedRotation
	}

	centers := make(entity.GridCenters, entity.GridCells)
	for i, src := range order {
		centers[i] = entity.Point{X: raw[src].X, Y: raw[src].Y}
	}

	return centers, nil
}

// vectorAngle - angle between two vectors in degrees, within [0, 180].
func vectorAngle(a, b image.Point) float64 {
	na := math.Hypot(float64(a.X), float64(a.Y))
	nb := math.Hypot(float64(b.X), float64(b.Y))
	if na == 0 || nb == 0 {
		return math.NaN()
	}

	cos := float64(a.X*b.X+a.Y*b.Y) / (na * nb)
	cos = math.Max(-1, math.Min(1, cos))

	return math.Acos(cos) * 180 / math.Pi
}

// boundaryFromCenters pads the outermost centers by half a cell width.
func boundaryFromCenters(centers entity.GridCenters, halfWidth int) entity.Boundary {
	if !centers.Complete() {
		return entity.NoBoundary
	}

	minX, maxX := centers[0].X, centers[0].X
	for _, c := range centers[1:] {
		minX = min(minX, c.X)
		maxX = max(maxX, c.X)
	}

	return entity.Boundary{Left: minX - halfWidth, Right: maxX + halfWidth}
}

// polygonCentroid - first-order image moments of a closed contour (m10/m00, m01/m00).
func polygonCentroid(pts []image.Point) (image.Point, bool) {
	var m00, m10, m01 float64

	n := len(pts)
	for i := 0; i < n; i++ {
		p, q := pts[i], pts[(i+1)%n]
		cross := float64(p.X*q.Y - q.X*p.Y)
		m00 += cross
		m10 += cross * float64(p.X+q.X)
		m01 += cross * float64(p.Y+q.Y)
	}

	if m00 == 0 {
		return image.Point{}, false
	}

	// m00 here is twice the signed area, the sums are six times the signed moments.
	cx := m10 / (3 * m00)
	cy := m01 / (3 * m00)

	return image.Pt(int(cx), int(cy)), true
}
