package entity

// Point - pixel coordinate in full-frame space.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// NotFound - sentinel for a point or boundary that could not be detected.
var NotFound = Point{X: -1, Y: -1}

const (
	GridCells = BoardSize * BoardSize

	// BoundaryMargin - piece trays closer than this to the frame edge are not trusted.
	BoundaryMargin = 10
)

// GridCenters holds either no centers or exactly nine in row-major order.
type GridCenters []Point

func (that GridCenters) Complete() bool {
	return len(that) == GridCells
}

type Boundary struct {
	Left  int `json:"left"`
	Right int `json:"right"`
}

var NoBoundary = Boundary{Left: -1, Right: -1}

// Plausible - reports whether both trays fit in a frame of the given width.
func (that Boundary) Plausible(width int) bool {
	return that.Left >= BoundaryMargin && that.Right <= width-BoundaryMargin && that.Left < that.Right
}

type Grid struct {
	Centers  GridCenters `json:"centers"`
	Boundary Boundary    `json:"boundary"`
	Angle    float64     `json:"angle"`
}

// PieceSet - tray pieces ordered top to bottom.
// Black is the tray right of the board, White the tray left of it.
type PieceSet struct {
	Black []Point `json:"black"`
	White []Point `json:"white"`
}

func (that PieceSet) Empty() bool {
	return len(that.Black) == 0 && len(that.White) == 0
}
