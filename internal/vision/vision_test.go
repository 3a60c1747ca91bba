package vision

import (
	"image"
	"image/color"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"github.com/rocketscienceinc/tictactoe-robot/internal/entity"
)

const (
	frameWidth  = 640
	frameHeight = 480
)

func shade(v uint8) color.RGBA {
	return color.RGBA{R: v, G: v, B: v, A: 0}
}

func newFrame(t *testing.T, background uint8) gocv.Mat {
	t.Helper()

	b := float64(background)
	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(b, b, b, 0), frameHeight, frameWidth, gocv.MatTypeCV8UC3)
	t.Cleanup(func() {
		_ = frame.Close()
	})

	return frame
}

// squareGridFrame draws nine white 80px squares with 20px gaps starting at (170, 90).
func squareGridFrame(t *testing.T) (gocv.Mat, entity.GridCenters) {
	t.Helper()

	frame := newFrame(t, 60)
	centers := make(entity.GridCenters, 0, entity.GridCells)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			x0, y0 := 170+col*100, 90+row*100
			gocv.Rectangle(&frame, image.Rect(x0, y0, x0+80, y0+80), shade(255), -1)
			centers = append(centers, entity.Point{X: x0 + 40, Y: y0 + 40})
		}
	}

	return frame, centers
}

func sortedPoints(points []entity.Point) []entity.Point {
	out := append([]entity.Point(nil), points...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y/20 != out[j].Y/20 {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})

	return out
}

func assertNear(t *testing.T, want, got []entity.Point, delta float64) {
	t.Helper()

	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i].X, got[i].X, delta, "x of point %d", i)
		assert.InDelta(t, want[i].Y, got[i].Y, delta, "y of point %d", i)
	}
}

func TestContourLocator_Locate(t *testing.T) {
	t.Run("Finds nine squares", func(t *testing.T) {
		// Given: a synthetic frame with a 3x3 grid of squares
		frame, want := squareGridFrame(t)

		// When: locating the grid
		grid, err := (&ContourLocator{}).Locate(frame)

		// Then: all nine centers and a padded boundary are found
		require.NoError(t, err)
		require.True(t, grid.Centers.Complete())
		assertNear(t, sortedPoints(want), sortedPoints(grid.Centers), 2)
		assert.InDelta(t, 173, grid.Boundary.Left, 4)
		assert.InDelta(t, 447, grid.Boundary.Right, 4)
		assert.True(t, grid.Boundary.Plausible(frameWidth))
	})

	t.Run("Dark frame is rejected", func(t *testing.T) {
		frame := newFrame(t, 2)

		grid, err := (&ContourLocator{}).Locate(frame)

		require.ErrorIs(t, err, ErrFrameTooDark)
		assert.Empty(t, grid.Centers)
		assert.Equal(t, entity.NoBoundary, grid.Boundary)
	})

	t.Run("Partial grid is discarded", func(t *testing.T) {
		// Given: only eight squares are visible
		frame, _ := squareGridFrame(t)
		gocv.Rectangle(&frame, image.Rect(370, 290, 450, 370), shade(60), -1)

		grid, err := (&ContourLocator{}).Locate(frame)

		require.ErrorIs(t, err, ErrGridNotFound)
		assert.Empty(t, grid.Centers)
	})

	t.Run("Empty frame", func(t *testing.T) {
		frame := gocv.NewMat()
		defer frame.Close()

		_, err := (&ContourLocator{}).Locate(frame)

		assert.ErrorIs(t, err, ErrEmptyFrame)
	})
}

func TestColorLocator_Locate(t *testing.T) {
	t.Run("Finds the painted board", func(t *testing.T) {
		// Given: a 300px board painted in the board color
		frame := newFrame(t, 60)
		gocv.Rectangle(&frame, image.Rect(170, 90, 470, 390), color.RGBA{R: 100, G: 230, B: 230, A: 0}, -1)

		// When: locating the grid
		grid, err := (&ColorLocator{}).Locate(frame)

		// Then: the lattice covers the board row by row
		require.NoError(t, err)
		want := make([]entity.Point, 0, entity.GridCells)
		for row := 0; row < 3; row++ {
			for col := 0; col < 3; col++ {
				want = append(want, entity.Point{X: 220 + col*100, Y: 140 + row*100})
			}
		}
		assertNear(t, want, grid.Centers, 3)
		assert.InDelta(t, 170, grid.Boundary.Left, 4)
		assert.InDelta(t, 470, grid.Boundary.Right, 4)
	})

	t.Run("Small patch is ignored", func(t *testing.T) {
		frame := newFrame(t, 60)
		gocv.Rectangle(&frame, image.Rect(100, 100, 160, 160), color.RGBA{R: 100, G: 230, B: 230, A: 0}, -1)

		_, err := (&ColorLocator{}).Locate(frame)

		assert.ErrorIs(t, err, ErrGridNotFound)
	})

	t.Run("No board color", func(t *testing.T) {
		frame := newFrame(t, 60)

		_, err := (&ColorLocator{}).Locate(frame)

		assert.ErrorIs(t, err, ErrGridNotFound)
	})
}

func TestNewGridLocator(t *testing.T) {
	locator, err := NewGridLocator(StrategyColor)
	require.NoError(t, err)
	assert.IsType(t, &ColorLocator{}, locator)

	locator, err = NewGridLocator("")
	require.NoError(t, err)
	assert.IsType(t, &ContourLocator{}, locator)

	_, err = NewGridLocator("hough")
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestPieceLocator_Locate(t *testing.T) {
	// Given: white pieces on a dark left tray and black pieces on a light right tray
	frame := newFrame(t, 128)
	gocv.Rectangle(&frame, image.Rect(0, 0, 180, frameHeight), shade(40), -1)
	gocv.Rectangle(&frame, image.Rect(450, 0, frameWidth, frameHeight), shade(220), -1)

	for _, y := range []int{400, 100, 250} {
		gocv.Circle(&frame, image.Pt(90, y), 30, shade(255), -1)
	}
	for _, y := range []int{300, 120} {
		gocv.Circle(&frame, image.Pt(545, y), 30, shade(20), -1)
	}

	t.Run("Pieces are found per tray in top to bottom order", func(t *testing.T) {
		// When: locating pieces with the tray boundary
		pieces := NewPieceLocator().Locate(frame, entity.Boundary{Left: 180, Right: 450})

		// Then: coordinates are sorted by y and in full-frame space
		assertNear(t, []entity.Point{{X: 90, Y: 100}, {X: 90, Y: 250}, {X: 90, Y: 400}}, pieces.White, 2)
		assertNear(t, []entity.Point{{X: 545, Y: 120}, {X: 545, Y: 300}}, pieces.Black, 2)
	})

	t.Run("Implausible boundary returns empty sets", func(t *testing.T) {
		pieces := NewPieceLocator().Locate(frame, entity.Boundary{Left: 5, Right: 450})
		assert.True(t, pieces.Empty())

		pieces = NewPieceLocator().Locate(frame, entity.Boundary{Left: 180, Right: 635})
		assert.True(t, pieces.Empty())

		pieces = NewPieceLocator().Locate(frame, entity.NoBoundary)
		assert.True(t, pieces.Empty())
	})
}

func TestVariant_Classify(t *testing.T) {
	t.Run("Pixel variant", func(t *testing.T) {
		assert.Equal(t, entity.Opponent, PixelVariant.Classify(255, entity.RoleSideA))
		assert.Equal(t, entity.Self, PixelVariant.Classify(20, entity.RoleSideA))
		assert.Equal(t, entity.Self, PixelVariant.Classify(255, entity.RoleSideB))
		assert.Equal(t, entity.Opponent, PixelVariant.Classify(20, entity.RoleSideB))
		assert.Equal(t, entity.Empty, PixelVariant.Classify(210, entity.RoleSideA))
		assert.Equal(t, entity.Empty, PixelVariant.Classify(100, entity.RoleSideB))
	})

	t.Run("Window variant", func(t *testing.T) {
		assert.Equal(t, entity.Opponent, WindowVariant.Classify(255, entity.RoleSideA))
		assert.Equal(t, entity.Self, WindowVariant.Classify(100, entity.RoleSideA))
		assert.Equal(t, entity.Self, WindowVariant.Classify(255, entity.RoleSideB))
		assert.Equal(t, entity.Empty, WindowVariant.Classify(230, entity.RoleSideA))
	})

	t.Run("Both variants agree on who the robot is", func(t *testing.T) {
		for _, variant := range []Variant{PixelVariant, WindowVariant} {
			assert.Equal(t, entity.Self, variant.Classify(0, entity.RoleSideA), variant.Name)
			assert.Equal(t, entity.Opponent, variant.Classify(255, entity.RoleSideA), variant.Name)
			assert.Equal(t, entity.Self, variant.Classify(255, entity.RoleSideB), variant.Name)
			assert.Equal(t, entity.Opponent, variant.Classify(0, entity.RoleSideB), variant.Name)
		}
	})

	t.Run("Dead zone is empty for every role", func(t *testing.T) {
		for _, variant := range []Variant{PixelVariant, WindowVariant} {
			for brightness := variant.Dark; brightness <= variant.Bright; brightness++ {
				assert.Equal(t, entity.Empty, variant.Classify(brightness, entity.RoleSideA))
				assert.Equal(t, entity.Empty, variant.Classify(brightness, entity.RoleSideB))
			}
		}
	})
}

func TestVariantByName(t *testing.T) {
	variant, err := VariantByName(ReaderWindow)
	require.NoError(t, err)
	assert.Equal(t, WindowVariant, variant)

	_, err = VariantByName("histogram")
	assert.ErrorIs(t, err, ErrUnknownReader)
}

func TestBoardReader_Read(t *testing.T) {
	// Given: a frame in the dead zone with a bright piece on cell 0 and a dark one on cell 4
	frame := newFrame(t, 180)
	centers := make(entity.GridCenters, 0, entity.GridCells)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			centers = append(centers, entity.Point{X: 210 + col*100, Y: 130 + row*100})
		}
	}
	gocv.Rectangle(&frame, image.Rect(198, 118, 222, 142), shade(255), -1)
	gocv.Rectangle(&frame, image.Rect(298, 218, 322, 242), shade(0), -1)

	t.Run("Pixel variant as side A", func(t *testing.T) {
		board, err := NewBoardReader(PixelVariant).Read(frame, centers, entity.RoleSideA)

		require.NoError(t, err)
		assert.Equal(t, entity.Board{entity.Opponent, 0, 0, 0, entity.Self, 0, 0, 0, 0}, board)
	})

	t.Run("Window variant as side A", func(t *testing.T) {
		board, err := NewBoardReader(WindowVariant).Read(frame, centers, entity.RoleSideA)

		require.NoError(t, err)
		assert.Equal(t, entity.Board{entity.Opponent, 0, 0, 0, entity.Self, 0, 0, 0, 0}, board)
	})

	t.Run("Window variant as side B", func(t *testing.T) {
		board, err := NewBoardReader(WindowVariant).Read(frame, centers, entity.RoleSideB)

		require.NoError(t, err)
		assert.Equal(t, entity.Board{entity.Self, 0, 0, 0, entity.Opponent, 0, 0, 0, 0}, board)
	})

	t.Run("Missing centers", func(t *testing.T) {
		_, err := NewBoardReader(PixelVariant).Read(frame, nil, entity.RoleSideA)

		assert.ErrorIs(t, err, ErrNoGrid)
	})

	t.Run("Missing role", func(t *testing.T) {
		_, err := NewBoardReader(PixelVariant).Read(frame, centers, entity.RoleNone)

		assert.ErrorIs(t, err, ErrNoRole)
	})

	t.Run("Center outside the frame", func(t *testing.T) {
		outside := append(entity.GridCenters(nil), centers...)
		outside[8] = entity.Point{X: 700, Y: 10}

		_, err := NewBoardReader(WindowVariant).Read(frame, outside, entity.RoleSideA)

		assert.ErrorIs(t, err, ErrNoGrid)
	})
}
