package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoard_HasLine(t *testing.T) {
	t.Run("Returns true when Self holds a row", func(t *testing.T) {
		// Given: a board where Self has the top row
		board := Board{
			Self, Self, Self,
			Opponent, Opponent, Empty,
			Empty, Empty, Empty,
		}

		// Then: Self has a line and Opponent does not
		assert.True(t, board.HasLine(Self))
		assert.False(t, board.HasLine(Opponent))
	})

	t.Run("Returns true for the anti-diagonal", func(t *testing.T) {
		// Given: a board where Opponent holds 2, 4, 6
		board := Board{
			Empty, Self, Opponent,
			Self, Opponent, Empty,
			Opponent, Empty, Empty,
		}

		// Then: the diagonal is detected
		assert.True(t, board.HasLine(Opponent))
	})

	t.Run("Empty board has no lines", func(t *testing.T) {
		board := Board{}

		assert.False(t, board.HasLine(Empty))
		assert.False(t, board.HasLine(Self))
		assert.False(t, board.HasLine(Opponent))
	})
}

func TestBoard_CountAndPositions(t *testing.T) {
	// Given: a board with two Self and one Opponent piece
	board := Board{
		Self, Empty, Empty,
		Empty, Opponent, Empty,
		Empty, Empty, Self,
	}

	// Then: counting and positions reflect the pieces
	assert.Equal(t, 3, board.Count())
	assert.Equal(t, []int{0, 8}, board.Positions(Self))
	assert.Equal(t, []int{4}, board.Positions(Opponent))
	assert.False(t, board.IsFull())
	assert.Equal(t, Opponent, board.At(1, 1))
}

func TestBoard_Place(t *testing.T) {
	t.Run("Places symbol on an empty cell", func(t *testing.T) {
		board := Board{}

		err := board.Place(Self, Move{Row: 2, Col: 1})

		require.NoError(t, err)
		assert.Equal(t, Self, board[7])
	})

	t.Run("Error on occupied cell", func(t *testing.T) {
		board := Board{}
		board[4] = Opponent

		err := board.Place(Self, Move{Row: 1, Col: 1})

		require.ErrorIs(t, err, ErrCellOccupied)
		assert.Equal(t, Opponent, board[4])
	})

	t.Run("Error on invalid cell", func(t *testing.T) {
		board := Board{}

		err := board.Place(Self, Move{Row: 3, Col: 0})

		assert.ErrorIs(t, err, ErrInvalidCell)
	})
}

func TestMove_Index(t *testing.T) {
	for idx := 0; idx < GridCells; idx++ {
		move := MoveFromIndex(idx)

		assert.True(t, move.Valid())
		assert.Equal(t, idx, move.Index())
	}
}

func TestBoundary_Plausible(t *testing.T) {
	assert.True(t, Boundary{Left: 180, Right: 450}.Plausible(640))
	assert.False(t, Boundary{Left: 5, Right: 450}.Plausible(640))
	assert.False(t, Boundary{Left: 180, Right: 635}.Plausible(640))
	assert.False(t, NoBoundary.Plausible(640))
}

func TestOutcome_Code(t *testing.T) {
	// Then: every outcome maps to its controller code and back
	for outcome, code := range map[Outcome]byte{Undecided: 0, SelfWins: 1, OpponentWins: 2, Draw: 3} {
		assert.Equal(t, code, outcome.Code())

		decoded, ok := OutcomeFromCode(code)
		require.True(t, ok)
		assert.Equal(t, outcome, decoded)
	}

	_, ok := OutcomeFromCode(9)
	assert.False(t, ok)
}

func TestCommand_Role(t *testing.T) {
	assert.Equal(t, RoleSideA, CommandReadAsSideA.Role())
	assert.Equal(t, RoleSideB, CommandReadAsSideB.Role())
	assert.Equal(t, RoleNone, CommandReset.Role())
}
