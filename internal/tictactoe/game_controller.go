package tictactoe

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-robot/internal/entity"
)

var ErrGameFinished = errors.New("game is already finished")

// DecideOutcome - opponent lines are checked first, then the robot's, then a full board.
func DecideOutcome(board entity.Board) entity.Outcome {
	switch {
	case board.HasLine(entity.Opponent):
		return entity.OpponentWins
	case board.HasLine(entity.Self):
		return entity.SelfWins
	case board.IsFull():
		return entity.Draw
	default:
		return entity.Undecided
	}
}

// PlaySelf - places the robot's symbol and returns the outcome afterwards.
func PlaySelf(board *entity.Board, move entity.Move) (entity.Outcome, error) {
	if DecideOutcome(*board).IsFinal() {
		return DecideOutcome(*board), ErrGameFinished
	}

	if err := board.Place(entity.Self, move); err != nil {
		return entity.Undecided, fmt.Errorf("invalid turn: %w", err)
	}

	return DecideOutcome(*board), nil
}
