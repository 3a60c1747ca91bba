package tictactoe

import (
	"errors"
	"fmt"
	"math"

	"github.com/rocketscienceinc/tictactoe-robot/internal/entity"
)

type Method string

const (
	MethodMinimax   Method = "minimax"
	MethodAlphaBeta Method = "alpha-beta"
)

var ErrUnknownMethod = errors.New("unknown search method")

const (
	scoreLoss = -1
	scoreWin  = 1
	scoreDraw = 0
)

var center = entity.Move{Row: 1, Col: 1}

func ParseMethod(name string) (Method, error) {
	switch Method(name) {
	case MethodMinimax, MethodAlphaBeta:
		return Method(name), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMethod, name)
	}
}

// BestMove - the robot (Self) is the maximizing side and moves next.
// Returns false only when the board has no empty cell.
func BestMove(board entity.Board, method Method) (entity.Move, bool) {
	if board[center.Index()] == entity.Empty {
		return center, true
	}

	best := math.MinInt
	var move entity.Move
	found := false

	for _, idx := range board.Positions(entity.Empty) {
		board[idx] = entity.Self

		var score int
		if method == MethodAlphaBeta {
			score = alphaBeta(&board, math.MinInt, math.MaxInt, false)
		} else {
			score = minimax(&board, false)
		}

		board[idx] = entity.Empty

		if score > best {
			best = score
			move = entity.MoveFromIndex(idx)
			found = true
		}
	}

	return move, found
}

func terminalScore(board *entity.Board) (int, bool) {
	switch {
	case board.HasLine(entity.Opponent):
		return scoreLoss, true
	case board.HasLine(entity.Self):
		return scoreWin, true
	case board.IsFull():
		return scoreDraw, true
	default:
		return 0, false
	}
}

func minimax(board *entity.Board, maximizing bool) int {
	if score, done := terminalScore(board); done {
		return score
	}

	if maximizing {
		best := math.MinInt
		for _, idx := range board.Positions(entity.Empty) {
			board[idx] = entity.Self
			best = max(best, minimax(board, false))
			board[idx] = entity.Empty
		}

		return best
	}

	best := math.MaxInt
	for _, idx := range board.Positions(entity.Empty) {
		board[idx] = entity.Opponent
		best = min(best, minimax(board, true))
		board[idx] = entity.Empty
	}

	return best
}

func alphaBeta(board *entity.Board, alpha, beta int, maximizing bool) int {
	if score, done := terminalScore(board); done {
		return score
	}

	if maximizing {
		best := math.MinInt
		for _, idx := range board.Positions(entity.Empty) {
			board[idx] = entity.Self
			score := alphaBeta(board, alpha, beta, false)
			board[idx] = entity.Empty

			best = max(best, score)
			alpha = max(alpha, score)
			if beta <= alpha {
				break
			}
		}

		return best
	}

	best := math.MaxInt
	for _, idx := range board.Positions(entity.Empty) {
		board[idx] = entity.Opponent
		score := alphaBeta(board, alpha, beta, true)
		board[idx] = entity.Empty

		best = min(best, score)
		beta = min(beta, score)
		if beta <= alpha {
			break
		}
	}

	return best
}
