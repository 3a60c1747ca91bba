package entity

import (
	"errors"
	"fmt"
	"strings"
)

type Cell int

const (
	Empty Cell = iota
	Self
	Opponent
)

const BoardSize = 3

var (
	ErrInvalidCell  = errors.New("invalid cell index")
	ErrCellOccupied = errors.New("cell is already occupied")

	WinCombos = [][3]int{
		{0, 1, 2},
		{3, 4, 5},
		{6, 7, 8},
		{0, 3, 6},
		{1, 4, 7},
		{2, 5, 8},
		{0, 4, 8},
		{2, 4, 6},
	}
)

func (that Cell) String() string {
	switch that {
	case Self:
		return "O"
	case Opponent:
		return "X"
	default:
		return " "
	}
}

// Board - the 3x3 playing field in row-major order.
type Board [BoardSize * BoardSize]Cell

func (that *Board) At(row, col int) Cell {
	return that[row*BoardSize+col]
}

func (that *Board) Count() int {
	n := 0
	for _, cell := range that {
		if cell != Empty {
			n++
		}
	}

	return n
}

// Positions - linear indices of all cells holding the given symbol.
func (that *Board) Positions(symbol Cell) []int {
	positions := make([]int, 0, len(that))
	for i, cell := range that {
		if cell == symbol {
			positions = append(positions, i)
		}
	}

	return positions
}

func (that *Board) IsFull() bool {
	for _, cell := range that {
		if cell == Empty {
			return false
		}
	}

	return true
}

// HasLine - reports whether the symbol occupies a full row, column or diagonal.
func (that *Board) HasLine(symbol Cell) bool {
	for _, combo := range WinCombos {
		if that[combo[0]] == symbol && that[combo[1]] == symbol && that[combo[2]] == symbol {
			return true
		}
	}

	return false
}

func (that *Board) Place(symbol Cell, move Move) error {
	if !move.Valid() {
		return fmt.Errorf("%w: %d,%d", ErrInvalidCell, move.Row, move.Col)
	}

	idx := move.Index()
	if that[idx] != Empty {
		return ErrCellOccupied
	}

	that[idx] = symbol

	return nil
}

func (that Board) String() string {
	rows := make([]string, 0, BoardSize)
	for row := 0; row < BoardSize; row++ {
		cells := make([]string, 0, BoardSize)
		for col := 0; col < BoardSize; col++ {
			cells = append(cells, that.At(row, col).String())
		}
		rows = append(rows, strings.Join(cells, "|"))
	}

	return strings.Join(rows, "\n")
}

type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func MoveFromIndex(idx int) Move {
	return Move{Row: idx / BoardSize, Col: idx % BoardSize}
}

func (that Move) Index() int {
	return that.Row*BoardSize + that.Col
}

func (that Move) Valid() bool {
	return that.Row >= 0 && that.Row < BoardSize && that.Col >= 0 && that.Col < BoardSize
}
