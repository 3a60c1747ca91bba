package usecase

import (
	"time"

	"github.com/rocketscienceinc/tictactoe-robot/internal/entity"
)

// Session - state the control loop carries between frames.
type Session struct {
	Role    entity.Role
	Centers entity.GridCenters

	LastBoard entity.Board
	HasBoard  bool

	PendingRead bool
	Faults      int

	Record *entity.GameRecord
}

func NewSession(gameID string) *Session {
	return &Session{
		Record: entity.NewGameRecord(gameID),
	}
}

// Reset - starts a new game. Grid centers survive, they describe the camera view and not the game.
func (that *Session) Reset(gameID string) {
	that.Role = entity.RoleNone
	that.LastBoard = entity.Board{}
	that.HasBoard = false
	that.PendingRead = false
	that.Record = entity.NewGameRecord(gameID)
}

// RequestRead - the controller asked for a board read as the given side.
func (that *Session) RequestRead(role entity.Role) {
	that.Role = role
	that.PendingRead = true
	that.Record.Role = role
}

// Accept - the board becomes the reference for the next cheat check.
func (that *Session) Accept(board entity.Board, outcome entity.Outcome) {
	that.LastBoard = board
	that.HasBoard = true

	that.Record.Board = board
	that.Record.Outcome = outcome
	that.Record.UpdatedAt = time.Now().UTC()
}
