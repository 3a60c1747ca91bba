package entity

import "time"

// Role - which side the controller asked the robot to read the board as.
type Role int

const (
	RoleNone Role = iota
	RoleSideA
	RoleSideB
)

func (that Role) String() string {
	switch that {
	case RoleSideA:
		return "side-a"
	case RoleSideB:
		return "side-b"
	default:
		return "none"
	}
}

type Outcome int

const (
	Undecided Outcome = iota
	SelfWins
	OpponentWins
	Draw
)

var outcomeCodes = map[Outcome]byte{
	Undecided:    0,
	SelfWins:     1,
	OpponentWins: 2,
	Draw:         3,
}

// Code - the wire code the controller expects for the outcome.
func (that Outcome) Code() byte {
	return outcomeCodes[that]
}

func OutcomeFromCode(code byte) (Outcome, bool) {
	for outcome, c := range outcomeCodes {
		if c == code {
			return outcome, true
		}
	}

	return Undecided, false
}

func (that Outcome) String() string {
	switch that {
	case SelfWins:
		return "computer"
	case OpponentWins:
		return "human"
	case Draw:
		return "draw"
	default:
		return "undecided"
	}
}

func (that Outcome) IsFinal() bool {
	return that != Undecided
}

// Command - a request decoded from the controller.
type Command int

const (
	CommandNone Command = iota
	CommandReadAsSideA
	CommandReadAsSideB
	CommandReset
	CommandUnreset
)

func (that Command) String() string {
	switch that {
	case CommandReadAsSideA:
		return "read-side-a"
	case CommandReadAsSideB:
		return "read-side-b"
	case CommandReset:
		return "reset"
	case CommandUnreset:
		return "unreset"
	default:
		return "none"
	}
}

// Role - the role carried by a read command.
func (that Command) Role() Role {
	switch that {
	case CommandReadAsSideA:
		return RoleSideA
	case CommandReadAsSideB:
		return RoleSideB
	default:
		return RoleNone
	}
}

type CheatReport struct {
	Detected bool
	From     int
	To       int
}

// GameRecord - the persisted history of one game between resets.
type GameRecord struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Board     Board     `json:"board"`
	Outcome   Outcome   `json:"outcome"`
	Moves     []int     `json:"moves"`
	Cheats    int       `json:"cheats"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewGameRecord(id string) *GameRecord {
	return &GameRecord{
		ID:    id,
		Moves: []int{},
	}
}
