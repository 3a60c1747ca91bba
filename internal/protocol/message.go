package protocol

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-robot/internal/entity"
)

const (
	StartByte byte = 0xFF
	EndByte   byte = 0xFE
)

type Opcode byte

const (
	OpPieceCoordinate Opcode = 0x01
	OpGridCoordinate  Opcode = 0x02
	OpComputerMove    Opcode = 0x03
	OpGameOutcome     Opcode = 0x04
	OpCheatAlert      Opcode = 0x05
)

// Tray codes carried by OpPieceCoordinate.
const (
	TrayBlack byte = 0x01
	TrayWhite byte = 0x02
)

var payloadLengths = map[Opcode]int{
	OpPieceCoordinate: 6,
	OpGridCoordinate:  5,
	OpComputerMove:    1,
	OpGameOutcome:     1,
	OpCheatAlert:      2,
}

var (
	ErrMalformedFrame = errors.New("malformed frame")
	ErrUnknownOpcode  = errors.New("unknown opcode")
	ErrPayloadLength  = errors.New("unexpected payload length")
	ErrWrongOpcode    = errors.New("wrong opcode")
)

// Message - one outbound frame: StartByte, opcode, payload, EndByte.
type Message struct {
	Opcode  Opcode
	Payload []byte
}

func (that Message) MarshalBinary() ([]byte, error) {
	want, ok := payloadLengths[that.Opcode]
	if !ok {
		return nil, fmt.Errorf("%w: 0x%02X", ErrUnknownOpcode, byte(that.Opcode))
	}

	if len(that.Payload) != want {
		return nil, fmt.Errorf("%w: opcode 0x%02X has %d bytes", ErrPayloadLength, byte(that.Opcode), len(that.Payload))
	}

	frame := make([]byte, 0, len(that.Payload)+3)
	frame = append(frame, StartByte, byte(that.Opcode))
	frame = append(frame, that.Payload...)
	frame = append(frame, EndByte)

	return frame, nil
}

func (that *Message) UnmarshalBinary(data []byte) error {
	if len(data) < 3 || data[0] != StartByte || data[len(data)-1] != EndByte {
		return ErrMalformedFrame
	}

	opcode := Opcode(data[1])
	want, ok := payloadLengths[opcode]
	if !ok {
		return fmt.Errorf("%w: 0x%02X", ErrUnknownOpcode, data[1])
	}

	payload := data[2 : len(data)-1]
	if len(payload) != want {
		return fmt.Errorf("%w: opcode 0x%02X has %d bytes", ErrPayloadLength, data[1], len(payload))
	}

	that.Opcode = opcode
	that.Payload = append([]byte(nil), payload...)

	return nil
}

func (that Message) String() string {
	frame, err := that.MarshalBinary()
	if err != nil {
		return fmt.Sprintf("invalid(0x%02X)", byte(that.Opcode))
	}

	return fmt.Sprintf("% X", frame)
}

func splitCoordinate(v int) (byte, byte) {
	return byte(v >> 8), byte(v & 0xFF)
}

func joinCoordinate(hi, lo byte) int {
	return int(hi)<<8 | int(lo)
}

func PieceCoordinate(tray byte, index int, point entity.Point) Message {
	xHi, xLo := splitCoordinate(point.X)
	yHi, yLo := splitCoordinate(point.Y)

	return Message{
		Opcode:  OpPieceCoordinate,
		Payload: []byte{tray, byte(index), xHi, xLo, yHi, yLo},
	}
}

func GridCoordinate(index int, point entity.Point) Message {
	xHi, xLo := splitCoordinate(point.X)
	yHi, yLo := splitCoordinate(point.Y)

	return Message{
		Opcode:  OpGridCoordinate,
		Payload: []byte{byte(index), xHi, xLo, yHi, yLo},
	}
}

func ComputerMove(move entity.Move) Message {
	return Message{Opcode: OpComputerMove, Payload: []byte{byte(move.Index())}}
}

func GameOutcome(outcome entity.Outcome) Message {
	return Message{Opcode: OpGameOutcome, Payload: []byte{outcome.Code()}}
}

func CheatAlert(report entity.CheatReport) Message {
	return Message{Opcode: OpCheatAlert, Payload: []byte{byte(report.From), byte(report.To)}}
}

// Pieces - black tray first, then white, each in tray order.
func Pieces(pieces entity.PieceSet) []Message {
	messages := make([]Message, 0, len(pieces.Black)+len(pieces.White))
	for i, p := range pieces.Black {
		messages = append(messages, PieceCoordinate(TrayBlack, i, p))
	}

	for i, p := range pieces.White {
		messages = append(messages, PieceCoordinate(TrayWhite, i, p))
	}

	return messages
}

// Grid - nothing is sent unless all nine centers are known.
func Grid(centers entity.GridCenters) []Message {
	if !centers.Complete() {
		return nil
	}

	messages := make([]Message, 0, len(centers))
	for i, c := range centers {
		messages = append(messages, GridCoordinate(i, c))
	}

	return messages
}

func (that Message) expect(opcode Opcode) error {
	if that.Opcode != opcode {
		return fmt.Errorf("%w: got 0x%02X, want 0x%02X", ErrWrongOpcode, byte(that.Opcode), byte(opcode))
	}

	if len(that.Payload) != payloadLengths[opcode] {
		return ErrPayloadLength
	}

	return nil
}

func DecodePieceCoordinate(msg Message) (byte, int, entity.Point, error) {
	if err := msg.expect(OpPieceCoordinate); err != nil {
		return 0, 0, entity.NotFound, err
	}

	p := msg.Payload
	point := entity.Point{X: joinCoordinate(p[2], p[3]), Y: joinCoordinate(p[4], p[5])}

	return p[0], int(p[1]), point, nil
}

func DecodeGridCoordinate(msg Message) (int, entity.Point, error) {
	if err := msg.expect(OpGridCoordinate); err != nil {
		return 0, entity.NotFound, err
	}

	p := msg.Payload
	point := entity.Point{X: joinCoordinate(p[1], p[2]), Y: joinCoordinate(p[3], p[4])}

	return int(p[0]), point, nil
}

func DecodeComputerMove(msg Message) (entity.Move, error) {
	if err := msg.expect(OpComputerMove); err != nil {
		return entity.Move{}, err
	}

	return entity.MoveFromIndex(int(msg.Payload[0])), nil
}

func DecodeGameOutcome(msg Message) (entity.Outcome, error) {
	if err := msg.expect(OpGameOutcome); err != nil {
		return entity.Undecided, err
	}

	outcome, ok := entity.OutcomeFromCode(msg.Payload[0])
	if !ok {
		return entity.Undecided, fmt.Errorf("%w: outcome code %d", ErrMalformedFrame, msg.Payload[0])
	}

	return outcome, nil
}

func DecodeCheatAlert(msg Message) (entity.CheatReport, error) {
	if err := msg.expect(OpCheatAlert); err != nil {
		return entity.CheatReport{}, err
	}

	return entity.CheatReport{Detected: true, From: int(msg.Payload[0]), To: int(msg.Payload[1])}, nil
}
