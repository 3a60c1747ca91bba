package protocol

import (
	"bytes"
	"fmt"
	"io"

	"github.com/rocketscienceinc/tictactoe-robot/internal/entity"
)

// Sub-opcodes sent by the controller after StartByte.
const (
	SubReadSideA byte = 0xB1
	SubReadSideB byte = 0xC1
	SubReset     byte = 0xA1
	SubResetAck  byte = 0xA2
)

// Stream - the byte link to the controller.
// Available reports how many bytes can be read without blocking.
type Stream interface {
	io.ReadWriter
	Available() (int, error)
}

type Decoder struct {
	stream Stream
	buf    [1]byte

	// a StartByte met where a terminator was expected, kept for the next scan
	pending    byte
	hasPending bool
}

func NewDecoder(stream Stream) *Decoder {
	return &Decoder{stream: stream}
}

// Next - scans at most one command off the stream.
// Malformed or incomplete sequences are discarded and yield CommandNone;
// an error is returned only when the stream itself fails.
func (that *Decoder) Next() (entity.Command, error) {
	b, ok, err := that.readByte()
	if err != nil || !ok || b != StartByte {
		return entity.CommandNone, err
	}

	sub, ok, err := that.readByte()
	if err != nil || !ok {
		return entity.CommandNone, err
	}

	cmd := entity.CommandNone

	switch sub {
	case EndByte:
		return entity.CommandNone, nil
	case StartByte:
		that.unread(sub)
		return entity.CommandNone, nil
	case SubReadSideA:
		cmd = entity.CommandReadAsSideA
	case SubReadSideB:
		cmd = entity.CommandReadAsSideB
	case SubReset:
		next, ok, err := that.readByte()
		if err != nil || !ok {
			return entity.CommandNone, err
		}

		switch next {
		case SubResetAck:
			cmd = entity.CommandReset
		case EndByte:
			return entity.CommandUnreset, nil
		case StartByte:
			that.unread(next)
			return entity.CommandNone, nil
		default:
			cmd = entity.CommandUnreset
		}
	}

	end, ok, err := that.readByte()
	if err != nil || !ok {
		return entity.CommandNone, err
	}

	if end != EndByte {
		if end == StartByte {
			that.unread(end)
		}

		return entity.CommandNone, nil
	}

	return cmd, nil
}

func (that *Decoder) unread(b byte) {
	that.pending = b
	that.hasPending = true
}

func (that *Decoder) readByte() (byte, bool, error) {
	if that.hasPending {
		that.hasPending = false
		return that.pending, true, nil
	}

	n, err := that.stream.Available()
	if err != nil {
		return 0, false, fmt.Errorf("failed to poll stream: %w", err)
	}

	if n == 0 {
		return 0, false, nil
	}

	if _, err = io.ReadFull(that.stream, that.buf[:]); err != nil {
		return 0, false, fmt.Errorf("failed to read stream: %w", err)
	}

	return that.buf[0], true, nil
}

// DecodeCommand - runs the command scan over a complete byte sequence.
func DecodeCommand(data []byte) entity.Command {
	cmd, _ := NewDecoder(&bufferStream{Reader: bytes.NewReader(data)}).Next()
	return cmd
}

type bufferStream struct {
	*bytes.Reader
}

func (that *bufferStream) Available() (int, error) {
	return that.Len(), nil
}

func (that *bufferStream) Write(_ []byte) (int, error) {
	return 0, io.ErrShortWrite
}

// Writer - frames and sends messages on the stream.
type Writer struct {
	w io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (that *Writer) Send(messages ...Message) error {
	for _, msg := range messages {
		frame, err := msg.MarshalBinary()
		if err != nil {
			return fmt.Errorf("failed to encode message: %w", err)
		}

		if _, err = that.w.Write(frame); err != nil {
			return fmt.Errorf("failed to write message: %w", err)
		}
	}

	return nil
}
