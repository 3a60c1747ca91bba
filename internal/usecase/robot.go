package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gocv.io/x/gocv"

	"github.com/rocketscienceinc/tictactoe-robot/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-robot/internal/entity"
	"github.com/rocketscienceinc/tictactoe-robot/internal/metrics"
	"github.com/rocketscienceinc/tictactoe-robot/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-robot/internal/protocol"
	"github.com/rocketscienceinc/tictactoe-robot/internal/tictactoe"
)

const defaultMaxFaults = 10

var ErrCyclePanicked = errors.New("cycle panicked")

type frameSource interface {
	Latest() (gocv.Mat, bool)
	Continuous() bool
}

type gridLocator interface {
	Locate(frame gocv.Mat) (entity.Grid, error)
}

type pieceLocator interface {
	Locate(frame gocv.Mat, boundary entity.Boundary) entity.PieceSet
}

type boardReader interface {
	Read(frame gocv.Mat, centers entity.GridCenters, role entity.Role) (entity.Board, error)
}

type commandSource interface {
	Next() (entity.Command, error)
}

type messageSink interface {
	Send(messages ...protocol.Message) error
}

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.GameRecord) error
}

type Dependencies struct {
	Frames   frameSource
	Grid     gridLocator
	Pieces   pieceLocator
	Board    boardReader
	Commands commandSource
	Messages messageSink

	// Games is optional, records are not persisted without it.
	Games   gameRepo
	Metrics *metrics.Metrics
}

type Options struct {
	Method    tictactoe.Method
	Interval  time.Duration
	MaxFaults int
}

// Robot - the control loop: frame in, detection out, commands in, moves out.
type Robot struct {
	logger *slog.Logger
	deps   Dependencies
	opts   Options

	session *Session
}

func NewRobot(logger *slog.Logger, deps Dependencies, opts Options) *Robot {
	if opts.MaxFaults <= 0 {
		opts.MaxFaults = defaultMaxFaults
	}

	if opts.Method == "" {
		opts.Method = tictactoe.MethodAlphaBeta
	}

	return &Robot{
		logger:  logger.With("component", "robot"),
		deps:    deps,
		opts:    opts,
		session: NewSession(pkg.GenerateGameID()),
	}
}

func (that *Robot) Session() *Session {
	return that.session
}

// Run - steps until ctx is cancelled, a fatal error occurs or too many cycles in a row fail.
func (that *Robot) Run(ctx context.Context) error {
	log := that.logger.With("method", "Run")
	log.Info("control loop started", "game_id", that.session.Record.ID)

	for {
		select {
		case <-ctx.Done():
			log.Info("control loop stopped")
			return nil
		default:
		}

		err := that.safeStep(ctx)
		switch {
		case err == nil:
			that.session.Faults = 0
		case errors.Is(err, apperror.ErrNoFrame):
			return err
		default:
			that.session.Faults++
			that.deps.Metrics.Faults.Inc()
			log.Warn("cycle failed", "error", err, "faults", that.session.Faults)

			if that.session.Faults > that.opts.MaxFaults {
				return fmt.Errorf("%w: %w", apperror.ErrTooManyFaults, err)
			}
		}

		if that.opts.Interval > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(that.opts.Interval):
			}
		}
	}
}

// safeStep - Step with a panic turned into an error that counts as a fault.
func (that *Robot) safeStep(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrCyclePanicked, r)
		}
	}()

	return that.Step(ctx)
}

// Step - one cycle of the loop.
func (that *Robot) Step(ctx context.Context) error {
	frame, ok := that.deps.Frames.Latest()
	defer frame.Close()

	if !ok {
		if that.deps.Frames.Continuous() {
			return nil
		}

		return apperror.ErrNoFrame
	}

	that.deps.Metrics.Frames.Inc()

	if err := that.detect(frame); err != nil {
		return err
	}

	cmd, err := that.deps.Commands.Next()
	if err != nil {
		return fmt.Errorf("failed to read command: %w", err)
	}

	that.handleCommand(cmd)

	if !that.session.PendingRead {
		return nil
	}

	return that.readBoard(ctx, frame)
}

func (that *Robot) detect(frame gocv.Mat) error {
	grid, err := that.deps.Grid.Locate(frame)
	if err != nil {
		that.logger.Debug("grid not detected", "error", err)
		that.deps.Metrics.DetectionMisses.WithLabelValues(metrics.StageGrid).Inc()
		return nil
	}

	that.session.Centers = grid.Centers

	if err = that.deps.Messages.Send(protocol.Grid(grid.Centers)...); err != nil {
		return fmt.Errorf("failed to send grid: %w", err)
	}

	if !grid.Boundary.Plausible(frame.Cols()) {
		that.logger.Debug("tray boundary implausible", "left", grid.Boundary.Left, "right", grid.Boundary.Right)
		that.deps.Metrics.DetectionMisses.WithLabelValues(metrics.StagePieces).Inc()
		return nil
	}

	pieces := that.deps.Pieces.Locate(frame, grid.Boundary)
	if pieces.Empty() {
		that.deps.Metrics.DetectionMisses.WithLabelValues(metrics.StagePieces).Inc()
		return nil
	}

	if err = that.deps.Messages.Send(protocol.Pieces(pieces)...); err != nil {
		return fmt.Errorf("failed to send pieces: %w", err)
	}

	return nil
}

func (that *Robot) handleCommand(cmd entity.Command) {
	if cmd == entity.CommandNone {
		return
	}

	that.deps.Metrics.Commands.WithLabelValues(cmd.String()).Inc()
	log := that.logger.With("command", cmd.String())

	switch cmd {
	case entity.CommandReadAsSideA, entity.CommandReadAsSideB:
		that.session.RequestRead(cmd.Role())
		log.Debug("board read requested")
	case entity.CommandReset:
		that.session.Reset(pkg.GenerateGameID())
		log.Info("game reset", "game_id", that.session.Record.ID)
	case entity.CommandUnreset:
		that.session.PendingRead = false
		log.Info("pending read cancelled")
	}
}

func (that *Robot) readBoard(ctx context.Context, frame gocv.Mat) error {
	log := that.logger.With("method", "readBoard", "game_id", that.session.Record.ID)

	board, err := that.deps.Board.Read(frame, that.session.Centers, that.session.Role)
	if err != nil {
		log.Debug("board not read, retrying next frame", "error", err)
		that.deps.Metrics.DetectionMisses.WithLabelValues(metrics.StageBoard).Inc()
		return nil
	}

	that.session.PendingRead = false

	if that.session.HasBoard {
		last := that.session.LastBoard

		report := tictactoe.DetectCheat(last, board)
		if report.Detected {
			log.Warn("robot piece moved", "from", report.From, "to", report.To)

			if err = that.deps.Messages.Send(protocol.CheatAlert(report)); err != nil {
				return fmt.Errorf("failed to send cheat alert: %w", err)
			}

			that.deps.Metrics.Cheats.Inc()
			that.session.Record.Cheats++
			that.save(ctx)

			return nil
		}

		if board.Count() != last.Count()+1 {
			log.Warn("board changed unexpectedly", "previous", last.String(), "current", board.String())
		}
	}

	outcome := tictactoe.DecideOutcome(board)

	if outcome == entity.Undecided {
		outcome, err = that.play(&board)
		if err != nil {
			return err
		}
	}

	if outcome.IsFinal() {
		log.Info("game finished", "outcome", outcome.String())

		if err = that.deps.Messages.Send(protocol.GameOutcome(outcome)); err != nil {
			return fmt.Errorf("failed to send outcome: %w", err)
		}

		that.deps.Metrics.Outcomes.WithLabelValues(outcome.String()).Inc()
	}

	that.session.Accept(board, outcome)
	that.save(ctx)

	return nil
}

// play - answers with the best move and applies it to board.
func (that *Robot) play(board *entity.Board) (entity.Outcome, error) {
	move, ok := tictactoe.BestMove(*board, that.opts.Method)
	if !ok {
		return tictactoe.DecideOutcome(*board), nil
	}

	if err := that.deps.Messages.Send(protocol.ComputerMove(move)); err != nil {
		return entity.Undecided, fmt.Errorf("failed to send move: %w", err)
	}

	outcome, err := tictactoe.PlaySelf(board, move)
	if err != nil {
		return entity.Undecided, fmt.Errorf("failed to apply move: %w", err)
	}

	that.deps.Metrics.Moves.Inc()
	that.session.Record.Moves = append(that.session.Record.Moves, move.Index())
	that.logger.Debug("move sent", "cell", move.Index(), "board", board.String())

	return outcome, nil
}

func (that *Robot) save(ctx context.Context) {
	if that.deps.Games == nil {
		return
	}

	if err := that.deps.Games.CreateOrUpdate(ctx, that.session.Record); err != nil {
		that.logger.Error("could not save game", "game_id", that.session.Record.ID, "error", err)
	}
}
