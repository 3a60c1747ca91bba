package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gocv.io/x/gocv"

	"github.com/rocketscienceinc/tictactoe-robot/internal/entity"
	"github.com/rocketscienceinc/tictactoe-robot/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-robot/internal/vision"
)

var errImageNotLoaded = errors.New("image not loaded")

var (
	detectStrategy string
	detectReader   string
	detectSide     string
)

// detectResult - what one frame tells about the table.
type detectResult struct {
	Grid    *entity.Grid      `json:"grid,omitempty"`
	Pieces  entity.PieceSet   `json:"pieces"`
	Board   *string           `json:"board,omitempty"`
	Cells   *entity.Board     `json:"cells,omitempty"`
	Outcome string            `json:"outcome,omitempty"`
	Misses  map[string]string `json:"misses,omitempty"`
}

var detectCmd = &cobra.Command{
	Use:   "detect <image>",
	Short: "Run grid, piece and board detection on one image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := runDetect(args[0])
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")

		return enc.Encode(result)
	},
}

func init() {
	detectCmd.Flags().StringVar(&detectStrategy, "strategy", vision.StrategyContour, "grid strategy: contour or color")
	detectCmd.Flags().StringVar(&detectReader, "reader", vision.ReaderPixel, "board reader: pixel or window")
	detectCmd.Flags().StringVar(&detectSide, "side", "a", "side the board is read as: a or b")

	rootCmd.AddCommand(detectCmd)
}

func runDetect(path string) (*detectResult, error) {
	gridLocator, err := vision.NewGridLocator(detectStrategy)
	if err != nil {
		return nil, err
	}

	variant, err := vision.VariantByName(detectReader)
	if err != nil {
		return nil, err
	}

	role := entity.RoleSideA
	if detectSide == "b" {
		role = entity.RoleSideB
	}

	frame := gocv.IMRead(path, gocv.IMReadColor)
	defer frame.Close()

	if frame.Empty() {
		return nil, fmt.Errorf("%w: %s", errImageNotLoaded, path)
	}

	result := &detectResult{Misses: map[string]string{}}

	grid, err := gridLocator.Locate(frame)
	if err != nil {
		result.Misses["grid"] = err.Error()
		return result, nil
	}

	result.Grid = &grid

	if grid.Boundary.Plausible(frame.Cols()) {
		result.Pieces = vision.NewPieceLocator().Locate(frame, grid.Boundary)
	} else {
		result.Misses["pieces"] = "tray boundary implausible"
	}

	board, err := vision.NewBoardReader(variant).Read(frame, grid.Centers, role)
	if err != nil {
		result.Misses["board"] = err.Error()
		return result, nil
	}

	rendered := board.String()
	result.Board = &rendered
	result.Cells = &board
	result.Outcome = tictactoe.DecideOutcome(board).String()

	return result, nil
}

