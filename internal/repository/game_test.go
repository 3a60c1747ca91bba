package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-robot/internal/entity"
	"github.com/rocketscienceinc/tictactoe-robot/testing/suite"
)

func TestGameRepository_CreateOrUpdate(t *testing.T) {
	ctx, st := suite.New(t)

	gameRepo := NewGameRepository(st.Storage)

	// Given: a game record with a board and one robot move
	game := entity.NewGameRecord("123")
	game.Role = entity.RoleSideA
	game.Board[4] = entity.Self
	game.Moves = append(game.Moves, 4)

	// When: CreateOrUpdate is called
	err := gameRepo.CreateOrUpdate(ctx, game)

	// Then: no error should be returned, and game is stored
	require.NoError(t, err)
}

func TestGameRepository_GetByID(t *testing.T) {
	t.Run("GetByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage)

		// Given: a stored game record
		game := entity.NewGameRecord("123")
		game.Role = entity.RoleSideB
		game.Board = entity.Board{entity.Opponent, 0, 0, 0, entity.Self, 0, 0, 0, 0}
		game.Outcome = entity.Undecided
		game.Moves = []int{4}
		game.Cheats = 1
		game.UpdatedAt = time.Date(2024, 7, 29, 12, 0, 0, 0, time.UTC)

		err := gameRepo.CreateOrUpdate(ctx, game)
		require.NoError(t, err)

		// When: GetByID is called with existing ID
		retrievedGame, err := gameRepo.GetByID(ctx, game.ID)

		// Then: the retrieved game should match the saved game
		require.NoError(t, err)
		assert.Equal(t, game, retrievedGame)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage)

		// When: GetByID is called with non-existent ID
		retrievedGame, err := gameRepo.GetByID(ctx, "9999999")

		// Then: an ErrGameNotFound error should be returned
		require.ErrorIs(t, err, ErrGameNotFound)
		assert.Nil(t, retrievedGame)
	})
}

func TestGameRepository_Recent(t *testing.T) {
	ctx, st := suite.New(t)

	gameRepo := NewGameRepository(st.Storage)

	// Given: three games, the first one updated again last
	for _, id := range []string{"1", "2", "3", "1"} {
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, entity.NewGameRecord(id)))
	}

	// When: listing recent games
	ids, err := gameRepo.Recent(ctx, 10)

	// Then: ids are unique and newest first
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3", "2"}, ids)

	ids, err = gameRepo.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestGameRepository_DeleteByID(t *testing.T) {
	ctx, st := suite.New(t)

	gameRepo := NewGameRepository(st.Storage)

	// Given: a stored game
	game := entity.NewGameRecord("123")
	require.NoError(t, gameRepo.CreateOrUpdate(ctx, game))

	// When: DeleteByID is called with existing ID
	err := gameRepo.DeleteByID(ctx, game.ID)

	// Then: the game is gone, including from the recent list
	require.NoError(t, err)

	_, err = gameRepo.GetByID(ctx, game.ID)
	require.ErrorIs(t, err, ErrGameNotFound)

	ids, err := gameRepo.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
