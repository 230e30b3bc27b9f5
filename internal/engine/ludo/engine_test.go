package ludo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playvn/gamehub-backend/internal/apperror"
	"github.com/playvn/gamehub-backend/internal/entity"
)

func roll(value int) entity.Move {
	return entity.Move{Ludo: &entity.DiceMove{RollRequest: true, Roll: value}}
}

func advance(piece int) entity.Move {
	return entity.Move{Ludo: &entity.DiceMove{Piece: piece}}
}

func TestEngine_New(t *testing.T) {
	t.Run("rejects a single player", func(t *testing.T) {
		_, err := New(1, Rules{})

		require.ErrorIs(t, err, apperror.ErrInvalidParticipantCount)
	})

	t.Run("starts with every piece in the yard", func(t *testing.T) {
		eng, err := New(2, Rules{})

		require.NoError(t, err)
		board := eng.Board()
		for _, pieces := range board.SeatPieces {
			assert.Equal(t, []int{Yard, Yard, Yard, Yard}, pieces)
		}
	})
}

func TestEngine_YardExit(t *testing.T) {
	t.Run("a low roll with everyone in the yard forfeits the turn", func(t *testing.T) {
		// Given: a fresh game, all pieces in the yard
		eng, err := New(2, Rules{})
		require.NoError(t, err)

		// When: the first player rolls a three
		_, rollErr := eng.Apply(0, roll(3))

		// Then: nothing can move and the turn passes
		require.NoError(t, rollErr)
		assert.Equal(t, 1, eng.CurrentSeat())
		assert.Zero(t, eng.PendingRoll())
	})

	t.Run("a maximum roll brings a piece out and grants an extra turn", func(t *testing.T) {
		eng, err := New(2, Rules{})
		require.NoError(t, err)

		// When: the player rolls the maximum and moves a piece out
		_, err = eng.Apply(0, roll(6))
		require.NoError(t, err)
		_, err = eng.Apply(0, advance(0))
		require.NoError(t, err)

		// Then: the piece stands on the entry cell and the player keeps the turn
		assert.Equal(t, 0, eng.Board().SeatPieces[0][0])
		assert.Equal(t, 0, eng.CurrentSeat())
	})
}

func TestEngine_RollDiscipline(t *testing.T) {
	t.Run("moving without a roll is rejected", func(t *testing.T) {
		eng, err := New(2, Rules{})
		require.NoError(t, err)

		_, err = eng.Apply(0, advance(0))

		require.Error(t, err)
		assert.Equal(t, apperror.ReasonNoRoll, apperror.IllegalMoveReason(err))
	})

	t.Run("rolling twice is rejected", func(t *testing.T) {
		eng, err := New(2, Rules{})
		require.NoError(t, err)
		eng.positions[0][0] = 10

		_, err = eng.Apply(0, roll(3))
		require.NoError(t, err)
		_, err = eng.Apply(0, roll(3))

		require.Error(t, err)
		assert.Equal(t, apperror.ReasonPendingRoll, apperror.IllegalMoveReason(err))
	})

	t.Run("a recorded roll replays deterministically", func(t *testing.T) {
		eng, err := New(2, Rules{})
		require.NoError(t, err)
		eng.positions[0][0] = 10

		applied, err := eng.Apply(0, roll(4))

		require.NoError(t, err)
		require.NotNil(t, applied.Ludo)
		assert.Equal(t, 4, applied.Ludo.Roll)
		assert.Equal(t, 4, eng.PendingRoll())
	})
}

func TestEngine_Capture(t *testing.T) {
	t.Run("landing on an opponent sends it home", func(t *testing.T) {
		// Given: the opponent stands on a plain cell the mover can reach
		eng, err := New(2, Rules{})
		require.NoError(t, err)
		eng.positions[0][0] = 9
		eng.positions[1][0] = 1 // absolute cell 15

		// When: the mover lands exactly on that cell
		_, err = eng.Apply(0, roll(6))
		require.NoError(t, err)
		_, err = eng.Apply(0, advance(0))
		require.NoError(t, err)

		// Then: the opponent's piece is back in the yard
		assert.Equal(t, 15, eng.Board().SeatPieces[0][0])
		assert.Equal(t, Yard, eng.Board().SeatPieces[1][0])
	})

	t.Run("pieces on safe cells survive", func(t *testing.T) {
		// Given: the opponent stands on a safe cell (a multiple of the seat spacing)
		eng, err := New(2, Rules{})
		require.NoError(t, err)
		eng.positions[1][0] = 42 // absolute cell 0

		// When: the mover's piece exits onto that cell
		_, err = eng.Apply(0, roll(6))
		require.NoError(t, err)
		_, err = eng.Apply(0, advance(0))
		require.NoError(t, err)

		// Then: both pieces share the cell
		assert.Equal(t, 0, eng.Board().SeatPieces[0][0])
		assert.Equal(t, 42, eng.Board().SeatPieces[1][0])
	})
}

func TestEngine_LaneAndTerminal(t *testing.T) {
	t.Run("a piece cannot overshoot the terminal cell", func(t *testing.T) {
		eng, err := New(2, Rules{})
		require.NoError(t, err)
		eng.positions[0][0] = 58

		assert.Empty(t, eng.MovablePieces(0, 5))
		assert.Equal(t, []int{0}, eng.MovablePieces(0, 3))
	})

	t.Run("a finished piece never moves again", func(t *testing.T) {
		eng, err := New(2, Rules{})
		require.NoError(t, err)
		eng.positions[0][0] = Terminal

		assert.Empty(t, eng.MovablePieces(0, 1))
	})

	t.Run("your own piece blocks the destination", func(t *testing.T) {
		eng, err := New(2, Rules{})
		require.NoError(t, err)
		eng.positions[0][0] = 10
		eng.positions[0][1] = 13

		assert.Equal(t, []int{1}, eng.MovablePieces(0, 3))
	})

	t.Run("bringing the last piece home wins", func(t *testing.T) {
		// Given: three pieces home and the last one five cells short
		eng, err := New(2, Rules{})
		require.NoError(t, err)
		eng.positions[0] = []int{Terminal, Terminal, Terminal, 56}

		// When: the exact roll lands it on the terminal cell
		_, err = eng.Apply(0, roll(5))
		require.NoError(t, err)
		_, err = eng.Apply(0, advance(3))
		require.NoError(t, err)

		// Then: the game ends with an all-home win
		require.True(t, eng.IsTerminal())
		result := eng.Result()
		require.NotNil(t, result)
		assert.Equal(t, 0, result.WinnerSeat)
		assert.Equal(t, entity.ResultAllHome, result.Reason)
	})
}

func TestEngine_MaxRollStreak(t *testing.T) {
	// Given: a player chaining maximum rolls
	eng, err := New(2, Rules{})
	require.NoError(t, err)

	_, err = eng.Apply(0, roll(6))
	require.NoError(t, err)
	_, err = eng.Apply(0, advance(0))
	require.NoError(t, err)
	_, err = eng.Apply(0, roll(6))
	require.NoError(t, err)
	_, err = eng.Apply(0, advance(0))
	require.NoError(t, err)
	assert.Equal(t, 0, eng.CurrentSeat())

	// When: the third consecutive maximum is rolled and played
	_, err = eng.Apply(0, roll(6))
	require.NoError(t, err)
	_, err = eng.Apply(0, advance(0))
	require.NoError(t, err)

	// Then: the extra turn is forfeited
	assert.Equal(t, 1, eng.CurrentSeat())
}

func TestEngine_Resign(t *testing.T) {
	t.Run("resigning with two players ends the game", func(t *testing.T) {
		eng, err := New(2, Rules{})
		require.NoError(t, err)

		eng.Resign(0)

		require.True(t, eng.IsTerminal())
		result := eng.Result()
		require.NotNil(t, result)
		assert.Equal(t, 1, result.WinnerSeat)
		assert.Equal(t, entity.ResultElimination, result.Reason)
	})

	t.Run("with three players the game goes on without the quitter", func(t *testing.T) {
		eng, err := New(3, Rules{})
		require.NoError(t, err)
		eng.positions[0][0] = 5

		eng.Resign(0)

		require.False(t, eng.IsTerminal())
		assert.Equal(t, 1, eng.CurrentSeat())
		assert.Equal(t, Yard, eng.Board().SeatPieces[0][0])

		// And: the eliminated seat can no longer move
		_, err = eng.Apply(0, roll(3))
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
	})
}
