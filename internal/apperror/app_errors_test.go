package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIllegalMoveReason(t *testing.T) {
	t.Run("extracts the reason through wrapping", func(t *testing.T) {
		err := fmt.Errorf("applying move: %w", NewIllegalMove(ReasonSuicide, ""))

		assert.Equal(t, ReasonSuicide, IllegalMoveReason(err))
	})

	t.Run("returns empty for other errors", func(t *testing.T) {
		assert.Empty(t, IllegalMoveReason(ErrNotYourTurn))
		assert.Empty(t, IllegalMoveReason(nil))
	})
}

func TestCode(t *testing.T) {
	tests := []struct {
		err  error
		code string
	}{
		{err: ErrAlreadyActive, code: "already-active"},
		{err: ErrNotFound, code: "not-found"},
		{err: ErrNotYourTurn, code: "not-your-turn"},
		{err: ErrGameFinished, code: "game-finished"},
		{err: NewIllegalMove(ReasonKo, ""), code: "illegal-move/ko"},
		{err: fmt.Errorf("wrapped: %w", ErrNotParticipant), code: "not-participant"},
		{err: errors.New("boom"), code: "internal"},
	}

	for _, tc := range tests {
		t.Run(tc.code, func(t *testing.T) {
			assert.Equal(t, tc.code, Code(tc.err))
		})
	}
}
