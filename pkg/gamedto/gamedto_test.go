package gamedto

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/park285/boardgame-ai/internal/game"
)

type codedErr string

func (e codedErr) Error() string      { return string(e) }
func (e codedErr) DomainCode() string { return CodeNotYourTurn }

func TestFromError(t *testing.T) {
	require.Equal(t, DomainError{}, FromError(nil))

	de := FromError(game.IllegalMove("e2e5"))
	require.Equal(t, CodeIllegalMove, de.Code)
	require.True(t, de.Retryable)
	require.Equal(t, "illegal move: e2e5", de.Error())

	require.Equal(t, CodeNoLegalMoves, FromError(fmt.Errorf("ai: %w", game.ErrNoLegalMoves)).Code)
	require.Equal(t, CodeInvalidRequest, FromError(game.InvalidSearchParameter("depth %d", -1)).Code)

	de = FromError(fmt.Errorf("wrapped: %w", codedErr("wait")))
	require.Equal(t, CodeNotYourTurn, de.Code)
	require.True(t, de.Retryable)

	orig := DomainError{Code: "custom", Message: "kept"}
	require.Equal(t, orig, FromError(fmt.Errorf("outer: %w", orig)))

	de = FromError(errors.New("boom"))
	require.Equal(t, CodeInternal, de.Code)
	require.False(t, de.Retryable)
}

func TestDomainErrorText(t *testing.T) {
	require.Equal(t, "x", DomainError{Code: "c", Message: "x"}.Error())
	require.Equal(t, "c", DomainError{Code: "c"}.Error())
	require.Equal(t, "arcade service error", DomainError{}.Error())
}

func TestSnapshotFinished(t *testing.T) {
	for status, want := range map[string]bool{
		StatusOngoing: false, StatusCheck: false, StatusCheckmate: true, StatusDraw: true, StatusWin: true,
	} {
		require.Equal(t, want, Snapshot{Status: status}.Finished(), status)
	}
}
