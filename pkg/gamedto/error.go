package gamedto

import (
	"errors"

	"github.com/park285/boardgame-ai/internal/game"
)

const (
	CodeIllegalMove     = "illegal_move"
	CodeNotYourTurn     = "not_your_turn"
	CodeGameOver        = "game_over"
	CodeSessionNotFound = "session_not_found"
	CodeNoLegalMoves    = "no_legal_moves"
	CodeInvalidRequest  = "invalid_request"
	CodeInternal        = "internal"
)

type DomainError struct {
	Code      string
	Message   string
	Retryable bool
}

func (e DomainError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return e.Code
	}
	return "arcade service error"
}

// coded is implemented by service errors that carry their own code.
type coded interface {
	DomainCode() string
}

// FromError maps service errors for the presentation layer. Illegal moves and
// turn errors are retryable: the board is unchanged and the user may try again.
func FromError(err error) DomainError {
	if err == nil {
		return DomainError{}
	}
	var de DomainError
	if errors.As(err, &de) {
		return de
	}
	switch {
	case errors.Is(err, game.ErrIllegalMove):
		return DomainError{Code: CodeIllegalMove, Message: err.Error(), Retryable: true}
	case errors.Is(err, game.ErrNoLegalMoves):
		return DomainError{Code: CodeNoLegalMoves, Message: err.Error()}
	case errors.Is(err, game.ErrInvalidSearchParameter):
		return DomainError{Code: CodeInvalidRequest, Message: err.Error()}
	}
	var c coded
	if errors.As(err, &c) {
		code := c.DomainCode()
		return DomainError{Code: code, Message: err.Error(), Retryable: code == CodeNotYourTurn}
	}
	return DomainError{Code: CodeInternal, Message: err.Error()}
}
