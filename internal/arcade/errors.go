package arcade

import "github.com/park285/boardgame-ai/pkg/gamedto"

type serviceError struct {
	code string
	msg  string
}

func (e *serviceError) Error() string { return e.msg }

// DomainCode is read by gamedto.FromError.
func (e *serviceError) DomainCode() string { return e.code }

var (
	ErrNotYourTurn     error = &serviceError{code: gamedto.CodeNotYourTurn, msg: "not your turn"}
	ErrGameOver        error = &serviceError{code: gamedto.CodeGameOver, msg: "game is over"}
	ErrSessionNotFound error = &serviceError{code: gamedto.CodeSessionNotFound, msg: "session not found"}
	ErrWrongGame       error = &serviceError{code: gamedto.CodeInvalidRequest, msg: "session plays a different game"}
)
