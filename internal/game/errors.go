package game

import (
	"errors"
	"fmt"
)

var (
	ErrIllegalMove            = errors.New("illegal move")
	ErrNoLegalMoves           = errors.New("no legal moves")
	ErrInvalidSearchParameter = errors.New("invalid search parameter")
)

// IllegalMove wraps ErrIllegalMove with the rejected move.
func IllegalMove(move any) error {
	return fmt.Errorf("%w: %v", ErrIllegalMove, move)
}

// InvalidSearchParameter builds the panic value used for programming errors
// such as a negative depth or an unknown difficulty level.
func InvalidSearchParameter(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidSearchParameter, fmt.Sprintf(format, args...))
}
