package chess

import (
	"fmt"
	"strings"

	nchess "github.com/corentings/chess/v2"

	"github.com/park285/boardgame-ai/internal/game"
)

// Board vocabulary is the library's own.
type (
	Color     = nchess.Color
	PieceType = nchess.PieceType
	Piece     = nchess.Piece
	Square    = nchess.Square
)

const (
	White = nchess.White
	Black = nchess.Black
)

const (
	NoPieceType = nchess.NoPieceType
	Pawn        = nchess.Pawn
	Knight      = nchess.Knight
	Bishop      = nchess.Bishop
	Rook        = nchess.Rook
	Queen       = nchess.Queen
	King        = nchess.King
)

const NoSquare = nchess.NoSquare

// ColorOf maps a game player to its chess colour.
func ColorOf(p game.Player) Color {
	if p == game.PlayerTwo {
		return Black
	}
	return White
}

// PlayerOf maps a chess colour to its game player.
func PlayerOf(c Color) game.Player {
	if c == Black {
		return game.PlayerTwo
	}
	return game.PlayerOne
}

func ParseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return NoSquare, fmt.Errorf("invalid square %q", s)
	}
	return nchess.NewSquare(nchess.File(s[0]-'a'), nchess.Rank(s[1]-'1')), nil
}

// Move is a from/to pair with an optional promotion piece. Unlike the
// library's move it is comparable, so it can key maps and be matched against
// legal move lists.
type Move struct {
	From      Square
	To        Square
	Promotion PieceType
}

// String renders the move in UCI long algebraic form, e.g. e2e4 or e7e8q.
func (m Move) String() string {
	return m.From.String() + m.To.String() + m.Promotion.String()
}

// ParseMove reads UCI move text. It does not consult any position.
func ParseMove(text string) (Move, error) {
	text = strings.ToLower(strings.TrimSpace(text))
	if len(text) != 4 && len(text) != 5 {
		return Move{}, fmt.Errorf("invalid move text %q", text)
	}
	from, err := ParseSquare(text[0:2])
	if err != nil {
		return Move{}, err
	}
	to, err := ParseSquare(text[2:4])
	if err != nil {
		return Move{}, err
	}
	m := Move{From: from, To: to}
	if len(text) == 5 {
		switch promo := nchess.PieceTypeFromByte(text[4]); promo {
		case Knight, Bishop, Rook, Queen:
			m.Promotion = promo
		default:
			return Move{}, fmt.Errorf("invalid promotion piece in %q", text)
		}
	}
	return m, nil
}

func fromLibrary(m *nchess.Move) Move {
	return Move{From: m.S1(), To: m.S2(), Promotion: m.Promo()}
}
