package chess

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	nchess "github.com/corentings/chess/v2"
)

const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var ErrInvalidFEN = errors.New("invalid fen")

// The library decodes FEN through package-level buffers, and NewGame,
// StartingPosition and the opening book all decode. libraryMu serializes them.
var libraryMu sync.Mutex

// LockLibrary must be held around any corentings/chess call that decodes FEN
// text. It returns the unlock function.
func LockLibrary() (unlock func()) {
	libraryMu.Lock()
	return libraryMu.Unlock
}

// FromFEN loads a position. Four-field FEN gets zero clocks, and "startpos"
// names the initial position. Castling rights whose king or rook has left its
// home square are dropped, as is an en passant target no pawn can take.
func FromFEN(fen string) (State, error) {
	fen = strings.TrimSpace(fen)
	if fen == "startpos" {
		return New(), nil
	}
	fields := strings.Fields(fen)
	switch len(fields) {
	case 4:
		fields = append(fields, "0", "1")
	case 6:
	default:
		return State{}, fmt.Errorf("%w: expected 4 or 6 fields, got %d", ErrInvalidFEN, len(fields))
	}

	unlock := LockLibrary()
	defer unlock()

	pos, err := decode(fields)
	if err != nil {
		return State{}, err
	}
	kings, err := kingSquares(pos.Board())
	if err != nil {
		return State{}, err
	}
	fields[2] = castlingRights(pos)
	if fields[3], err = enPassantTarget(pos); err != nil {
		return State{}, err
	}
	if pos, err = decode(fields); err != nil {
		return State{}, err
	}

	us, them := pos.Turn(), pos.Turn().Other()
	if touching(kings[White], kings[Black]) {
		return State{}, fmt.Errorf("%w: kings stand next to each other", ErrInvalidFEN)
	}
	exposed, err := attacked(pos.Board(), us, kings[them])
	if err != nil {
		return State{}, err
	}
	if exposed {
		return State{}, fmt.Errorf("%w: side not to move is in check", ErrInvalidFEN)
	}
	check, err := attacked(pos.Board(), them, kings[us])
	if err != nil {
		return State{}, err
	}
	return newState(pos, check, nil), nil
}

func decode(fields []string) (*nchess.Position, error) {
	pos := new(nchess.Position)
	if err := pos.UnmarshalText([]byte(strings.Join(fields, " "))); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}
	return pos, nil
}

func kingSquares(b *nchess.Board) (map[Color]Square, error) {
	kings := map[Color]Square{}
	counts := map[Color]int{}
	for sq, p := range b.SquareMap() {
		if p.Type() == King {
			kings[p.Color()] = sq
			counts[p.Color()]++
		}
	}
	if counts[White] != 1 || counts[Black] != 1 {
		return nil, fmt.Errorf("%w: each side needs exactly one king", ErrInvalidFEN)
	}
	return kings, nil
}

func touching(a, b Square) bool {
	df, dr := int(a.File())-int(b.File()), int(a.Rank())-int(b.Rank())
	return df >= -1 && df <= 1 && dr >= -1 && dr <= 1
}

var castles = [...]struct {
	letter     string
	color      Color
	side       nchess.Side
	king, rook Square
}{
	{"K", White, nchess.KingSide, nchess.E1, nchess.H1},
	{"Q", White, nchess.QueenSide, nchess.E1, nchess.A1},
	{"k", Black, nchess.KingSide, nchess.E8, nchess.H8},
	{"q", Black, nchess.QueenSide, nchess.E8, nchess.A8},
}

// castlingRights keeps the rights whose king and rook are still at home. The
// library's move generator does not look for the rook itself.
func castlingRights(pos *nchess.Position) string {
	var b strings.Builder
	board := pos.Board()
	for _, c := range castles {
		if pos.CastleRights().CanCastle(c.color, c.side) &&
			board.Piece(c.king) == nchess.NewPiece(King, c.color) &&
			board.Piece(c.rook) == nchess.NewPiece(Rook, c.color) {
			b.WriteString(c.letter)
		}
	}
	if b.Len() == 0 {
		return "-"
	}
	return b.String()
}

func enPassantTarget(pos *nchess.Position) (string, error) {
	sq := pos.EnPassantSquare()
	if sq == NoSquare {
		return "-", nil
	}
	us := pos.Turn()
	target, pawnRank := nchess.Rank6, nchess.Rank5
	if us == Black {
		target, pawnRank = nchess.Rank3, nchess.Rank4
	}
	if sq.Rank() != target {
		return "", fmt.Errorf("%w: en passant square %s", ErrInvalidFEN, sq)
	}
	board := pos.Board()
	if board.Piece(nchess.NewSquare(sq.File(), pawnRank)) != nchess.NewPiece(Pawn, us.Other()) {
		return "-", nil
	}
	for _, df := range [2]int{-1, 1} {
		f := int(sq.File()) + df
		if f < 0 || f > 7 {
			continue
		}
		if board.Piece(nchess.NewSquare(nchess.File(f), pawnRank)) == nchess.NewPiece(Pawn, us) {
			return sq.String(), nil
		}
	}
	return "-", nil
}

// attacked reports whether a piece of colour by attacks target. The library
// only generates moves that keep the mover's own king safe, so that king is
// lifted off the board and the question becomes whether any move of by lands
// on target. Callers hold libraryMu.
func attacked(board *nchess.Board, by Color, target Square) (bool, error) {
	squares := board.SquareMap()
	for sq, p := range squares {
		if p == nchess.NewPiece(King, by) {
			delete(squares, sq)
		}
	}
	lifted := new(nchess.Position)
	fen := nchess.NewBoard(squares).String() + " " + by.String() + " - - 0 1"
	if err := lifted.UnmarshalText([]byte(fen)); err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}
	for _, m := range lifted.ValidMoves() {
		if m.S2() == target {
			return true, nil
		}
	}
	return false, nil
}

// FEN renders the position. The en passant field is only set when a pawn can
// actually make the capture.
func (s State) FEN() string { return s.pos.XFENString() }
