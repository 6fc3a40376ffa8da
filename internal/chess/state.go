package chess

import (
	"fmt"

	nchess "github.com/corentings/chess/v2"

	"github.com/park285/boardgame-ai/internal/game"
)

// MateScore is the magnitude of a checkmate score before the ply adjustment.
const MateScore = 10000

// fiftyMoveLimit counts half-moves, so 100 plies is fifty moves each.
const fiftyMoveLimit = 100

// PieceValue returns the material value used by Evaluate.
func PieceValue(t PieceType) int {
	switch t {
	case Pawn:
		return 1
	case Knight, Bishop:
		return 3
	case Rook:
		return 5
	case Queen:
		return 9
	default:
		return 0
	}
}

// positionLink is an immutable list of positions since the last irreversible
// move, newest first. States share tails freely.
type positionLink struct {
	key  string
	prev *positionLink
}

// State is an immutable chess position plus the history needed for
// repetition detection. The wrapped library position is never changed after
// construction: its legal moves are generated once, up front, because the
// library caches them inside the position.
type State struct {
	pos     *nchess.Position
	moves   []nchess.Move
	check   bool
	history *positionLink
}

var _ game.State[State, Move] = State{}

var start = func() State {
	unlock := LockLibrary()
	defer unlock()
	return newState(nchess.StartingPosition(), false, nil)
}()

// New returns the standard starting position.
func New() State { return start }

func newState(pos *nchess.Position, check bool, prev *positionLink) State {
	s := State{pos: pos, moves: pos.ValidMoves(), check: check}
	link := &positionLink{key: repetitionKey(pos)}
	if pos.HalfMoveClock() != 0 {
		link.prev = prev
	}
	s.history = link
	return s
}

// repetitionKey is the FEN without its clocks.
func repetitionKey(pos *nchess.Position) string {
	fen := pos.XFENString()
	for i, spaces := len(fen)-1, 0; i >= 0; i-- {
		if fen[i] == ' ' {
			if spaces++; spaces == 2 {
				return fen[:i]
			}
		}
	}
	return fen
}

func (s State) Turn() Color { return s.pos.Turn() }

func (s State) HalfmoveClock() int { return s.pos.HalfMoveClock() }

func (s State) PieceAt(sq Square) Piece {
	if sq < nchess.A1 || sq > nchess.H8 {
		return nchess.NoPiece
	}
	return s.pos.Board().Piece(sq)
}

func (s State) SideToMove() game.Player { return PlayerOf(s.pos.Turn()) }

// InCheck reports whether the side to move is in check.
func (s State) InCheck() bool { return s.check }

// LegalMoves returns nil once any game-ending rule applies, including the
// automatic draws.
func (s State) LegalMoves() []Move {
	if len(s.moves) == 0 || s.drawRule() != game.NoMethod {
		return nil
	}
	moves := make([]Move, len(s.moves))
	for i := range s.moves {
		moves[i] = fromLibrary(&s.moves[i])
	}
	return moves
}

func (s State) find(m Move) (*nchess.Move, bool) {
	for i := range s.moves {
		if fromLibrary(&s.moves[i]) == m {
			return &s.moves[i], true
		}
	}
	return nil, false
}

// Apply validates m and plays it. A pawn move to the last rank without a
// promotion piece promotes to a queen.
func (s State) Apply(m Move) (State, error) {
	m = s.normalize(m)
	if _, ok := s.find(m); !ok || s.drawRule() != game.NoMethod {
		return s, game.IllegalMove(m)
	}
	return s.Play(m), nil
}

func (s State) normalize(m Move) Move {
	if m.Promotion != NoPieceType || s.PieceAt(m.From) != nchess.NewPiece(Pawn, s.Turn()) {
		return m
	}
	if m.To.Rank() == nchess.Rank8 || m.To.Rank() == nchess.Rank1 {
		m.Promotion = Queen
	}
	return m
}

// ResolveMove parses UCI text against this position, defaulting a missing
// promotion piece to a queen. The result is not checked for legality.
func (s State) ResolveMove(text string) (Move, error) {
	m, err := ParseMove(text)
	if err != nil {
		return Move{}, err
	}
	return s.normalize(m), nil
}

// Play makes m without validating it against the draw rules. m must be one
// of the position's moves.
func (s State) Play(m Move) State {
	lm, ok := s.find(m)
	if !ok {
		panic(fmt.Sprintf("chess: %s cannot be played in %s", m, s.FEN()))
	}
	return newState(s.pos.Update(lm), lm.HasTag(nchess.Check), s.history)
}

// Outcome checks checkmate and stalemate first, so a mate delivered on the
// hundredth half-move still counts as a win.
func (s State) Outcome() game.Outcome {
	switch s.pos.Status() {
	case nchess.Checkmate:
		return game.WinFor(PlayerOf(s.Turn().Other()), game.Checkmate)
	case nchess.Stalemate:
		return game.DrawBy(game.Stalemate)
	}
	if method := s.drawRule(); method != game.NoMethod {
		return game.DrawBy(method)
	}
	return game.OngoingOutcome()
}

func (s State) drawRule() game.Method {
	switch {
	case s.insufficientMaterial():
		return game.InsufficientMaterial
	case s.pos.HalfMoveClock() >= fiftyMoveLimit:
		return game.FiftyMoveRule
	case s.repetitions() >= 3:
		return game.Repetition
	default:
		return game.NoMethod
	}
}

// insufficientMaterial covers bare kings, a single minor piece and any number
// of bishops that all stand on one square colour.
func (s State) insufficientMaterial() bool {
	minors, knights := 0, 0
	bishopColors := [2]bool{}
	for sq, p := range s.pos.Board().SquareMap() {
		switch p.Type() {
		case King:
		case Knight:
			minors++
			knights++
		case Bishop:
			minors++
			bishopColors[(int(sq.File())+int(sq.Rank()))%2] = true
		default:
			return false
		}
	}
	if minors <= 1 {
		return true
	}
	return knights == 0 && !(bishopColors[0] && bishopColors[1])
}

// repetitions counts how often the current position has occurred.
func (s State) repetitions() int {
	if s.history == nil {
		return 1
	}
	current := s.history.key
	count := 0
	for link := s.history; link != nil; link = link.prev {
		if link.key == current {
			count++
		}
	}
	return count
}

// Material sums piece values for colour c.
func (s State) Material(c Color) int {
	total := 0
	for _, p := range s.pos.Board().SquareMap() {
		if p.Color() == c {
			total += PieceValue(p.Type())
		}
	}
	return total
}

// Evaluate scores mates as MateScore-ply so quicker mates rank higher, draws
// as zero and anything else by material balance.
func (s State) Evaluate(o game.Outcome, ply int) int {
	switch o.Result {
	case game.Win:
		if o.Winner == game.PlayerOne {
			return MateScore - ply
		}
		return ply - MateScore
	case game.Draw:
		return 0
	}
	balance := 0
	for _, p := range s.pos.Board().SquareMap() {
		if p.Color() == White {
			balance += PieceValue(p.Type())
		} else {
			balance -= PieceValue(p.Type())
		}
	}
	return balance
}

// Forcing marks captures, promotions and checks.
func (s State) Forcing(m Move) bool {
	lm, ok := s.find(m)
	if !ok {
		return false
	}
	return lm.HasTag(nchess.Capture) || lm.HasTag(nchess.EnPassant) ||
		lm.HasTag(nchess.Check) || lm.Promo() != NoPieceType
}

func (s State) String() string { return s.FEN() }

