package tictactoe

import (
	"fmt"
	"strings"

	"github.com/park285/boardgame-ai/internal/game"
)

// Mark is the content of a single cell.
type Mark int8

const (
	Empty Mark = iota
	X
	O
)

func (m Mark) String() string {
	switch m {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return ""
	}
}

// Player maps a mark to the side that owns it.
func (m Mark) Player() game.Player {
	switch m {
	case X:
		return game.PlayerOne
	case O:
		return game.PlayerTwo
	default:
		return game.NoPlayer
	}
}

// MarkOf is the inverse of Mark.Player.
func MarkOf(p game.Player) Mark {
	switch p {
	case game.PlayerOne:
		return X
	case game.PlayerTwo:
		return O
	default:
		return Empty
	}
}

// Move is a cell index in row-major order, 0 top-left through 8 bottom-right.
type Move int

const Cells = 9

// Lines lists every winning line. Order matters: the first completed line is
// the one reported in Outcome.Line.
var Lines = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

const winScore = 10

type Board [Cells]Mark

type State struct {
	cells Board
	turn  Mark
}

var _ game.State[State, Move] = State{}

// New returns the empty board with X to move.
func New() State {
	return State{turn: X}
}

// FromCells builds a position from explicit cells. The mark counts must be
// reachable from the empty board with X moving first.
func FromCells(cells Board, toMove Mark) (State, error) {
	if toMove != X && toMove != O {
		return State{}, fmt.Errorf("side to move must be X or O")
	}
	xs, os := 0, 0
	for _, c := range cells {
		switch c {
		case X:
			xs++
		case O:
			os++
		}
	}
	switch {
	case xs == os && toMove != X:
		return State{}, fmt.Errorf("X must move with %d marks each", xs)
	case xs == os+1 && toMove != O:
		return State{}, fmt.Errorf("O must move after X has %d marks", xs)
	case xs != os && xs != os+1:
		return State{}, fmt.Errorf("impossible mark counts: X=%d O=%d", xs, os)
	}
	return State{cells: cells, turn: toMove}, nil
}

// Parse reads a nine character board such as "XO.X....." where '.', '_' or
// ' ' denote empty cells. The side to move follows from the mark counts.
func Parse(s string) (State, error) {
	s = strings.TrimSpace(s)
	if len(s) != Cells {
		return State{}, fmt.Errorf("board must have %d cells, got %d", Cells, len(s))
	}
	var cells Board
	xs, os := 0, 0
	for i, r := range s {
		switch r {
		case 'X', 'x':
			cells[i] = X
			xs++
		case 'O', 'o':
			cells[i] = O
			os++
		case '.', '_', ' ', '-':
		default:
			return State{}, fmt.Errorf("invalid cell %q at %d", r, i)
		}
	}
	toMove := X
	if xs > os {
		toMove = O
	}
	return FromCells(cells, toMove)
}

func (s State) Cells() Board { return s.cells }

func (s State) Turn() Mark { return s.turn }

func (s State) SideToMove() game.Player { return s.turn.Player() }

func (s State) At(m Move) Mark {
	if m < 0 || int(m) >= Cells {
		return Empty
	}
	return s.cells[m]
}

func (s State) LegalMoves() []Move {
	if s.Outcome().Terminal() {
		return nil
	}
	moves := make([]Move, 0, Cells)
	for i, c := range s.cells {
		if c == Empty {
			moves = append(moves, Move(i))
		}
	}
	return moves
}

func (s State) Apply(m Move) (State, error) {
	if m < 0 || int(m) >= Cells || s.cells[m] != Empty || s.Outcome().Terminal() {
		return s, game.IllegalMove(m)
	}
	return s.Play(m), nil
}

func (s State) Play(m Move) State {
	next := s
	next.cells[m] = s.turn
	if s.turn == X {
		next.turn = O
	} else {
		next.turn = X
	}
	return next
}

func (s State) Outcome() game.Outcome {
	if mark, line, ok := s.winningLine(); ok {
		return game.WinFor(mark.Player(), game.CompletedLine, line[:]...)
	}
	for _, c := range s.cells {
		if c == Empty {
			return game.OngoingOutcome()
		}
	}
	return game.DrawBy(game.FullBoard)
}

func (s State) winningLine() (Mark, [3]int, bool) {
	for _, line := range Lines {
		a, b, c := line[0], line[1], line[2]
		if s.cells[a] != Empty && s.cells[a] == s.cells[b] && s.cells[a] == s.cells[c] {
			return s.cells[a], line, true
		}
	}
	return Empty, [3]int{}, false
}

// Evaluate rewards faster wins and slower losses: an X win scores 10-ply and
// an O win ply-10.
func (s State) Evaluate(o game.Outcome, ply int) int {
	if o.Result != game.Win {
		return 0
	}
	if o.Winner == game.PlayerOne {
		return winScore - ply
	}
	return ply - winScore
}

// Forcing reports whether m completes a line for the mover.
func (s State) Forcing(m Move) bool {
	for _, line := range Lines {
		if line[0] != int(m) && line[1] != int(m) && line[2] != int(m) {
			continue
		}
		owned := 0
		for _, idx := range line {
			if s.cells[idx] == s.turn {
				owned++
			}
		}
		if owned == 2 {
			return true
		}
	}
	return false
}

func (s State) String() string {
	var b strings.Builder
	for i, c := range s.cells {
		if c == Empty {
			b.WriteByte('.')
		} else {
			b.WriteString(c.String())
		}
		if i%3 == 2 && i != Cells-1 {
			b.WriteByte('/')
		}
	}
	return b.String()
}
