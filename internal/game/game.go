package game

// Player identifies one side of a two-player game. PlayerOne always moves first
// (X in tic-tac-toe, White in chess).
type Player int8

const (
	NoPlayer Player = iota
	PlayerOne
	PlayerTwo
)

func (p Player) Opponent() Player {
	switch p {
	case PlayerOne:
		return PlayerTwo
	case PlayerTwo:
		return PlayerOne
	default:
		return NoPlayer
	}
}

func (p Player) String() string {
	switch p {
	case PlayerOne:
		return "player_one"
	case PlayerTwo:
		return "player_two"
	default:
		return "none"
	}
}

// Result is the coarse terminal classification of a state.
type Result int8

const (
	Ongoing Result = iota
	Win
	Draw
)

func (r Result) String() string {
	switch r {
	case Win:
		return "win"
	case Draw:
		return "draw"
	default:
		return "ongoing"
	}
}

// Method records why a game ended.
type Method int8

const (
	NoMethod Method = iota
	CompletedLine
	FullBoard
	Checkmate
	Stalemate
	FiftyMoveRule
	InsufficientMaterial
	Repetition
)

func (m Method) String() string {
	switch m {
	case CompletedLine:
		return "line"
	case FullBoard:
		return "full_board"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case FiftyMoveRule:
		return "fifty_move_rule"
	case InsufficientMaterial:
		return "insufficient_material"
	case Repetition:
		return "repetition"
	default:
		return ""
	}
}

type Outcome struct {
	Result Result
	Winner Player
	Method Method
	// Line holds the completed cells for line-based wins.
	Line []int
}

func (o Outcome) Terminal() bool { return o.Result != Ongoing }

func OngoingOutcome() Outcome { return Outcome{Result: Ongoing} }

func WinFor(p Player, method Method, line ...int) Outcome {
	return Outcome{Result: Win, Winner: p, Method: method, Line: line}
}

func DrawBy(method Method) Outcome {
	return Outcome{Result: Draw, Method: method}
}

// State is the capability set every game variant exposes to the search and
// difficulty layers. Implementations are values: Apply and Play return a new
// state and never modify the receiver.
type State[S any, M comparable] interface {
	// SideToMove reports whose turn it is.
	SideToMove() Player
	// LegalMoves lists the moves of the side to move in a deterministic order.
	// The list is empty exactly when Outcome reports a terminal result.
	LegalMoves() []M
	// Apply validates m against LegalMoves and returns the successor state.
	Apply(m M) (S, error)
	// Play returns the successor state without validating m. Callers must take m
	// from LegalMoves.
	Play(m M) S
	Outcome() Outcome
	// Evaluate scores the state from PlayerOne's point of view given its outcome
	// and the distance in plies from the search root.
	Evaluate(o Outcome, ply int) int
	// Forcing marks moves that should be searched before quiet moves.
	Forcing(m M) bool
}

// IsLegal reports whether m is among the legal moves of s.
func IsLegal[S State[S, M], M comparable](s S, m M) bool {
	for _, candidate := range s.LegalMoves() {
		if candidate == m {
			return true
		}
	}
	return false
}
