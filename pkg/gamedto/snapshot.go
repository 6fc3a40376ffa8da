package gamedto

import "time"

// Game kinds.
const (
	GameTicTacToe = "tictactoe"
	GameChess     = "chess"
)

// Status values reported to the presentation layer.
const (
	StatusOngoing   = "ongoing"
	StatusCheck     = "check"
	StatusCheckmate = "checkmate"
	StatusDraw      = "draw"
	StatusWin       = "win"
)

type MaterialScore struct {
	White int
	Black int
}

type Opening struct {
	Code  string
	Title string
}

// AIMove summarises the last move the AI played.
type AIMove struct {
	Move       string
	SAN        string
	Level      string
	Searched   bool
	Randomized bool
	Score      int
	Depth      int
	Nodes      int
	Duration   time.Duration
}

// Snapshot is the observer view of a session after any applied move.
type Snapshot struct {
	SessionID string
	Game      string
	VsAI      bool
	Level     string
	AISide    string

	Status string
	// Winner is "X"/"O" or "white"/"black" when Status is win or checkmate.
	Winner string
	Method string
	// Line holds the completed tic-tac-toe cells.
	Line []int

	// Cells is the tic-tac-toe board as "X", "O" or "".
	Cells []string
	FEN   string
	Turn  string

	MovesUCI  []string
	MovesSAN  []string
	MoveCount int
	Material  *MaterialScore
	Opening   *Opening

	StatusLine string
	LastAI     *AIMove
	UpdatedAt  time.Time
}

func (s Snapshot) Finished() bool {
	switch s.Status {
	case StatusCheckmate, StatusDraw, StatusWin:
		return true
	}
	return false
}
