// Package textpresenter renders session snapshots as plain text for terminals
// and logs.
package textpresenter

import (
	"fmt"
	"strings"

	"github.com/park285/boardgame-ai/pkg/gamedto"
)

const (
	materialScoreNeutral = 39
	recentMovesLimit     = 4
)

type Formatter struct {
	// Unicode draws chess pieces with figurine glyphs instead of FEN letters.
	Unicode bool
}

func NewFormatter() *Formatter { return &Formatter{} }

// Board draws the position only.
func (f *Formatter) Board(snap gamedto.Snapshot) string {
	if snap.Game == gamedto.GameChess {
		return f.chessBoard(snap.FEN)
	}
	return ticTacToeBoard(snap.Cells)
}

// Status is the board followed by a summary block.
func (f *Formatter) Status(snap gamedto.Snapshot) string {
	var sb strings.Builder
	sb.WriteString(f.Board(snap))
	sb.WriteString("\n")
	sb.WriteString(snap.StatusLine)
	sb.WriteString("\n")
	mode := "2 players"
	if snap.VsAI {
		mode = fmt.Sprintf("vs AI (%s plays %s)", snap.Level, snap.AISide)
	}
	sb.WriteString(fmt.Sprintf("• mode %s\n", mode))
	sb.WriteString(fmt.Sprintf("• moves %d\n", snap.MoveCount))
	if len(snap.MovesSAN) > 0 {
		sb.WriteString(fmt.Sprintf("• recent %s\n", formatRecentMoves(snap.MovesSAN)))
	}
	if snap.Opening != nil {
		sb.WriteString(fmt.Sprintf("• opening %s %s\n", snap.Opening.Code, snap.Opening.Title))
	}
	if snap.Material != nil {
		sb.WriteString("• captured ")
		sb.WriteString(formatMaterial(*snap.Material))
		sb.WriteString("\n")
	}
	if ai := snap.LastAI; ai != nil {
		sb.WriteString("• ")
		sb.WriteString(f.AIMove(ai))
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (f *Formatter) AIMove(ai *gamedto.AIMove) string {
	if ai == nil {
		return ""
	}
	move := ai.Move
	if ai.SAN != "" {
		move = ai.SAN
	}
	switch {
	case ai.Searched && ai.Randomized:
		return fmt.Sprintf("AI played %s (random, search preferred score %d)", move, ai.Score)
	case ai.Searched:
		return fmt.Sprintf("AI played %s (depth %d, score %d, %d nodes)", move, ai.Depth, ai.Score, ai.Nodes)
	default:
		return fmt.Sprintf("AI played %s (random)", move)
	}
}

func ticTacToeBoard(cells []string) string {
	if len(cells) != 9 {
		return ""
	}
	var sb strings.Builder
	for row := 0; row < 3; row++ {
		if row > 0 {
			sb.WriteString("---+---+---\n")
		}
		for col := 0; col < 3; col++ {
			i := row*3 + col
			mark := cells[i]
			if mark == "" {
				mark = fmt.Sprint(i)
			}
			if col > 0 {
				sb.WriteString("|")
			}
			sb.WriteString(" " + mark + " ")
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

var figurines = map[rune]string{
	'K': "♔", 'Q': "♕", 'R': "♖", 'B': "♗", 'N': "♘", 'P': "♙",
	'k': "♚", 'q': "♛", 'r': "♜", 'b': "♝", 'n': "♞", 'p': "♟",
}

func (f *Formatter) chessBoard(fen string) string {
	fields := strings.Fields(fen)
	if len(fields) == 0 {
		return ""
	}
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return ""
	}
	var sb strings.Builder
	for i, rank := range ranks {
		sb.WriteString(fmt.Sprintf("%d ", 8-i))
		for _, r := range rank {
			if r >= '1' && r <= '8' {
				sb.WriteString(strings.Repeat(" .", int(r-'0')))
				continue
			}
			sb.WriteString(" ")
			if glyph, ok := figurines[r]; ok && f.Unicode {
				sb.WriteString(glyph)
			} else {
				sb.WriteRune(r)
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("   a b c d e f g h")
	return sb.String()
}

func formatRecentMoves(moves []string) string {
	if len(moves) == 0 {
		return "-"
	}
	if len(moves) <= recentMovesLimit {
		return strings.Join(moves, " ")
	}
	return "… " + strings.Join(moves[len(moves)-recentMovesLimit:], " ")
}

func formatMaterial(score gamedto.MaterialScore) string {
	whiteCaptured := materialScoreNeutral - score.Black
	blackCaptured := materialScoreNeutral - score.White
	if whiteCaptured < 0 {
		whiteCaptured = 0
	}
	if blackCaptured < 0 {
		blackCaptured = 0
	}
	return fmt.Sprintf("white %d, black %d", whiteCaptured, blackCaptured)
}
