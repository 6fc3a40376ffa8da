package arcade

import (
	"strings"

	"github.com/park285/boardgame-ai/internal/chess"
	"github.com/park285/boardgame-ai/internal/game"
	"github.com/park285/boardgame-ai/internal/tictactoe"
	"github.com/park285/boardgame-ai/pkg/gamedto"
)

// snapshot must be called with sess.mu held.
func (s *Service) snapshot(sess *session) gamedto.Snapshot {
	snap := gamedto.Snapshot{
		SessionID: sess.id,
		Game:      sess.kind,
		VsAI:      sess.opts.VsAI,
		Level:     sess.opts.Level.String(),
		UpdatedAt: sess.updatedAt,
	}
	if sess.lastAI != nil {
		ai := *sess.lastAI
		snap.LastAI = &ai
	}
	if sess.kind == gamedto.GameChess {
		s.fillChess(&snap, sess)
	} else {
		s.fillTicTacToe(&snap, sess)
	}
	return snap
}

func (s *Service) fillTicTacToe(snap *gamedto.Snapshot, sess *session) {
	st := sess.ttt
	if sess.opts.VsAI {
		snap.AISide = tictactoe.MarkOf(sess.opts.AISide).String()
	}
	cells := st.Cells()
	snap.Cells = make([]string, len(cells))
	for i, m := range cells {
		snap.Cells[i] = m.String()
		if m != tictactoe.Empty {
			snap.MoveCount++
		}
	}
	snap.Turn = st.Turn().String()

	o := st.Outcome()
	snap.Method = o.Method.String()
	switch o.Result {
	case game.Win:
		winner := tictactoe.MarkOf(o.Winner).String()
		snap.Status, snap.Winner = gamedto.StatusWin, winner
		snap.Line = append([]int(nil), o.Line...)
		snap.StatusLine = s.catalog.RenderOr("tictactoe.winner", map[string]any{"Mark": winner}, "Winner: "+winner)
	case game.Draw:
		snap.Status = gamedto.StatusDraw
		snap.StatusLine = s.catalog.RenderOr("tictactoe.draw", nil, "It's a draw!")
	default:
		snap.Status = gamedto.StatusOngoing
		snap.StatusLine = s.catalog.RenderOr("tictactoe.next", map[string]any{"Mark": snap.Turn}, "Next player: "+snap.Turn)
	}
}

func (s *Service) fillChess(snap *gamedto.Snapshot, sess *session) {
	st := sess.chess
	if sess.opts.VsAI {
		snap.AISide = strings.ToLower(chess.ColorOf(sess.opts.AISide).Name())
	}
	snap.FEN = st.FEN()
	snap.Turn = strings.ToLower(st.Turn().Name())
	snap.MovesUCI = sess.record.UCI()
	snap.MovesSAN = sess.record.SAN()
	snap.MoveCount = len(snap.MovesUCI)
	snap.Material = &gamedto.MaterialScore{White: st.Material(chess.White), Black: st.Material(chess.Black)}
	if code, title := sess.record.Opening(); code != "" {
		snap.Opening = &gamedto.Opening{Code: code, Title: title}
	}

	o := st.Outcome()
	snap.Method = o.Method.String()
	switch {
	case o.Result == game.Win:
		snap.Status = gamedto.StatusCheckmate
		snap.Winner = strings.ToLower(chess.ColorOf(o.Winner).Name())
		snap.StatusLine = s.catalog.RenderOr("chess.checkmate", nil, "Checkmate!")
	case o.Result == game.Draw:
		snap.Status = gamedto.StatusDraw
		reason := strings.ReplaceAll(o.Method.String(), "_", " ")
		snap.StatusLine = s.catalog.RenderOr("chess.draw_reason", map[string]any{"Reason": reason}, "Draw!")
	case st.InCheck():
		snap.Status = gamedto.StatusCheck
		snap.StatusLine = s.catalog.RenderOr("chess.check", nil, "Check!")
	default:
		snap.Status = gamedto.StatusOngoing
		color := st.Turn().Name()
		snap.StatusLine = s.catalog.RenderOr("chess.turn", map[string]any{"Color": color}, "Current turn: "+color)
	}
}
