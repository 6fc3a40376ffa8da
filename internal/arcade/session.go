package arcade

import (
	"sync"
	"time"

	"github.com/park285/boardgame-ai/internal/chess"
	"github.com/park285/boardgame-ai/internal/game"
	"github.com/park285/boardgame-ai/internal/notation"
	"github.com/park285/boardgame-ai/internal/tictactoe"
	"github.com/park285/boardgame-ai/pkg/gamedto"
)

// session is the authoritative state of one game. All fields are guarded by mu.
type session struct {
	mu   sync.Mutex
	id   string
	kind string
	opts SessionOptions

	// version changes on every reset and every move so a delayed AI reply can
	// tell it is stale.
	version uint64

	ttt    tictactoe.State
	chess  chess.State
	record *notation.Record

	lastAI    *gamedto.AIMove
	updatedAt time.Time
}

func (ss *session) reset() error {
	switch ss.kind {
	case gamedto.GameTicTacToe:
		ss.ttt = tictactoe.New()
	case gamedto.GameChess:
		state := chess.New()
		if ss.opts.FEN != "" {
			parsed, err := chess.FromFEN(ss.opts.FEN)
			if err != nil {
				return err
			}
			state = parsed
		}
		record, err := notation.NewRecord(state.FEN())
		if err != nil {
			return err
		}
		ss.chess, ss.record = state, record
	}
	ss.lastAI = nil
	ss.version++
	ss.touch()
	return nil
}

func (ss *session) touch() { ss.updatedAt = time.Now() }

func (ss *session) position() (game.Player, game.Outcome) {
	if ss.kind == gamedto.GameChess {
		return ss.chess.SideToMove(), ss.chess.Outcome()
	}
	return ss.ttt.SideToMove(), ss.ttt.Outcome()
}

// aiToMove reports whether a vs-AI session is waiting for the AI.
func (ss *session) aiToMove() bool {
	side, o := ss.position()
	return ss.opts.VsAI && !o.Terminal() && side == ss.opts.AISide
}

func (ss *session) humanMayMove() error {
	side, o := ss.position()
	if o.Terminal() {
		return ErrGameOver
	}
	if ss.opts.VsAI && side == ss.opts.AISide {
		return ErrNotYourTurn
	}
	return nil
}
