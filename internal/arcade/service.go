// Package arcade hosts in-memory game sessions for tic-tac-toe and chess,
// taking human moves and letting the AI answer after a short think delay.
package arcade

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/park285/boardgame-ai/internal/chess"
	"github.com/park285/boardgame-ai/internal/game"
	"github.com/park285/boardgame-ai/internal/msgcat"
	"github.com/park285/boardgame-ai/internal/notation"
	"github.com/park285/boardgame-ai/internal/policy"
	"github.com/park285/boardgame-ai/internal/tictactoe"
	"github.com/park285/boardgame-ai/pkg/gamedto"
)

type (
	TicTacToePolicy = policy.Policy[tictactoe.State, tictactoe.Move]
	ChessPolicy     = policy.Policy[chess.State, chess.Move]
)

type SessionOptions struct {
	VsAI  bool
	Level policy.Level
	// AISide is the side the AI plays in vs-AI mode. NoPlayer means O / Black.
	AISide game.Player
	// FEN starts a chess session from a custom position.
	FEN string
}

type Option func(*Service)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithCatalog(c *msgcat.Catalog) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithThinkDelays sets how long the AI pauses before it searches.
func WithThinkDelays(ticTacToe, chessDelay time.Duration) Option {
	return func(s *Service) {
		s.tttThink = ticTacToe
		s.chessThink = chessDelay
	}
}

// Service is safe for concurrent use. Moves on one session are serialised.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]*session

	ttt   *TicTacToePolicy
	chess *ChessPolicy

	catalog    *msgcat.Catalog
	logger     *zap.Logger
	tttThink   time.Duration
	chessThink time.Duration
}

func New(ttt *TicTacToePolicy, chessPolicy *ChessPolicy, opts ...Option) (*Service, error) {
	if ttt == nil || chessPolicy == nil {
		return nil, fmt.Errorf("arcade: both policies are required")
	}
	s := &Service{
		sessions:   make(map[string]*session),
		ttt:        ttt,
		chess:      chessPolicy,
		logger:     zap.NewNop(),
		tttThink:   500 * time.Millisecond,
		chessThink: 300 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.catalog == nil {
		c, err := msgcat.New("")
		if err != nil {
			return nil, err
		}
		s.catalog = c
	}
	return s, nil
}

func (s *Service) NewTicTacToe(opts SessionOptions) (gamedto.Snapshot, error) {
	return s.open(gamedto.GameTicTacToe, opts)
}

func (s *Service) NewChess(opts SessionOptions) (gamedto.Snapshot, error) {
	return s.open(gamedto.GameChess, opts)
}

func (s *Service) open(kind string, opts SessionOptions) (gamedto.Snapshot, error) {
	if !opts.Level.Valid() {
		return gamedto.Snapshot{}, game.InvalidSearchParameter("unknown difficulty %d", int(opts.Level))
	}
	if opts.AISide == game.NoPlayer {
		opts.AISide = game.PlayerTwo
	}
	sess := &session{id: uuid.NewString(), kind: kind, opts: opts}
	if err := sess.reset(); err != nil {
		return gamedto.Snapshot{}, err
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	s.logger.Info("session_open",
		zap.String("session_id", sess.id),
		zap.String("game", kind),
		zap.Bool("vs_ai", opts.VsAI),
		zap.String("level", opts.Level.String()),
	)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.snapshot(sess), nil
}

func (s *Service) lookup(id, kind string) (*session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[strings.TrimSpace(id)]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	if kind != "" && sess.kind != kind {
		return nil, ErrWrongGame
	}
	return sess, nil
}

// PlayTicTacToe places the human's mark on cell. In vs-AI mode the AI answers
// before the call returns.
func (s *Service) PlayTicTacToe(ctx context.Context, id string, cell int) (gamedto.Snapshot, error) {
	sess, err := s.lookup(id, gamedto.GameTicTacToe)
	if err != nil {
		return gamedto.Snapshot{}, err
	}
	return s.playHuman(ctx, sess, strconv.Itoa(cell), func() error {
		next, err := sess.ttt.Apply(tictactoe.Move(cell))
		if err != nil {
			return err
		}
		sess.ttt = next
		return nil
	})
}

// PlayChess takes UCI ("e2e4", "e7e8q") or SAN ("Nf3") text. A promotion
// without a piece promotes to a queen.
func (s *Service) PlayChess(ctx context.Context, id, text string) (gamedto.Snapshot, error) {
	sess, err := s.lookup(id, gamedto.GameChess)
	if err != nil {
		return gamedto.Snapshot{}, err
	}
	return s.playHuman(ctx, sess, text, func() error {
		m, err := resolveChessMove(sess, text)
		if err != nil {
			return err
		}
		next, err := sess.chess.Apply(m)
		if err != nil {
			return err
		}
		if _, err := sess.record.Push(m.String()); err != nil {
			return fmt.Errorf("record move %s: %w", m, err)
		}
		sess.chess = next
		return nil
	})
}

func resolveChessMove(sess *session, text string) (chess.Move, error) {
	if m, err := sess.chess.ResolveMove(text); err == nil && game.IsLegal(sess.chess, m) {
		return m, nil
	}
	uci, err := sess.record.DecodeSAN(text)
	if err != nil {
		return chess.Move{}, game.IllegalMove(strings.TrimSpace(text))
	}
	return sess.chess.ResolveMove(uci)
}

func (s *Service) playHuman(ctx context.Context, sess *session, moveText string, apply func() error) (gamedto.Snapshot, error) {
	sess.mu.Lock()
	if err := sess.humanMayMove(); err != nil {
		snap := s.snapshot(sess)
		sess.mu.Unlock()
		return snap, err
	}
	if err := apply(); err != nil {
		snap := s.snapshot(sess)
		sess.mu.Unlock()
		return snap, err
	}
	sess.version++
	sess.touch()
	s.logger.Info("human_move",
		zap.String("session_id", sess.id),
		zap.String("game", sess.kind),
		zap.String("move", strings.TrimSpace(moveText)),
	)
	snap, version, reply := s.snapshot(sess), sess.version, sess.aiToMove()
	sess.mu.Unlock()

	if !reply {
		return snap, nil
	}
	return s.reply(ctx, sess, version)
}

// AIMove lets the AI play for the side to move. In vs-AI mode it must be the
// AI's turn; otherwise it moves for either side, which drives self-play.
func (s *Service) AIMove(ctx context.Context, id string) (gamedto.Snapshot, error) {
	sess, err := s.lookup(id, "")
	if err != nil {
		return gamedto.Snapshot{}, err
	}
	sess.mu.Lock()
	_, o := sess.position()
	switch {
	case o.Terminal():
		err = ErrGameOver
	case sess.opts.VsAI && !sess.aiToMove():
		err = ErrNotYourTurn
	}
	snap, version := s.snapshot(sess), sess.version
	sess.mu.Unlock()
	if err != nil {
		return snap, err
	}
	return s.reply(ctx, sess, version)
}

// reply waits out the think delay and plays the AI move. A cancelled ctx stops
// the wait; once the search has started it runs to completion. If the position
// changed during the wait, or a vs-AI session is no longer waiting for the AI,
// no move is played.
func (s *Service) reply(ctx context.Context, sess *session, version uint64) (gamedto.Snapshot, error) {
	if err := think(ctx, s.thinkDelay(sess.kind)); err != nil {
		sess.mu.Lock()
		defer sess.mu.Unlock()
		return s.snapshot(sess), err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.version != version {
		return s.snapshot(sess), nil
	}
	if sess.opts.VsAI && !sess.aiToMove() {
		return s.snapshot(sess), nil
	}
	if err := s.playAI(sess); err != nil {
		return s.snapshot(sess), err
	}
	return s.snapshot(sess), nil
}

func (s *Service) thinkDelay(kind string) time.Duration {
	if kind == gamedto.GameChess {
		return s.chessThink
	}
	return s.tttThink
}

func think(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *Service) playAI(sess *session) error {
	start := time.Now()
	var ai gamedto.AIMove
	switch sess.kind {
	case gamedto.GameTicTacToe:
		d, err := s.ttt.Choose(sess.ttt, sess.opts.Level)
		if err != nil {
			return err
		}
		next, err := sess.ttt.Apply(d.Move)
		if err != nil {
			return err
		}
		sess.ttt = next
		ai = aiMove(strconv.Itoa(int(d.Move)), d.Level, d.Searched, d.Randomized, d.Score, d.Depth, d.Stats.Nodes)
	default:
		d, err := s.chess.Choose(sess.chess, sess.opts.Level)
		if err != nil {
			return err
		}
		next, err := sess.chess.Apply(d.Move)
		if err != nil {
			return err
		}
		san, err := sess.record.Push(d.Move.String())
		if err != nil {
			return fmt.Errorf("record move %s: %w", d.Move, err)
		}
		sess.chess = next
		ai = aiMove(d.Move.String(), d.Level, d.Searched, d.Randomized, d.Score, d.Depth, d.Stats.Nodes)
		ai.SAN = san
	}
	ai.Duration = time.Since(start)
	sess.lastAI = &ai
	sess.version++
	sess.touch()

	s.logger.Info("ai_move",
		zap.String("session_id", sess.id),
		zap.String("game", sess.kind),
		zap.String("move", ai.Move),
		zap.String("level", ai.Level),
		zap.Bool("randomized", ai.Randomized),
		zap.Int("score", ai.Score),
		zap.Int("nodes", ai.Nodes),
		zap.Duration("took", ai.Duration),
	)
	return nil
}

func aiMove(move string, level policy.Level, searched, randomized bool, score, depth, nodes int) gamedto.AIMove {
	return gamedto.AIMove{
		Move:       move,
		Level:      level.String(),
		Searched:   searched,
		Randomized: randomized,
		Score:      score,
		Depth:      depth,
		Nodes:      nodes,
	}
}

func (s *Service) Status(id string) (gamedto.Snapshot, error) {
	sess, err := s.lookup(id, "")
	if err != nil {
		return gamedto.Snapshot{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.snapshot(sess), nil
}

// Reset starts the session over with its current mode and difficulty. A
// pending AI reply is dropped.
func (s *Service) Reset(id string) (gamedto.Snapshot, error) {
	return s.update(id, func(sess *session) error { return sess.reset() })
}

// SetMode switches between two-player and vs-AI play. The board is reset.
func (s *Service) SetMode(id string, vsAI bool) (gamedto.Snapshot, error) {
	return s.update(id, func(sess *session) error {
		sess.opts.VsAI = vsAI
		return sess.reset()
	})
}

// SetDifficulty changes the AI level from the next AI move on.
func (s *Service) SetDifficulty(id string, level policy.Level) (gamedto.Snapshot, error) {
	if !level.Valid() {
		return gamedto.Snapshot{}, game.InvalidSearchParameter("unknown difficulty %d", int(level))
	}
	return s.update(id, func(sess *session) error {
		sess.opts.Level = level
		sess.touch()
		return nil
	})
}

func (s *Service) update(id string, fn func(*session) error) (gamedto.Snapshot, error) {
	sess, err := s.lookup(id, "")
	if err != nil {
		return gamedto.Snapshot{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := fn(sess); err != nil {
		return s.snapshot(sess), err
	}
	return s.snapshot(sess), nil
}

// PGN exports a chess session.
func (s *Service) PGN(id string, h notation.Headers) (string, error) {
	sess, err := s.lookup(id, gamedto.GameChess)
	if err != nil {
		return "", err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.record.PGN(h, sess.chess.Outcome()), nil
}

func (s *Service) Close(id string) error {
	id = strings.TrimSpace(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	s.logger.Info("session_close", zap.String("session_id", id))
	return nil
}

// Len reports the number of open sessions.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
