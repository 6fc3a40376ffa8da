// Package search implements depth-bounded minimax with alpha-beta pruning over
// any game.State. Searchers keep no memory between calls.
package search

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/park285/boardgame-ai/internal/game"
)

const (
	negInf = math.MinInt
	posInf = math.MaxInt
)

type Stats struct {
	Nodes   int
	Leaves  int
	Cutoffs int
	Elapsed time.Duration
}

type Result[M comparable] struct {
	Move  M
	Score int
	Depth int
	Stats Stats
}

type options struct {
	pruning  bool
	ordering bool
	logger   *zap.Logger
}

type Option func(*options)

// WithoutPruning searches the full minimax tree. It exists to check that
// pruning never changes the answer.
func WithoutPruning() Option {
	return func(o *options) { o.pruning = false }
}

// WithoutOrdering searches moves in generation order.
func WithoutOrdering() Option {
	return func(o *options) { o.ordering = false }
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

type Searcher[S game.State[S, M], M comparable] struct {
	opts options
}

func New[S game.State[S, M], M comparable](opts ...Option) *Searcher[S, M] {
	o := options{pruning: true, ordering: true, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Searcher[S, M]{opts: o}
}

// BestMove picks the move with the best minimax score for the side to move,
// searching depth plies in total. PlayerOne maximises and PlayerTwo minimises.
// Ties keep the earliest move in search order. It returns false when state has
// no legal moves.
func (s *Searcher[S, M]) BestMove(state S, depth int) (Result[M], bool) {
	checkDepth(depth)
	start := time.Now()

	moves := state.LegalMoves()
	if len(moves) == 0 {
		return Result[M]{Depth: depth}, false
	}
	s.order(state, moves)

	var stats Stats
	stats.Nodes++
	maximizing := state.SideToMove() == game.PlayerOne
	childDepth := max(depth-1, 0)
	alpha, beta := negInf, posInf

	best, bestScore := moves[0], 0
	for i, m := range moves {
		score := s.walk(state.Play(m), childDepth, 1, alpha, beta, !maximizing, &stats)
		if i == 0 || (maximizing && score > bestScore) || (!maximizing && score < bestScore) {
			best, bestScore = m, score
		}
		// Strict comparisons above keep the first of equally scored moves, and
		// the narrowed window only hides children that could not beat it.
		if s.opts.pruning {
			if maximizing {
				alpha = max(alpha, bestScore)
			} else {
				beta = min(beta, bestScore)
			}
		}
	}

	stats.Elapsed = time.Since(start)
	s.opts.logger.Debug("search_done",
		zap.Any("move", best),
		zap.Int("score", bestScore),
		zap.Int("depth", depth),
		zap.Int("candidates", len(moves)),
		zap.Int("nodes", stats.Nodes),
		zap.Int("cutoffs", stats.Cutoffs),
		zap.Duration("elapsed", stats.Elapsed),
	)
	return Result[M]{Move: best, Score: bestScore, Depth: depth, Stats: stats}, true
}

// Evaluate returns the minimax value of state searched depth plies deep inside
// the (alpha, beta) window. Scores outside the window are bounds, as usual for
// fail-soft alpha-beta.
func (s *Searcher[S, M]) Evaluate(state S, depth, alpha, beta int, maximizing bool) int {
	checkDepth(depth)
	var stats Stats
	return s.walk(state, depth, 0, alpha, beta, maximizing, &stats)
}

func (s *Searcher[S, M]) walk(state S, depth, ply, alpha, beta int, maximizing bool, stats *Stats) int {
	stats.Nodes++
	outcome := state.Outcome()
	if depth == 0 || outcome.Terminal() {
		stats.Leaves++
		return state.Evaluate(outcome, ply)
	}
	moves := state.LegalMoves()
	if len(moves) == 0 {
		stats.Leaves++
		return state.Evaluate(outcome, ply)
	}
	s.order(state, moves)

	if maximizing {
		best := negInf
		for _, m := range moves {
			best = max(best, s.walk(state.Play(m), depth-1, ply+1, alpha, beta, false, stats))
			if !s.opts.pruning {
				continue
			}
			alpha = max(alpha, best)
			if beta <= alpha {
				stats.Cutoffs++
				break
			}
		}
		return best
	}

	best := posInf
	for _, m := range moves {
		best = min(best, s.walk(state.Play(m), depth-1, ply+1, alpha, beta, true, stats))
		if !s.opts.pruning {
			continue
		}
		beta = min(beta, best)
		if beta <= alpha {
			stats.Cutoffs++
			break
		}
	}
	return best
}

// order moves forcing moves to the front, keeping relative order otherwise.
func (s *Searcher[S, M]) order(state S, moves []M) {
	if !s.opts.ordering || len(moves) < 2 {
		return
	}
	quiet := make([]M, 0, len(moves))
	n := 0
	for _, m := range moves {
		if state.Forcing(m) {
			moves[n] = m
			n++
		} else {
			quiet = append(quiet, m)
		}
	}
	copy(moves[n:], quiet)
}

func checkDepth(depth int) {
	if depth < 0 {
		panic(game.InvalidSearchParameter("negative depth %d", depth))
	}
}
