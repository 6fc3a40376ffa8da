// Package policy turns a difficulty level into a move: uniformly random play,
// a full search, or a search whose answer is sometimes thrown away.
package policy

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/park285/boardgame-ai/internal/game"
	"github.com/park285/boardgame-ai/internal/search"
)

// Decision describes how a move was picked.
type Decision[M comparable] struct {
	Move  M
	Level Level
	// Score is the search score of the searched move, zero when nothing was searched.
	Score int
	Depth int
	// Searched is false for purely random profiles.
	Searched bool
	// Randomized is true when the played move came from the random pick.
	Randomized bool
	Stats      search.Stats
}

type options struct {
	rand       *rand.Rand
	logger     *zap.Logger
	searchOpts []search.Option
}

type Option func(*options)

// WithSeed makes every random choice reproducible.
func WithSeed(seed int64) Option {
	return func(o *options) { o.rand = rand.New(rand.NewSource(seed)) }
}

func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		if r != nil {
			o.rand = r
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func WithSearchOptions(opts ...search.Option) Option {
	return func(o *options) { o.searchOpts = append(o.searchOpts, opts...) }
}

// Policy is safe for concurrent use. It holds no state between calls other
// than its random source.
type Policy[S game.State[S, M], M comparable] struct {
	profiles Profiles
	searcher *search.Searcher[S, M]
	logger   *zap.Logger

	randMu sync.Mutex
	rand   *rand.Rand
}

func New[S game.State[S, M], M comparable](profiles Profiles, opts ...Option) (*Policy[S, M], error) {
	if err := profiles.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profiles: %w", err)
	}
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rand == nil {
		o.rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	searchOpts := append([]search.Option{search.WithLogger(o.logger)}, o.searchOpts...)
	return &Policy[S, M]{
		profiles: profiles,
		searcher: search.New[S, M](searchOpts...),
		logger:   o.logger,
		rand:     o.rand,
	}, nil
}

func (p *Policy[S, M]) Profiles() Profiles { return p.profiles }

// SetRandomSeed reseeds the random source.
func (p *Policy[S, M]) SetRandomSeed(seed int64) {
	p.randMu.Lock()
	p.rand = rand.New(rand.NewSource(seed))
	p.randMu.Unlock()
}

// random hands each call its own generator so concurrent calls never share one.
func (p *Policy[S, M]) random() *rand.Rand {
	p.randMu.Lock()
	seed := p.rand.Int63()
	p.randMu.Unlock()
	return rand.New(rand.NewSource(seed))
}

// RequestMove returns the move the AI plays at level.
func (p *Policy[S, M]) RequestMove(state S, level Level) (M, error) {
	d, err := p.Choose(state, level)
	return d.Move, err
}

// Choose picks a move for the side to move. It returns game.ErrNoLegalMoves
// on a finished game and panics on an unknown level.
func (p *Policy[S, M]) Choose(state S, level Level) (Decision[M], error) {
	profile := p.profiles.For(level)
	moves := state.LegalMoves()
	if len(moves) == 0 {
		return Decision[M]{Level: level}, game.ErrNoLegalMoves
	}
	r := p.random()

	if profile.Random {
		d := Decision[M]{Move: moves[r.Intn(len(moves))], Level: level, Randomized: true}
		p.log(d)
		return d, nil
	}

	res, ok := p.searcher.BestMove(state, profile.Depth)
	if !ok {
		return Decision[M]{Level: level}, game.ErrNoLegalMoves
	}
	d := Decision[M]{
		Move:     res.Move,
		Level:    level,
		Score:    res.Score,
		Depth:    res.Depth,
		Searched: true,
		Stats:    res.Stats,
	}
	if move, blundered := humanize(profile, moves, r); blundered {
		d.Move = move
		d.Randomized = true
	}
	p.log(d)
	return d, nil
}

// humanize rolls the profile's blunder rate and, on a hit, returns a uniformly
// random legal move in place of the searched one.
func humanize[M any](profile Profile, moves []M, r *rand.Rand) (M, bool) {
	var zero M
	if profile.BlunderRate <= 0 || len(moves) == 0 {
		return zero, false
	}
	if r.Float64() >= profile.BlunderRate {
		return zero, false
	}
	return moves[r.Intn(len(moves))], true
}

func (p *Policy[S, M]) log(d Decision[M]) {
	p.logger.Debug("ai_decision",
		zap.String("level", d.Level.String()),
		zap.Any("move", d.Move),
		zap.Bool("searched", d.Searched),
		zap.Bool("randomized", d.Randomized),
		zap.Int("score", d.Score),
		zap.Int("nodes", d.Stats.Nodes),
	)
}
