package arcadebuilder

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/park285/boardgame-ai/internal/arcade"
	"github.com/park285/boardgame-ai/internal/chess"
	"github.com/park285/boardgame-ai/internal/config"
	"github.com/park285/boardgame-ai/internal/msgcat"
	"github.com/park285/boardgame-ai/internal/policy"
	"github.com/park285/boardgame-ai/internal/tictactoe"
)

type Deps struct {
	Service   *arcade.Service
	TicTacToe *arcade.TicTacToePolicy
	Chess     *arcade.ChessPolicy
	Catalog   *msgcat.Catalog
	// Defaults holds the session options new games start with.
	Defaults arcade.SessionOptions
}

func New(cfg *config.AppConfig, logger *zap.Logger) (*Deps, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	// Policies share the configured seed so runs can be replayed.
	policyOpts := []policy.Option{policy.WithLogger(logger.Named("policy"))}
	seeded := func(offset int64) []policy.Option {
		if !cfg.HasRandomSeed {
			return policyOpts
		}
		return append(append([]policy.Option(nil), policyOpts...), policy.WithSeed(cfg.RandomSeed+offset))
	}
	ttt, err := policy.New[tictactoe.State, tictactoe.Move](cfg.Profiles.TicTacToe, seeded(0)...)
	if err != nil {
		return nil, fmt.Errorf("tictactoe policy: %w", err)
	}
	ch, err := policy.New[chess.State, chess.Move](cfg.Profiles.Chess, seeded(1)...)
	if err != nil {
		return nil, fmt.Errorf("chess policy: %w", err)
	}

	catalog, err := msgcat.New(cfg.MessagesDir)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}

	service, err := arcade.New(ttt, ch,
		arcade.WithLogger(logger.Named("arcade")),
		arcade.WithCatalog(catalog),
		arcade.WithThinkDelays(cfg.TicTacToeThink, cfg.ChessThink),
	)
	if err != nil {
		return nil, err
	}

	return &Deps{
		Service:   service,
		TicTacToe: ttt,
		Chess:     ch,
		Catalog:   catalog,
		Defaults:  arcade.SessionOptions{VsAI: true, Level: cfg.DefaultLevel},
	}, nil
}
