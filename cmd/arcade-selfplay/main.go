package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/park285/boardgame-ai/internal/adapter/textpresenter"
	"github.com/park285/boardgame-ai/internal/arcade"
	"github.com/park285/boardgame-ai/internal/arcadebuilder"
	appcfg "github.com/park285/boardgame-ai/internal/config"
	"github.com/park285/boardgame-ai/internal/notation"
	"github.com/park285/boardgame-ai/internal/obslog"
	"github.com/park285/boardgame-ai/pkg/gamedto"
)

// chess self-play is cut off after this many plies
const maxChessPlies = 300

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	logger := obslog.L()
	defer func() { _ = logger.Sync() }()

	deps, err := arcadebuilder.New(cfg, logger)
	if err != nil {
		log.Fatalf("arcade init error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Both sides are played by the AI, so the session is a two-player one.
	opts := deps.Defaults
	opts.VsAI = false
	formatter := &textpresenter.Formatter{Unicode: cfg.UnicodeBoard}

	for i := 1; i <= cfg.SelfPlayGames; i++ {
		snap, err := runGame(ctx, deps.Service, opts, false)
		if err != nil {
			logger.Error("selfplay_failed", zap.String("game", gamedto.GameTicTacToe), zap.Error(err))
			return
		}
		logResult(logger, i, snap)
		fmt.Fprintln(os.Stdout, formatter.Status(snap))
		fmt.Fprintln(os.Stdout)

		snap, err = runGame(ctx, deps.Service, opts, true)
		if err != nil {
			logger.Error("selfplay_failed", zap.String("game", gamedto.GameChess), zap.Error(err))
			return
		}
		logResult(logger, i, snap)
		fmt.Fprintln(os.Stdout, formatter.Status(snap))
		fmt.Fprintln(os.Stdout)

		pgn, err := deps.Service.PGN(snap.SessionID, notation.Headers{
			Event: "Arcade self-play",
			Date:  time.Now(),
			White: "AI (" + snap.Level + ")",
			Black: "AI (" + snap.Level + ")",
		})
		if err == nil {
			fmt.Fprintln(os.Stdout, pgn)
			fmt.Fprintln(os.Stdout)
		}
		_ = deps.Service.Close(snap.SessionID)
	}
}

func runGame(ctx context.Context, svc *arcade.Service, opts arcade.SessionOptions, isChess bool) (gamedto.Snapshot, error) {
	var (
		snap gamedto.Snapshot
		err  error
	)
	if isChess {
		snap, err = svc.NewChess(opts)
	} else {
		snap, err = svc.NewTicTacToe(opts)
	}
	if err != nil {
		return snap, err
	}
	for !snap.Finished() && snap.MoveCount < maxChessPlies {
		snap, err = svc.AIMove(ctx, snap.SessionID)
		if err != nil {
			return snap, err
		}
	}
	if !isChess {
		_ = svc.Close(snap.SessionID)
	}
	return snap, nil
}

func logResult(logger *zap.Logger, round int, snap gamedto.Snapshot) {
	logger.Info("selfplay_result",
		zap.Int("round", round),
		zap.String("game", snap.Game),
		zap.String("level", snap.Level),
		zap.String("status", snap.Status),
		zap.String("winner", snap.Winner),
		zap.String("method", snap.Method),
		zap.Int("plies", snap.MoveCount),
		zap.String("status_line", snap.StatusLine),
	)
}
