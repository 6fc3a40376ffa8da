package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/park285/boardgame-ai/internal/policy"
)

var arcadeVars = []string{
	"ARCADE_PROFILES_FILE", "ARCADE_TTT_THINK_MS", "ARCADE_CHESS_THINK_MS", "ARCADE_DEFAULT_LEVEL",
	"ARCADE_MEDIUM_BLUNDER_RATE", "ARCADE_CHESS_MEDIUM_DEPTH", "ARCADE_CHESS_HARD_DEPTH",
	"ARCADE_MESSAGES_DIR", "ARCADE_RANDOM_SEED", "ARCADE_SELFPLAY_GAMES", "ARCADE_UNICODE_BOARD",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range arcadeVars {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 500*time.Millisecond, cfg.TicTacToeThink)
	require.Equal(t, 300*time.Millisecond, cfg.ChessThink)
	require.Equal(t, policy.Easy, cfg.DefaultLevel)
	require.Equal(t, policy.DefaultProfiles(), cfg.Profiles)
	require.False(t, cfg.HasRandomSeed)
	require.Equal(t, 1, cfg.SelfPlayGames)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tictactoe:\n  medium:\n    depth: 4\n"), 0o600))

	t.Setenv("ARCADE_PROFILES_FILE", path)
	t.Setenv("ARCADE_TTT_THINK_MS", "0")
	t.Setenv("ARCADE_DEFAULT_LEVEL", "Hard")
	t.Setenv("ARCADE_MEDIUM_BLUNDER_RATE", "0.5")
	t.Setenv("ARCADE_CHESS_HARD_DEPTH", "4")
	t.Setenv("ARCADE_RANDOM_SEED", "99")
	t.Setenv("ARCADE_SELFPLAY_GAMES", "3")
	t.Setenv("ARCADE_UNICODE_BOARD", "true")

	cfg, err := Load()
	require.NoError(t, err)
	require.Zero(t, cfg.TicTacToeThink)
	require.Equal(t, policy.Hard, cfg.DefaultLevel)
	require.Equal(t, policy.Profile{Depth: 4, BlunderRate: 0.5}, cfg.Profiles.TicTacToe.Medium)
	require.Equal(t, 0.5, cfg.Profiles.Chess.Medium.BlunderRate)
	require.Equal(t, 4, cfg.Profiles.Chess.Hard.Depth)
	require.True(t, cfg.HasRandomSeed)
	require.Equal(t, int64(99), cfg.RandomSeed)
	require.Equal(t, 3, cfg.SelfPlayGames)
	require.True(t, cfg.UnicodeBoard)
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"ARCADE_TTT_THINK_MS":        "-5",
		"ARCADE_DEFAULT_LEVEL":       "impossible",
		"ARCADE_MEDIUM_BLUNDER_RATE": "1.5",
		"ARCADE_CHESS_MEDIUM_DEPTH":  "two",
		"ARCADE_RANDOM_SEED":         "seed",
		"ARCADE_PROFILES_FILE":       "/nonexistent/profiles.yaml",
		"ARCADE_UNICODE_BOARD":       "sometimes",
		"ARCADE_SELFPLAY_GAMES":      "0",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestLoadRejectsBadSelfPlayGames(t *testing.T) {
	clearEnv(t)
	for _, bad := range []string{"ten", "-2", "1.5"} {
		t.Setenv("ARCADE_SELFPLAY_GAMES", bad)
		_, err := Load()
		require.ErrorContains(t, err, "ARCADE_SELFPLAY_GAMES", bad)
	}
}
