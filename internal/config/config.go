package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/park285/boardgame-ai/internal/policy"
)

type AppConfig struct {
	// Difficulty profiles after file and environment overrides.
	Profiles     policy.ProfileSet
	ProfilesFile string

	TicTacToeThink time.Duration
	ChessThink     time.Duration
	DefaultLevel   policy.Level

	MessagesDir string

	// RandomSeed is set when ARCADE_RANDOM_SEED is present.
	RandomSeed    int64
	HasRandomSeed bool

	SelfPlayGames int
	// UnicodeBoard draws chess pieces as figurines in text output.
	UnicodeBoard bool
}

// Load reads ARCADE_* environment variables on top of the built-in defaults.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		TicTacToeThink: 500 * time.Millisecond,
		ChessThink:     300 * time.Millisecond,
		DefaultLevel:   policy.Easy,
		SelfPlayGames:  1,
	}

	cfg.ProfilesFile = strings.TrimSpace(os.Getenv("ARCADE_PROFILES_FILE"))
	profiles, err := policy.LoadProfiles(cfg.ProfilesFile)
	if err != nil {
		return nil, err
	}
	cfg.Profiles = profiles

	if v := strings.TrimSpace(os.Getenv("ARCADE_TTT_THINK_MS")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("ARCADE_TTT_THINK_MS must be a non-negative integer: %q", v)
		}
		cfg.TicTacToeThink = time.Duration(n) * time.Millisecond
	}
	if v := strings.TrimSpace(os.Getenv("ARCADE_CHESS_THINK_MS")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("ARCADE_CHESS_THINK_MS must be a non-negative integer: %q", v)
		}
		cfg.ChessThink = time.Duration(n) * time.Millisecond
	}
	if v := strings.TrimSpace(os.Getenv("ARCADE_DEFAULT_LEVEL")); v != "" {
		level, err := policy.ParseLevel(v)
		if err != nil {
			return nil, fmt.Errorf("ARCADE_DEFAULT_LEVEL: %w", err)
		}
		cfg.DefaultLevel = level
	}

	// 난이도 튜닝값. 파일보다 환경변수가 우선.
	if v := strings.TrimSpace(os.Getenv("ARCADE_MEDIUM_BLUNDER_RATE")); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("ARCADE_MEDIUM_BLUNDER_RATE: %w", err)
		}
		setRate := func(p *policy.Profile) { p.BlunderRate = rate }
		cfg.Profiles.TicTacToe.Update(policy.Medium, setRate)
		cfg.Profiles.Chess.Update(policy.Medium, setRate)
	}
	if v := strings.TrimSpace(os.Getenv("ARCADE_CHESS_MEDIUM_DEPTH")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("ARCADE_CHESS_MEDIUM_DEPTH: %w", err)
		}
		cfg.Profiles.Chess.Update(policy.Medium, func(p *policy.Profile) { p.Depth = n })
	}
	if v := strings.TrimSpace(os.Getenv("ARCADE_CHESS_HARD_DEPTH")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("ARCADE_CHESS_HARD_DEPTH: %w", err)
		}
		cfg.Profiles.Chess.Update(policy.Hard, func(p *policy.Profile) { p.Depth = n })
	}
	if err := cfg.Profiles.Validate(); err != nil {
		return nil, fmt.Errorf("difficulty profiles: %w", err)
	}

	cfg.MessagesDir = strings.TrimSpace(os.Getenv("ARCADE_MESSAGES_DIR"))

	if v := strings.TrimSpace(os.Getenv("ARCADE_RANDOM_SEED")); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ARCADE_RANDOM_SEED: %w", err)
		}
		cfg.RandomSeed, cfg.HasRandomSeed = seed, true
	}
	if v := strings.TrimSpace(os.Getenv("ARCADE_SELFPLAY_GAMES")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("ARCADE_SELFPLAY_GAMES must be a positive integer: %q", v)
		}
		cfg.SelfPlayGames = n
	}
	if v := strings.TrimSpace(os.Getenv("ARCADE_UNICODE_BOARD")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("ARCADE_UNICODE_BOARD: %w", err)
		}
		cfg.UnicodeBoard = b
	}

	return cfg, nil
}
