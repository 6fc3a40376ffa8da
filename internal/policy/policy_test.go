package policy

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/park285/boardgame-ai/internal/chess"
	"github.com/park285/boardgame-ai/internal/game"
	"github.com/park285/boardgame-ai/internal/search"
	"github.com/park285/boardgame-ai/internal/tictactoe"
)

const hangingQueenFEN = "4k3/8/8/3q4/8/8/3R4/4K3 w - - 0 1"

func newChessPolicy(t *testing.T, profiles Profiles, opts ...Option) *Policy[chess.State, chess.Move] {
	t.Helper()
	p, err := New[chess.State, chess.Move](profiles, opts...)
	require.NoError(t, err)
	return p
}

func newTTTPolicy(t *testing.T, profiles Profiles, opts ...Option) *Policy[tictactoe.State, tictactoe.Move] {
	t.Helper()
	p, err := New[tictactoe.State, tictactoe.Move](profiles, opts...)
	require.NoError(t, err)
	return p
}

func requirePanicsInvalid(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected panic")
		err, ok := r.(error)
		require.True(t, ok)
		require.True(t, errors.Is(err, game.ErrInvalidSearchParameter), "got %v", err)
	}()
	fn()
}

func TestDefaultProfiles(t *testing.T) {
	set := DefaultProfiles()
	require.NoError(t, set.Validate())

	require.True(t, set.TicTacToe.Easy.Random)
	require.Equal(t, Profile{Depth: 9, BlunderRate: 0.3}, set.TicTacToe.Medium)
	require.Equal(t, Profile{Depth: 9}, set.TicTacToe.Hard)

	require.True(t, set.Chess.Easy.Random)
	require.Equal(t, Profile{Depth: 2, BlunderRate: 0.3}, set.Chess.Medium)
	require.Equal(t, Profile{Depth: 3}, set.Chess.Hard)
}

func TestEasyVariesItsMoves(t *testing.T) {
	p := newChessPolicy(t, DefaultProfiles().Chess, WithSeed(7))
	seen := map[chess.Move]struct{}{}
	for i := 0; i < 100; i++ {
		d, err := p.Choose(chess.New(), Easy)
		require.NoError(t, err)
		require.False(t, d.Searched)
		require.True(t, d.Randomized)
		require.True(t, game.IsLegal(chess.New(), d.Move))
		seen[d.Move] = struct{}{}
	}
	require.Greater(t, len(seen), 1)

	ttt := newTTTPolicy(t, DefaultProfiles().TicTacToe, WithSeed(7))
	cells := map[tictactoe.Move]struct{}{}
	for i := 0; i < 100; i++ {
		m, err := ttt.RequestMove(tictactoe.New(), Easy)
		require.NoError(t, err)
		cells[m] = struct{}{}
	}
	require.Greater(t, len(cells), 1)
}

func TestSeededPoliciesAgree(t *testing.T) {
	a := newChessPolicy(t, DefaultProfiles().Chess, WithSeed(42))
	b := newChessPolicy(t, DefaultProfiles().Chess, WithSeed(42))
	for i := 0; i < 20; i++ {
		ma, err := a.RequestMove(chess.New(), Easy)
		require.NoError(t, err)
		mb, err := b.RequestMove(chess.New(), Easy)
		require.NoError(t, err)
		require.Equal(t, ma, mb)
	}

	a.SetRandomSeed(3)
	b.SetRandomSeed(3)
	ma, _ := a.RequestMove(chess.New(), Easy)
	mb, _ := b.RequestMove(chess.New(), Easy)
	require.Equal(t, ma, mb)
}

func TestHardPlaysSearchedMove(t *testing.T) {
	s, err := chess.FromFEN(hangingQueenFEN)
	require.NoError(t, err)

	p := newChessPolicy(t, DefaultProfiles().Chess, WithSeed(1))
	d, err := p.Choose(s, Hard)
	require.NoError(t, err)
	require.True(t, d.Searched)
	require.False(t, d.Randomized)
	require.Equal(t, "d2d5", d.Move.String())
	require.Equal(t, 3, d.Depth)

	want, ok := search.New[chess.State, chess.Move]().BestMove(s, 3)
	require.True(t, ok)
	require.Equal(t, want.Move, d.Move)
	require.Equal(t, want.Score, d.Score)
}

func TestHardTicTacToeAnswersCentreWithCorner(t *testing.T) {
	s, err := tictactoe.New().Apply(4)
	require.NoError(t, err)
	p := newTTTPolicy(t, DefaultProfiles().TicTacToe, WithSeed(1))
	for i := 0; i < 10; i++ {
		m, err := p.RequestMove(s, Hard)
		require.NoError(t, err)
		require.Contains(t, []tictactoe.Move{0, 2, 6, 8}, m)
	}
}

func TestMediumBlunderRate(t *testing.T) {
	s, err := chess.FromFEN(hangingQueenFEN)
	require.NoError(t, err)

	t.Run("never", func(t *testing.T) {
		profiles := DefaultProfiles().Chess
		profiles.Update(Medium, func(p *Profile) { p.BlunderRate = 0 })
		p := newChessPolicy(t, profiles, WithSeed(5))
		for i := 0; i < 20; i++ {
			d, err := p.Choose(s, Medium)
			require.NoError(t, err)
			require.False(t, d.Randomized)
			require.Equal(t, "d2d5", d.Move.String())
		}
	})

	t.Run("always", func(t *testing.T) {
		profiles := DefaultProfiles().Chess
		profiles.Update(Medium, func(p *Profile) { p.BlunderRate = 1 })
		p := newChessPolicy(t, profiles, WithSeed(5))
		for i := 0; i < 20; i++ {
			d, err := p.Choose(s, Medium)
			require.NoError(t, err)
			require.True(t, d.Searched)
			require.True(t, d.Randomized)
			require.True(t, game.IsLegal(s, d.Move))
		}
	})

	t.Run("default rate", func(t *testing.T) {
		p := newTTTPolicy(t, DefaultProfiles().TicTacToe, WithSeed(11))
		start, err := tictactoe.Parse("X...O...X")
		require.NoError(t, err)
		const runs = 300
		randomized := 0
		for i := 0; i < runs; i++ {
			d, err := p.Choose(start, Medium)
			require.NoError(t, err)
			if d.Randomized {
				randomized++
			}
		}
		rate := float64(randomized) / runs
		require.InDelta(t, 0.3, rate, 0.12)
	})
}

func TestChooseOnFinishedGame(t *testing.T) {
	won, err := tictactoe.Parse("XXXOO....")
	require.NoError(t, err)
	p := newTTTPolicy(t, DefaultProfiles().TicTacToe)
	for _, level := range Levels {
		_, err := p.Choose(won, level)
		require.ErrorIs(t, err, game.ErrNoLegalMoves)
	}
}

func TestUnknownLevelPanics(t *testing.T) {
	p := newTTTPolicy(t, DefaultProfiles().TicTacToe)
	requirePanicsInvalid(t, func() { _, _ = p.Choose(tictactoe.New(), Level(9)) })
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"easy":         Easy,
		" Medium ":     Medium,
		"HARD":         Hard,
		"beginner":     Easy,
		"intermediate": Medium,
		"advanced":     Hard,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := ParseLevel("grandmaster")
	require.ErrorIs(t, err, game.ErrInvalidSearchParameter)

	var l Level
	require.NoError(t, l.UnmarshalText([]byte("hard")))
	require.Equal(t, Hard, l)
	text, err := Medium.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "medium", string(text))
}

func TestValidateProfile(t *testing.T) {
	require.NoError(t, ValidateProfile(Profile{Random: true}))
	require.NoError(t, ValidateProfile(Profile{Depth: 2, BlunderRate: 0.3}))
	require.Error(t, ValidateProfile(Profile{Depth: -1}))
	require.Error(t, ValidateProfile(Profile{Depth: 2, BlunderRate: 1.5}))
	require.Error(t, ValidateProfile(Profile{Depth: 0}))

	bad := DefaultProfiles().Chess
	bad.Hard.Depth = -3
	_, err := New[chess.State, chess.Move](bad)
	require.Error(t, err)
}

func TestLoadProfilesOverlaysFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chess:\n  hard:\n    depth: 4\n  medium:\n    blunder_rate: 0.1\n"), 0o600))

	set, err := LoadProfiles(path)
	require.NoError(t, err)
	require.Equal(t, 4, set.Chess.Hard.Depth)
	require.Equal(t, Profile{Depth: 2, BlunderRate: 0.1}, set.Chess.Medium)
	require.Equal(t, DefaultProfiles().TicTacToe, set.TicTacToe)

	require.NoError(t, os.WriteFile(path, []byte("chess:\n  medium:\n    blunder_rate: 2\n"), 0o600))
	_, err = LoadProfiles(path)
	require.Error(t, err)

	_, err = LoadProfiles(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	set, err = LoadProfiles("")
	require.NoError(t, err)
	require.Equal(t, DefaultProfiles(), set)
}
