package arcadebuilder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/park285/boardgame-ai/internal/config"
	"github.com/park285/boardgame-ai/internal/policy"
	"github.com/park285/boardgame-ai/pkg/gamedto"
)

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(nil, nil)
	require.Error(t, err)
}

func TestNewWiresService(t *testing.T) {
	cfg := &config.AppConfig{
		Profiles:      policy.DefaultProfiles(),
		DefaultLevel:  policy.Medium,
		RandomSeed:    3,
		HasRandomSeed: true,
	}
	deps, err := New(cfg, nil)
	require.NoError(t, err)
	require.Equal(t, policy.Medium, deps.Defaults.Level)
	require.True(t, deps.Defaults.VsAI)
	require.True(t, deps.Catalog.Has("chess.check"))

	snap, err := deps.Service.NewTicTacToe(deps.Defaults)
	require.NoError(t, err)
	snap, err = deps.Service.PlayTicTacToe(context.Background(), snap.SessionID, 4)
	require.NoError(t, err)
	require.Equal(t, gamedto.StatusOngoing, snap.Status)
	require.Equal(t, 2, snap.MoveCount)
}

func TestNewRejectsMissingMessageDir(t *testing.T) {
	cfg := &config.AppConfig{Profiles: policy.DefaultProfiles(), MessagesDir: "/nonexistent/messages"}
	_, err := New(cfg, nil)
	require.Error(t, err)
}
