package obslog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestOptionsFromEnv(t *testing.T) {
	for _, k := range []string{"LOG_LEVEL", "LOG_FORMAT", "LOG_TO_CONSOLE", "LOG_TO_FILE", "LOG_FILE", "LOG_CALLER"} {
		t.Setenv(k, "")
	}
	opts := OptionsFromEnv()
	require.Equal(t, zapcore.InfoLevel, opts.Level)
	require.Equal(t, "legacy", opts.Format)
	require.True(t, opts.Console)
	require.False(t, opts.ToFile)
	require.Equal(t, filepath.Join("logs", "arcade.log"), opts.File)

	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LOG_FORMAT", "xml")
	t.Setenv("LOG_TO_CONSOLE", "false")
	opts = OptionsFromEnv()
	require.Equal(t, zapcore.DebugLevel, opts.Level)
	require.Equal(t, "legacy", opts.Format)
	require.False(t, opts.Console)
}

func TestNewWritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "arcade.log")
	logger, err := New(Options{Level: zapcore.InfoLevel, Format: "json", ToFile: true, File: path})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("ai_move", zap.String("move", "e2e4"))
	_ = logger.Sync()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(b), `"msg":"ai_move"`)
	require.Contains(t, string(b), `"move":"e2e4"`)
	require.NotContains(t, string(b), "hidden")
}

func TestNewWithoutSinksIsNop(t *testing.T) {
	logger, err := New(Options{})
	require.NoError(t, err)
	require.False(t, logger.Core().Enabled(zapcore.ErrorLevel))
}

func TestReplaceRestores(t *testing.T) {
	prev := L()
	custom := zap.NewExample()
	restore := Replace(custom)
	require.Same(t, custom, L())
	restore()
	require.Same(t, prev, L())
}
