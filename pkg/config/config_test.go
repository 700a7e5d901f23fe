package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/tcdb-tools/domarch/logger"
	"github.com/tcdb-tools/domarch/pkg/model"
)

func TestMain(m *testing.M) {
	if err := logger.InitLogger(zapcore.ErrorLevel); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.True(t, cfg.MergeDomains)
	assert.Equal(t, 50, cfg.HoleThreshold)
	assert.Equal(t, 0.5, cfg.CharThreshold)
	assert.Equal(t, 85.0, cfg.RescueMinScore)
	assert.Equal(t, map[int]bool{1: true}, cfg.RescueRounds)
}

func TestFromEnvOverlay(t *testing.T) {
	t.Setenv("TCDB_CDD_DIR", "/data/cdd")
	t.Setenv("TCDB_HOLE_THRESHOLD", "30")
	t.Setenv("TCDB_CHAR_THRESHOLD", "0.8")
	t.Setenv("TCDB_MERGE_DOMAINS", "false")
	t.Setenv("TCDB_RESCUE_ROUNDS", "1,2")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "/data/cdd", cfg.CDDDir)
	assert.Equal(t, 30, cfg.HoleThreshold)
	assert.Equal(t, 0.8, cfg.CharThreshold)
	assert.False(t, cfg.MergeDomains)
	assert.Equal(t, map[int]bool{1: true, 2: true}, cfg.RescueRounds)
	assert.Equal(t, "./output", cfg.OutDir, "unset vars keep their defaults")
}

func TestFromEnvRejectsGarbage(t *testing.T) {
	t.Setenv("TCDB_HOLE_THRESHOLD", "fifty")

	_, err := FromEnv()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cddDir := t.TempDir()
	seqDir := t.TempDir()

	good := Default()
	good.CDDDir = cddDir
	good.SeqDir = seqDir
	require.NoError(t, good.Validate())

	t.Run("threshold out of range", func(t *testing.T) {
		cfg := good
		cfg.CharThreshold = 1.5
		assert.ErrorIs(t, cfg.Validate(), model.InvalidThreshold)
	})

	t.Run("negative hole threshold", func(t *testing.T) {
		cfg := good
		cfg.HoleThreshold = -1
		assert.ErrorIs(t, cfg.Validate(), model.InvalidThreshold)
	})

	t.Run("no input at all", func(t *testing.T) {
		cfg := good
		cfg.CDDDir = ""
		cfg.RescueDir = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("cdd without sequences", func(t *testing.T) {
		cfg := good
		cfg.SeqDir = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing directory", func(t *testing.T) {
		cfg := good
		cfg.CDDDir = "/nonexistent/cdd"
		assert.Error(t, cfg.Validate())
	})

	t.Run("zero workers", func(t *testing.T) {
		cfg := good
		cfg.Workers = 0
		assert.Error(t, cfg.Validate())
	})
}

func TestParseRounds(t *testing.T) {
	rounds, err := ParseRounds("1, 2,3")
	require.NoError(t, err)
	assert.Equal(t, map[int]bool{1: true, 2: true, 3: true}, rounds)

	_, err = ParseRounds("one")
	assert.Error(t, err)

	_, err = ParseRounds("")
	assert.Error(t, err)

	assert.Equal(t, "1,3", RoundsString(map[int]bool{3: true, 1: true}))
}
