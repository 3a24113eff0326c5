package arena

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, AllGames(), cfg.Games)
	assert.Equal(t, 2*time.Second, cfg.MoveTimeout)
	assert.Equal(t, 1, cfg.MaxParallelMatches)
	assert.Equal(t, 50, cfg.MaxRoundsRPSLS)
	assert.Equal(t, 4, cfg.GroupSize)
	assert.Equal(t, 2, cfg.AdvancePerGroup)
	assert.Equal(t, 1, cfg.KnockoutDrawReplays)
	assert.Equal(t, 5*time.Second, cfg.FastMatchThreshold)
	assert.True(t, cfg.ScheduledStartTime.IsZero())
	require.NoError(t, cfg.Validate())
}

func TestNormalizeFillsZeroValues(t *testing.T) {
	var cfg TournamentConfig
	cfg.Normalize()
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*TournamentConfig)
	}{
		{"no games", func(c *TournamentConfig) { c.Games = nil }},
		{"unknown game", func(c *TournamentConfig) { c.Games = []GameType{"tic_tac_toe"} }},
		{"group too small", func(c *TournamentConfig) { c.GroupSize = 2 }},
		{"group too large", func(c *TournamentConfig) { c.GroupSize = 6 }},
		{"advance zero", func(c *TournamentConfig) { c.AdvancePerGroup = 0 }},
		{"advance above group size", func(c *TournamentConfig) { c.AdvancePerGroup = 5 }},
		{"no parallelism", func(c *TournamentConfig) { c.MaxParallelMatches = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, roster, err := LoadConfig(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Empty(t, roster)
}

func TestLoadConfig(t *testing.T) {
	src := `
arena {
  games                = ["rpsls", "penalty_kicks"]
  move_timeout_ms      = 500
  max_parallel_matches = 4
  group_size           = 3
  advance_per_group    = 1
  scheduled_start_time = "2026-09-01T18:00:00Z"
}

bot "Crushinator" {
  strategy = "random"
  seed     = 7
}

bot "WallE" {
  strategy = "fixed"
}
`
	path := filepath.Join(t.TempDir(), "botarena.hcl")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	cfg, roster, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, []GameType{GameRPSLS, GamePenaltyKicks}, cfg.Games)
	assert.Equal(t, 500*time.Millisecond, cfg.MoveTimeout)
	assert.Equal(t, 4, cfg.MaxParallelMatches)
	assert.Equal(t, 3, cfg.GroupSize)
	assert.Equal(t, 1, cfg.AdvancePerGroup)
	assert.Equal(t, time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC), cfg.ScheduledStartTime)

	require.Len(t, roster, 2)
	assert.Equal(t, RosterEntry{Name: "Crushinator", Strategy: "random", Seed: 7}, roster[0])
	assert.Equal(t, RosterEntry{Name: "WallE", Strategy: "fixed"}, roster[1])
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	src := `
arena {
  group_size = 9
}
`
	path := filepath.Join(t.TempDir(), "botarena.hcl")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	_, _, err := LoadConfig(path)
	assert.Error(t, err)
}
