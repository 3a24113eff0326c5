package arena

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// TournamentConfig carries every operator-tunable knob recognised by the
// engine. Zero values are replaced by defaults in Normalize.
type TournamentConfig struct {
	Games               []GameType    // ordered list of event steps
	MoveTimeout         time.Duration // per bot-call deadline
	ImportTimeout       time.Duration // bot loader deadline (consumed externally)
	MaxParallelMatches  int           // dispatch semaphore capacity
	MaxRoundsRPSLS      int           // match length cap for RPSLS
	MemoryLimitMB       int           // advisory only, not enforced here
	GroupSize           int           // target bots per group (3-5)
	AdvancePerGroup     int           // top-q advancing to knockout
	KnockoutDrawReplays int           // retries on knockout draws
	FastMatchThreshold  time.Duration // matches faster than this skip pacing
	ScheduledStartTime  time.Time     // zero means start immediately
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() TournamentConfig {
	return TournamentConfig{
		Games:               AllGames(),
		MoveTimeout:         2 * time.Second,
		ImportTimeout:       10 * time.Second,
		MaxParallelMatches:  1,
		MaxRoundsRPSLS:      50,
		MemoryLimitMB:       512,
		GroupSize:           4,
		AdvancePerGroup:     2,
		KnockoutDrawReplays: 1,
		FastMatchThreshold:  5 * time.Second,
	}
}

// Normalize fills in defaults for unset values. It does not validate.
func (c *TournamentConfig) Normalize() {
	def := DefaultConfig()
	if len(c.Games) == 0 {
		c.Games = def.Games
	}
	if c.MoveTimeout <= 0 {
		c.MoveTimeout = def.MoveTimeout
	}
	if c.ImportTimeout <= 0 {
		c.ImportTimeout = def.ImportTimeout
	}
	if c.MaxParallelMatches <= 0 {
		c.MaxParallelMatches = def.MaxParallelMatches
	}
	if c.MaxRoundsRPSLS <= 0 {
		c.MaxRoundsRPSLS = def.MaxRoundsRPSLS
	}
	if c.MemoryLimitMB <= 0 {
		c.MemoryLimitMB = def.MemoryLimitMB
	}
	if c.GroupSize <= 0 {
		c.GroupSize = def.GroupSize
	}
	if c.AdvancePerGroup <= 0 {
		c.AdvancePerGroup = def.AdvancePerGroup
	}
	if c.KnockoutDrawReplays < 0 {
		c.KnockoutDrawReplays = def.KnockoutDrawReplays
	}
	if c.FastMatchThreshold <= 0 {
		c.FastMatchThreshold = def.FastMatchThreshold
	}
}

// Validate checks operator-supplied values after normalization.
func (c *TournamentConfig) Validate() error {
	if len(c.Games) == 0 {
		return fmt.Errorf("at least one game must be configured")
	}
	for _, g := range c.Games {
		if !g.Valid() {
			return fmt.Errorf("unknown game type: %s", g)
		}
	}
	if c.GroupSize < 3 || c.GroupSize > 5 {
		return fmt.Errorf("group size must be between 3 and 5, got %d", c.GroupSize)
	}
	if c.AdvancePerGroup < 1 || c.AdvancePerGroup > c.GroupSize {
		return fmt.Errorf("advance per group must be between 1 and group size, got %d", c.AdvancePerGroup)
	}
	if c.MaxParallelMatches < 1 {
		return fmt.Errorf("max parallel matches must be at least 1, got %d", c.MaxParallelMatches)
	}
	return nil
}

// RosterEntry describes one configured bot: a team name and the built-in
// strategy that backs it.
type RosterEntry struct {
	Name     string `hcl:"name,label"`
	Strategy string `hcl:"strategy"`
	Seed     int64  `hcl:"seed,optional"`
}

// FileConfig is the on-disk HCL shape:
//
//	arena {
//	  games                 = ["rpsls", "colonel_blotto"]
//	  move_timeout_ms       = 2000
//	  max_parallel_matches  = 2
//	}
//
//	bot "Team1" { strategy = "random" }
type FileConfig struct {
	Arena  arenaBlock    `hcl:"arena,block"`
	Roster []RosterEntry `hcl:"bot,block"`
}

type arenaBlock struct {
	Games                  []string `hcl:"games,optional"`
	MoveTimeoutMs          int      `hcl:"move_timeout_ms,optional"`
	ImportTimeoutMs        int      `hcl:"import_timeout_ms,optional"`
	MaxParallelMatches     int      `hcl:"max_parallel_matches,optional"`
	MaxRoundsRPSLS         int      `hcl:"max_rounds_rpsls,optional"`
	MemoryLimitMB          int      `hcl:"memory_limit_mb,optional"`
	GroupSize              int      `hcl:"group_size,optional"`
	AdvancePerGroup        int      `hcl:"advance_per_group,optional"`
	KnockoutDrawReplays    int      `hcl:"knockout_draw_replays,optional"`
	FastMatchThresholdSecs int      `hcl:"fast_match_threshold_seconds,optional"`
	ScheduledStartTime     string   `hcl:"scheduled_start_time,optional"` // RFC3339
}

// LoadConfig parses an HCL config file. A missing file yields the defaults
// with an empty roster.
func LoadConfig(filename string) (TournamentConfig, []RosterEntry, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return cfg, nil, nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return cfg, nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var fc FileConfig
	if diags := gohcl.DecodeBody(file.Body, nil, &fc); diags.HasErrors() {
		return cfg, nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	if len(fc.Arena.Games) > 0 {
		cfg.Games = nil
		for _, g := range fc.Arena.Games {
			cfg.Games = append(cfg.Games, GameType(g))
		}
	}
	if fc.Arena.MoveTimeoutMs > 0 {
		cfg.MoveTimeout = time.Duration(fc.Arena.MoveTimeoutMs) * time.Millisecond
	}
	if fc.Arena.ImportTimeoutMs > 0 {
		cfg.ImportTimeout = time.Duration(fc.Arena.ImportTimeoutMs) * time.Millisecond
	}
	if fc.Arena.MaxParallelMatches > 0 {
		cfg.MaxParallelMatches = fc.Arena.MaxParallelMatches
	}
	if fc.Arena.MaxRoundsRPSLS > 0 {
		cfg.MaxRoundsRPSLS = fc.Arena.MaxRoundsRPSLS
	}
	if fc.Arena.MemoryLimitMB > 0 {
		cfg.MemoryLimitMB = fc.Arena.MemoryLimitMB
	}
	if fc.Arena.GroupSize > 0 {
		cfg.GroupSize = fc.Arena.GroupSize
	}
	if fc.Arena.AdvancePerGroup > 0 {
		cfg.AdvancePerGroup = fc.Arena.AdvancePerGroup
	}
	if fc.Arena.KnockoutDrawReplays > 0 {
		cfg.KnockoutDrawReplays = fc.Arena.KnockoutDrawReplays
	}
	if fc.Arena.FastMatchThresholdSecs > 0 {
		cfg.FastMatchThreshold = time.Duration(fc.Arena.FastMatchThresholdSecs) * time.Second
	}
	if fc.Arena.ScheduledStartTime != "" {
		ts, err := time.Parse(time.RFC3339, fc.Arena.ScheduledStartTime)
		if err != nil {
			return cfg, nil, fmt.Errorf("invalid scheduled_start_time: %w", err)
		}
		cfg.ScheduledStartTime = ts
	}

	if err := cfg.Validate(); err != nil {
		return cfg, nil, err
	}
	return cfg, fc.Roster, nil
}
