package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/botarena/botarena/cmd/botarena/shared"
	"github.com/botarena/botarena/internal/arena"
	"github.com/botarena/botarena/internal/bots"
	"github.com/botarena/botarena/internal/events"
	"github.com/botarena/botarena/internal/games"
	"github.com/botarena/botarena/internal/match"
	"github.com/botarena/botarena/internal/sink"
	"github.com/botarena/botarena/internal/tournament"
	"github.com/coder/quartz"
)

// RunCmd runs a full series: one tournament per game over a shared roster.
type RunCmd struct {
	Config         string `kong:"default='botarena.hcl',help='HCL config file (optional)'"`
	Name           string `kong:"default='botarena',help='Series name'"`
	Bots           string `kong:"help='Extra roster spec, e.g. random:4,counter:2'"`
	Games          string `kong:"help='Comma-separated game list overriding config'"`
	Parallel       int    `kong:"help='Max parallel matches (overrides config)'"`
	MoveTimeoutMs  int    `kong:"help='Per-move timeout in milliseconds (overrides config)'"`
	Seed           *int64 `kong:"help='Deterministic RNG seed for built-in bots (optional)'"`
	Listen         string `kong:"help='Serve live events over websocket on this address, e.g. :8080'"`
	Output         string `kong:"help='Directory to persist match results and summaries'"`
	ScheduledStart string `kong:"help='RFC3339 start time; the series waits until then'"`
	PacingMs       int    `kong:"help='Per-match pacing delay in milliseconds'"`
	Debug          bool   `kong:"help='Enable debug logging'"`
}

func (c *RunCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)

	cfg, rosterEntries, err := arena.LoadConfig(c.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := c.applyOverrides(&cfg); err != nil {
		return err
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
		logger.Info("using deterministic seed", "seed", seed)
	}

	roster, err := buildRoster(rosterEntries, c.Bots, seed)
	if err != nil {
		return err
	}
	if len(roster) < 2 {
		return fmt.Errorf("need at least 2 bots, have %d (use --bots or a roster in %s)", len(roster), c.Config)
	}
	logger.Info("roster assembled", "bots", len(roster), "games", len(cfg.Games))

	pubs := []events.Publisher{events.NewLogPublisher(logger)}

	if c.Listen != "" {
		ws := events.NewWebSocketPublisher(c.Listen, logger)
		if err := ws.Start(); err != nil {
			return fmt.Errorf("failed to start event server: %w", err)
		}
		defer ws.Stop()
		pubs = append(pubs, ws)
	}

	if c.Output != "" {
		fs, err := sink.NewFileSink(c.Output)
		if err != nil {
			return fmt.Errorf("failed to open result sink: %w", err)
		}
		defer fs.Close()
		pubs = append(pubs, sink.NewRecorder(fs))
	}

	settings := tournament.SettingsFromConfig(cfg)
	if c.PacingMs > 0 {
		settings.PacingDelay = time.Duration(c.PacingMs) * time.Millisecond
	}

	runner := match.NewRunner(games.DefaultRegistry(), cfg, logger)
	series := tournament.NewSeries(c.Name, roster, cfg, settings, runner,
		events.NewMulti(pubs...), quartz.NewReal(), logger)

	ctx := shared.SetupSignalHandlerWithLogger(logger)
	if res := series.Start(ctx); !res.Success {
		return fmt.Errorf("failed to start series: %s", res.Message)
	}
	series.Wait()

	printReport(series)

	if series.State() != tournament.StateCompleted {
		return fmt.Errorf("series finished in state %s", series.State())
	}
	return nil
}

func (c *RunCmd) applyOverrides(cfg *arena.TournamentConfig) error {
	if c.Games != "" {
		var list []arena.GameType
		for _, raw := range strings.Split(c.Games, ",") {
			gt := arena.GameType(strings.TrimSpace(raw))
			if !gt.Valid() {
				return fmt.Errorf("unknown game: %s", raw)
			}
			list = append(list, gt)
		}
		cfg.Games = list
	}
	if c.Parallel > 0 {
		cfg.MaxParallelMatches = c.Parallel
	}
	if c.MoveTimeoutMs > 0 {
		cfg.MoveTimeout = time.Duration(c.MoveTimeoutMs) * time.Millisecond
	}
	if c.ScheduledStart != "" {
		at, err := time.Parse(time.RFC3339, c.ScheduledStart)
		if err != nil {
			return fmt.Errorf("invalid --scheduled-start: %w", err)
		}
		cfg.ScheduledStartTime = at
	}
	return nil
}

// buildRoster combines config roster entries with the --bots spec. Spec
// entries are named strategy-1, strategy-2, ...
func buildRoster(entries []arena.RosterEntry, spec string, seed int64) ([]arena.Bot, error) {
	var roster []arena.Bot
	for _, e := range entries {
		botSeed := seed
		if e.Seed != 0 {
			botSeed = e.Seed
		}
		b, err := bots.New(e.Strategy, e.Name, botSeed)
		if err != nil {
			return nil, fmt.Errorf("roster entry %q: %w", e.Name, err)
		}
		roster = append(roster, b)
	}

	if spec == "" {
		return roster, nil
	}
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		strategy, count := part, 1
		if name, n, ok := strings.Cut(part, ":"); ok {
			parsed, err := strconv.Atoi(n)
			if err != nil || parsed < 1 {
				return nil, fmt.Errorf("invalid bot spec %q: count must be a positive integer", part)
			}
			strategy, count = name, parsed
		}
		for i := 1; i <= count; i++ {
			name := fmt.Sprintf("%s-%d", strategy, i)
			b, err := bots.New(strategy, name, seed)
			if err != nil {
				return nil, err
			}
			roster = append(roster, b)
		}
	}
	return roster, nil
}
