// Package match provides the runner that executes a single match between two
// bots through a registered game executor, with a uniform error taxonomy: the
// runner always returns a MatchResult, never an error or a panic.
package match

import (
	"context"
	"fmt"
	"time"

	"github.com/botarena/botarena/internal/arena"
	"github.com/botarena/botarena/internal/games"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Runner dispatches matches to game executors.
type Runner struct {
	registry *games.Registry
	cfg      arena.TournamentConfig
	logger   *log.Logger
}

// NewRunner creates a match runner over the given executor registry.
func NewRunner(registry *games.Registry, cfg arena.TournamentConfig, logger *log.Logger) *Runner {
	return &Runner{
		registry: registry,
		cfg:      cfg,
		logger:   logger.WithPrefix("match"),
	}
}

// Execute plays one match. It never panics and never returns an error: bot
// faults, missing executors, and cancellation are all folded into the result.
func (r *Runner) Execute(ctx context.Context, bot1, bot2 arena.Bot, gameType arena.GameType) (result arena.MatchResult) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("executor panic", "game", gameType, "panic", rec)
			result = failedResult(bot1, bot2, gameType, fmt.Sprintf("executor panic: %v", rec))
		}
	}()

	executor, ok := r.registry.Lookup(gameType)
	if !ok {
		r.logger.Error("no executor registered", "game", gameType)
		return failedResult(bot1, bot2, gameType, fmt.Sprintf("no executor: %s", gameType))
	}

	if ctx.Err() != nil {
		return failedResult(bot1, bot2, gameType, arena.TokenCancelled)
	}

	r.logger.Debug("match starting",
		"game", gameType,
		"bot1", bot1.TeamName(),
		"bot2", bot2.TeamName())

	result = executor.Execute(ctx, bot1, bot2, r.cfg)

	r.logger.Debug("match complete",
		"game", gameType,
		"outcome", result.Outcome,
		"winner", result.WinnerName,
		"duration", result.Duration)
	return result
}

// failedResult builds a terminal result for matches that never ran: unknown
// game types, pre-cancelled contexts, and executor panics.
func failedResult(bot1, bot2 arena.Bot, gameType arena.GameType, errMsg string) arena.MatchResult {
	now := time.Now()
	return arena.MatchResult{
		MatchID:   uuid.NewString(),
		Bot1Name:  bot1.TeamName(),
		Bot2Name:  bot2.TeamName(),
		GameType:  gameType,
		Outcome:   arena.Unknown,
		StartTime: now,
		EndTime:   now,
		Errors:    []string{errMsg},
	}
}
