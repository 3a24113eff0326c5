// Package games holds the per-game match executors and the registry that
// maps game-type tokens to them. Executors play one full match between two
// bots and always return a MatchResult, translating bot failures into the
// uniform error taxonomy.
package games

import (
	"context"
	"sort"

	"github.com/botarena/botarena/internal/arena"
)

// Executor plays a single match between two bots. Implementations must honor
// the cancellation signal, apply the per-move deadline from the config, and
// return within a wall-clock bound related to maxRounds x moveTimeout.
type Executor interface {
	GameType() arena.GameType
	Execute(ctx context.Context, bot1, bot2 arena.Bot, cfg arena.TournamentConfig) arena.MatchResult
}

// Registry is a closed map from game type to executor. It is populated once
// at startup; lookups are read-only afterwards.
type Registry struct {
	executors map[arena.GameType]Executor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{executors: make(map[arena.GameType]Executor)}
}

// DefaultRegistry returns a registry with all four built-in games registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewRPSLS())
	r.Register(NewColonelBlotto())
	r.Register(NewPenaltyKicks())
	r.Register(NewSecurityGame())
	return r
}

// Register adds an executor, replacing any previous one for the same game.
func (r *Registry) Register(e Executor) {
	r.executors[e.GameType()] = e
}

// Lookup returns the executor for a game type.
func (r *Registry) Lookup(gt arena.GameType) (Executor, bool) {
	e, ok := r.executors[gt]
	return e, ok
}

// Games returns the registered game types in lexical order.
func (r *Registry) Games() []arena.GameType {
	games := make([]arena.GameType, 0, len(r.executors))
	for gt := range r.executors {
		games = append(games, gt)
	}
	sort.Slice(games, func(i, j int) bool { return games[i] < games[j] })
	return games
}
