// Package bots provides the built-in strategies used for local tournaments
// and tests. Every strategy is deterministic given its seed.
package bots

import (
	"context"
	"fmt"
	rand "math/rand/v2"
	"sort"

	"github.com/botarena/botarena/internal/arena"
	"github.com/botarena/botarena/internal/randutil"
)

// Strategy names accepted by New.
const (
	StrategyRandom  = "random"
	StrategyFixed   = "fixed"
	StrategyCounter = "counter"
	StrategyFaulty  = "faulty"
	StrategyPanic   = "panic"
	StrategyTimeout = "timeout"
)

var rpslsMoves = []string{"rock", "paper", "scissors", "lizard", "spock"}
var kickDirections = []string{"left", "center", "right"}
var securityTargets = []string{"server", "database", "gateway", "vault", "workstation"}

// New constructs a bot by strategy name. Unknown strategies are an error.
func New(strategy, name string, seed int64) (arena.Bot, error) {
	switch strategy {
	case StrategyRandom:
		return NewRandom(name, seed), nil
	case StrategyFixed:
		return NewFixed(name), nil
	case StrategyCounter:
		return NewCounter(name, seed), nil
	case StrategyFaulty:
		return NewFaulty(name), nil
	case StrategyPanic:
		return NewPanicking(name), nil
	case StrategyTimeout:
		return NewStalling(name), nil
	default:
		return nil, fmt.Errorf("unknown bot strategy: %s", strategy)
	}
}

// Strategies lists the available strategy names.
func Strategies() []string {
	s := []string{StrategyRandom, StrategyFixed, StrategyCounter, StrategyFaulty, StrategyPanic, StrategyTimeout}
	sort.Strings(s)
	return s
}

// Random plays uniformly random valid moves in every game.
type Random struct {
	name string
	rng  *rand.Rand
}

func NewRandom(name string, seed int64) *Random {
	return &Random{name: name, rng: randutil.FromName(name, seed)}
}

func (b *Random) TeamName() string { return b.name }

func (b *Random) PlayRPSLS(ctx context.Context, state arena.GameState) (string, error) {
	return rpslsMoves[b.rng.IntN(len(rpslsMoves))], nil
}

func (b *Random) PlayColonelBlotto(ctx context.Context, state arena.GameState) ([]int, error) {
	return randomAllocation(b.rng), nil
}

func (b *Random) PlayPenaltyKicks(ctx context.Context, state arena.GameState) (string, error) {
	return kickDirections[b.rng.IntN(len(kickDirections))], nil
}

func (b *Random) PlaySecurityGame(ctx context.Context, state arena.GameState) (string, error) {
	return securityTargets[b.rng.IntN(len(securityTargets))], nil
}

// randomAllocation spreads 100 troops over 5 battlefields by dealing one
// troop at a time.
func randomAllocation(rng *rand.Rand) []int {
	alloc := make([]int, 5)
	for i := 0; i < 100; i++ {
		alloc[rng.IntN(5)]++
	}
	return alloc
}

// Fixed always plays the same move: rock, an even troop split, and the
// center lane. Useful as a predictable baseline.
type Fixed struct {
	name string
}

func NewFixed(name string) *Fixed { return &Fixed{name: name} }

func (b *Fixed) TeamName() string { return b.name }

func (b *Fixed) PlayRPSLS(ctx context.Context, state arena.GameState) (string, error) {
	return "rock", nil
}

func (b *Fixed) PlayColonelBlotto(ctx context.Context, state arena.GameState) ([]int, error) {
	return []int{20, 20, 20, 20, 20}, nil
}

func (b *Fixed) PlayPenaltyKicks(ctx context.Context, state arena.GameState) (string, error) {
	return "center", nil
}

func (b *Fixed) PlaySecurityGame(ctx context.Context, state arena.GameState) (string, error) {
	return "server", nil
}

// Counter answers the opponent's previous move: in RPSLS it plays a move
// that beats it, elsewhere it mirrors. First moves are random.
type Counter struct {
	name string
	rng  *rand.Rand
}

func NewCounter(name string, seed int64) *Counter {
	return &Counter{name: name, rng: randutil.FromName(name, seed)}
}

func (b *Counter) TeamName() string { return b.name }

// beatenBy maps a move to one move that defeats it.
var beatenBy = map[string]string{
	"rock":     "paper",
	"paper":    "scissors",
	"scissors": "rock",
	"lizard":   "rock",
	"spock":    "lizard",
}

func (b *Counter) PlayRPSLS(ctx context.Context, state arena.GameState) (string, error) {
	if last, ok := lastMove(state); ok {
		if counter, ok := beatenBy[last]; ok {
			return counter, nil
		}
	}
	return rpslsMoves[b.rng.IntN(len(rpslsMoves))], nil
}

func (b *Counter) PlayColonelBlotto(ctx context.Context, state arena.GameState) ([]int, error) {
	return randomAllocation(b.rng), nil
}

func (b *Counter) PlayPenaltyKicks(ctx context.Context, state arena.GameState) (string, error) {
	if last, ok := lastMove(state); ok {
		return last, nil
	}
	return kickDirections[b.rng.IntN(len(kickDirections))], nil
}

func (b *Counter) PlaySecurityGame(ctx context.Context, state arena.GameState) (string, error) {
	if last, ok := lastMove(state); ok {
		return last, nil
	}
	return securityTargets[b.rng.IntN(len(securityTargets))], nil
}

func lastMove(state arena.GameState) (string, bool) {
	if n := len(state.OpponentMoveHistory); n > 0 {
		return state.OpponentMoveHistory[n-1], true
	}
	return "", false
}

// Faulty returns an error from every call. It exercises the move-error
// taxonomy end to end.
type Faulty struct {
	name string
}

func NewFaulty(name string) *Faulty { return &Faulty{name: name} }

func (b *Faulty) TeamName() string { return b.name }

func (b *Faulty) PlayRPSLS(ctx context.Context, state arena.GameState) (string, error) {
	return "", fmt.Errorf("strategy failure in round %d", state.CurrentRound)
}

func (b *Faulty) PlayColonelBlotto(ctx context.Context, state arena.GameState) ([]int, error) {
	return nil, fmt.Errorf("strategy failure in round %d", state.CurrentRound)
}

func (b *Faulty) PlayPenaltyKicks(ctx context.Context, state arena.GameState) (string, error) {
	return "", fmt.Errorf("strategy failure in round %d", state.CurrentRound)
}

func (b *Faulty) PlaySecurityGame(ctx context.Context, state arena.GameState) (string, error) {
	return "", fmt.Errorf("strategy failure in round %d", state.CurrentRound)
}

// Panicking panics on every call; the match runner is expected to recover
// and score it as a move error.
type Panicking struct {
	name string
}

func NewPanicking(name string) *Panicking { return &Panicking{name: name} }

func (b *Panicking) TeamName() string { return b.name }

func (b *Panicking) PlayRPSLS(ctx context.Context, state arena.GameState) (string, error) {
	panic("deliberate bot panic")
}

func (b *Panicking) PlayColonelBlotto(ctx context.Context, state arena.GameState) ([]int, error) {
	panic("deliberate bot panic")
}

func (b *Panicking) PlayPenaltyKicks(ctx context.Context, state arena.GameState) (string, error) {
	panic("deliberate bot panic")
}

func (b *Panicking) PlaySecurityGame(ctx context.Context, state arena.GameState) (string, error) {
	panic("deliberate bot panic")
}

// Stalling never answers: it blocks until the runner's per-call deadline or
// cancellation fires.
type Stalling struct {
	name string
}

func NewStalling(name string) *Stalling { return &Stalling{name: name} }

func (b *Stalling) TeamName() string { return b.name }

func (b *Stalling) stall(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func (b *Stalling) PlayRPSLS(ctx context.Context, state arena.GameState) (string, error) {
	return "", b.stall(ctx)
}

func (b *Stalling) PlayColonelBlotto(ctx context.Context, state arena.GameState) ([]int, error) {
	return nil, b.stall(ctx)
}

func (b *Stalling) PlayPenaltyKicks(ctx context.Context, state arena.GameState) (string, error) {
	return "", b.stall(ctx)
}

func (b *Stalling) PlaySecurityGame(ctx context.Context, state arena.GameState) (string, error) {
	return "", b.stall(ctx)
}
