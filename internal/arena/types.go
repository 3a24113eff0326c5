// Package arena defines the shared domain types of the tournament engine:
// game types, bots, per-call game state, and match results.
package arena

import (
	"context"
	"errors"
	"time"
)

// GameType identifies one of the supported head-to-head games. The set is a
// closed enumeration; executors are registered per game type.
type GameType string

const (
	GameRPSLS         GameType = "rpsls"
	GameColonelBlotto GameType = "colonel_blotto"
	GamePenaltyKicks  GameType = "penalty_kicks"
	GameSecurityGame  GameType = "security_game"
)

// AllGames returns the supported game types in their canonical series order.
func AllGames() []GameType {
	return []GameType{GameRPSLS, GameColonelBlotto, GamePenaltyKicks, GameSecurityGame}
}

// Valid reports whether gt is one of the supported game types.
func (gt GameType) Valid() bool {
	switch gt {
	case GameRPSLS, GameColonelBlotto, GamePenaltyKicks, GameSecurityGame:
		return true
	}
	return false
}

// Outcome is the final classification of a match.
type Outcome string

const (
	Player1Wins  Outcome = "player1_wins"
	Player2Wins  Outcome = "player2_wins"
	Draw         Outcome = "draw"
	Player1Error Outcome = "player1_error"
	Player2Error Outcome = "player2_error"
	BothError    Outcome = "both_error"
	Unknown      Outcome = "unknown"
)

// Error tokens recorded verbatim in MatchResult.Errors. Downstream statistics
// count occurrences of these exact strings.
const (
	TokenTimeout   = "timeout"
	TokenCancelled = "cancelled"
)

var (
	// ErrMoveTimeout is returned when a bot fails to answer within the
	// per-call deadline.
	ErrMoveTimeout = errors.New(TokenTimeout)

	// ErrCancelled is returned when the caller's cancellation signal fires
	// mid-match.
	ErrCancelled = errors.New(TokenCancelled)

	// ErrInvalidMove is returned when a bot answers with a value the
	// executor rejects (empty string, malformed allocation, ...).
	ErrInvalidMove = errors.New("invalid move")
)

// GameState is the immutable per-call snapshot handed to a bot before each
// move. The engine constructs a fresh value for every invocation; bots must
// not retain or mutate it.
type GameState struct {
	GameType            GameType
	CurrentRound        int // 1-indexed
	MaxRounds           int
	IsGameOver          bool
	MoveHistory         []string
	MyMoveHistory       []string
	OpponentMoveHistory []string
	State               map[string]any // per-game extras, e.g. role assignment
}

// Bot is the capability set consumed by the engine. A bot is addressed by a
// unique, case-sensitive team name and exposes one method per game type. The
// engine treats bots as opaque and never mutates their state.
type Bot interface {
	TeamName() string

	// PlayRPSLS returns one of rock/paper/scissors/lizard/spock.
	PlayRPSLS(ctx context.Context, state GameState) (string, error)

	// PlayColonelBlotto returns an allocation of 100 troops across 5
	// battlefields. The executor validates length and sum.
	PlayColonelBlotto(ctx context.Context, state GameState) ([]int, error)

	// PlayPenaltyKicks returns a direction (left/center/right); the role
	// for the round is carried in state.State["role"].
	PlayPenaltyKicks(ctx context.Context, state GameState) (string, error)

	// PlaySecurityGame returns a target name; the role (attacker/defender)
	// is carried in state.State["role"].
	PlaySecurityGame(ctx context.Context, state GameState) (string, error)
}

// MatchResult is the uniform record produced for every match, including
// matches that failed or were cancelled. MatchID is unique per execution so
// scoring can reject duplicate applications.
type MatchResult struct {
	MatchID    string
	Bot1Name   string
	Bot2Name   string
	GameType   GameType
	Outcome    Outcome
	WinnerName string // empty on draw, both-error and unknown
	Bot1Score  int
	Bot2Score  int
	MatchLog   []string
	Errors     []string
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
}

// HasErrors reports whether any error was recorded during the match.
func (m *MatchResult) HasErrors() bool {
	return len(m.Errors) > 0
}

// HasTimeout reports whether any recorded error carries the timeout token.
func (m *MatchResult) HasTimeout() bool {
	for _, e := range m.Errors {
		if e == TokenTimeout {
			return true
		}
	}
	return false
}

// Participants returns both team names in board order.
func (m *MatchResult) Participants() []string {
	return []string{m.Bot1Name, m.Bot2Name}
}
