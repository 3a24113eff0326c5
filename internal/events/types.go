// Package events defines the publisher capability set the engine emits
// progress through, plus the concrete transports: no-op, log, websocket.
// Every event is a value; subscribers never share mutable state with the
// engine.
package events

import (
	"time"

	"github.com/botarena/botarena/internal/arena"
	"github.com/botarena/botarena/internal/scoring"
)

// MatchCompleted is emitted after a match result has been recorded.
type MatchCompleted struct {
	TournamentID string            `json:"tournament_id"`
	GameType     arena.GameType    `json:"game_type"`
	GroupLabel   string            `json:"group_label,omitempty"`
	Round        int               `json:"round"`
	Result       arena.MatchResult `json:"result"`
}

// StandingsUpdated carries a ranked snapshot after scoring a match.
type StandingsUpdated struct {
	TournamentID string             `json:"tournament_id"`
	GameType     arena.GameType     `json:"game_type"`
	GroupLabel   string             `json:"group_label,omitempty"`
	Rankings     []scoring.Standing `json:"rankings"`
}

// RoundStarted is emitted before a round's matches are dispatched.
type RoundStarted struct {
	TournamentID string         `json:"tournament_id"`
	GameType     arena.GameType `json:"game_type"`
	Round        int            `json:"round"`
	TotalRounds  int            `json:"total_rounds"`
	Matches      int            `json:"matches"`
}

// EventStarted marks the start of one series step.
type EventStarted struct {
	SeriesName string         `json:"series_name"`
	StepIndex  int            `json:"step_index"`
	GameType   arena.GameType `json:"game_type"`
}

// EventCompleted marks the completion of one series step with its final
// rankings.
type EventCompleted struct {
	SeriesName string             `json:"series_name"`
	StepIndex  int                `json:"step_index"`
	GameType   arena.GameType     `json:"game_type"`
	Rankings   []scoring.Standing `json:"rankings"`
}

// EventStepCompleted reports a step status transition.
type EventStepCompleted struct {
	SeriesName string         `json:"series_name"`
	StepIndex  int            `json:"step_index"`
	GameType   arena.GameType `json:"game_type"`
	Status     string         `json:"status"`
}

// TournamentStarted is emitted when a tournament enters Running.
type TournamentStarted struct {
	TournamentID string         `json:"tournament_id"`
	GameType     arena.GameType `json:"game_type"`
	Bots         []string       `json:"bots"`
	TotalRounds  int            `json:"total_rounds"`
}

// TournamentProgress is emitted periodically: once per completed match and
// once per second while waiting on a scheduled start.
type TournamentProgress struct {
	TournamentID     string        `json:"tournament_id,omitempty"`
	SeriesName       string        `json:"series_name,omitempty"`
	MatchesCompleted int           `json:"matches_completed"`
	MatchesTotal     int           `json:"matches_total"`
	StartsIn         time.Duration `json:"starts_in,omitempty"`
	Message          string        `json:"message,omitempty"`
}

// TournamentCompleted is emitted when a tournament reaches a terminal state.
type TournamentCompleted struct {
	TournamentID string             `json:"tournament_id"`
	GameType     arena.GameType     `json:"game_type"`
	State        string             `json:"state"`
	Rankings     []scoring.Standing `json:"rankings"`
	Statistics   scoring.Statistics `json:"statistics"`
}

// StepState is one entry of the published series snapshot.
type StepState struct {
	Index    int            `json:"index"`
	GameType arena.GameType `json:"game_type"`
	Status   string         `json:"status"`
}

// SeriesStanding is one row of the cumulative series score.
type SeriesStanding struct {
	TeamName        string `json:"team_name"`
	CumulativeScore int    `json:"cumulative_score"`
	Rank            int    `json:"rank"`
}

// TournamentView is the optional live-tournament portion of a snapshot.
type TournamentView struct {
	TournamentID string         `json:"tournament_id"`
	GameType     arena.GameType `json:"game_type"`
	State        string         `json:"state"`
	Bots         []string       `json:"bots"`
	MatchCount   int            `json:"match_count"`
	TotalRounds  int            `json:"total_rounds"`
	StartTime    time.Time      `json:"start_time"`
	EndTime      *time.Time     `json:"end_time,omitempty"`
}

// StateSnapshot is the full series state published via UpdateCurrentState.
type StateSnapshot struct {
	SeriesName       string           `json:"series_name"`
	Steps            []StepState      `json:"steps"`
	CurrentStepIndex int              `json:"current_step_index"`
	SeriesStandings  []SeriesStanding `json:"series_standings"`
	Tournament       *TournamentView  `json:"tournament,omitempty"`
}
