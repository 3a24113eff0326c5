package games

import (
	"errors"
	"fmt"
	"time"

	"github.com/botarena/botarena/internal/arena"
	"github.com/google/uuid"
)

// matchRecorder accumulates the round-by-round narrative and produces the
// final MatchResult. One recorder per match execution.
type matchRecorder struct {
	result arena.MatchResult
}

func newMatch(bot1, bot2 arena.Bot, gt arena.GameType) *matchRecorder {
	return &matchRecorder{result: arena.MatchResult{
		MatchID:   uuid.NewString(),
		Bot1Name:  bot1.TeamName(),
		Bot2Name:  bot2.TeamName(),
		GameType:  gt,
		Outcome:   arena.Unknown,
		StartTime: time.Now(),
	}}
}

func (m *matchRecorder) logf(format string, args ...any) {
	m.result.MatchLog = append(m.result.MatchLog, fmt.Sprintf(format, args...))
}

func (m *matchRecorder) addError(err error) {
	m.result.Errors = append(m.result.Errors, err.Error())
}

// finish stamps the end time and returns the completed result.
func (m *matchRecorder) finish(outcome arena.Outcome, winner string) arena.MatchResult {
	m.result.Outcome = outcome
	m.result.WinnerName = winner
	m.result.EndTime = time.Now()
	m.result.Duration = m.result.EndTime.Sub(m.result.StartTime)
	return m.result
}

// finishScored picks the outcome from the accumulated scores.
func (m *matchRecorder) finishScored() arena.MatchResult {
	switch {
	case m.result.Bot1Score > m.result.Bot2Score:
		m.logf("%s wins %d-%d", m.result.Bot1Name, m.result.Bot1Score, m.result.Bot2Score)
		return m.finish(arena.Player1Wins, m.result.Bot1Name)
	case m.result.Bot2Score > m.result.Bot1Score:
		m.logf("%s wins %d-%d", m.result.Bot2Name, m.result.Bot2Score, m.result.Bot1Score)
		return m.finish(arena.Player2Wins, m.result.Bot2Name)
	default:
		m.logf("draw %d-%d", m.result.Bot1Score, m.result.Bot2Score)
		return m.finish(arena.Draw, "")
	}
}

// cancelled ends the match with Outcome=Unknown and the cancelled token.
func (m *matchRecorder) cancelled() arena.MatchResult {
	m.addError(arena.ErrCancelled)
	m.logf("match cancelled")
	return m.finish(arena.Unknown, "")
}

// moveFailure maps per-bot move errors to the final outcome. At least one of
// err1, err2 is non-nil. The erroring side loses; if both erred nobody wins.
func (m *matchRecorder) moveFailure(err1, err2 error) arena.MatchResult {
	if err1 != nil {
		m.addError(err1)
		m.logf("%s move error: %v", m.result.Bot1Name, err1)
	}
	if err2 != nil {
		m.addError(err2)
		m.logf("%s move error: %v", m.result.Bot2Name, err2)
	}
	switch {
	case err1 != nil && err2 != nil:
		return m.finish(arena.BothError, "")
	case err1 != nil:
		return m.finish(arena.Player1Error, m.result.Bot2Name)
	default:
		return m.finish(arena.Player2Error, m.result.Bot1Name)
	}
}

// isCancelled reports whether either error is the cancellation signal.
func isCancelled(errs ...error) bool {
	for _, err := range errs {
		if errors.Is(err, arena.ErrCancelled) {
			return true
		}
	}
	return false
}

// buildState assembles the immutable per-call snapshot for one bot. mine and
// theirs are that bot's own and its opponent's prior moves; the shared
// MoveHistory interleaves them in round order.
func buildState(gt arena.GameType, round, maxRounds int, mine, theirs []string, extra map[string]any) arena.GameState {
	combined := make([]string, 0, len(mine)+len(theirs))
	for i := 0; i < len(mine) || i < len(theirs); i++ {
		if i < len(mine) {
			combined = append(combined, mine[i])
		}
		if i < len(theirs) {
			combined = append(combined, theirs[i])
		}
	}

	state := make(map[string]any, len(extra))
	for k, v := range extra {
		state[k] = v
	}

	return arena.GameState{
		GameType:            gt,
		CurrentRound:        round,
		MaxRounds:           maxRounds,
		IsGameOver:          false,
		MoveHistory:         combined,
		MyMoveHistory:       append([]string(nil), mine...),
		OpponentMoveHistory: append([]string(nil), theirs...),
		State:               state,
	}
}
