package games

import (
	"context"
	"fmt"
	"strings"

	"github.com/botarena/botarena/internal/arena"
)

// rpslsBeats maps each move to the moves it defeats.
var rpslsBeats = map[string][]string{
	"rock":     {"scissors", "lizard"},
	"paper":    {"rock", "spock"},
	"scissors": {"paper", "lizard"},
	"lizard":   {"spock", "paper"},
	"spock":    {"scissors", "rock"},
}

// RPSLS plays rock-paper-scissors-lizard-spock over a fixed number of rounds;
// the bot with more round wins takes the match.
type RPSLS struct{}

func NewRPSLS() *RPSLS { return &RPSLS{} }

func (e *RPSLS) GameType() arena.GameType { return arena.GameRPSLS }

func (e *RPSLS) Execute(ctx context.Context, bot1, bot2 arena.Bot, cfg arena.TournamentConfig) arena.MatchResult {
	rec := newMatch(bot1, bot2, arena.GameRPSLS)
	maxRounds := cfg.MaxRoundsRPSLS

	var hist1, hist2 []string
	for round := 1; round <= maxRounds; round++ {
		st1 := buildState(arena.GameRPSLS, round, maxRounds, hist1, hist2, nil)
		st2 := buildState(arena.GameRPSLS, round, maxRounds, hist2, hist1, nil)

		move1, err1 := call(ctx, cfg.MoveTimeout, func(c context.Context) (string, error) {
			return bot1.PlayRPSLS(c, st1)
		})
		move2, err2 := call(ctx, cfg.MoveTimeout, func(c context.Context) (string, error) {
			return bot2.PlayRPSLS(c, st2)
		})
		if isCancelled(err1, err2) {
			return rec.cancelled()
		}
		if err1 == nil {
			move1, err1 = validRPSLSMove(move1)
		}
		if err2 == nil {
			move2, err2 = validRPSLSMove(move2)
		}
		if err1 != nil || err2 != nil {
			return rec.moveFailure(err1, err2)
		}

		hist1 = append(hist1, move1)
		hist2 = append(hist2, move2)
		switch winnerOfThrow(move1, move2) {
		case 1:
			rec.result.Bot1Score++
			rec.logf("round %d: %s beats %s", round, move1, move2)
		case 2:
			rec.result.Bot2Score++
			rec.logf("round %d: %s beats %s", round, move2, move1)
		default:
			rec.logf("round %d: %s ties %s", round, move1, move2)
		}
	}

	return rec.finishScored()
}

// validRPSLSMove normalizes and checks a throw; an empty or unknown move is a
// move error.
func validRPSLSMove(move string) (string, error) {
	move = strings.ToLower(strings.TrimSpace(move))
	if _, ok := rpslsBeats[move]; !ok {
		return "", fmt.Errorf("%w: %q", arena.ErrInvalidMove, move)
	}
	return move, nil
}

// winnerOfThrow returns 1 or 2 for the winning side, 0 on a tie.
func winnerOfThrow(m1, m2 string) int {
	if m1 == m2 {
		return 0
	}
	for _, beaten := range rpslsBeats[m1] {
		if beaten == m2 {
			return 1
		}
	}
	return 2
}
