package games

import (
	"context"
	"fmt"
	"strings"

	"github.com/botarena/botarena/internal/arena"
)

const penaltyKicks = 10

// Penalty kick roles, carried in GameState.State["role"].
const (
	RoleShooter = "shooter"
	RoleKeeper  = "keeper"
)

var penaltyDirections = map[string]bool{
	"left":   true,
	"center": true,
	"right":  true,
}

// PenaltyKicks alternates shooter and keeper each kick; the shooter scores
// when the keeper dives the wrong way. Most goals after 10 kicks wins.
type PenaltyKicks struct{}

func NewPenaltyKicks() *PenaltyKicks { return &PenaltyKicks{} }

func (e *PenaltyKicks) GameType() arena.GameType { return arena.GamePenaltyKicks }

func (e *PenaltyKicks) Execute(ctx context.Context, bot1, bot2 arena.Bot, cfg arena.TournamentConfig) arena.MatchResult {
	rec := newMatch(bot1, bot2, arena.GamePenaltyKicks)

	var hist1, hist2 []string
	for round := 1; round <= penaltyKicks; round++ {
		// Odd rounds: bot1 shoots. Even rounds: bot2 shoots.
		bot1Shoots := round%2 == 1
		role1, role2 := RoleShooter, RoleKeeper
		if !bot1Shoots {
			role1, role2 = RoleKeeper, RoleShooter
		}

		st1 := buildState(arena.GamePenaltyKicks, round, penaltyKicks, hist1, hist2, map[string]any{"role": role1})
		st2 := buildState(arena.GamePenaltyKicks, round, penaltyKicks, hist2, hist1, map[string]any{"role": role2})

		move1, err1 := call(ctx, cfg.MoveTimeout, func(c context.Context) (string, error) {
			return bot1.PlayPenaltyKicks(c, st1)
		})
		move2, err2 := call(ctx, cfg.MoveTimeout, func(c context.Context) (string, error) {
			return bot2.PlayPenaltyKicks(c, st2)
		})
		if isCancelled(err1, err2) {
			return rec.cancelled()
		}
		if err1 == nil {
			move1, err1 = validDirection(move1)
		}
		if err2 == nil {
			move2, err2 = validDirection(move2)
		}
		if err1 != nil || err2 != nil {
			return rec.moveFailure(err1, err2)
		}

		hist1 = append(hist1, move1)
		hist2 = append(hist2, move2)

		goal := move1 != move2
		if bot1Shoots {
			if goal {
				rec.result.Bot1Score++
				rec.logf("kick %d: %s shoots %s, goal", round, rec.result.Bot1Name, move1)
			} else {
				rec.logf("kick %d: %s saves %s", round, rec.result.Bot2Name, move1)
			}
		} else {
			if goal {
				rec.result.Bot2Score++
				rec.logf("kick %d: %s shoots %s, goal", round, rec.result.Bot2Name, move2)
			} else {
				rec.logf("kick %d: %s saves %s", round, rec.result.Bot1Name, move2)
			}
		}
	}

	return rec.finishScored()
}

func validDirection(move string) (string, error) {
	move = strings.ToLower(strings.TrimSpace(move))
	if !penaltyDirections[move] {
		return "", fmt.Errorf("%w: %q", arena.ErrInvalidMove, move)
	}
	return move, nil
}
