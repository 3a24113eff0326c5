package games

import (
	"context"
	"fmt"
	"strings"

	"github.com/botarena/botarena/internal/arena"
)

const securityRounds = 10

// Security game roles, carried in GameState.State["role"].
const (
	RoleAttacker = "attacker"
	RoleDefender = "defender"
)

// SecurityTargets are the assets in play; both roles pick one per round.
var SecurityTargets = []string{"server", "database", "gateway", "vault", "workstation"}

// SecurityGame is a repeated attacker/defender game: the attacker scores when
// it hits a target the defender left unguarded. Roles swap at half time.
type SecurityGame struct{}

func NewSecurityGame() *SecurityGame { return &SecurityGame{} }

func (e *SecurityGame) GameType() arena.GameType { return arena.GameSecurityGame }

func (e *SecurityGame) Execute(ctx context.Context, bot1, bot2 arena.Bot, cfg arena.TournamentConfig) arena.MatchResult {
	rec := newMatch(bot1, bot2, arena.GameSecurityGame)

	var hist1, hist2 []string
	for round := 1; round <= securityRounds; round++ {
		// bot1 attacks the first half, defends the second.
		bot1Attacks := round <= securityRounds/2
		role1, role2 := RoleAttacker, RoleDefender
		if !bot1Attacks {
			role1, role2 = RoleDefender, RoleAttacker
		}

		extra1 := map[string]any{"role": role1, "targets": SecurityTargets}
		extra2 := map[string]any{"role": role2, "targets": SecurityTargets}
		st1 := buildState(arena.GameSecurityGame, round, securityRounds, hist1, hist2, extra1)
		st2 := buildState(arena.GameSecurityGame, round, securityRounds, hist2, hist1, extra2)

		move1, err1 := call(ctx, cfg.MoveTimeout, func(c context.Context) (string, error) {
			return bot1.PlaySecurityGame(c, st1)
		})
		move2, err2 := call(ctx, cfg.MoveTimeout, func(c context.Context) (string, error) {
			return bot2.PlaySecurityGame(c, st2)
		})
		if isCancelled(err1, err2) {
			return rec.cancelled()
		}
		if err1 == nil {
			move1, err1 = validTarget(move1)
		}
		if err2 == nil {
			move2, err2 = validTarget(move2)
		}
		if err1 != nil || err2 != nil {
			return rec.moveFailure(err1, err2)
		}

		hist1 = append(hist1, move1)
		hist2 = append(hist2, move2)

		attack, defense := move1, move2
		if !bot1Attacks {
			attack, defense = move2, move1
		}
		breached := attack != defense
		switch {
		case breached && bot1Attacks:
			rec.result.Bot1Score++
			rec.logf("round %d: %s breaches %s", round, rec.result.Bot1Name, attack)
		case breached:
			rec.result.Bot2Score++
			rec.logf("round %d: %s breaches %s", round, rec.result.Bot2Name, attack)
		default:
			rec.logf("round %d: attack on %s repelled", round, attack)
		}
	}

	return rec.finishScored()
}

func validTarget(move string) (string, error) {
	move = strings.ToLower(strings.TrimSpace(move))
	for _, target := range SecurityTargets {
		if move == target {
			return move, nil
		}
	}
	return "", fmt.Errorf("%w: %q", arena.ErrInvalidMove, move)
}
