package games

import (
	"context"
	"fmt"

	"github.com/botarena/botarena/internal/arena"
)

const (
	blottoRounds       = 10
	blottoBattlefields = 5
	blottoTroops       = 100
)

// ColonelBlotto has each bot split 100 troops across 5 battlefields per
// round; the side winning more battlefields takes the round.
type ColonelBlotto struct{}

func NewColonelBlotto() *ColonelBlotto { return &ColonelBlotto{} }

func (e *ColonelBlotto) GameType() arena.GameType { return arena.GameColonelBlotto }

func (e *ColonelBlotto) Execute(ctx context.Context, bot1, bot2 arena.Bot, cfg arena.TournamentConfig) arena.MatchResult {
	rec := newMatch(bot1, bot2, arena.GameColonelBlotto)

	var hist1, hist2 []string
	for round := 1; round <= blottoRounds; round++ {
		st1 := buildState(arena.GameColonelBlotto, round, blottoRounds, hist1, hist2, nil)
		st2 := buildState(arena.GameColonelBlotto, round, blottoRounds, hist2, hist1, nil)

		alloc1, err1 := call(ctx, cfg.MoveTimeout, func(c context.Context) ([]int, error) {
			return bot1.PlayColonelBlotto(c, st1)
		})
		alloc2, err2 := call(ctx, cfg.MoveTimeout, func(c context.Context) ([]int, error) {
			return bot2.PlayColonelBlotto(c, st2)
		})
		if isCancelled(err1, err2) {
			return rec.cancelled()
		}
		if err1 == nil {
			err1 = validAllocation(alloc1)
		}
		if err2 == nil {
			err2 = validAllocation(alloc2)
		}
		if err1 != nil || err2 != nil {
			return rec.moveFailure(err1, err2)
		}

		hist1 = append(hist1, fmt.Sprint(alloc1))
		hist2 = append(hist2, fmt.Sprint(alloc2))

		fields1, fields2 := 0, 0
		for i := 0; i < blottoBattlefields; i++ {
			switch {
			case alloc1[i] > alloc2[i]:
				fields1++
			case alloc2[i] > alloc1[i]:
				fields2++
			}
		}
		switch {
		case fields1 > fields2:
			rec.result.Bot1Score++
			rec.logf("round %d: %s takes %d of %d battlefields", round, rec.result.Bot1Name, fields1, blottoBattlefields)
		case fields2 > fields1:
			rec.result.Bot2Score++
			rec.logf("round %d: %s takes %d of %d battlefields", round, rec.result.Bot2Name, fields2, blottoBattlefields)
		default:
			rec.logf("round %d: battlefields split %d-%d", round, fields1, fields2)
		}
	}

	return rec.finishScored()
}

// validAllocation checks a troop allocation: 5 non-negative fields summing to
// exactly 100. Anything else is a move error.
func validAllocation(alloc []int) error {
	if len(alloc) != blottoBattlefields {
		return fmt.Errorf("%w: allocation has %d battlefields, want %d", arena.ErrInvalidMove, len(alloc), blottoBattlefields)
	}
	total := 0
	for _, troops := range alloc {
		if troops < 0 {
			return fmt.Errorf("%w: negative troop count %d", arena.ErrInvalidMove, troops)
		}
		total += troops
	}
	if total != blottoTroops {
		return fmt.Errorf("%w: allocation sums to %d, want %d", arena.ErrInvalidMove, total, blottoTroops)
	}
	return nil
}
