package tournament

import (
	"context"
	"sync"

	"github.com/botarena/botarena/internal/arena"
	"github.com/botarena/botarena/internal/events"
	"github.com/botarena/botarena/internal/scoring"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// Engine drives one tournament: group stage in lockstep rounds, then a
// single-elimination knockout among the group qualifiers. It schedules by
// team name and leaves state mutation to the manager.
type Engine struct {
	mgr      *Manager
	gameType arena.GameType
	cfg      arena.TournamentConfig
	logger   *log.Logger

	mu        sync.Mutex
	groups    []Group
	schedules [][][]Pairing // per group, per round
}

func newEngine(mgr *Manager, gameType arena.GameType, teams []string, cfg arena.TournamentConfig, logger *log.Logger) *Engine {
	e := &Engine{
		mgr:      mgr,
		gameType: gameType,
		cfg:      cfg,
		logger:   logger,
	}
	e.groups = BuildGroups(teams, cfg.GroupSize, mgr.info.TournamentID, string(gameType))
	e.schedules = make([][][]Pairing, len(e.groups))
	for i, g := range e.groups {
		e.schedules[i] = RoundRobin(g.Bots)
	}
	return e
}

// groupRoundCount is the number of lockstep group-stage rounds: groups play
// in step, so it is the longest per-group schedule.
func (e *Engine) groupRoundCount() int {
	max := 0
	for _, s := range e.schedules {
		if len(s) > max {
			max = len(s)
		}
	}
	return max
}

// totalRounds counts group-stage rounds plus the knockout rounds implied by
// the qualifier count. Replays do not add rounds.
func (e *Engine) totalRounds() int {
	total := e.groupRoundCount()
	entrants := e.qualifierCount()
	for entrants > 1 {
		entrants = (entrants + 1) / 2
		total++
	}
	return total
}

// totalMatches is the match count excluding knockout replays.
func (e *Engine) totalMatches() int {
	total := 0
	for _, g := range e.groups {
		total += TotalPairings(len(g.Bots))
	}
	if q := e.qualifierCount(); q > 1 {
		total += q - 1
	}
	return total
}

func (e *Engine) qualifierCount() int {
	n := 0
	for _, g := range e.groups {
		adv := e.cfg.AdvancePerGroup
		if adv > len(g.Bots) {
			adv = len(g.Bots)
		}
		n += adv
	}
	return n
}

// Run plays the full tournament. It returns the context error on
// cancellation; bot faults never surface here.
func (e *Engine) Run(ctx context.Context) error {
	round := 0
	for r := 0; r < e.groupRoundCount(); r++ {
		round++
		if err := e.runGroupRound(ctx, round, r); err != nil {
			return err
		}
	}

	e.refreshGroupRankings()
	seeds := e.advancers()
	if len(seeds) < 2 {
		return nil
	}

	pairs, byes := firstKnockoutRound(seeds)
	for len(pairs) > 0 {
		round++
		winners, err := e.runKnockoutRound(ctx, round, pairs)
		if err != nil {
			return err
		}
		winners = append(winners, byes...)
		pairs, byes = nextKnockoutRound(winners)
	}
	return nil
}

// runGroupRound dispatches every group's matches for one lockstep round and
// waits for all of them.
func (e *Engine) runGroupRound(ctx context.Context, round, scheduleIdx int) error {
	type job struct {
		group   *Group
		pairing Pairing
	}
	var jobs []job
	for i := range e.groups {
		if scheduleIdx >= len(e.schedules[i]) {
			continue // short group sits this round out
		}
		for _, p := range e.schedules[i][scheduleIdx] {
			jobs = append(jobs, job{group: &e.groups[i], pairing: p})
		}
	}
	if len(jobs) == 0 {
		return nil
	}

	e.mgr.pub.PublishRoundStarted(events.RoundStarted{
		TournamentID: e.mgr.info.TournamentID,
		GameType:     e.gameType,
		Round:        round,
		TotalRounds:  e.mgr.info.TotalRounds,
		Matches:      len(jobs),
	})

	g, gctx := errgroup.WithContext(ctx)
	for _, j := range jobs {
		j := j
		g.Go(func() error {
			res, err := e.playMatch(gctx, j.pairing.Bot1, j.pairing.Bot2)
			if err != nil {
				return err
			}
			e.mgr.recordMatch(round, j.group.GroupLabel, res)
			return nil
		})
	}
	return g.Wait()
}

// playMatch runs one match under the manager's dispatch discipline.
func (e *Engine) playMatch(ctx context.Context, bot1, bot2 string) (arena.MatchResult, error) {
	return e.mgr.dispatch(ctx, func(ctx context.Context) arena.MatchResult {
		return e.mgr.runner.Execute(ctx, e.mgr.bot(bot1), e.mgr.bot(bot2), e.gameType)
	})
}

// refreshGroupRankings copies the current standings into each group, ordered
// by the ranking key. Group matches are intra-group, so the global table
// restricted to a group's bots is that group's table.
func (e *Engine) refreshGroupRankings() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.groups {
		e.groups[i].Rankings = e.mgr.table.RankingsFor(e.groups[i].Bots)
	}
}

// advancers selects the top q bots of every group as knockout seeds.
func (e *Engine) advancers() []seedEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	var seeds []seedEntry
	for gi := range e.groups {
		adv := e.cfg.AdvancePerGroup
		if adv > len(e.groups[gi].Rankings) {
			adv = len(e.groups[gi].Rankings)
		}
		for place := 0; place < adv; place++ {
			seeds = append(seeds, seedEntry{
				Name:       e.groups[gi].Rankings[place].TeamName,
				Place:      place + 1,
				GroupIndex: gi,
			})
		}
	}
	return seeds
}

// runKnockoutRound plays one bracket round; every pair resolves to a winner.
func (e *Engine) runKnockoutRound(ctx context.Context, round int, pairs []koPair) ([]seedEntry, error) {
	e.mgr.pub.PublishRoundStarted(events.RoundStarted{
		TournamentID: e.mgr.info.TournamentID,
		GameType:     e.gameType,
		Round:        round,
		TotalRounds:  e.mgr.info.TotalRounds,
		Matches:      len(pairs),
	})

	winners := make([]seedEntry, len(pairs))
	g, gctx := errgroup.WithContext(ctx)
	for i, pair := range pairs {
		i, pair := i, pair
		g.Go(func() error {
			w, err := e.playKnockoutPair(gctx, round, pair)
			if err != nil {
				return err
			}
			winners[i] = w
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return winners, nil
}

// playKnockoutPair resolves one bracket slot: draws replay up to the
// configured count, then the higher seed advances. Error outcomes advance
// the healthy bot; both-error advances the higher seed.
func (e *Engine) playKnockoutPair(ctx context.Context, round int, pair koPair) (seedEntry, error) {
	for attempt := 0; ; attempt++ {
		res, err := e.playMatch(ctx, pair.A.Name, pair.B.Name)
		if err != nil {
			return seedEntry{}, err
		}
		e.mgr.recordMatch(round, knockoutLabel, res)

		switch res.Outcome {
		case arena.Player1Wins, arena.Player2Error:
			return pair.A, nil
		case arena.Player2Wins, arena.Player1Error:
			return pair.B, nil
		case arena.BothError:
			return higherSeed(pair.A, pair.B), nil
		case arena.Draw:
			if attempt < e.cfg.KnockoutDrawReplays {
				e.logger.Info("knockout draw, replaying",
					"bot1", pair.A.Name, "bot2", pair.B.Name, "attempt", attempt+1)
				continue
			}
			return higherSeed(pair.A, pair.B), nil
		default:
			if ctx.Err() != nil {
				return seedEntry{}, ctx.Err()
			}
			// unrunnable match: higher seed walks over
			return higherSeed(pair.A, pair.B), nil
		}
	}
}

// groupSnapshot returns the groups with their latest rankings.
func (e *Engine) groupSnapshot() []Group {
	e.refreshGroupRankings()
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Group, len(e.groups))
	for i, g := range e.groups {
		out[i] = g
		out[i].Bots = append([]string(nil), g.Bots...)
		out[i].Rankings = append([]scoring.Standing(nil), g.Rankings...)
	}
	return out
}
