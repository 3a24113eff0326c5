package scoring

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/botarena/botarena/internal/arena"
)

// ErrDuplicateMatch is returned when a match result is applied twice.
var ErrDuplicateMatch = errors.New("match already applied")

// Standing is the per-bot per-tournament accumulator. OpponentsPlayed is a
// multiset in play order, so wins+losses+draws == len(OpponentsPlayed).
type Standing struct {
	TeamName           string
	Wins               int
	Losses             int
	Draws              int
	TotalScore         int
	TotalOpponentScore int
	OpponentsPlayed    []string
	ErrorCount         int
	FinalPlacement     int // 1-indexed, assigned by Rankings
}

// Table holds the standings for one scoring scope (a group, or a whole
// tournament). Updates are idempotent per match: reapplying the same MatchID
// is rejected.
type Table struct {
	mu        sync.RWMutex
	standings map[string]*Standing
	applied   map[string]bool
}

// NewTable returns an empty standings table.
func NewTable() *Table {
	return &Table{
		standings: make(map[string]*Standing),
		applied:   make(map[string]bool),
	}
}

// Ensure registers a team with a zeroed standing if not already present.
func (t *Table) Ensure(team string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ensureLocked(team)
}

func (t *Table) ensureLocked(team string) *Standing {
	s, ok := t.standings[team]
	if !ok {
		s = &Standing{TeamName: team}
		t.standings[team] = s
	}
	return s
}

// Apply upserts both participants' standings from one match result. Results
// with Outcome=Unknown (cancelled or never-ran matches) are not scoreable and
// yield ErrInvalidOutcome; duplicates yield ErrDuplicateMatch.
func (t *Table) Apply(res arena.MatchResult) error {
	p1, p2, err := MatchPoints(res.Outcome)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.applied[res.MatchID] {
		return fmt.Errorf("%w: %s", ErrDuplicateMatch, res.MatchID)
	}
	t.applied[res.MatchID] = true

	s1 := t.ensureLocked(res.Bot1Name)
	s2 := t.ensureLocked(res.Bot2Name)

	s1.TotalScore += p1
	s2.TotalScore += p2
	s1.TotalOpponentScore += p2
	s2.TotalOpponentScore += p1
	s1.OpponentsPlayed = append(s1.OpponentsPlayed, res.Bot2Name)
	s2.OpponentsPlayed = append(s2.OpponentsPlayed, res.Bot1Name)

	switch res.Outcome {
	case arena.Player1Wins:
		s1.Wins++
		s2.Losses++
	case arena.Player2Wins:
		s2.Wins++
		s1.Losses++
	case arena.Draw:
		s1.Draws++
		s2.Draws++
	case arena.Player1Error:
		s1.Losses++
		s1.ErrorCount++
		s2.Wins++
	case arena.Player2Error:
		s2.Losses++
		s2.ErrorCount++
		s1.Wins++
	case arena.BothError:
		s1.Losses++
		s2.Losses++
		s1.ErrorCount++
		s2.ErrorCount++
	}

	return nil
}

// Standing returns a copy of one team's standing.
func (t *Table) Standing(team string) (Standing, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.standings[team]
	if !ok {
		return Standing{}, false
	}
	return copyStanding(s), true
}

// Teams returns the registered team names in lexical order.
func (t *Table) Teams() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	teams := make([]string, 0, len(t.standings))
	for name := range t.standings {
		teams = append(teams, name)
	}
	sort.Strings(teams)
	return teams
}

// Rankings returns standings snapshots sorted by the ranking key: total
// score, then wins, then fewer opponent points, then team name. Placements
// are 1-indexed and strictly sequential; ties never share a rank.
func (t *Table) Rankings() []Standing {
	t.mu.RLock()
	ranked := make([]Standing, 0, len(t.standings))
	for _, s := range t.standings {
		ranked = append(ranked, copyStanding(s))
	}
	t.mu.RUnlock()

	sort.Slice(ranked, func(i, j int) bool {
		return Less(ranked[i], ranked[j])
	})
	for i := range ranked {
		ranked[i].FinalPlacement = i + 1
	}
	return ranked
}

// RankingsFor ranks only the named teams, with placements 1-indexed within
// that subset. Unknown teams rank with a zeroed standing.
func (t *Table) RankingsFor(teams []string) []Standing {
	t.mu.RLock()
	ranked := make([]Standing, 0, len(teams))
	for _, name := range teams {
		if s, ok := t.standings[name]; ok {
			ranked = append(ranked, copyStanding(s))
		} else {
			ranked = append(ranked, Standing{TeamName: name})
		}
	}
	t.mu.RUnlock()

	sort.Slice(ranked, func(i, j int) bool {
		return Less(ranked[i], ranked[j])
	})
	for i := range ranked {
		ranked[i].FinalPlacement = i + 1
	}
	return ranked
}

// Less orders two standings by the ranking key. It is a total order as long
// as team names are unique.
func Less(a, b Standing) bool {
	if a.TotalScore != b.TotalScore {
		return a.TotalScore > b.TotalScore
	}
	if a.Wins != b.Wins {
		return a.Wins > b.Wins
	}
	if a.TotalOpponentScore != b.TotalOpponentScore {
		return a.TotalOpponentScore < b.TotalOpponentScore
	}
	return a.TeamName < b.TeamName
}

func copyStanding(s *Standing) Standing {
	cp := *s
	cp.OpponentsPlayed = append([]string(nil), s.OpponentsPlayed...)
	return cp
}
