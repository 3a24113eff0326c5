package scoring

import (
	"sort"
	"time"

	"github.com/botarena/botarena/internal/arena"
)

// Statistics is an aggregate snapshot over a tournament's match results.
type Statistics struct {
	TotalMatches         int
	TotalRounds          int
	TournamentDuration   time.Duration
	AverageMatchDuration time.Duration
	TotalErrors          int // matches with at least one recorded error
	TotalTimeouts        int // matches whose errors carry the timeout token
	MostActiveBot        string
	HighestScoringBot    string
	MatchesByGame        map[arena.GameType]int
}

// CalculateStatistics derives tournament statistics from the recorded match
// results and the final standings table. Ties on activity or score are broken
// lexicographically by team name.
func CalculateStatistics(results []arena.MatchResult, start, end time.Time, totalRounds int, table *Table) Statistics {
	stats := Statistics{
		TotalMatches:  len(results),
		TotalRounds:   totalRounds,
		MatchesByGame: make(map[arena.GameType]int),
	}
	if !start.IsZero() && !end.IsZero() {
		stats.TournamentDuration = end.Sub(start)
	}

	appearances := make(map[string]int)
	var totalDuration time.Duration
	for i := range results {
		res := &results[i]
		stats.MatchesByGame[res.GameType]++
		totalDuration += res.Duration
		if res.HasErrors() {
			stats.TotalErrors++
		}
		if res.HasTimeout() {
			stats.TotalTimeouts++
		}
		appearances[res.Bot1Name]++
		appearances[res.Bot2Name]++
	}
	if stats.TotalMatches > 0 {
		stats.AverageMatchDuration = totalDuration / time.Duration(stats.TotalMatches)
	}

	stats.MostActiveBot = maxByCount(appearances)

	if table != nil {
		scores := make(map[string]int)
		for _, s := range table.Rankings() {
			scores[s.TeamName] = s.TotalScore
		}
		stats.HighestScoringBot = maxByCount(scores)
	}

	return stats
}

// maxByCount returns the key with the highest count, ties broken by the
// lexically smaller key. Empty maps yield "".
func maxByCount(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best, bestCount := "", -1
	for _, k := range keys {
		if counts[k] > bestCount {
			best, bestCount = k, counts[k]
		}
	}
	return best
}
