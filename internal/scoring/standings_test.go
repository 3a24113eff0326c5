package scoring

import (
	"sort"
	"testing"

	"github.com/botarena/botarena/internal/arena"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func result(id, bot1, bot2 string, outcome arena.Outcome) arena.MatchResult {
	return arena.MatchResult{
		MatchID:  id,
		Bot1Name: bot1,
		Bot2Name: bot2,
		GameType: arena.GameRPSLS,
		Outcome:  outcome,
	}
}

func TestTableApply(t *testing.T) {
	table := NewTable()
	require.NoError(t, table.Apply(result("m1", "alpha", "beta", arena.Player1Wins)))
	require.NoError(t, table.Apply(result("m2", "alpha", "gamma", arena.Draw)))
	require.NoError(t, table.Apply(result("m3", "beta", "gamma", arena.Player2Error)))

	alpha, ok := table.Standing("alpha")
	require.True(t, ok)
	assert.Equal(t, 4, alpha.TotalScore)
	assert.Equal(t, 1, alpha.Wins)
	assert.Equal(t, 1, alpha.Draws)
	assert.Equal(t, 1, alpha.TotalOpponentScore)

	gamma, ok := table.Standing("gamma")
	require.True(t, ok)
	assert.Equal(t, 1, gamma.TotalScore)
	assert.Equal(t, 1, gamma.ErrorCount)
	assert.Equal(t, 1, gamma.Losses)

	beta, ok := table.Standing("beta")
	require.True(t, ok)
	assert.Equal(t, 3, beta.TotalScore)
	assert.Equal(t, 1, beta.Wins)
}

func TestTableApplyAccountingInvariant(t *testing.T) {
	table := NewTable()
	require.NoError(t, table.Apply(result("m1", "a", "b", arena.Player1Wins)))
	require.NoError(t, table.Apply(result("m2", "a", "c", arena.BothError)))
	require.NoError(t, table.Apply(result("m3", "b", "c", arena.Draw)))

	for _, team := range table.Teams() {
		s, ok := table.Standing(team)
		require.True(t, ok)
		assert.Equal(t, len(s.OpponentsPlayed), s.Wins+s.Losses+s.Draws,
			"team %s: matches played must equal W+L+D", team)
	}
}

func TestTableApplyRejectsDuplicates(t *testing.T) {
	table := NewTable()
	res := result("m1", "a", "b", arena.Player1Wins)
	require.NoError(t, table.Apply(res))
	err := table.Apply(res)
	assert.ErrorIs(t, err, ErrDuplicateMatch)

	// The duplicate must not have changed the standings.
	a, _ := table.Standing("a")
	assert.Equal(t, 3, a.TotalScore)
	assert.Equal(t, 1, a.Wins)
}

func TestTableApplyRejectsUnknown(t *testing.T) {
	table := NewTable()
	err := table.Apply(result("m1", "a", "b", arena.Unknown))
	assert.ErrorIs(t, err, ErrInvalidOutcome)
}

func TestRankingsOrder(t *testing.T) {
	table := NewTable()
	// delta beats everyone, alpha and beta end on equal points with the
	// tie broken by wins, then name.
	require.NoError(t, table.Apply(result("m1", "delta", "alpha", arena.Player1Wins)))
	require.NoError(t, table.Apply(result("m2", "delta", "beta", arena.Player1Wins)))
	require.NoError(t, table.Apply(result("m3", "alpha", "beta", arena.Draw)))

	ranked := table.Rankings()
	require.Len(t, ranked, 3)
	assert.Equal(t, "delta", ranked[0].TeamName)
	assert.Equal(t, "alpha", ranked[1].TeamName)
	assert.Equal(t, "beta", ranked[2].TeamName)
	for i, s := range ranked {
		assert.Equal(t, i+1, s.FinalPlacement)
	}
}

func TestLessIsTotalOrder(t *testing.T) {
	standings := []Standing{
		{TeamName: "a", TotalScore: 6, Wins: 2},
		{TeamName: "b", TotalScore: 6, Wins: 2},
		{TeamName: "c", TotalScore: 6, Wins: 1, TotalOpponentScore: 2},
		{TeamName: "d", TotalScore: 6, Wins: 1, TotalOpponentScore: 5},
		{TeamName: "e", TotalScore: 9},
	}
	sort.Slice(standings, func(i, j int) bool { return Less(standings[i], standings[j]) })

	got := make([]string, len(standings))
	for i, s := range standings {
		got[i] = s.TeamName
	}
	assert.Equal(t, []string{"e", "a", "b", "c", "d"}, got)

	// Antisymmetry over distinct teams.
	for i := range standings {
		for j := range standings {
			if i == j {
				continue
			}
			assert.NotEqual(t, Less(standings[i], standings[j]), Less(standings[j], standings[i]))
		}
	}
}

func TestRankingsFor(t *testing.T) {
	table := NewTable()
	require.NoError(t, table.Apply(result("m1", "a", "b", arena.Player1Wins)))
	require.NoError(t, table.Apply(result("m2", "c", "d", arena.Player2Wins)))

	ranked := table.RankingsFor([]string{"a", "b"})
	require.Len(t, ranked, 2)
	assert.Equal(t, "a", ranked[0].TeamName)
	assert.Equal(t, 1, ranked[0].FinalPlacement)
	assert.Equal(t, "b", ranked[1].TeamName)
}
