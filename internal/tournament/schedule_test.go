package tournament

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

func TestRoundRobinEvenField(t *testing.T) {
	teams := []string{"a", "b", "c", "d"}
	rounds := RoundRobin(teams)

	require.Len(t, rounds, 3)
	seen := map[string]bool{}
	for _, round := range rounds {
		assert.Len(t, round, 2)
		playing := map[string]bool{}
		for _, p := range round {
			key := pairKey(p.Bot1, p.Bot2)
			assert.False(t, seen[key], "pair %s scheduled twice", key)
			seen[key] = true
			assert.False(t, playing[p.Bot1], "%s plays twice in one round", p.Bot1)
			assert.False(t, playing[p.Bot2], "%s plays twice in one round", p.Bot2)
			playing[p.Bot1], playing[p.Bot2] = true, true
		}
	}
	assert.Len(t, seen, TotalPairings(4))
}

func TestRoundRobinOddFieldHasByes(t *testing.T) {
	teams := []string{"a", "b", "c", "d", "e"}
	rounds := RoundRobin(teams)

	// Odd field: one extra round, one bye per round.
	require.Len(t, rounds, 5)
	seen := map[string]bool{}
	for i, round := range rounds {
		assert.Len(t, round, 2, "round %d", i+1)
		for _, p := range round {
			seen[pairKey(p.Bot1, p.Bot2)] = true
		}
	}
	assert.Len(t, seen, TotalPairings(5))
}

func TestRoundRobinSmallFields(t *testing.T) {
	assert.Nil(t, RoundRobin(nil))
	assert.Nil(t, RoundRobin([]string{"solo"}))

	rounds := RoundRobin([]string{"a", "b"})
	require.Len(t, rounds, 1)
	require.Len(t, rounds[0], 1)
}

func TestRoundRobinAllSizes(t *testing.T) {
	for m := 3; m <= 8; m++ {
		t.Run(fmt.Sprintf("%d teams", m), func(t *testing.T) {
			teams := teamNames(m)
			rounds := RoundRobin(teams)

			want := m - 1
			if m%2 == 1 {
				want = m
			}
			assert.Len(t, rounds, want)

			seen := map[string]bool{}
			for _, round := range rounds {
				for _, p := range round {
					key := pairKey(p.Bot1, p.Bot2)
					assert.False(t, seen[key])
					seen[key] = true
				}
			}
			assert.Len(t, seen, TotalPairings(m))
		})
	}
}
