package tournament

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(name string, place, group int) seedEntry {
	return seedEntry{Name: name, Place: place, GroupIndex: group}
}

func TestHigherSeed(t *testing.T) {
	a1 := seed("a1", 1, 0)
	b1 := seed("b1", 1, 1)
	a2 := seed("a2", 2, 0)

	assert.Equal(t, a1, higherSeed(a1, a2), "group winner outranks runner-up")
	assert.Equal(t, a1, higherSeed(a1, b1), "earlier group breaks place ties")
	assert.Equal(t, b1, higherSeed(a2, b1), "place outranks group index")
}

func TestFirstKnockoutRoundCrossPairsTwoGroups(t *testing.T) {
	seeds := []seedEntry{
		seed("a1", 1, 0), seed("a2", 2, 0),
		seed("b1", 1, 1), seed("b2", 2, 1),
	}
	pairs, byes := firstKnockoutRound(seeds)

	require.Len(t, pairs, 2)
	assert.Empty(t, byes)
	assert.Equal(t, "a1", pairs[0].A.Name)
	assert.Equal(t, "b2", pairs[0].B.Name)
	assert.Equal(t, "b1", pairs[1].A.Name)
	assert.Equal(t, "a2", pairs[1].B.Name)
}

func TestFirstKnockoutRoundOddGroupCount(t *testing.T) {
	seeds := []seedEntry{
		seed("a1", 1, 0), seed("a2", 2, 0),
		seed("b1", 1, 1), seed("b2", 2, 1),
		seed("c1", 1, 2), seed("c2", 2, 2),
	}
	pairs, byes := firstKnockoutRound(seeds)

	require.Len(t, pairs, 3)
	assert.Empty(t, byes)
	// Trailing group resolves internally.
	assert.Equal(t, "c1", pairs[2].A.Name)
	assert.Equal(t, "c2", pairs[2].B.Name)
}

func TestFirstKnockoutRoundSingleGroup(t *testing.T) {
	seeds := []seedEntry{seed("a1", 1, 0), seed("a2", 2, 0)}
	pairs, byes := firstKnockoutRound(seeds)

	require.Len(t, pairs, 1)
	assert.Empty(t, byes)
	assert.Equal(t, "a1", pairs[0].A.Name)
	assert.Equal(t, "a2", pairs[0].B.Name)
}

func TestFirstKnockoutRoundByeGoesToTopSeed(t *testing.T) {
	// Winners only from three groups: one cross pair is impossible, so all
	// three are leftovers and the top seed sits out.
	seeds := []seedEntry{seed("a1", 1, 0), seed("b1", 1, 1), seed("c1", 1, 2)}
	pairs, byes := firstKnockoutRound(seeds)

	require.Len(t, byes, 1)
	assert.Equal(t, "a1", byes[0].Name)
	require.Len(t, pairs, 1)
	assert.Equal(t, "b1", pairs[0].A.Name)
	assert.Equal(t, "c1", pairs[0].B.Name)
}

func TestNextKnockoutRound(t *testing.T) {
	pairs, byes := nextKnockoutRound([]seedEntry{
		seed("b2", 2, 1), seed("a1", 1, 0), seed("c1", 1, 2),
	})

	require.Len(t, byes, 1)
	assert.Equal(t, "a1", byes[0].Name, "odd field gives the top seed a bye")
	require.Len(t, pairs, 1)
	assert.Equal(t, "c1", pairs[0].A.Name)
	assert.Equal(t, "b2", pairs[0].B.Name)

	pairs, byes = nextKnockoutRound([]seedEntry{seed("x", 1, 0)})
	assert.Empty(t, pairs)
	assert.Empty(t, byes)
}
