// Package tournament contains the group-stage engine, the knockout bracket,
// the per-event lifecycle manager, and the series manager that chains events
// across game types.
package tournament

import (
	"sort"

	"github.com/botarena/botarena/internal/scoring"
	"github.com/google/uuid"
)

// Group is one group-stage pool of bots.
type Group struct {
	GroupID    string
	GroupLabel string // "A", "B", ...
	EventID    string
	EventName  string
	Bots       []string
	Rankings   []scoring.Standing
}

// BuildGroups partitions the roster into groups of about targetSize bots.
// Bots are sorted by team name for determinism, then serpentine-assigned so
// group sizes differ by at most one.
func BuildGroups(teams []string, targetSize int, eventID, eventName string) []Group {
	sorted := append([]string(nil), teams...)
	sort.Strings(sorted)

	numGroups := (len(sorted) + targetSize - 1) / targetSize
	if numGroups < 1 {
		numGroups = 1
	}

	groups := make([]Group, numGroups)
	for i := range groups {
		groups[i] = Group{
			GroupID:    uuid.NewString(),
			GroupLabel: groupLabel(i),
			EventID:    eventID,
			EventName:  eventName,
		}
	}

	// Serpentine: left-to-right, then right-to-left, so early groups do not
	// hoard the lexically-first teams.
	idx, dir := 0, 1
	for _, team := range sorted {
		groups[idx].Bots = append(groups[idx].Bots, team)
		next := idx + dir
		if next < 0 || next >= numGroups {
			dir = -dir
		} else {
			idx = next
		}
	}
	return groups
}

// groupLabel yields A, B, ..., Z, AA, AB, ... for group indexes.
func groupLabel(i int) string {
	label := ""
	for {
		label = string(rune('A'+i%26)) + label
		i = i/26 - 1
		if i < 0 {
			return label
		}
	}
}
