package tournament

import "sort"

// knockoutLabel is the group label attached to bracket matches.
const knockoutLabel = "KO"

// seedEntry identifies a knockout qualifier by its group-stage finish.
// Lower (Place, GroupIndex) is the higher seed.
type seedEntry struct {
	Name       string
	Place      int // 1-indexed finish within the group
	GroupIndex int
}

// koPair is one bracket slot. A is always the higher seed.
type koPair struct {
	A seedEntry
	B seedEntry
}

func higherSeed(a, b seedEntry) seedEntry {
	if a.Place != b.Place {
		if a.Place < b.Place {
			return a
		}
		return b
	}
	if a.GroupIndex <= b.GroupIndex {
		return a
	}
	return b
}

func orderPair(a, b seedEntry) koPair {
	if higherSeed(a, b) == a {
		return koPair{A: a, B: b}
	}
	return koPair{A: b, B: a}
}

func bySeed(seeds []seedEntry) {
	sort.Slice(seeds, func(i, j int) bool {
		if seeds[i].Place != seeds[j].Place {
			return seeds[i].Place < seeds[j].Place
		}
		return seeds[i].GroupIndex < seeds[j].GroupIndex
	})
}

// firstKnockoutRound builds the opening bracket. Group winners are
// cross-paired with runners-up of the adjacent group (A1-B2, B1-A2, ...);
// an unpaired trailing group plays winner against its own runner-up.
// Qualifiers beyond second place, and any seed left without a partner, are
// paired sequentially in seed order; with an odd leftover count the top
// remaining seed receives a bye.
func firstKnockoutRound(seeds []seedEntry) (pairs []koPair, byes []seedEntry) {
	winners := map[int]seedEntry{}
	runners := map[int]seedEntry{}
	maxGroup := -1
	for _, s := range seeds {
		switch s.Place {
		case 1:
			winners[s.GroupIndex] = s
		case 2:
			runners[s.GroupIndex] = s
		}
		if s.GroupIndex > maxGroup {
			maxGroup = s.GroupIndex
		}
	}

	used := map[string]bool{}
	for g := 0; g+1 <= maxGroup; g += 2 {
		w1, ok1 := winners[g]
		r2, ok2 := runners[g+1]
		if ok1 && ok2 {
			pairs = append(pairs, koPair{A: w1, B: r2})
			used[w1.Name], used[r2.Name] = true, true
		}
		w2, ok3 := winners[g+1]
		r1, ok4 := runners[g]
		if ok3 && ok4 {
			pairs = append(pairs, koPair{A: w2, B: r1})
			used[w2.Name], used[r1.Name] = true, true
		}
	}
	// Odd group count: the trailing group resolves internally.
	if maxGroup%2 == 0 {
		if w, ok1 := winners[maxGroup]; ok1 {
			if r, ok2 := runners[maxGroup]; ok2 {
				pairs = append(pairs, koPair{A: w, B: r})
				used[w.Name], used[r.Name] = true, true
			}
		}
	}

	var leftovers []seedEntry
	for _, s := range seeds {
		if !used[s.Name] {
			leftovers = append(leftovers, s)
		}
	}
	bySeed(leftovers)
	if len(leftovers)%2 == 1 {
		byes = append(byes, leftovers[0])
		leftovers = leftovers[1:]
	}
	for i := 0; i+1 < len(leftovers); i += 2 {
		pairs = append(pairs, orderPair(leftovers[i], leftovers[i+1]))
	}
	return pairs, byes
}

// nextKnockoutRound pairs the previous round's survivors sequentially in
// seed order. An odd field gives the top seed a bye.
func nextKnockoutRound(survivors []seedEntry) (pairs []koPair, byes []seedEntry) {
	if len(survivors) < 2 {
		return nil, nil
	}
	remaining := append([]seedEntry(nil), survivors...)
	bySeed(remaining)
	if len(remaining)%2 == 1 {
		byes = append(byes, remaining[0])
		remaining = remaining[1:]
	}
	for i := 0; i+1 < len(remaining); i += 2 {
		pairs = append(pairs, orderPair(remaining[i], remaining[i+1]))
	}
	return pairs, byes
}
