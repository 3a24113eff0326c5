package tournament

// Pairing is one scheduled match within a round.
type Pairing struct {
	Bot1 string
	Bot2 string
}

// RoundRobin generates the round schedule for one group using the circle
// method: m-1 rounds for even m, m rounds with one bye per round for odd m.
// Every unordered pair appears exactly once across the schedule.
func RoundRobin(teams []string) [][]Pairing {
	n := len(teams)
	if n < 2 {
		return nil
	}

	// Odd field: add a phantom slot; whoever draws it sits the round out.
	circle := append([]string(nil), teams...)
	if n%2 == 1 {
		circle = append(circle, "")
		n++
	}

	rounds := make([][]Pairing, 0, n-1)
	for r := 0; r < n-1; r++ {
		var round []Pairing
		for i := 0; i < n/2; i++ {
			a, b := circle[i], circle[n-1-i]
			if a == "" || b == "" {
				continue // bye
			}
			round = append(round, Pairing{Bot1: a, Bot2: b})
		}
		rounds = append(rounds, round)

		// Rotate all but the first slot clockwise.
		last := circle[n-1]
		copy(circle[2:], circle[1:n-1])
		circle[1] = last
	}
	return rounds
}

// TotalPairings returns m(m-1)/2, the number of unique matches for a group
// of m bots.
func TotalPairings(m int) int {
	return m * (m - 1) / 2
}
