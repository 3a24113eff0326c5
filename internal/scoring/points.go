// Package scoring converts match outcomes into points, maintains per-bot
// standings with multi-key tie-breaks, and derives tournament statistics.
package scoring

import (
	"errors"
	"fmt"

	"github.com/botarena/botarena/internal/arena"
)

// ErrInvalidOutcome is returned when the scorer is handed an outcome it has
// no mapping for. Matches with Outcome=Unknown are recorded but never scored;
// passing one here is engine misuse.
var ErrInvalidOutcome = errors.New("invalid outcome")

// MatchPoints returns the points awarded to each side for an outcome:
// 3/0 for a win, 1/1 for a draw, 3 to the surviving side on a single error,
// 0/0 when both erred.
func MatchPoints(outcome arena.Outcome) (p1, p2 int, err error) {
	switch outcome {
	case arena.Player1Wins:
		return 3, 0, nil
	case arena.Player2Wins:
		return 0, 3, nil
	case arena.Draw:
		return 1, 1, nil
	case arena.Player1Error:
		return 0, 3, nil
	case arena.Player2Error:
		return 3, 0, nil
	case arena.BothError:
		return 0, 0, nil
	default:
		return 0, 0, fmt.Errorf("%w: %s", ErrInvalidOutcome, outcome)
	}
}
