package rating

import (
	"fmt"
	"strings"
)

// Outcome is the result of a pairwise match between two entities.
type Outcome int

// The closed set of match outcomes.
const (
	WinA Outcome = iota
	WinB
	Draw
)

// ParseOutcome converts a wire value into an Outcome. Accepted spellings:
// "win_a"/"a", "win_b"/"b", "draw".
func ParseOutcome(s string) (Outcome, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "win_a", "a":
		return WinA, nil
	case "win_b", "b":
		return WinB, nil
	case "draw":
		return Draw, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidOutcome, s)
	}
}

func (o Outcome) String() string {
	switch o {
	case WinA:
		return "win_a"
	case WinB:
		return "win_b"
	case Draw:
		return "draw"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// scores returns the actual score pair for both sides of the match.
func (o Outcome) scores() (scoreA, scoreB float64) {
	switch o {
	case WinA:
		return 1, 0
	case WinB:
		return 0, 1
	default:
		return 0.5, 0.5
	}
}
