// Package models defines the value types shared by the duel resolver.
//
// Terminology:
//   - Symbol: a competitor or move, identified by a 1-based index.
//   - Outcome: the result of one symbol against another, from the first symbol's side.
//   - Pair: two symbols chosen together by one side of a contest.
//   - Run: one persisted resolution of a problem instance.
package models

import "fmt"

// Outcome is the result of symbol A versus symbol B, seen from A.
// Values are signed so that the reverse outcome is the negation.
type Outcome int8

const (
	// Loss means A loses to B.
	Loss Outcome = -1
	// Draw means neither symbol beats the other.
	Draw Outcome = 0
	// Win means A beats B.
	Win Outcome = +1
)

// ParseOutcome decodes a single outcome code byte: 'D', 'W' or 'L'.
func ParseOutcome(code byte) (Outcome, error) {
	switch code {
	case 'D':
		return Draw, nil
	case 'W':
		return Win, nil
	case 'L':
		return Loss, nil
	default:
		return Draw, fmt.Errorf("unknown outcome code %q", code)
	}
}

// Reverse returns the outcome from B's side. Reverse(Reverse(o)) == o.
func (o Outcome) Reverse() Outcome {
	return -o
}

// Valid reports whether o is one of the three defined outcomes.
func (o Outcome) Valid() bool {
	return o == Loss || o == Draw || o == Win
}

// Code returns the single-byte input code for o, or '?' if o is not valid.
func (o Outcome) Code() byte {
	if !o.Valid() {
		return '?'
	}
	return "LDW"[o+1]
}

func (o Outcome) String() string {
	switch o {
	case Win:
		return "win"
	case Loss:
		return "loss"
	case Draw:
		return "draw"
	default:
		return fmt.Sprintf("outcome(%d)", int8(o))
	}
}
