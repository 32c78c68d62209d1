package models

import (
	"errors"
	"fmt"
)

// Symbol identifies a competitor. Valid symbols are 1..count for a problem
// with count symbols.
type Symbol int

// Valid reports whether s lies in [1, count].
func (s Symbol) Valid(count int) bool {
	return s >= 1 && int(s) <= count
}

// Pair is one side's simultaneous choice of two symbols. First and Second
// may be equal. Pairs are compared by value.
type Pair struct {
	First  Symbol `json:"first"`
	Second Symbol `json:"second"`
}

// NewPair builds a Pair from two symbol indices.
func NewPair(first, second int) Pair {
	return Pair{First: Symbol(first), Second: Symbol(second)}
}

// Swap returns the pair with its components exchanged.
func (p Pair) Swap() Pair {
	return Pair{First: p.Second, Second: p.First}
}

// Validate checks that both symbols are within [1, count].
func (p Pair) Validate(count int) error {
	if count < 1 {
		return errors.New("symbol count must be at least 1")
	}
	if !p.First.Valid(count) {
		return fmt.Errorf("first symbol %d out of range [1, %d]", p.First, count)
	}
	if !p.Second.Valid(count) {
		return fmt.Errorf("second symbol %d out of range [1, %d]", p.Second, count)
	}
	return nil
}

func (p Pair) String() string {
	return fmt.Sprintf("(%d,%d)", p.First, p.Second)
}

// AllPairs returns every ordered pair (i, j) with 1 <= i, j <= count in
// row-major order. It is the default candidate list for a problem.
func AllPairs(count int) []Pair {
	if count < 1 {
		return []Pair{}
	}
	pairs := make([]Pair, 0, count*count)
	for i := 1; i <= count; i++ {
		for j := 1; j <= count; j++ {
			pairs = append(pairs, NewPair(i, j))
		}
	}
	return pairs
}
