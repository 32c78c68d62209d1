// Package relation builds the outcome table for a set of symbols.
//
// A Table maps every ordered pair (a, b) of symbols in [1, n] to the Outcome
// of a against b. Off-diagonal entries come in reverse pairs: if (a, b) is
// Win then (b, a) is Loss. Self-relations (a, a) are taken from the input
// as stated and never derived. A Table returned by Build is total and is not
// modified afterwards, so it can be shared freely between readers.
package relation

import (
	"fmt"
	"strings"

	"github.com/rewired-gh/duelresolver/internal/logger"
	"github.com/rewired-gh/duelresolver/internal/models"
)

// MaxSymbols is the largest symbol count Build accepts.
const MaxSymbols = 1 << 14

// Table is an immutable, total mapping from ordered symbol pairs to outcomes.
type Table struct {
	n     int
	cells []models.Outcome // row-major, index (a-1)*n + (b-1)
}

// Build decodes grid into a Table for symbolCount symbols.
//
// grid[i][j] is the outcome of symbol i+1 against symbol j+1. Rows may be
// triangular (row i holds columns 0..i) or full; cells not present in the
// grid are derived from their reverse. A reverse cell that is present and
// disagrees with the derived value fails with ErrInconsistentRelation. Any
// pair left without an outcome fails with ErrMissingRelation.
func Build(grid []string, symbolCount int) (*Table, error) {
	if symbolCount < 1 {
		return nil, fmt.Errorf("%w: symbol count %d must be at least 1", ErrInvalidGrid, symbolCount)
	}
	if symbolCount > MaxSymbols {
		return nil, fmt.Errorf("%w: symbol count %d exceeds %d", ErrInvalidGrid, symbolCount, MaxSymbols)
	}
	if len(grid) > symbolCount {
		return nil, fmt.Errorf("%w: %d rows for %d symbols", ErrInvalidGrid, len(grid), symbolCount)
	}

	n := symbolCount
	cells := make([]models.Outcome, n*n)
	explicit := make([]bool, n*n)
	populated := make([]bool, n*n)

	// Explicit cells first, so derivation can see every stated value.
	for i, row := range grid {
		if len(row) > n {
			return nil, fmt.Errorf("%w: row %d has %d cells for %d symbols", ErrInvalidGrid, i+1, len(row), n)
		}
		for j := 0; j < len(row); j++ {
			o, err := models.ParseOutcome(row[j])
			if err != nil {
				return nil, &CellError{Row: i + 1, Col: j + 1, Msg: fmt.Sprintf("byte %q", row[j]), Err: ErrInvalidOutcomeCode}
			}
			k := i*n + j
			cells[k] = o
			explicit[k] = true
			populated[k] = true
		}
	}

	derived := 0
	for i, row := range grid {
		for j := 0; j < len(row); j++ {
			if i == j {
				continue
			}
			want := cells[i*n+j].Reverse()
			k := j*n + i
			if explicit[k] {
				if cells[k] != want {
					return nil, &CellError{
						Row: j + 1,
						Col: i + 1,
						Msg: fmt.Sprintf("stated %v, reverse of (%d,%d) requires %v", cells[k], i+1, j+1, want),
						Err: ErrInconsistentRelation,
					}
				}
				continue
			}
			if !populated[k] {
				cells[k] = want
				populated[k] = true
				derived++
			}
		}
	}

	for k, ok := range populated {
		if !ok {
			return nil, &CellError{Row: k/n + 1, Col: k%n + 1, Msg: "not covered by grid", Err: ErrMissingRelation}
		}
	}

	logger.Debug("relation table built: symbols=%d explicit=%d derived=%d", n, n*n-derived, derived)

	return &Table{n: n, cells: cells}, nil
}

// Size returns the number of symbols in the table.
func (t *Table) Size() int {
	return t.n
}

// Lookup returns the outcome of a against b.
func (t *Table) Lookup(a, b models.Symbol) (models.Outcome, error) {
	if !a.Valid(t.n) || !b.Valid(t.n) {
		return models.Draw, &CellError{Row: int(a), Col: int(b), Msg: fmt.Sprintf("outside [1,%d]", t.n), Err: ErrMissingRelation}
	}
	return t.cells[t.index(a, b)], nil
}

// Beats reports whether a wins against b. A draw is not a win.
// It panics if either symbol is out of range; callers validate symbols first.
func (t *Table) Beats(a, b models.Symbol) bool {
	o, err := t.Lookup(a, b)
	if err != nil {
		panic(err)
	}
	return o == models.Win
}

// Grid renders the full square table as rows of outcome codes.
func (t *Table) Grid() []string {
	rows := make([]string, t.n)
	var sb strings.Builder
	for i := 0; i < t.n; i++ {
		sb.Reset()
		for j := 0; j < t.n; j++ {
			sb.WriteByte(t.cells[i*t.n+j].Code())
		}
		rows[i] = sb.String()
	}
	return rows
}

func (t *Table) index(a, b models.Symbol) int {
	return (int(a)-1)*t.n + int(b) - 1
}
