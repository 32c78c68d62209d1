// Package resolver counts how many candidate pairs dominate each query pair.
//
// A candidate pair (c1, c2) dominates a query pair (q1, q2) when, for each of
// q1 and q2 independently, at least one of c1 or c2 wins against it:
//
//	(beats(c1, q1) || beats(c2, q1)) && (beats(c1, q2) || beats(c2, q2))
//
// Only wins count; a draw never covers a query symbol. The same candidate
// symbol may cover both query symbols.
//
// Resolution is a pure function of its inputs. The relation table is only
// read, so a single table may back any number of concurrent calls.
package resolver

import (
	"fmt"

	"github.com/rewired-gh/duelresolver/internal/logger"
	"github.com/rewired-gh/duelresolver/internal/models"
	"github.com/rewired-gh/duelresolver/internal/relation"
)

// PairError reports a pair whose symbols fall outside the table.
type PairError struct {
	List  string // "candidate" or "query"
	Index int
	Pair  models.Pair
	Err   error
}

func (e PairError) Error() string {
	return fmt.Sprintf("%s %d %v: %v", e.List, e.Index, e.Pair, e.Err)
}

func (e PairError) Unwrap() error {
	return e.Err
}

// Resolve returns, for each query, the number of candidates that dominate it.
// The result is aligned with queries. Duplicate candidates are counted
// separately. Pairs naming symbols outside the table fail with an error
// wrapping relation.ErrMissingRelation; nothing is counted in that case.
func Resolve(candidates, queries []models.Pair, table *relation.Table) ([]uint32, error) {
	if err := checkPairs("candidate", candidates, table); err != nil {
		return nil, err
	}
	if err := checkPairs("query", queries, table); err != nil {
		return nil, err
	}

	counts := make([]uint32, len(queries))
	for k, q := range queries {
		for _, c := range candidates {
			if Dominates(c, q, table) {
				counts[k]++
			}
		}
	}

	logger.Debug("resolved %d queries against %d candidates", len(queries), len(candidates))
	return counts, nil
}

// Dominates reports whether candidate c dominates query q.
// Both pairs must lie within the table.
func Dominates(c, q models.Pair, table *relation.Table) bool {
	coversFirst := table.Beats(c.First, q.First) || table.Beats(c.Second, q.First)
	coversSecond := table.Beats(c.First, q.Second) || table.Beats(c.Second, q.Second)
	return coversFirst && coversSecond
}

// Dominators returns the indices of the candidates that dominate q, in
// candidate order.
func Dominators(candidates []models.Pair, q models.Pair, table *relation.Table) ([]int, error) {
	if err := checkPairs("candidate", candidates, table); err != nil {
		return nil, err
	}
	if err := checkPairs("query", []models.Pair{q}, table); err != nil {
		return nil, err
	}

	indices := []int{}
	for i, c := range candidates {
		if Dominates(c, q, table) {
			indices = append(indices, i)
		}
	}
	return indices, nil
}

func checkPairs(list string, pairs []models.Pair, table *relation.Table) error {
	for i, p := range pairs {
		for _, s := range [2]models.Symbol{p.First, p.Second} {
			if _, err := table.Lookup(s, s); err != nil {
				return PairError{List: list, Index: i, Pair: p, Err: err}
			}
		}
	}
	return nil
}
