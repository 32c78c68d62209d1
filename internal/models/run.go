package models

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// QueryResult is the domination count for one query pair.
type QueryResult struct {
	Index int    `json:"index"` // Position in the query list
	Query Pair   `json:"query"`
	Count uint32 `json:"count"` // Candidates that dominate Query
}

// Run records one resolution of a problem instance.
type Run struct {
	ID             string        `json:"id" db:"id"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
	Source         string        `json:"source" db:"source"` // Input path or "-" for stdin
	SymbolCount    int           `json:"symbol_count" db:"symbol_count"`
	CandidateCount int           `json:"candidate_count" db:"candidate_count"`
	Results        []QueryResult `json:"results"`
}

// NewRun pairs each query with its count. queries and counts must be aligned.
func NewRun(id, source string, symbolCount, candidateCount int, queries []Pair, counts []uint32) (*Run, error) {
	if len(queries) != len(counts) {
		return nil, fmt.Errorf("query/count length mismatch: %d queries, %d counts", len(queries), len(counts))
	}
	results := make([]QueryResult, len(queries))
	for i, q := range queries {
		results[i] = QueryResult{Index: i, Query: q, Count: counts[i]}
	}
	return &Run{
		ID:             id,
		CreatedAt:      time.Now(),
		Source:         source,
		SymbolCount:    symbolCount,
		CandidateCount: candidateCount,
		Results:        results,
	}, nil
}

// Validate checks that all run fields are valid
func (r *Run) Validate() error {
	if r.ID == "" {
		return errors.New("run ID must not be empty")
	}
	if r.SymbolCount < 1 {
		return errors.New("symbol count must be at least 1")
	}
	if r.CandidateCount < 0 {
		return errors.New("candidate count must not be negative")
	}
	if r.CreatedAt.After(time.Now()) {
		return errors.New("created at must not be in the future")
	}
	for i, res := range r.Results {
		if res.Index != i {
			return fmt.Errorf("result %d has index %d", i, res.Index)
		}
		if err := res.Query.Validate(r.SymbolCount); err != nil {
			return fmt.Errorf("result %d: %w", i, err)
		}
		if int(res.Count) > r.CandidateCount {
			return fmt.Errorf("result %d: count %d exceeds candidate count %d", i, res.Count, r.CandidateCount)
		}
	}
	return nil
}

// Counts returns the counts in query order.
func (r *Run) Counts() []uint32 {
	counts := make([]uint32, len(r.Results))
	for i, res := range r.Results {
		counts[i] = res.Count
	}
	return counts
}

// Top returns up to k results ordered by count descending. Ties keep query order.
func (r *Run) Top(k int) []QueryResult {
	sorted := make([]QueryResult, len(r.Results))
	copy(sorted, r.Results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Count > sorted[j].Count
	})
	if k < 0 {
		k = 0
	}
	if k > len(sorted) {
		k = len(sorted)
	}
	return sorted[:k]
}
