// Package parser reads problem instances from text.
//
// A problem file looks like:
//
//	3 2
//	D
//	WD
//	LWD
//	1 2
//	2 3
//
// The header gives the symbol count N and the query count M. The next N
// non-blank lines are relation grid rows (triangular or full), followed by M
// query pairs. Candidate files hold one pair per line.
package parser

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rewired-gh/duelresolver/internal/models"
)

// Problem is a parsed problem instance.
type Problem struct {
	SymbolCount int
	Grid        []string
	Queries     []models.Pair
}

// LineError reports a parse failure on a 1-based input line.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

type lineReader struct {
	sc   *bufio.Scanner
	line int
}

func newLineReader(r io.Reader) *lineReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	return &lineReader{sc: sc}
}

// next returns the next non-blank trimmed line, or io.EOF.
func (lr *lineReader) next() (string, error) {
	for lr.sc.Scan() {
		lr.line++
		if text := strings.TrimSpace(lr.sc.Text()); text != "" {
			return text, nil
		}
	}
	if err := lr.sc.Err(); err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return "", io.EOF
}

func (lr *lineReader) errorf(format string, args ...any) error {
	return &LineError{Line: lr.line, Err: fmt.Errorf(format, args...)}
}

// preallocLimit bounds slice capacity taken from header counts.
const preallocLimit = 1024

// Parse reads a full problem instance. A header declaring more than
// maxSymbols symbols is rejected before any rows are read; maxSymbols < 1
// means no limit.
func Parse(r io.Reader, maxSymbols int) (*Problem, error) {
	lr := newLineReader(r)

	header, err := lr.next()
	if err == io.EOF {
		return nil, lr.errorf("missing header")
	}
	if err != nil {
		return nil, err
	}
	n, m, err := parseInts(header)
	if err != nil {
		return nil, lr.errorf("header: %w", err)
	}
	if n < 1 {
		return nil, lr.errorf("symbol count %d must be at least 1", n)
	}
	if maxSymbols > 0 && n > maxSymbols {
		return nil, lr.errorf("symbol count %d exceeds limit %d", n, maxSymbols)
	}
	if m < 0 {
		return nil, lr.errorf("query count %d must not be negative", m)
	}

	grid := make([]string, 0, min(n, preallocLimit))
	for i := 0; i < n; i++ {
		row, err := lr.next()
		if err == io.EOF {
			return nil, lr.errorf("expected %d grid rows, got %d", n, i)
		}
		if err != nil {
			return nil, err
		}
		grid = append(grid, row)
	}

	queries := make([]models.Pair, 0, min(m, preallocLimit))
	for i := 0; i < m; i++ {
		text, err := lr.next()
		if err == io.EOF {
			return nil, lr.errorf("expected %d queries, got %d", m, i)
		}
		if err != nil {
			return nil, err
		}
		a, b, err := parseInts(text)
		if err != nil {
			return nil, lr.errorf("query %d: %w", i+1, err)
		}
		queries = append(queries, models.NewPair(a, b))
	}

	if extra, err := lr.next(); err == nil {
		return nil, lr.errorf("unexpected trailing input %q", extra)
	} else if err != io.EOF {
		return nil, err
	}

	return &Problem{SymbolCount: n, Grid: grid, Queries: queries}, nil
}

// ParsePairs reads one "a b" pair per non-blank line.
func ParsePairs(r io.Reader) ([]models.Pair, error) {
	lr := newLineReader(r)
	pairs := []models.Pair{}
	for {
		text, err := lr.next()
		if err == io.EOF {
			return pairs, nil
		}
		if err != nil {
			return nil, err
		}
		a, b, err := parseInts(text)
		if err != nil {
			return nil, lr.errorf("pair: %w", err)
		}
		pairs = append(pairs, models.NewPair(a, b))
	}
}

func parseInts(text string) (int, int, error) {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("expected 2 integers, got %q", text)
	}
	a, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid integer %q", fields[0])
	}
	b, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid integer %q", fields[1])
	}
	return a, b, nil
}
