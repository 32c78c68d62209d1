package relation

import (
	"errors"
	"testing"

	"github.com/rewired-gh/duelresolver/internal/models"
)

// sampleGrid: 2 beats 1, 3 loses to 1, 3 beats 2.
var sampleGrid = []string{"D", "WD", "LWD"}

func mustBuild(t *testing.T, grid []string, n int) *Table {
	t.Helper()
	tbl, err := Build(grid, n)
	if err != nil {
		t.Fatalf("Build(%v, %d) failed: %v", grid, n, err)
	}
	return tbl
}

func TestBuildTriangular(t *testing.T) {
	tbl := mustBuild(t, sampleGrid, 3)

	tests := []struct {
		a, b int
		want models.Outcome
	}{
		{1, 1, models.Draw},
		{2, 1, models.Win},
		{1, 2, models.Loss},
		{3, 1, models.Loss},
		{1, 3, models.Win},
		{3, 2, models.Win},
		{2, 3, models.Loss},
		{3, 3, models.Draw},
	}

	for _, tt := range tests {
		got, err := tbl.Lookup(models.Symbol(tt.a), models.Symbol(tt.b))
		if err != nil {
			t.Errorf("Lookup(%d,%d) failed: %v", tt.a, tt.b, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Lookup(%d,%d) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestBuildAsymmetryAndTotality(t *testing.T) {
	grids := map[string][]string{
		"triangular": sampleGrid,
		"full":       {"DLW", "WDL", "LWD"},
		"all draws":  {"DDD", "DDD", "DDD"},
	}

	for name, grid := range grids {
		t.Run(name, func(t *testing.T) {
			tbl := mustBuild(t, grid, 3)
			for i := 1; i <= 3; i++ {
				for j := 1; j <= 3; j++ {
					a, b := models.Symbol(i), models.Symbol(j)
					ab, err := tbl.Lookup(a, b)
					if err != nil {
						t.Fatalf("Lookup(%d,%d) failed: %v", i, j, err)
					}
					if i == j {
						continue
					}
					ba, _ := tbl.Lookup(b, a)
					if ab != ba.Reverse() {
						t.Errorf("Lookup(%d,%d)=%v but Lookup(%d,%d)=%v", i, j, ab, j, i, ba)
					}
				}
			}
		})
	}
}

func TestBuildSelfRelationPreserved(t *testing.T) {
	tbl := mustBuild(t, []string{"W", "LL"}, 2)

	if got, _ := tbl.Lookup(1, 1); got != models.Win {
		t.Errorf("Lookup(1,1) = %v, want win", got)
	}
	if got, _ := tbl.Lookup(2, 2); got != models.Loss {
		t.Errorf("Lookup(2,2) = %v, want loss", got)
	}
	if got, _ := tbl.Lookup(1, 2); got != models.Win {
		t.Errorf("Lookup(1,2) = %v, want win", got)
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name    string
		grid    []string
		n       int
		wantErr error
		row     int
		col     int
	}{
		{"bad code", []string{"D", "XD"}, 2, ErrInvalidOutcomeCode, 2, 1},
		{"lowercase code", []string{"d"}, 1, ErrInvalidOutcomeCode, 1, 1},
		{"conflicting reverse", []string{"DW", "WD"}, 2, ErrInconsistentRelation, 2, 1},
		{"missing diagonal", []string{"D", "W"}, 2, ErrMissingRelation, 2, 2},
		{"missing rows", []string{"D"}, 2, ErrMissingRelation, 1, 2},
		{"too many rows", []string{"D", "WD", "LWD"}, 2, ErrInvalidGrid, 0, 0},
		{"row too long", []string{"DWL"}, 2, ErrInvalidGrid, 0, 0},
		{"no symbols", nil, 0, ErrInvalidGrid, 0, 0},
		{"too many symbols", nil, MaxSymbols + 1, ErrInvalidGrid, 0, 0},
		{"symbol count squares past int", nil, 1 << 32, ErrInvalidGrid, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.grid, tt.n)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Build() error = %v, want %v", err, tt.wantErr)
			}
			if tt.row == 0 {
				return
			}
			var cellErr *CellError
			if !errors.As(err, &cellErr) {
				t.Fatalf("Expected *CellError, got %T", err)
			}
			if cellErr.Row != tt.row || cellErr.Col != tt.col {
				t.Errorf("Error at (%d,%d), want (%d,%d)", cellErr.Row, cellErr.Col, tt.row, tt.col)
			}
		})
	}
}

func TestBuildConsistentFullGrid(t *testing.T) {
	// Both halves stated and in agreement.
	if _, err := Build([]string{"DL", "WD"}, 2); err != nil {
		t.Fatalf("Build failed on consistent full grid: %v", err)
	}
}

func TestLookupOutOfRange(t *testing.T) {
	tbl := mustBuild(t, sampleGrid, 3)

	for _, p := range []models.Pair{models.NewPair(0, 1), models.NewPair(1, 4), models.NewPair(-1, -1)} {
		_, err := tbl.Lookup(p.First, p.Second)
		if !errors.Is(err, ErrMissingRelation) {
			t.Errorf("Lookup%v error = %v, want ErrMissingRelation", p, err)
		}
	}
}

func TestBeats(t *testing.T) {
	tbl := mustBuild(t, sampleGrid, 3)

	if !tbl.Beats(2, 1) {
		t.Error("Expected 2 to beat 1")
	}
	if tbl.Beats(1, 1) {
		t.Error("A draw must not count as a win")
	}
	if tbl.Beats(2, 3) {
		t.Error("Expected 2 not to beat 3")
	}

	defer func() {
		if recover() == nil {
			t.Error("Expected Beats to panic on out-of-range symbol")
		}
	}()
	tbl.Beats(4, 1)
}

func TestGrid(t *testing.T) {
	tbl := mustBuild(t, sampleGrid, 3)
	got := tbl.Grid()
	want := []string{"DLW", "WDL", "LWD"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Grid()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if tbl.Size() != 3 {
		t.Errorf("Size() = %d, want 3", tbl.Size())
	}
}
