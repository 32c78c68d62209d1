package models

import (
	"testing"
	"time"
)

func TestOutcomeReverseIsInvolution(t *testing.T) {
	for _, o := range []Outcome{Win, Loss, Draw} {
		if got := o.Reverse().Reverse(); got != o {
			t.Errorf("Reverse(Reverse(%v)) = %v", o, got)
		}
	}
	if Win.Reverse() != Loss || Loss.Reverse() != Win || Draw.Reverse() != Draw {
		t.Error("Reverse does not map Win<->Loss and Draw->Draw")
	}
}

func TestParseOutcome(t *testing.T) {
	tests := []struct {
		code    byte
		want    Outcome
		wantErr bool
	}{
		{'D', Draw, false},
		{'W', Win, false},
		{'L', Loss, false},
		{'d', Draw, true},
		{'X', Draw, true},
		{' ', Draw, true},
	}

	for _, tt := range tests {
		got, err := ParseOutcome(tt.code)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseOutcome(%q) error = %v, wantErr %v", tt.code, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseOutcome(%q) = %v, want %v", tt.code, got, tt.want)
		}
		if !tt.wantErr && got.Code() != tt.code {
			t.Errorf("%v.Code() = %q, want %q", got, got.Code(), tt.code)
		}
	}
}

func TestOutcomeValid(t *testing.T) {
	for _, o := range []Outcome{Win, Loss, Draw} {
		if !o.Valid() {
			t.Errorf("%v.Valid() = false", o)
		}
	}
	for _, o := range []Outcome{2, -2, 127} {
		if o.Valid() {
			t.Errorf("Outcome(%d).Valid() = true", int8(o))
		}
		if o.Code() != '?' {
			t.Errorf("Outcome(%d).Code() = %q, want '?'", int8(o), o.Code())
		}
	}
}

func TestPairValidate(t *testing.T) {
	tests := []struct {
		name    string
		pair    Pair
		count   int
		wantErr bool
	}{
		{"valid distinct", NewPair(1, 3), 3, false},
		{"valid repeated", NewPair(2, 2), 3, false},
		{"zero first", NewPair(0, 1), 3, true},
		{"second too large", NewPair(1, 4), 3, true},
		{"empty universe", NewPair(1, 1), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.pair.Validate(tt.count)
			if (err != nil) != tt.wantErr {
				t.Errorf("Pair.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAllPairs(t *testing.T) {
	pairs := AllPairs(3)
	if len(pairs) != 9 {
		t.Fatalf("Expected 9 pairs, got %d", len(pairs))
	}
	if pairs[0] != NewPair(1, 1) || pairs[1] != NewPair(1, 2) || pairs[8] != NewPair(3, 3) {
		t.Errorf("Unexpected order: %v", pairs)
	}
	if got := AllPairs(0); len(got) != 0 {
		t.Errorf("Expected no pairs for empty universe, got %v", got)
	}
}

func TestNewRunLengthMismatch(t *testing.T) {
	_, err := NewRun("run-1", "-", 3, 9, []Pair{NewPair(1, 2)}, []uint32{1, 2})
	if err == nil {
		t.Fatal("Expected error for mismatched lengths")
	}
}

func TestRunValidate(t *testing.T) {
	valid := func() Run {
		return Run{
			ID:             "run-1",
			CreatedAt:      time.Now().Add(-time.Minute),
			Source:         "problem.txt",
			SymbolCount:    3,
			CandidateCount: 2,
			Results: []QueryResult{
				{Index: 0, Query: NewPair(1, 2), Count: 2},
				{Index: 1, Query: NewPair(3, 3), Count: 0},
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(r *Run)
		wantErr bool
	}{
		{"valid run", func(r *Run) {}, false},
		{"empty ID", func(r *Run) { r.ID = "" }, true},
		{"future timestamp", func(r *Run) { r.CreatedAt = time.Now().Add(time.Hour) }, true},
		{"query out of range", func(r *Run) { r.Results[1].Query = NewPair(4, 1) }, true},
		{"count exceeds candidates", func(r *Run) { r.Results[0].Count = 3 }, true},
		{"misaligned index", func(r *Run) { r.Results[1].Index = 5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid()
			tt.mutate(&r)
			err := r.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Run.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRunTop(t *testing.T) {
	run, err := NewRun("run-1", "-", 3, 9,
		[]Pair{NewPair(1, 1), NewPair(1, 2), NewPair(2, 3), NewPair(3, 3)},
		[]uint32{1, 4, 4, 0})
	if err != nil {
		t.Fatalf("NewRun failed: %v", err)
	}

	top := run.Top(3)
	if len(top) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(top))
	}
	if top[0].Index != 1 || top[1].Index != 2 || top[2].Index != 0 {
		t.Errorf("Unexpected order: %+v", top)
	}

	if got := run.Top(10); len(got) != 4 {
		t.Errorf("Expected Top to cap at 4, got %d", len(got))
	}

	counts := run.Counts()
	if len(counts) != 4 || counts[1] != 4 || counts[3] != 0 {
		t.Errorf("Unexpected counts: %v", counts)
	}
}
