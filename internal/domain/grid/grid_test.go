package grid_test

import (
	"testing"

	"github.com/okellodavid/revealhub/internal/domain/grid"
)

func TestNewCellsShapeAndValues(t *testing.T) {
	cells := grid.NewCells()

	counts := make(map[int]int)
	total := 0

	for r := 0; r < grid.Size; r++ {
		for c := 0; c < grid.Size; c++ {
			cell := cells[r][c]

			if cell.IsRevealed {
				t.Fatalf("cell (%d,%d) should start hidden", r, c)
			}

			if cell.Value < 1 || cell.Value > 9 {
				t.Fatalf("cell (%d,%d) value %d outside 1..9", r, c, cell.Value)
			}

			counts[cell.Value]++
			total++
		}
	}

	if total != 16 {
		t.Fatalf("got %d cells, want 16", total)
	}

	// the deck holds each value twice, so nothing can appear more often
	for v, n := range counts {
		if n > 2 {
			t.Fatalf("value %d appears %d times, max is 2", v, n)
		}
	}
}

func TestNewCellsShuffles(t *testing.T) {
	// 100 independent boards agreeing on every position would mean the
	// shuffle is not happening
	first := grid.NewCells()

	for i := 0; i < 100; i++ {
		if grid.NewCells() != first {
			return
		}
	}

	t.Fatalf("100 generated boards were identical")
}

func TestNewState(t *testing.T) {
	st := grid.NewState("a@x.com")

	if st.Email != "a@x.com" {
		t.Fatalf("got owner %q, want a@x.com", st.Email)
	}

	if st.Selections == nil || len(st.Selections) != 0 {
		t.Fatalf("selections should start empty, got %#v", st.Selections)
	}

	if st.LastSelection != nil {
		t.Fatalf("lastSelection should start nil")
	}
}

func TestInBounds(t *testing.T) {
	tests := []struct {
		row, col int
		want     bool
	}{
		{0, 0, true},
		{3, 3, true},
		{0, 3, true},
		{-1, 0, false},
		{0, -1, false},
		{4, 0, false},
		{0, 4, false},
	}

	for _, tt := range tests {
		if got := grid.InBounds(tt.row, tt.col); got != tt.want {
			t.Fatalf("InBounds(%d,%d)=%v, want %v", tt.row, tt.col, got, tt.want)
		}
	}
}
