package grid

import (
	"errors"
	"fmt"
	"time"
)

// Size is fixed: the reveal board is always 4x4.
const Size = 4

var (
	ErrNotFound    = errors.New("grid not found")
	ErrOutOfBounds = errors.New("cell out of bounds")
)

type Cell struct {
	Value      int  `json:"value"`
	IsRevealed bool `json:"isRevealed"`
}

type Selection struct {
	Row       int       `json:"row"`
	Col       int       `json:"col"`
	Timestamp time.Time `json:"timestamp"`
}

// State is the per-user persisted record: one grid per email, created
// lazily on first request and kept forever. Selections only ever grow.
type State struct {
	Email         string      `json:"email"`
	Cells         Cells       `json:"grid"`
	Selections    []Selection `json:"selections"`
	LastSelection *time.Time  `json:"lastSelection"`
}

type Cells [Size][Size]Cell

type SelectRequest struct {
	Row *int `json:"row" binding:"required,min=0,max=3"`
	Col *int `json:"col" binding:"required,min=0,max=3"`
}

// SelectResult reports one accepted (or repeated) reveal. Repeat is true
// when the cell was already revealed; repeats never count against the cap.
type SelectResult struct {
	Value  int
	Repeat bool
}

// RateLimitError carries how long the caller has to wait until the oldest
// selection inside the window ages out.
type RateLimitError struct {
	Remaining time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("selection limit reached, retry in %s", e.Remaining.Round(time.Second))
}

// InBounds reports whether (row, col) addresses a cell on the board.
func InBounds(row, col int) bool {
	return row >= 0 && row < Size && col >= 0 && col < Size
}
