package grid

import "math/rand/v2"

// NewCells builds a fresh board from a deck holding every value 1..9 twice.
// The deck (18 values) is shuffled uniformly and the 16 board positions take
// the top of it, so no value appears more than twice and two deck entries go
// unused each time. Every cell starts hidden; the shuffle happens once at
// creation and the board is never reshuffled. Cell values are a game
// mechanic, not a security boundary, so math/rand suffices.
func NewCells() Cells {
	deck := make([]int, 0, 18)

	for v := 1; v <= 9; v++ {
		deck = append(deck, v, v)
	}

	rand.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})

	var cells Cells

	i := 0
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			cells[r][c] = Cell{Value: deck[i], IsRevealed: false}
			i++
		}
	}

	return cells
}

// NewState wraps a fresh board for an owner. Selections start empty.
func NewState(email string) State {
	return State{
		Email:      email,
		Cells:      NewCells(),
		Selections: make([]Selection, 0),
	}
}
