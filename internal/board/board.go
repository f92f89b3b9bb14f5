// Package board holds the fixed-size playfield grid, the score counters and
// the two piece slots, plus the settlement and line-clear rules that mutate it.
package board

import "github.com/tomz197/blockfall/internal/piece"

// Board dimensions. Origin is the top-left cell; rows grow downward.
const (
	Width  = 10
	Height = 32
)

// Cell is one grid position, either empty or occupied by a settled block.
type Cell struct {
	Occupied bool
	Color    piece.Color // Meaningful only when Occupied
}

// Row is one horizontal line of the grid.
type Row [Width]Cell

// Board is the playfield for a single game.
type Board struct {
	Cells  [Height]Row
	Score  int // Never decreases within a game
	Level  int // Advisory; no rule reads it
	Lines  int // Total rows cleared this game
	Active *piece.Piece
	Stored *piece.Piece // Reserved slot; nothing reads or writes it
}

// New creates an empty board.
func New() *Board {
	return &Board{Level: 1}
}

// Reset empties the grid and clears counters and piece slots for a new game.
func (b *Board) Reset() {
	*b = Board{Level: 1}
}

// InBounds reports whether (x, y) lies on the grid.
func InBounds(x, y int) bool {
	return x >= 0 && x < Width && y >= 0 && y < Height
}

// At returns the cell at (x, y). The coordinate must be in bounds.
func (b *Board) At(x, y int) Cell {
	return b.Cells[y][x]
}

// Occupied reports whether the in-bounds cell at (x, y) holds a block.
func (b *Board) Occupied(x, y int) bool {
	return b.Cells[y][x].Occupied
}

// Full reports whether every cell in the row is occupied.
func (r *Row) Full() bool {
	for _, c := range r {
		if !c.Occupied {
			return false
		}
	}
	return true
}

// Empty reports whether no cell in the row is occupied.
func (r *Row) Empty() bool {
	for _, c := range r {
		if c.Occupied {
			return false
		}
	}
	return true
}

// OccupiedCount returns the number of occupied cells on the grid.
func (b *Board) OccupiedCount() int {
	n := 0
	for y := range b.Cells {
		for _, c := range b.Cells[y] {
			if c.Occupied {
				n++
			}
		}
	}
	return n
}
