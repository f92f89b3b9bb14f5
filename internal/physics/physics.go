// Package physics provides collision detection for pieces against the board.
package physics

import (
	"github.com/tomz197/blockfall/internal/board"
	"github.com/tomz197/blockfall/internal/piece"
)

// Collides reports whether placing p on b is illegal: any block outside the
// grid or on an occupied cell. It never modifies b.
func Collides(b *board.Board, p piece.Piece) bool {
	for _, c := range p.Cells() {
		if !board.InBounds(c.X, c.Y) {
			return true
		}
		if b.Occupied(c.X, c.Y) {
			return true
		}
	}
	return false
}

// Landing returns p dropped as far as it can legally go. An illegal p is
// returned unchanged.
func Landing(b *board.Board, p piece.Piece) piece.Piece {
	if Collides(b, p) {
		return p
	}
	for {
		next := p.Drop()
		if Collides(b, next) {
			return p
		}
		p = next
	}
}
