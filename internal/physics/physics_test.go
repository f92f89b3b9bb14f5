package physics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/blockfall/internal/board"
	"github.com/tomz197/blockfall/internal/physics"
	"github.com/tomz197/blockfall/internal/piece"
)

// outOfBounds reports whether any block of p leaves the grid.
func outOfBounds(p piece.Piece) bool {
	for _, c := range p.Cells() {
		if !board.InBounds(c.X, c.Y) {
			return true
		}
	}
	return false
}

func TestCollidesMatchesBoundsForEveryPlacement(t *testing.T) {
	empty := board.New()
	full := board.New()
	for y := range full.Cells {
		for x := range full.Cells[y] {
			full.Cells[y][x] = board.Cell{Occupied: true}
		}
	}

	for _, s := range piece.Shapes {
		t.Run(s.String(), func(t *testing.T) {
			base := piece.New(s)
			for rot := 0; rot < 4; rot++ {
				for y := -3; y < board.Height+3; y++ {
					for x := -3; x < board.Width+3; x++ {
						p := base
						p.Position = piece.Point{X: x, Y: y}
						if outOfBounds(p) {
							require.True(t, physics.Collides(empty, p), "%v at %v on empty board", s, p.Position)
							require.True(t, physics.Collides(full, p), "%v at %v on full board", s, p.Position)
						} else {
							require.False(t, physics.Collides(empty, p), "%v at %v on empty board", s, p.Position)
						}
					}
				}
				base = base.Rotate()
			}
		})
	}
}

func TestCollidesWithOccupiedCell(t *testing.T) {
	b := board.New()
	p := piece.New(piece.Block)
	p.Position = piece.Point{X: 2, Y: 10}
	require.False(t, physics.Collides(b, p))

	b.Cells[11][3] = board.Cell{Occupied: true, Color: piece.Red}
	assert.True(t, physics.Collides(b, p))
	assert.False(t, physics.Collides(b, p.Left().Left()))
}

func TestCollidesDoesNotMutate(t *testing.T) {
	b := board.New()
	b.Cells[5][5] = board.Cell{Occupied: true, Color: piece.Cyan}
	before := *b

	physics.Collides(b, piece.New(piece.T))
	physics.Landing(b, piece.New(piece.T))

	assert.Equal(t, before, *b)
}

func TestLandingOnFloor(t *testing.T) {
	b := board.New()
	p := physics.Landing(b, piece.New(piece.T))

	// T has its lowest block one row below the origin.
	assert.Equal(t, piece.Point{X: 4, Y: board.Height - 2}, p.Position)
	assert.False(t, physics.Collides(b, p))
	assert.True(t, physics.Collides(b, p.Drop()))
}

func TestLandingOnStack(t *testing.T) {
	b := board.New()
	b.Cells[20][4] = board.Cell{Occupied: true}

	p := physics.Landing(b, piece.New(piece.Straight))
	assert.Equal(t, 19, p.Position.Y)
}

func TestLandingOfIllegalPieceIsUnchanged(t *testing.T) {
	b := board.New()
	p := piece.New(piece.T)
	p.Position.X = -5

	assert.Equal(t, p, physics.Landing(b, p))
}
