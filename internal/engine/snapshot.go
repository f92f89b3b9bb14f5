package engine

import (
	"github.com/google/uuid"

	"github.com/tomz197/blockfall/internal/board"
	"github.com/tomz197/blockfall/internal/physics"
	"github.com/tomz197/blockfall/internal/piece"
)

// ActivePiece describes the falling piece for a renderer.
type ActivePiece struct {
	Color    piece.Color
	Position piece.Point
	Blocks   [4]piece.Point // Offsets from Position
	Cells    [4]piece.Point // Absolute board coordinates
	Ghost    [4]piece.Point // Absolute cells where a hard drop would land
}

// Snapshot is a read-only copy of the game for one frame. It shares no
// memory with the engine.
type Snapshot struct {
	GameID uuid.UUID
	State  State
	Cells  [board.Height]board.Row
	Score  int
	Level  int
	Lines  int
	Active *ActivePiece // nil unless State is StateFalling
}

// Snapshot copies the current board state.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		GameID: e.gameID,
		State:  e.state,
		Cells:  e.board.Cells,
		Score:  e.board.Score,
		Level:  e.board.Level,
		Lines:  e.board.Lines,
	}
	if p := e.board.Active; p != nil {
		s.Active = &ActivePiece{
			Color:    p.Color,
			Position: p.Position,
			Blocks:   p.Blocks,
			Cells:    p.Cells(),
			Ghost:    physics.Landing(e.board, *p).Cells(),
		}
	}
	return s
}

// CellAt returns what a renderer should draw at (x, y): the active piece
// first, then the settled grid. ghost is true for empty cells under the
// active piece's landing position.
func (s *Snapshot) CellAt(x, y int) (c board.Cell, ghost bool) {
	if a := s.Active; a != nil {
		for _, p := range a.Cells {
			if p.X == x && p.Y == y {
				return board.Cell{Occupied: true, Color: a.Color}, false
			}
		}
		c = s.Cells[y][x]
		if !c.Occupied {
			for _, p := range a.Ghost {
				if p.X == x && p.Y == y {
					return c, true
				}
			}
		}
		return c, false
	}
	return s.Cells[y][x], false
}
