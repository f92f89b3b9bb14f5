package draw

import (
	"github.com/tomz197/blockfall/internal/board"
	"github.com/tomz197/blockfall/internal/engine"
)

// CellColumns is how many terminal columns one board cell spans. A cell is
// one pixel tall, so two columns keep blocks close to square.
const CellColumns = 2

// BoardColumns and BoardRows are the terminal size of a rendered board.
const (
	BoardColumns = board.Width * CellColumns
	BoardRows    = (board.Height + 1) / 2
)

// NewBoardCanvas returns a canvas sized for one board.
func NewBoardCanvas() *Canvas {
	return NewCanvas(BoardColumns, BoardRows)
}

// DrawBoard paints the settled grid, the ghost preview and the falling piece
// of s onto c.
func DrawBoard(c *Canvas, s *engine.Snapshot) {
	c.Clear()
	for y := 0; y < board.Height; y++ {
		for x := 0; x < board.Width; x++ {
			cell, ghost := s.CellAt(x, y)
			switch {
			case cell.Occupied:
				setCell(c, x, y, cell)
			case ghost:
				setCell(c, x, y, board.Cell{Occupied: true, Color: GhostColor})
			}
		}
	}
}

func setCell(c *Canvas, x, y int, cell board.Cell) {
	for i := 0; i < CellColumns; i++ {
		c.Set(x*CellColumns+i, y, cell.Color)
	}
}
