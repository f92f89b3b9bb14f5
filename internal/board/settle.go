package board

import "github.com/tomz197/blockfall/internal/piece"

// Score awarded per settlement, indexed by rows cleared.
const (
	ScoreSingle = 50
	ScoreDouble = 120
	ScoreTriple = 180
	ScoreTetris = 250
)

// linesPerLevel is how many cleared rows advance the advisory level.
const linesPerLevel = 10

// Settle commits p into the grid, clears any full rows and updates the score.
// It returns the number of rows cleared.
//
// p must be a legal placement. Settling an overlapping piece silently
// overwrites the occupant; callers guarantee this cannot happen.
func (b *Board) Settle(p piece.Piece) int {
	for _, c := range p.Cells() {
		b.Cells[c.Y][c.X] = Cell{Occupied: true, Color: p.Color}
	}

	rows := b.FullRows()
	for _, r := range rows {
		b.removeRow(r)
	}

	cleared := len(rows)
	b.Score += ScoreForLines(cleared)
	b.Lines += cleared
	b.Level = 1 + b.Lines/linesPerLevel
	return cleared
}

// FullRows returns the indices of all full rows in ascending order.
func (b *Board) FullRows() []int {
	var rows []int
	for y := range b.Cells {
		if b.Cells[y].Full() {
			rows = append(rows, y)
		}
	}
	return rows
}

// removeRow deletes row r by cascading rows 0..r down one slot, carrying an
// empty row in at the top. Rows below r are untouched.
func (b *Board) removeRow(r int) {
	var carry Row
	for y := 0; y <= r; y++ {
		carry, b.Cells[y] = b.Cells[y], carry
	}
}

// ScoreForLines returns the score delta for clearing n rows in one settlement.
// Counts outside 0..4 cannot happen with four-block pieces and fall back to n.
func ScoreForLines(n int) int {
	switch n {
	case 0:
		return 0
	case 1:
		return ScoreSingle
	case 2:
		return ScoreDouble
	case 3:
		return ScoreTriple
	case 4:
		return ScoreTetris
	default:
		return n
	}
}
