// Package piece defines the seven falling-block shapes and the value-typed
// transforms (drop, shift, rotate) applied to them.
package piece

// Point is a signed integer coordinate. Used both for block offsets
// (relative to a piece's rotation origin) and absolute board positions.
type Point struct {
	X, Y int
}

// Add returns the component-wise sum of p and q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Piece is an immutable set of four blocks around a rotation origin.
// Every transform returns a new Piece; the receiver is never modified.
type Piece struct {
	Color    Color
	Blocks   [4]Point // Offsets relative to Position
	Position Point    // Absolute board coordinate of the rotation origin
}

// New builds the spawn-position piece for the given shape.
func New(s Shape) Piece {
	def := catalog[s]
	return Piece{
		Color:    def.color,
		Blocks:   def.blocks,
		Position: def.spawn,
	}
}

// Drop returns the piece moved down one row.
func (p Piece) Drop() Piece {
	p.Position.Y++
	return p
}

// Left returns the piece moved one column left.
func (p Piece) Left() Piece {
	p.Position.X--
	return p
}

// Right returns the piece moved one column right.
func (p Piece) Right() Piece {
	p.Position.X++
	return p
}

// Rotate returns the piece turned 90 degrees about its own position.
// Each offset (x, y) becomes (y, -x). No bounds checking is done here.
func (p Piece) Rotate() Piece {
	for i, b := range p.Blocks {
		p.Blocks[i] = Point{X: b.Y, Y: -b.X}
	}
	return p
}

// Cells returns the absolute board coordinates of the four blocks.
func (p Piece) Cells() [4]Point {
	var cells [4]Point
	for i, b := range p.Blocks {
		cells[i] = p.Position.Add(b)
	}
	return cells
}
