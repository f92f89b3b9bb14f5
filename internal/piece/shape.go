package piece

// Shape identifies one of the seven catalog pieces. It is only used to
// construct a Piece; pieces do not remember their shape.
type Shape int

const (
	T Shape = iota
	Straight
	L
	ReverseL
	Block
	S
	Z
)

// NumShapes is the size of the catalog.
const NumShapes = 7

// Shapes lists every catalog shape in draw order.
var Shapes = [NumShapes]Shape{T, Straight, L, ReverseL, Block, S, Z}

// shapeDef holds the fixed spawn data for a shape.
type shapeDef struct {
	name   string
	color  Color
	blocks [4]Point
	spawn  Point
}

// L and ReverseL spawn one row lower so their upward block stays on the board.
var catalog = [NumShapes]shapeDef{
	T: {
		name:   "T",
		color:  Red,
		blocks: [4]Point{{-1, 0}, {0, 0}, {1, 0}, {0, 1}},
		spawn:  Point{4, 0},
	},
	Straight: {
		name:   "Straight",
		color:  Violet,
		blocks: [4]Point{{-1, 0}, {0, 0}, {1, 0}, {2, 0}},
		spawn:  Point{4, 0},
	},
	L: {
		name:   "L",
		color:  Yellow,
		blocks: [4]Point{{0, -1}, {0, 0}, {0, 1}, {1, 1}},
		spawn:  Point{4, 1},
	},
	ReverseL: {
		name:   "ReverseL",
		color:  Cyan,
		blocks: [4]Point{{0, -1}, {0, 0}, {0, 1}, {-1, 1}},
		spawn:  Point{4, 1},
	},
	Block: {
		name:   "Block",
		color:  Green,
		blocks: [4]Point{{0, 0}, {0, 1}, {1, 0}, {1, 1}},
		spawn:  Point{4, 0},
	},
	S: {
		name:   "S",
		color:  Magenta,
		blocks: [4]Point{{0, 0}, {1, 0}, {-1, 1}, {0, 1}},
		spawn:  Point{4, 0},
	},
	Z: {
		name:   "Z",
		color:  Orange,
		blocks: [4]Point{{-1, 0}, {0, 0}, {0, 1}, {1, 1}},
		spawn:  Point{4, 0},
	},
}

// String returns the shape name.
func (s Shape) String() string {
	if s < 0 || int(s) >= NumShapes {
		return "Unknown"
	}
	return catalog[s].name
}

// Spawn returns the spawn position for the shape.
func (s Shape) Spawn() Point {
	return catalog[s].spawn
}

// Color returns the base color for the shape.
func (s Shape) Color() Color {
	return catalog[s].color
}
