package engine

import (
	"io"
	"math"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/blockfall/internal/board"
	"github.com/tomz197/blockfall/internal/physics"
	"github.com/tomz197/blockfall/internal/piece"
)

// shapeSource yields the given shapes in order, then repeats the last one.
type shapeSource struct {
	shapes []piece.Shape
	draws  int
}

func (s *shapeSource) IntN(n int) int {
	idx := s.draws
	if idx >= len(s.shapes) {
		idx = len(s.shapes) - 1
	}
	s.draws++
	return int(s.shapes[idx]) % n
}

func newTestEngine(shapes ...piece.Shape) *Engine {
	return New(Options{
		Source: &shapeSource{shapes: shapes},
		Logger: log.New(io.Discard),
	})
}

func fillRow(b *board.Board, y int, gaps ...int) {
	for x := 0; x < board.Width; x++ {
		gap := false
		for _, g := range gaps {
			if g == x {
				gap = true
			}
		}
		if !gap {
			b.Cells[y][x] = board.Cell{Occupied: true, Color: piece.Color{R: 1}}
		}
	}
}

func TestNewEngineStartsEmpty(t *testing.T) {
	e := newTestEngine(piece.T)

	assert.Equal(t, StateEmpty, e.State())
	snap := e.Snapshot()
	assert.Nil(t, snap.Active)
	assert.Equal(t, 0, snap.Score)
	assert.Equal(t, 1, snap.Level)
}

func TestCommandsIgnoredWithoutActivePiece(t *testing.T) {
	e := newTestEngine(piece.T)
	for _, cmd := range []Command{MoveLeft, MoveRight, Rotate, SoftDrop, HardDrop} {
		assert.False(t, e.Apply(cmd), cmd.String())
	}
	assert.Equal(t, 0, e.Advance(0.4))
	assert.Equal(t, StateEmpty, e.State())
}

func TestSpawnPlacesPieceAtSpawnPosition(t *testing.T) {
	for _, s := range piece.Shapes {
		t.Run(s.String(), func(t *testing.T) {
			e := newTestEngine(s)
			require.True(t, e.Apply(Spawn))

			assert.Equal(t, StateFalling, e.State())
			snap := e.Snapshot()
			require.NotNil(t, snap.Active)
			assert.Equal(t, s.Spawn(), snap.Active.Position)
			assert.Equal(t, s.Color(), snap.Active.Color)
		})
	}
}

func TestSpawnReplacesActivePiece(t *testing.T) {
	e := newTestEngine(piece.T, piece.Block)
	e.Apply(Spawn)
	e.Apply(SoftDrop)
	e.Apply(Spawn)

	snap := e.Snapshot()
	assert.Equal(t, piece.Block.Color(), snap.Active.Color)
	assert.Equal(t, piece.Block.Spawn(), snap.Active.Position)
}

func TestMoveLeftPinsAgainstWall(t *testing.T) {
	e := newTestEngine(piece.T)
	e.Apply(Spawn)

	for i := 0; i < 20; i++ {
		e.Apply(MoveLeft)
	}

	active := *e.board.Active
	assert.Equal(t, 1, active.Position.X, "T's leftmost block sits in column 0")
	assert.True(t, physics.Collides(e.board, active.Left()))
	assert.False(t, physics.Collides(e.board, active))
	assert.False(t, e.Apply(MoveLeft))
}

func TestMoveRightPinsAgainstWall(t *testing.T) {
	e := newTestEngine(piece.Straight)
	e.Apply(Spawn)

	for i := 0; i < 20; i++ {
		e.Apply(MoveRight)
	}
	assert.Equal(t, board.Width-3, e.board.Active.Position.X)
}

func TestRotate(t *testing.T) {
	e := newTestEngine(piece.T)
	e.Apply(Spawn)

	// At the top row the rotated T would poke above the board.
	assert.False(t, e.Apply(Rotate))

	e.Apply(SoftDrop)
	before := *e.board.Active
	require.True(t, e.Apply(Rotate))
	assert.Equal(t, before.Rotate(), *e.board.Active)
}

func TestSoftDropNeverSettles(t *testing.T) {
	e := newTestEngine(piece.Block)
	e.Apply(Spawn)
	require.True(t, e.Apply(HardDrop))

	resting := *e.board.Active
	assert.False(t, e.Apply(SoftDrop))
	assert.False(t, e.Apply(HardDrop))
	assert.Equal(t, resting, *e.board.Active)
	assert.Equal(t, 0, e.board.OccupiedCount())
	assert.Equal(t, StateFalling, e.State())
}

func TestHardDropMatchesRepeatedSoftDrop(t *testing.T) {
	for _, s := range piece.Shapes {
		t.Run(s.String(), func(t *testing.T) {
			hard := newTestEngine(s)
			soft := newTestEngine(s)
			for _, e := range []*Engine{hard, soft} {
				fillRow(e.board, 25, 0, 1)
				e.Apply(Spawn)
			}

			hard.Apply(HardDrop)
			steps := 0
			for soft.Apply(SoftDrop) {
				steps++
			}

			assert.Equal(t, *soft.board.Active, *hard.board.Active)
			assert.Positive(t, steps)
		})
	}
}

func TestHardDropMatchesGravity(t *testing.T) {
	hard := newTestEngine(piece.Z)
	grav := newTestEngine(piece.Z)
	hard.Apply(Spawn)
	grav.Apply(Spawn)

	hard.Apply(HardDrop)
	want := *hard.board.Active
	for i := 0; i < board.Height; i++ {
		if *grav.board.Active == want {
			break
		}
		grav.Tick()
	}
	assert.Equal(t, want, *grav.board.Active)
	assert.Equal(t, 0, grav.board.OccupiedCount(), "gravity has not settled yet")
}

func TestGravitySettlesAndSpawns(t *testing.T) {
	e := newTestEngine(piece.T, piece.Block)
	e.Apply(Spawn)
	first := *e.board.Active

	ticks := 0
	for *e.board.Active != piece.New(piece.Block) {
		e.Tick()
		ticks++
		require.Less(t, ticks, 100)
	}

	// The T fell to the floor (30 steps) and the landing tick settled it.
	assert.Equal(t, board.Height-1, ticks)
	assert.Equal(t, StateFalling, e.State())
	assert.NotEqual(t, first, *e.board.Active)
	assert.Equal(t, piece.Block.Spawn(), e.board.Active.Position)
	assert.Equal(t, 4, e.board.OccupiedCount())
	assert.Equal(t, 0, e.board.Score)
	landed := physics.Landing(board.New(), first)
	for _, c := range landed.Cells() {
		assert.True(t, e.board.Occupied(c.X, c.Y))
		assert.Equal(t, piece.T.Color(), e.board.At(c.X, c.Y).Color)
	}
}

func TestGapFillClearsOneRow(t *testing.T) {
	e := newTestEngine(piece.T, piece.Block)
	fillRow(e.board, board.Height-1, 4)
	e.Apply(Spawn)
	e.Apply(HardDrop)

	// The T's stem rests in the gap.
	require.Equal(t, piece.Point{X: 4, Y: board.Height - 2}, e.board.Active.Position)

	e.Tick()

	assert.Equal(t, 50, e.board.Score)
	assert.Equal(t, 1, e.board.Lines)
	// The T's top row dropped into the cleared row.
	for x := 0; x < board.Width; x++ {
		want := x >= 3 && x <= 5
		assert.Equal(t, want, e.board.Occupied(x, board.Height-1), "column %d", x)
	}
	assert.Equal(t, 3, e.board.OccupiedCount())
	assert.Equal(t, piece.New(piece.Block), *e.board.Active)
}

func TestBlockedSpawnIsGameOver(t *testing.T) {
	e := newTestEngine(piece.T)
	e.board.Cells[0][4] = board.Cell{Occupied: true, Color: piece.Red}

	require.True(t, e.Apply(Spawn))
	assert.Equal(t, StateGameOver, e.State())
	assert.Nil(t, e.Snapshot().Active)

	assert.False(t, e.Apply(Spawn))
	assert.False(t, e.Apply(MoveLeft))
	e.Advance(5)
	assert.Equal(t, StateGameOver, e.State())

	id := e.GameID()
	e.Reset()
	assert.Equal(t, StateEmpty, e.State())
	assert.NotEqual(t, id, e.GameID())
	assert.Equal(t, 0, e.board.OccupiedCount())
}

func TestGravityEndsGameWhenStackReachesSpawn(t *testing.T) {
	e := newTestEngine(piece.Block)
	// A column under the spawn point leaves the Block no room to fall.
	for y := 2; y < board.Height; y++ {
		e.board.Cells[y][4] = board.Cell{Occupied: true}
	}
	e.Apply(Spawn)

	// Block spawns at rows 0-1 and cannot drop: settle, then the next spawn
	// overlaps it.
	e.Tick()
	assert.Equal(t, StateGameOver, e.State())
}

func TestAdvanceAccumulatesTime(t *testing.T) {
	e := newTestEngine(piece.Straight)
	e.Apply(Spawn)
	y0 := e.board.Active.Position.Y

	assert.Equal(t, 0, e.Advance(0.25))
	assert.Equal(t, y0, e.board.Active.Position.Y)

	assert.Equal(t, 1, e.Advance(0.375), "0.625s accumulated")
	assert.Equal(t, y0+1, e.board.Active.Position.Y)

	assert.Equal(t, 2, e.Advance(1.25), "0.125s leftover + 1.25s")
	assert.Equal(t, y0+3, e.board.Active.Position.Y)

	assert.Equal(t, 1, e.Advance(0.125), "0.375s leftover + 0.125s")
	assert.Equal(t, 0, e.Advance(0), "no time, no tick")
	assert.Equal(t, 0, e.Advance(-1))
}

func TestAdvanceIgnoresNonFiniteDelta(t *testing.T) {
	e := newTestEngine(piece.Straight)
	e.Apply(Spawn)
	y0 := e.board.Active.Position.Y

	assert.Equal(t, 0, e.Advance(math.NaN()))
	assert.Equal(t, 0, e.Advance(math.Inf(1)))
	assert.Equal(t, 0, e.Advance(math.Inf(-1)))
	assert.Equal(t, y0, e.board.Active.Position.Y)

	assert.Equal(t, 2, e.Advance(1), "gravity clock still runs")
	assert.Equal(t, y0+2, e.board.Active.Position.Y)
}

func TestCustomGravityInterval(t *testing.T) {
	e := New(Options{
		Source:          &shapeSource{shapes: []piece.Shape{piece.T}},
		GravityInterval: 250 * time.Millisecond,
		Logger:          log.New(io.Discard),
	})
	e.Apply(Spawn)
	assert.Equal(t, 5, e.Advance(1.3))
}

func TestSnapshotIsACopy(t *testing.T) {
	e := newTestEngine(piece.T)
	e.Apply(Spawn)
	snap := e.Snapshot()

	snap.Cells[10][3] = board.Cell{Occupied: true}
	snap.Active.Position.X = 0

	assert.False(t, e.board.Occupied(3, 10))
	assert.Equal(t, 4, e.board.Active.Position.X)
}

func TestSnapshotGhostAndCellAt(t *testing.T) {
	e := newTestEngine(piece.T)
	e.Apply(Spawn)
	snap := e.Snapshot()
	require.NotNil(t, snap.Active)

	assert.Equal(t, [4]piece.Point{
		{3, board.Height - 2}, {4, board.Height - 2}, {5, board.Height - 2}, {4, board.Height - 1},
	}, snap.Active.Ghost)

	c, ghost := snap.CellAt(4, 0)
	assert.True(t, c.Occupied)
	assert.False(t, ghost)
	assert.Equal(t, piece.T.Color(), c.Color)

	c, ghost = snap.CellAt(4, board.Height-1)
	assert.False(t, c.Occupied)
	assert.True(t, ghost)

	c, ghost = snap.CellAt(0, 0)
	assert.False(t, c.Occupied)
	assert.False(t, ghost)
}

func TestRandomPlayKeepsInvariants(t *testing.T) {
	e := New(Options{Source: piece.NewSource(7), Logger: log.New(io.Discard)})
	src := piece.NewSource(99)
	cmds := []Command{MoveLeft, MoveRight, Rotate, SoftDrop, HardDrop}

	lastScore := 0
	e.Apply(Spawn)
	for step := 0; step < 20000 && e.State() != StateGameOver; step++ {
		if src.IntN(3) == 0 {
			e.Tick()
		} else {
			e.Apply(cmds[src.IntN(len(cmds))])
		}

		require.GreaterOrEqual(t, e.board.Score, lastScore)
		lastScore = e.board.Score
		if e.State() == StateFalling {
			require.NotNil(t, e.board.Active)
			require.False(t, physics.Collides(e.board, *e.board.Active), "active piece overlaps at step %d", step)
		}
		require.Empty(t, e.board.FullRows(), "full row left on board at step %d", step)
	}
}

func TestCommandAndStateStrings(t *testing.T) {
	assert.Equal(t, "HardDrop", HardDrop.String())
	assert.Equal(t, "Unknown", Command(42).String())
	assert.Equal(t, "GameOver", StateGameOver.String())
}
