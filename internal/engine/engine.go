// Package engine drives a single game: it applies player commands and gravity
// ticks to the board, validating every move with the collision detector and
// settling pieces that can no longer fall.
//
// An Engine is not safe for concurrent use. One goroutine owns it and
// serializes all Apply, Advance and Snapshot calls.
package engine

import (
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/tomz197/blockfall/internal/board"
	"github.com/tomz197/blockfall/internal/physics"
	"github.com/tomz197/blockfall/internal/piece"
)

// DefaultGravityInterval is the time between gravity ticks.
const DefaultGravityInterval = 500 * time.Millisecond

// Options configures an Engine.
type Options struct {
	Source          piece.Source  // Shape randomness; required
	GravityInterval time.Duration // Defaults to DefaultGravityInterval
	Logger          *log.Logger   // Defaults to log.Default()
}

// Engine is the command/tick state machine for one board.
type Engine struct {
	board    *board.Board
	src      piece.Source
	state    State
	interval float64 // Gravity interval in seconds
	since    float64 // Accumulated seconds not yet consumed by a tick
	gameID   uuid.UUID
	logger   *log.Logger
}

// New creates an engine with an empty board in the Empty state.
func New(opts Options) *Engine {
	interval := opts.GravityInterval
	if interval <= 0 {
		interval = DefaultGravityInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	e := &Engine{
		board:    board.New(),
		src:      opts.Source,
		interval: interval.Seconds(),
		logger:   logger,
	}
	e.Reset()
	return e
}

// Reset discards the current game and starts a fresh board in the Empty state.
func (e *Engine) Reset() {
	e.board.Reset()
	e.state = StateEmpty
	e.since = 0
	e.gameID = uuid.New()
	e.logger.Debug("new game", "game", e.gameID)
}

// State returns the current phase.
func (e *Engine) State() State {
	return e.state
}

// GameID identifies the current game.
func (e *Engine) GameID() uuid.UUID {
	return e.gameID
}

// Apply handles one command. It reports whether the active piece or the
// engine state changed; rejected moves return false.
func (e *Engine) Apply(cmd Command) bool {
	if cmd == Spawn {
		return e.spawn()
	}
	if e.state != StateFalling {
		return false
	}

	active := *e.board.Active
	var candidate piece.Piece
	switch cmd {
	case MoveLeft:
		candidate = active.Left()
	case MoveRight:
		candidate = active.Right()
	case Rotate:
		candidate = active.Rotate()
	case SoftDrop:
		candidate = active.Drop()
	case HardDrop:
		candidate = physics.Landing(e.board, active)
	default:
		return false
	}

	if candidate == active || physics.Collides(e.board, candidate) {
		return false
	}
	e.board.Active = &candidate
	return true
}

// Advance adds dt seconds to the gravity clock and fires one tick per whole
// interval accumulated. Leftover time carries to the next call. It returns
// the number of ticks fired. Non-positive, NaN and infinite deltas are
// ignored.
func (e *Engine) Advance(dt float64) int {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return 0
	}
	e.since += dt
	ticks := 0
	for e.since >= e.interval {
		e.since -= e.interval
		e.Tick()
		ticks++
	}
	return ticks
}

// Tick applies one gravity step. A piece that cannot fall is settled and a
// new piece spawned in its place.
func (e *Engine) Tick() {
	if e.state != StateFalling {
		return
	}

	active := *e.board.Active
	next := active.Drop()
	if !physics.Collides(e.board, next) {
		e.board.Active = &next
		return
	}

	cleared := e.board.Settle(active)
	e.board.Active = nil
	e.state = StateEmpty
	if cleared > 0 {
		e.logger.Debug("rows cleared",
			"game", e.gameID, "rows", cleared, "score", e.board.Score)
	}
	e.spawn()
}

// spawn draws a random shape and makes it the active piece. A blocked spawn
// position ends the game.
func (e *Engine) spawn() bool {
	if e.state == StateGameOver {
		return false
	}

	p := piece.New(piece.Random(e.src))
	if physics.Collides(e.board, p) {
		e.board.Active = nil
		e.state = StateGameOver
		e.logger.Info("game over",
			"game", e.gameID, "score", e.board.Score, "lines", e.board.Lines)
		return true
	}

	e.board.Active = &p
	e.state = StateFalling
	return true
}
