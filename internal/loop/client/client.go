// Package client runs one player's session: it reads keys, drives a private
// game engine and renders the board over an ANSI terminal.
package client

import (
	"bufio"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/blockfall/internal/draw"
	"github.com/tomz197/blockfall/internal/engine"
	"github.com/tomz197/blockfall/internal/input"
	"github.com/tomz197/blockfall/internal/loop/config"
	"github.com/tomz197/blockfall/internal/loop/server"
	"github.com/tomz197/blockfall/internal/piece"
)

// playBindings maps keys to engine commands while a game is running.
var playBindings = map[input.Key]engine.Command{
	input.KeyLeft:     engine.MoveLeft,
	input.KeyRight:    engine.MoveRight,
	input.KeyRotate:   engine.Rotate,
	input.KeySoftDrop: engine.SoftDrop,
	input.KeyHardDrop: engine.HardDrop,
}

// Client handles rendering and input for a single connection.
type Client struct {
	server       server.GameServer
	handle       *server.ClientHandle
	state        *ClientState
	engine       *engine.Engine
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates frame text for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	username     string
	termSizeFunc draw.TermSizeFunc
	termWidth    int // Terminal size read this frame
	termHeight   int
	boardOffset  [2]int // Layout offset the board was last rendered at
	logger       *log.Logger
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc    draw.TermSizeFunc
	Username        string
	Source          piece.Source  // Defaults to a time-seeded source
	GravityInterval time.Duration // Defaults to config.GravityInterval
	Logger          *log.Logger   // Defaults to log.Default()
}

// NewClient creates a new client registered with the given server.
func NewClient(gs server.GameServer, r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	src := opts.Source
	if src == nil {
		src = piece.NewSource(uint64(time.Now().UnixNano()))
	}
	gravity := opts.GravityInterval
	if gravity <= 0 {
		gravity = config.GravityInterval
	}

	username := opts.Username
	if len(username) > config.MaxUsernameLength {
		username = username[:config.MaxUsernameLength]
	}
	handle := gs.RegisterClient(username)
	logger = logger.With("client", handle.ID)

	canvas := draw.NewBoardCanvas()
	canvas.SetOffset(1, 1) // Leave room for the border

	return &Client{
		server: gs,
		handle: handle,
		state:  NewClientState(),
		engine: engine.New(engine.Options{
			Source:          src,
			GravityInterval: gravity,
			Logger:          logger,
		}),
		canvas:       canvas,
		chunkWriter:  draw.NewChunkWriter(w, 0, 0),
		writer:       w,
		lastInput:    time.Now(),
		inputStream:  input.StartStream(r),
		username:     username,
		termSizeFunc: termSizeFunc,
		logger:       logger,
	}
}

// Run starts the client loop. Blocks until the client disconnects or server stops.
func (c *Client) Run() error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)

	// Unregister from server
	defer c.server.UnregisterClient(c.handle.ID)

	lastTime := time.Now()

	for c.state.Running {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		c.update(input.ReadInput(c.inputStream))

		// Draw frame
		if err := c.drawFrame(); err != nil {
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	draw.ClearScreen(c.writer)
	return nil
}

// update advances the session by one frame.
func (c *Client) update(in input.Input) {
	c.processInput(in)
	c.processServerEvents()
	if !c.state.Running {
		return
	}

	switch c.state.GameState {
	case GameStateStart:
		c.updateStartState()
	case GameStatePlaying:
		c.updatePlayingState()
	case GameStatePaused:
		c.updatePausedState()
	case GameStateOver:
		c.updateOverState()
	case GameStateShutdown:
		c.updateShutdownState()
	}
}

// processInput records input and tracks inactivity.
func (c *Client) processInput(in input.Input) {
	c.state.Input = in

	if len(in.Pressed) > 0 {
		c.lastInput = time.Now()
		c.state.isInactive = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityDisconnectUser {
		c.logger.Info("disconnecting inactive client")
		c.state.Running = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityWarnUser {
		c.state.isInactive = true
	}

	if in.Quit {
		c.state.Running = false
	}
}

// processServerEvents handles events from the server.
func (c *Client) processServerEvents() {
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				// Server closed the channel
				c.state.Running = false
				return
			}
			switch event.Type {
			case server.EventNewHighScore:
				c.state.Rank = event.Rank
			case server.EventServerShutdown:
				c.state.GameState = GameStateShutdown
				c.state.shutdownTimer = config.ShutdownDisplaySeconds
			}
		default:
			return
		}
	}
}

// updateStartState handles the start screen.
func (c *Client) updateStartState() {
	if c.state.Input.Has(input.KeyStart) || c.state.Input.Has(input.KeyHardDrop) {
		c.startGame()
	}
}

// updatePlayingState feeds keys to the engine in arrival order, then advances
// gravity by the frame delta.
func (c *Client) updatePlayingState() {
	for _, k := range c.state.Input.Keys {
		switch k {
		case input.KeyPause:
			c.state.GameState = GameStatePaused
			return
		case input.KeyRestart:
			c.startGame()
			return
		}
		if cmd, ok := playBindings[k]; ok {
			c.engine.Apply(cmd)
		}
	}

	// The warning screen hides the board, so gravity waits for the player.
	if c.state.isInactive {
		return
	}
	c.engine.Advance(c.state.delta.Seconds())
	if c.engine.State() == engine.StateGameOver {
		c.finishGame()
	}
}

// updatePausedState handles the pause screen. Gravity does not run.
func (c *Client) updatePausedState() {
	switch {
	case c.state.Input.Has(input.KeyRestart):
		c.startGame()
	case c.state.Input.Has(input.KeyPause), c.state.Input.Has(input.KeyStart):
		c.state.GameState = GameStatePlaying
	}
}

// updateOverState handles the game over screen.
func (c *Client) updateOverState() {
	if c.state.Input.Has(input.KeyStart) || c.state.Input.Has(input.KeyRestart) ||
		c.state.Input.Has(input.KeyHardDrop) {
		c.startGame()
	}
}

// startGame starts a fresh game on a new board.
func (c *Client) startGame() {
	c.engine.Reset()
	c.engine.Apply(engine.Spawn)
	c.state.Rank = 0
	c.state.GameState = GameStatePlaying
}

// finishGame reports the final result to the server.
func (c *Client) finishGame() {
	snap := c.engine.Snapshot()
	c.server.ReportResult(c.handle.ID, server.GameResult{
		GameID: snap.GameID,
		Score:  snap.Score,
		Lines:  snap.Lines,
	})
	c.state.GameState = GameStateOver
}

// updateShutdownState handles the shutdown screen countdown.
func (c *Client) updateShutdownState() {
	c.state.shutdownTimer -= c.state.delta.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}
