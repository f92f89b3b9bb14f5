// Package tui is a full-screen local front-end built on tcell. It drives one
// engine from a single goroutine and draws the board with half-block cells.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/tomz197/blockfall/internal/draw"
	"github.com/tomz197/blockfall/internal/engine"
	"github.com/tomz197/blockfall/internal/input"
	"github.com/tomz197/blockfall/internal/loop/config"
	"github.com/tomz197/blockfall/internal/piece"
)

var bindings = map[input.Key]engine.Command{
	input.KeyLeft:     engine.MoveLeft,
	input.KeyRight:    engine.MoveRight,
	input.KeyRotate:   engine.Rotate,
	input.KeySoftDrop: engine.SoftDrop,
	input.KeyHardDrop: engine.HardDrop,
}

// Options configures an App.
type Options struct {
	Source          piece.Source // Required
	GravityInterval time.Duration
	Logger          *log.Logger
}

// App owns a tcell screen and the engine it displays.
type App struct {
	screen tcell.Screen
	engine *engine.Engine
	canvas *draw.Canvas
	paused bool
	best   int
	logger *log.Logger
}

// New creates an App on an initialized screen.
func New(screen tcell.Screen, opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	gravity := opts.GravityInterval
	if gravity <= 0 {
		gravity = config.GravityInterval
	}
	return &App{
		screen: screen,
		engine: engine.New(engine.Options{
			Source:          opts.Source,
			GravityInterval: gravity,
			Logger:          logger,
		}),
		canvas: draw.NewBoardCanvas(),
		logger: logger,
	}
}

// Run processes events and frames until the player quits or ctx is done.
func (a *App) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 100)
	done := make(chan struct{})
	defer close(done)
	go pollEvents(a.screen, events, done)

	ticker := time.NewTicker(config.ClientTargetFrameTime)
	defer ticker.Stop()

	last := time.Now()
	a.Draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if !a.HandleEvent(ev) {
				return nil
			}
		case now := <-ticker.C:
			a.Update(now.Sub(last))
			last = now
			a.Draw()
		}
	}
}

// pollEvents forwards screen events until the screen is finalized or done is
// closed.
func pollEvents(screen tcell.Screen, events chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			// Screen finalized
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

// Update advances gravity unless the game is paused or not running.
func (a *App) Update(dt time.Duration) {
	if a.paused || a.engine.State() != engine.StateFalling {
		return
	}
	a.engine.Advance(dt.Seconds())
	if a.engine.State() == engine.StateGameOver {
		snap := a.engine.Snapshot()
		a.best = max(a.best, snap.Score)
		a.logger.Debug("local game over", "score", snap.Score, "best", a.best)
	}
}

// HandleEvent applies one tcell event. It returns false when the app should
// exit.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		k, ok := KeyFor(ev)
		if !ok {
			return true
		}
		return a.handleKey(k)
	case *tcell.EventResize:
		a.screen.Clear()
		a.screen.Sync()
	}
	return true
}

func (a *App) handleKey(k input.Key) bool {
	if k == input.KeyQuit {
		return false
	}

	switch a.engine.State() {
	case engine.StateEmpty, engine.StateGameOver:
		if k == input.KeyStart || k == input.KeyHardDrop || k == input.KeyRestart {
			a.newGame()
		}
		return true
	}

	switch {
	case k == input.KeyRestart:
		a.newGame()
	case k == input.KeyPause || (a.paused && k == input.KeyStart):
		a.paused = !a.paused
	case a.paused:
		// Board is frozen
	default:
		if cmd, ok := bindings[k]; ok {
			a.engine.Apply(cmd)
		}
	}
	return true
}

func (a *App) newGame() {
	a.engine.Reset()
	a.engine.Apply(engine.Spawn)
	a.paused = false
}

// KeyFor maps a tcell key event to a game key.
func KeyFor(ev *tcell.EventKey) (input.Key, bool) {
	switch ev.Key() {
	case tcell.KeyLeft:
		return input.KeyLeft, true
	case tcell.KeyRight:
		return input.KeyRight, true
	case tcell.KeyUp:
		return input.KeyRotate, true
	case tcell.KeyDown:
		return input.KeySoftDrop, true
	case tcell.KeyEnter:
		return input.KeyStart, true
	case tcell.KeyEscape:
		return input.KeyPause, true
	case tcell.KeyCtrlC:
		return input.KeyQuit, true
	case tcell.KeyRune:
		r := ev.Rune()
		if r > 0x7f {
			return 0, false
		}
		keys := input.Parse([]byte{byte(r)})
		if len(keys) != 1 {
			return 0, false
		}
		return keys[0], true
	}
	return 0, false
}

// Draw renders the board and side panel and shows the frame.
func (a *App) Draw() {
	a.screen.Clear()
	snap := a.engine.Snapshot()

	const left, top = 1, 1
	border := tcell.StyleDefault
	drawBox(a.screen, left-1, top-1, a.canvas.TerminalWidth()+2, a.canvas.TerminalHeight()+2, border)

	draw.DrawBoard(a.canvas, &snap)
	for row := 0; row < a.canvas.TerminalHeight(); row++ {
		for col := 0; col < a.canvas.TerminalWidth(); col++ {
			ch, style := cellStyle(a.canvas.At(col, row*2), a.canvas.At(col, row*2+1))
			a.screen.SetContent(left+col, top+row, ch, nil, style)
		}
	}

	panel := left + a.canvas.TerminalWidth() + 2
	drawText(a.screen, panel, 1, tcell.StyleDefault.Bold(true), "BLOCKFALL")
	drawText(a.screen, panel, 3, tcell.StyleDefault, fmt.Sprintf("Score: %d", snap.Score))
	drawText(a.screen, panel, 4, tcell.StyleDefault, fmt.Sprintf("Level: %d", snap.Level))
	drawText(a.screen, panel, 5, tcell.StyleDefault, fmt.Sprintf("Lines: %d", snap.Lines))
	drawText(a.screen, panel, 6, tcell.StyleDefault, fmt.Sprintf("Best:  %d", a.best))

	status := ""
	switch {
	case snap.State == engine.StateEmpty:
		status = "ENTER to start"
	case snap.State == engine.StateGameOver:
		status = "GAME OVER - ENTER to restart"
	case a.paused:
		status = "PAUSED"
	}
	drawText(a.screen, panel, 8, tcell.StyleDefault.Foreground(tcell.ColorYellow), status)
	drawText(a.screen, panel, 10, tcell.StyleDefault.Dim(true), "Q to quit")

	a.screen.Show()
}

// cellStyle picks the rune and style showing two stacked pixels.
func cellStyle(top, bottom draw.Pixel) (rune, tcell.Style) {
	style := tcell.StyleDefault
	switch {
	case top.Set && bottom.Set:
		return draw.BlockUpperHalf, style.Foreground(tcellColor(top.Color)).Background(tcellColor(bottom.Color))
	case top.Set:
		return draw.BlockUpperHalf, style.Foreground(tcellColor(top.Color))
	case bottom.Set:
		return draw.BlockLowerHalf, style.Foreground(tcellColor(bottom.Color))
	}
	return draw.BlockEmpty, style
}

func tcellColor(c piece.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range []rune(text) {
		s.SetContent(x+i, y, r, nil, style)
	}
}

func drawBox(s tcell.Screen, x, y, w, h int, style tcell.Style) {
	for i := 1; i < w-1; i++ {
		s.SetContent(x+i, y, '─', nil, style)
		s.SetContent(x+i, y+h-1, '─', nil, style)
	}
	for j := 1; j < h-1; j++ {
		s.SetContent(x, y+j, '│', nil, style)
		s.SetContent(x+w-1, y+j, '│', nil, style)
	}
	s.SetContent(x, y, '┌', nil, style)
	s.SetContent(x+w-1, y, '┐', nil, style)
	s.SetContent(x, y+h-1, '└', nil, style)
	s.SetContent(x+w-1, y+h-1, '┘', nil, style)
}
