package client

import (
	"fmt"
	"time"

	"github.com/tomz197/blockfall/internal/draw"
	"github.com/tomz197/blockfall/internal/engine"
	"github.com/tomz197/blockfall/internal/loop/config"
	"github.com/tomz197/blockfall/internal/loop/server"
)

// Layout size: the bordered board plus the stats panel to its right.
const (
	layoutWidth  = draw.BoardColumns + 2 + config.SidePanelWidth
	layoutHeight = draw.BoardRows + 2
	panelCol     = draw.BoardColumns + 4 // 1-based column of the stats panel

	// Panel text is padded to this width so shorter values erase longer ones.
	panelFieldWidth = config.SidePanelWidth - 2
)

var titleArt = []string{
	` ___  _      ___    ___  _  __ ___    _    _     _    `,
	`| _ )| |    / _ \  / __|| |/ /| __|  /_\  | |   | |   `,
	`| _ \| |__ | (_) || (__ | ' < | _|  / _ \ | |__ | |__ `,
	`|___/|____| \___/  \___||_|\_\|_|  /_/ \_\|____||____|`,
}

var gameOverArt = []string{
	`  ___    _    __  __  ___     ___  __   __ ___  ___ `,
	` / __|  /_\  |  \/  || __|   / _ \ \ \ / /| __|| _ \`,
	`| (_ | / _ \ | |\/| || _|   | (_) | \ V / | _| |   /`,
	` \___|/_/ \_\|_|  |_||___|   \___/   \_/  |___||_|_\`,
}

var controlLines = []string{
	"A D / < >  . . . .  Move",
	"W / Up . . . . . . Rotate",
	"S / Down . . . Soft drop",
	"SPACE  . . . . Hard drop",
	"P / ESC  . . . . .  Pause",
	"R  . . . . . . .  Restart",
	"Q  . . . . . . . . . Quit",
}

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	termWidth, termHeight := c.layout()
	centerX := termWidth / 2
	centerY := termHeight / 2

	// On screen or inactivity transitions, do a full terminal clear
	// so text from the previous screen doesn't persist.
	stateChanged := c.state.GameState != c.state.prevGameState
	inactiveChanged := c.state.isInactive != c.state.wasInactive
	sizeChanged := c.state.tooSmall != c.state.wasTooSmall
	if stateChanged || inactiveChanged || sizeChanged {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		c.state.prevGameState = c.state.GameState
		c.state.wasInactive = c.state.isInactive
		c.state.wasTooSmall = c.state.tooSmall
	}

	switch {
	case c.state.GameState == GameStateShutdown:
		c.drawShutdownScreen(centerX, centerY)
	case c.state.isInactive:
		c.drawInactivityScreen(centerX, centerY)
	case c.state.tooSmall:
		c.drawTooSmallScreen(centerX, centerY)
	default:
		switch c.state.GameState {
		case GameStateStart:
			c.drawStartScreen(centerX, centerY)
		case GameStatePlaying, GameStatePaused:
			c.drawPlayingScreen()
		case GameStateOver:
			c.drawGameOverScreen(centerX, centerY)
		}
	}

	return c.chunkWriter.Flush()
}

// layout reads the terminal size and reports whether the playfield fits.
func (c *Client) layout() (width, height int) {
	width, height, err := c.termSizeFunc()
	if err != nil || width <= 0 || height <= 0 {
		width, height = layoutWidth, layoutHeight
	}
	c.state.tooSmall = width < layoutWidth || height < layoutHeight

	// Text screens center on the whole terminal; the playfield sets its own
	// offset.
	c.chunkWriter.SetOffset(0, 0)
	c.termWidth, c.termHeight = width, height
	return width, height
}

// drawPlayingScreen draws the board and stats panel.
func (c *Client) drawPlayingScreen() {
	snap := c.engine.Snapshot()
	cw := c.chunkWriter
	offset := [2]int{(c.termWidth - layoutWidth) / 2, (c.termHeight - layoutHeight) / 2}
	if offset != c.boardOffset {
		// The terminal was resized: previous cells are in the wrong place.
		cw.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		c.boardOffset = offset
	}
	cw.SetOffset(offset[0], offset[1])

	draw.DrawBoard(c.canvas, &snap)
	c.canvas.Render(cw)
	c.canvas.RenderBorder(cw)

	c.drawStats(&snap)

	status := ""
	if c.state.GameState == GameStatePaused {
		status = "PAUSED - P to resume"
	}
	cw.WriteField(panelCol, 10, panelFieldWidth, status)

	c.drawLeaderboard(panelCol, 12, c.server.GetSnapshot())
}

// drawStats draws score, level and lines next to the board.
func (c *Client) drawStats(snap *engine.Snapshot) {
	cw := c.chunkWriter
	cw.WriteStyled(panelCol, 2, draw.ColorBold+draw.ColorBrightCyan, "BLOCKFALL")
	cw.WriteField(panelCol, 4, panelFieldWidth, fmt.Sprintf("Score: %d", snap.Score))
	cw.WriteField(panelCol, 5, panelFieldWidth, fmt.Sprintf("Level: %d", snap.Level))
	cw.WriteField(panelCol, 6, panelFieldWidth, fmt.Sprintf("Lines: %d", snap.Lines))
	cw.WriteField(panelCol, 8, panelFieldWidth, fmt.Sprintf("Players: %d", c.server.GetSnapshot().Players))
}

// drawLeaderboard draws the top scores starting at (col, row).
func (c *Client) drawLeaderboard(col, row int, snapshot *server.ServerSnapshot) {
	cw := c.chunkWriter
	cw.WriteStyled(col, row, draw.ColorBold, "Top scores")
	for i := 0; i < config.LeaderboardSize; i++ {
		line := ""
		if i < len(snapshot.TopScores) {
			e := snapshot.TopScores[i]
			name := e.Username
			if name == "" {
				name = "anonymous"
			}
			line = fmt.Sprintf("%d. %-10.10s %6d", i+1, name, e.Score)
		}
		cw.WriteField(col, row+1+i, panelFieldWidth, line)
	}
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerX, centerY int) {
	cw := c.chunkWriter
	cw.WriteCentered(centerX, centerY-2, "INACTIVITY WARNING")

	msg := fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %3d seconds.",
		int(config.InactivityDisconnectUser-time.Since(c.lastInput).Seconds()),
	)
	cw.WriteCentered(centerX, centerY, msg)
	cw.WriteCenteredStyled(centerX, centerY+2, draw.ColorDim, "Press any key to continue")
}

// drawTooSmallScreen asks the player to enlarge the terminal.
func (c *Client) drawTooSmallScreen(centerX, centerY int) {
	cw := c.chunkWriter
	cw.WriteCentered(centerX, centerY-1, "Terminal too small")
	cw.WriteCentered(centerX, centerY+1, fmt.Sprintf("Need %dx%d", layoutWidth, layoutHeight))
}

// drawStartScreen draws the title screen.
func (c *Client) drawStartScreen(centerX, centerY int) {
	cw := c.chunkWriter
	titleStartY := max(centerY-8, 1)
	drawArt(cw, centerX, titleStartY, titleArt)

	subtitle := "~ Falling blocks over SSH ~"
	cw.WriteCenteredStyled(centerX, titleStartY+len(titleArt)+1, draw.ColorDim, subtitle)

	// Controls section
	controlsY := titleStartY + len(titleArt) + 3
	cw.WriteCentered(centerX, controlsY, "Controls")
	for i, line := range controlLines {
		cw.WriteCentered(centerX, controlsY+1+i, line)
	}

	// Blinking start prompt
	prompt := ">>  Press ENTER to Start  <<"
	promptY := controlsY + len(controlLines) + 2
	if time.Now().UnixMilli()/600%2 == 0 {
		cw.WriteCentered(centerX, promptY, prompt)
	} else {
		cw.WriteCentered(centerX, promptY, fmt.Sprintf("%*s", len(prompt), ""))
	}
}

// drawGameOverScreen draws the final score and restart prompt.
func (c *Client) drawGameOverScreen(centerX, centerY int) {
	cw := c.chunkWriter
	snap := c.engine.Snapshot()

	titleStartY := max(centerY-8, 1)
	drawArt(cw, centerX, titleStartY, gameOverArt)

	y := titleStartY + len(gameOverArt) + 1
	cw.WriteCentered(centerX, y, fmt.Sprintf("Score: %d   Lines: %d   Level: %d", snap.Score, snap.Lines, snap.Level))

	rank := ""
	if c.state.Rank > 0 {
		rank = fmt.Sprintf("New high score! Rank #%d", c.state.Rank)
	}
	cw.WriteField(centerX-12, y+1, 24, rank)

	c.drawLeaderboard(centerX-panelFieldWidth/2, y+3, c.server.GetSnapshot())

	prompt := ">>  Press ENTER to Restart  <<"
	promptY := y + 5 + config.LeaderboardSize
	if time.Now().UnixMilli()/600%2 == 0 {
		cw.WriteCentered(centerX, promptY, prompt)
	} else {
		cw.WriteCentered(centerX, promptY, fmt.Sprintf("%*s", len(prompt), ""))
	}
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(centerX, centerY int) {
	cw := c.chunkWriter
	cw.WriteCentered(centerX, centerY-3, "SERVER SHUTTING DOWN")
	cw.WriteCentered(centerX, centerY-1, "The server is restarting for maintenance.")
	cw.WriteCentered(centerX, centerY, "Please reconnect in a moment.")

	remaining := int(c.state.shutdownTimer) + 1
	cw.WriteCentered(centerX, centerY+2, fmt.Sprintf("Disconnecting in %2d seconds...", remaining))
	cw.WriteCenteredStyled(centerX, centerY+4, draw.ColorDim, "Press Q to disconnect now")
}

// drawArt writes multi-line ASCII art centered on col.
func drawArt(cw *draw.ChunkWriter, col, row int, art []string) {
	width := 0
	for _, line := range art {
		width = max(width, len(line))
	}
	left := max(col-width/2, 1)
	for i, line := range art {
		cw.WriteAt(left, row+i, line)
	}
}
