package draw

import (
	"strings"

	"github.com/tomz197/blockfall/internal/piece"
)

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockEmpty     = ' '
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Pixel is one colored sub-cell of the canvas. A terminal cell holds two
// pixels stacked vertically.
type Pixel struct {
	Set   bool
	Color piece.Color
}

// termCell is what one terminal cell shows: its upper and lower pixel.
type termCell struct {
	top, bottom Pixel
}

// Canvas is a drawing buffer with 2x vertical resolution using half-block characters.
// Render only emits cells that changed since the previous frame.
type Canvas struct {
	termWidth  int     // Terminal columns covered
	termHeight int     // Terminal rows covered
	pixels     []Pixel // Flat slice: [y * termWidth + x], y in sub-pixel rows
	prev       []termCell
	rendered   bool // prev holds a frame that is still on screen

	// 0-based terminal offset of the canvas' top-left cell.
	offsetCol int
	offsetRow int
}

// NewCanvas creates a canvas covering width columns and height terminal rows,
// which is width x height*2 pixels.
func NewCanvas(width, height int) *Canvas {
	return &Canvas{
		termWidth:  width,
		termHeight: height,
		pixels:     make([]Pixel, width*height*2),
		prev:       make([]termCell, width*height),
	}
}

// SetOffset sets the column and row offset of the canvas.
// Offsets are 0-based terminal positions: the canvas starts at (offsetCol+1, offsetRow+1).
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.ForceRedraw()
	}
	c.offsetCol = col
	c.offsetRow = row
}

// TerminalWidth returns the number of terminal columns the canvas covers.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the number of terminal rows the canvas covers.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// PixelHeight returns the number of pixel rows.
func (c *Canvas) PixelHeight() int {
	return c.termHeight * 2
}

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// ForceRedraw makes the next Render emit every cell, e.g. after the terminal
// was cleared.
func (c *Canvas) ForceRedraw() {
	c.rendered = false
}

// Set colors the pixel at (x, y). Out of range coordinates are ignored.
func (c *Canvas) Set(x, y int, color piece.Color) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.termHeight*2 {
		c.pixels[y*c.termWidth+x] = Pixel{Set: true, Color: color}
	}
}

// At returns the pixel at (x, y).
func (c *Canvas) At(x, y int) Pixel {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.termHeight*2 {
		return Pixel{}
	}
	return c.pixels[y*c.termWidth+x]
}

// Render outputs changed cells to cw using half-block characters. The upper
// pixel is drawn in the foreground and the lower one in the background.
func (c *Canvas) Render(cw *ChunkWriter) {
	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.termWidth
		bottomOffset := topOffset + c.termWidth

		for col := 0; col < c.termWidth; col++ {
			cell := termCell{top: c.pixels[topOffset+col], bottom: c.pixels[bottomOffset+col]}
			idx := row*c.termWidth + col
			if c.rendered && c.prev[idx] == cell {
				continue
			}
			c.prev[idx] = cell

			cw.MoveCursor(col+1+c.offsetCol, row+1+c.offsetRow)
			writeCell(cw, cell)
		}
	}
	cw.WriteString(ColorReset)
	c.rendered = true
}

func writeCell(cw *ChunkWriter, cell termCell) {
	top, bottom := cell.top, cell.bottom
	cw.WriteString(ColorReset)
	switch {
	case top.Set && bottom.Set && top.Color == bottom.Color:
		cw.WriteString(Fg(top.Color))
		cw.WriteRune(BlockFull)
	case top.Set && bottom.Set:
		cw.WriteString(Fg(top.Color))
		cw.WriteString(Bg(bottom.Color))
		cw.WriteRune(BlockUpperHalf)
	case top.Set:
		cw.WriteString(Fg(top.Color))
		cw.WriteRune(BlockUpperHalf)
	case bottom.Set:
		cw.WriteString(Fg(bottom.Color))
		cw.WriteRune(BlockLowerHalf)
	default:
		cw.WriteRune(BlockEmpty)
	}
}

// RenderBorder draws a box around the canvas. It needs at least one free
// column and row on each side of the canvas.
func (c *Canvas) RenderBorder(cw *ChunkWriter) {
	if c.offsetCol < 1 || c.offsetRow < 1 {
		return
	}
	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1
	bar := strings.Repeat("─", c.termWidth)

	cw.WriteAt(left, top, "┌"+bar+"┐")
	for row := top + 1; row < bottom; row++ {
		cw.WriteAt(left, row, "│")
		cw.WriteAt(right, row, "│")
	}
	cw.WriteAt(left, bottom, "└"+bar+"┘")
}
