package draw

import (
	"strconv"

	"github.com/tomz197/blockfall/internal/piece"
)

// ANSI attribute sequences.
const (
	ColorReset      = "\033[0m"
	ColorBold       = "\033[1m"
	ColorDim        = "\033[2m"
	ColorBrightCyan = "\033[96m"
)

// GhostColor paints the landing preview of the falling piece.
var GhostColor = piece.Color{R: 72, G: 72, B: 72}

// Fg returns the 24-bit foreground sequence for c.
func Fg(c piece.Color) string {
	return rgb("\033[38;2;", c)
}

// Bg returns the 24-bit background sequence for c.
func Bg(c piece.Color) string {
	return rgb("\033[48;2;", c)
}

func rgb(prefix string, c piece.Color) string {
	b := make([]byte, 0, 24)
	b = append(b, prefix...)
	b = strconv.AppendUint(b, uint64(c.R), 10)
	b = append(b, ';')
	b = strconv.AppendUint(b, uint64(c.G), 10)
	b = append(b, ';')
	b = strconv.AppendUint(b, uint64(c.B), 10)
	b = append(b, 'm')
	return string(b)
}
