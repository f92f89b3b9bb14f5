package piece

// Color is an opaque 24-bit RGB value carried by pieces and settled cells.
// Renderers map it to their own color model.
type Color struct {
	R, G, B uint8
}

// Base colors for the catalog.
var (
	Red     = Color{R: 255, G: 0, B: 0}
	Green   = Color{R: 0, G: 255, B: 0}
	Violet  = Color{R: 128, G: 77, B: 255}
	Yellow  = Color{R: 255, G: 255, B: 0}
	Cyan    = Color{R: 0, G: 255, B: 255}
	Magenta = Color{R: 255, G: 0, B: 255}
	Orange  = Color{R: 255, G: 128, B: 0}
)
