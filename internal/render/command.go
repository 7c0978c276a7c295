// Package render defines the drawing command types emitted by the engine
// once per rendered frame. Commands are the sole channel to the platform
// renderer; the engine never touches pixels directly.
package render

// Color is an RGBA color with 8 bits per channel.
type Color struct {
	R, G, B, A uint8
}

// Predefined colors for common playfield elements.
var (
	ColorBlack  = Color{0, 0, 0, 255}
	ColorWhite  = Color{255, 255, 255, 255}
	ColorRed    = Color{220, 60, 60, 255}
	ColorGreen  = Color{60, 200, 90, 255}
	ColorYellow = Color{230, 200, 60, 255}
	ColorGray   = Color{128, 128, 128, 255}
)

// Command is a tagged drawing instruction. The concrete types below are the
// full closed set understood by the platform renderer.
type Command interface {
	cmd()
}

// Clear fills the whole frame with a color. Always the first command of a
// frame when present.
type Clear struct {
	Color Color
}

// Rect draws an axis-aligned filled rectangle.
type Rect struct {
	X, Y, W, H float64
	Color      Color
}

// Circle draws a filled circle centered at (X, Y).
type Circle struct {
	X, Y, R float64
	Color   Color
}

// Text draws a string anchored at (X, Y).
type Text struct {
	X, Y  float64
	S     string
	Size  float64
	Color Color
}

func (Clear) cmd()  {}
func (Rect) cmd()   {}
func (Circle) cmd() {}
func (Text) cmd()   {}

// Frame is an ordered, finite command sequence for a single rendered frame.
type Frame []Command
