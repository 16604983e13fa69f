package ports

import "github.com/bft-labs/modemprov/internal/domain"

// StatusSink renders short status strings at fixed screen positions.
// Callers serialize draw-then-finalize sequences; implementations must still
// be safe for concurrent use.
type StatusSink interface {
	// Init prepares the display and returns its geometry.
	Init() (domain.Geometry, error)

	// Clear blanks the frame buffer. invert selects the inverted background.
	Clear(invert bool) error

	// DrawText writes text with its top-left corner at pixel (x, y).
	DrawText(text string, x, y int) error

	// Finalize flushes the frame buffer to the display.
	Finalize() error
}
