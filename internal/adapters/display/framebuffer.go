// Package display provides a character-cell status display.
//
// The framebuffer mimics a small monochrome panel: text is placed at pixel
// coordinates, snapped to the font grid, and the whole frame is written to
// an io.Writer on Finalize.
package display

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/bft-labs/modemprov/internal/domain"
)

// DefaultGeometry matches a 128x64 panel with an 8x8 font.
var DefaultGeometry = domain.Geometry{
	Width:         128,
	Height:        64,
	Rows:          8,
	Cols:          16,
	PixelsPerTile: 8,
	FontWidth:     8,
	FontHeight:    8,
}

// ErrNotInitialized is returned by drawing calls made before Init.
var ErrNotInitialized = errors.New("display not initialized")

// Framebuffer implements ports.StatusSink.
type Framebuffer struct {
	out io.Writer
	geo domain.Geometry

	mu       sync.Mutex
	ready    bool
	inverted bool
	cells    [][]rune
	frames   int
}

// NewFramebuffer creates a framebuffer that writes frames to out.
// A zero geometry selects DefaultGeometry.
func NewFramebuffer(out io.Writer, geo domain.Geometry) *Framebuffer {
	if geo == (domain.Geometry{}) {
		geo = DefaultGeometry
	}
	return &Framebuffer{out: out, geo: geo}
}

// Init allocates the cell buffer and returns the panel geometry.
func (f *Framebuffer) Init() (domain.Geometry, error) {
	if f.out == nil {
		return domain.Geometry{}, errors.New("display: no output")
	}
	if f.geo.FontWidth <= 0 || f.geo.FontHeight <= 0 || f.geo.Rows <= 0 || f.geo.Cols <= 0 {
		return domain.Geometry{}, fmt.Errorf("display: invalid geometry %+v", f.geo)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.cells = make([][]rune, f.geo.Rows)
	for i := range f.cells {
		f.cells[i] = []rune(strings.Repeat(" ", f.geo.Cols))
	}
	f.ready = true
	return f.geo, nil
}

// Clear blanks every cell. invert selects light-on-dark rendering.
func (f *Framebuffer) Clear(invert bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.ready {
		return ErrNotInitialized
	}
	for _, row := range f.cells {
		for i := range row {
			row[i] = ' '
		}
	}
	f.inverted = invert
	return nil
}

// DrawText places text at pixel position (x, y). Text past the right edge is
// clipped; an origin outside the panel is an error.
func (f *Framebuffer) DrawText(text string, x, y int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.ready {
		return ErrNotInitialized
	}

	col := x / f.geo.FontWidth
	row := y / f.geo.FontHeight
	if x < 0 || y < 0 || col >= f.geo.Cols || row >= f.geo.Rows {
		return fmt.Errorf("display: position (%d,%d) outside %dx%d", x, y, f.geo.Width, f.geo.Height)
	}

	line := f.cells[row]
	for _, r := range text {
		if col >= len(line) {
			break
		}
		line[col] = r
		col++
	}
	return nil
}

// Finalize writes the current frame to the output.
func (f *Framebuffer) Finalize() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.ready {
		return ErrNotInitialized
	}

	border := "+" + strings.Repeat("-", f.geo.Cols) + "+\n"
	var b strings.Builder
	b.WriteString(border)
	for _, row := range f.cells {
		b.WriteByte('|')
		b.WriteString(string(row))
		b.WriteString("|\n")
	}
	b.WriteString(border)

	if _, err := io.WriteString(f.out, b.String()); err != nil {
		return fmt.Errorf("display: write frame: %w", err)
	}
	f.frames++
	return nil
}

// Line returns the text of row i, for inspection.
func (f *Framebuffer) Line(i int) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	if i < 0 || i >= len(f.cells) {
		return ""
	}
	return string(f.cells[i])
}

// Frames returns the number of frames written.
func (f *Framebuffer) Frames() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.frames
}

// Inverted reports the mode selected by the last Clear.
func (f *Framebuffer) Inverted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inverted
}
