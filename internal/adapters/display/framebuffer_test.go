package display

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/modemprov/internal/domain"
)

func TestFramebuffer_InitDefaults(t *testing.T) {
	fb := NewFramebuffer(&bytes.Buffer{}, domain.Geometry{})

	geo, err := fb.Init()

	require.NoError(t, err)
	assert.Equal(t, DefaultGeometry, geo)
	assert.Equal(t, strings.Repeat(" ", 16), fb.Line(0))
}

func TestFramebuffer_InitErrors(t *testing.T) {
	_, err := NewFramebuffer(nil, domain.Geometry{}).Init()
	assert.Error(t, err)

	_, err = NewFramebuffer(&bytes.Buffer{}, domain.Geometry{Width: 10}).Init()
	assert.Error(t, err)
}

func TestFramebuffer_DrawBeforeInit(t *testing.T) {
	fb := NewFramebuffer(&bytes.Buffer{}, domain.Geometry{})

	assert.ErrorIs(t, fb.Clear(false), ErrNotInitialized)
	assert.ErrorIs(t, fb.DrawText("x", 0, 0), ErrNotInitialized)
	assert.ErrorIs(t, fb.Finalize(), ErrNotInitialized)
}

func TestFramebuffer_DrawSnapsToGrid(t *testing.T) {
	fb := NewFramebuffer(&bytes.Buffer{}, domain.Geometry{})
	_, err := fb.Init()
	require.NoError(t, err)

	require.NoError(t, fb.DrawText("Nordic", 40, 1))
	require.NoError(t, fb.DrawText("RRC Idle", 20, 40))

	assert.Equal(t, "     Nordic     ", fb.Line(0))
	assert.Equal(t, "  RRC Idle      ", fb.Line(5))
}

func TestFramebuffer_OverdrawBlanksPreviousText(t *testing.T) {
	fb := NewFramebuffer(&bytes.Buffer{}, domain.Geometry{})
	_, err := fb.Init()
	require.NoError(t, err)

	require.NoError(t, fb.DrawText("RRC Connected", 20, 40))
	require.NoError(t, fb.DrawText("              ", 20, 40))
	require.NoError(t, fb.DrawText("RRC Idle", 20, 40))

	assert.Equal(t, "  RRC Idle      ", fb.Line(5))
}

func TestFramebuffer_ClipsAndRejects(t *testing.T) {
	fb := NewFramebuffer(&bytes.Buffer{}, domain.Geometry{})
	_, err := fb.Init()
	require.NoError(t, err)

	require.NoError(t, fb.DrawText("EMEA FAE Workshop", 12, 20))
	assert.Equal(t, " EMEA FAE Works", fb.Line(2)[:15])
	assert.Len(t, []rune(fb.Line(2)), 16)

	assert.Error(t, fb.DrawText("x", 128, 0))
	assert.Error(t, fb.DrawText("x", 0, 64))
	assert.Error(t, fb.DrawText("x", -1, 0))
}

func TestFramebuffer_ClearAndFinalize(t *testing.T) {
	var out bytes.Buffer
	fb := NewFramebuffer(&out, domain.Geometry{})
	_, err := fb.Init()
	require.NoError(t, err)

	require.NoError(t, fb.DrawText("Nordic", 40, 1))
	require.NoError(t, fb.Clear(true))
	assert.True(t, fb.Inverted())
	assert.Equal(t, strings.Repeat(" ", 16), fb.Line(0))

	require.NoError(t, fb.DrawText("Nordic", 40, 1))
	require.NoError(t, fb.Finalize())

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 10)
	assert.Equal(t, "+----------------+", lines[0])
	assert.Equal(t, "|     Nordic     |", lines[1])
	assert.Equal(t, 1, fb.Frames())
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("panel detached") }

func TestFramebuffer_FinalizeWriteError(t *testing.T) {
	fb := NewFramebuffer(brokenWriter{}, domain.Geometry{})
	_, err := fb.Init()
	require.NoError(t, err)

	assert.Error(t, fb.Finalize())
	assert.Zero(t, fb.Frames())
}
