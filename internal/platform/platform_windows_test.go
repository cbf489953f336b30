//go:build windows

package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stigoleg/keep-moving/internal/motion"
)

func TestWindowsCursorSetThenGet(t *testing.T) {
	if !CheckCapability().CanMove {
		t.Skip("no interactive desktop")
	}
	c, err := New()
	require.NoError(t, err)

	w, h, err := c.ScreenSize()
	require.NoError(t, err)

	orig, err := c.Position()
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.SetPosition(orig) })

	target := motion.Point{X: w / 3, Y: h / 3}
	require.NoError(t, c.SetPosition(target))

	got, err := c.Position()
	require.NoError(t, err)
	assert.InDelta(t, target.X, got.X, 1)
	assert.InDelta(t, target.Y, got.Y, 1)
}
