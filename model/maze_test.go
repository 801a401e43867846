package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sixBySix(t *testing.T) *MazeGrid {
	g, err := NewMazeGrid([][]int{
		{1, 1, 1, 1, 1, 1},
		{1, 0, 0, 0, 0, 1},
		{1, 0, 1, 1, 0, 1},
		{1, 0, 0, 1, 0, 1},
		{1, 1, 0, 0, 0, 1},
		{1, 1, 1, 1, 1, 1},
	})
	require.NoError(t, err)
	return g
}

func TestIsWallOutOfBounds(t *testing.T) {
	g := sixBySix(t)
	for _, c := range []Cell{{-1, 0}, {0, -1}, {6, 0}, {0, 6}, {-5, -5}, {100, 3}} {
		assert.True(t, g.IsWall(c.X, c.Z), "cell %v", c)
	}
	assert.False(t, g.IsWall(1, 1))
	assert.True(t, g.IsWall(2, 2))
}

func TestCellToWorldMatchesClassicPlacement(t *testing.T) {
	g := sixBySix(t)
	for z := 0; z < 6; z++ {
		for x := 0; x < 6; x++ {
			p := g.CellToWorld(x, z, 2)
			assert.InDelta(t, float64(x*2-5), p.X, 1e-9)
			assert.InDelta(t, 1.0, p.Y, 1e-9)
			assert.InDelta(t, float64(z*2-5), p.Z, 1e-9)
		}
	}
}

func TestCellToWorldCentred(t *testing.T) {
	g, err := ParseLayout([]string{"#####", "#...#", "#####"})
	require.NoError(t, err)

	first := g.CellToWorld(0, 0, 3)
	last := g.CellToWorld(g.Width()-1, g.Height()-1, 3)
	assert.InDelta(t, 0, first.X+last.X, 1e-9)
	assert.InDelta(t, 0, first.Z+last.Z, 1e-9)

	x, z := g.WorldToCell(g.CellToWorld(3, 1, 3), 3)
	assert.Equal(t, 3, x)
	assert.Equal(t, 1, z)
}

func TestParseLayoutErrors(t *testing.T) {
	_, err := ParseLayout(nil)
	assert.True(t, errors.Is(err, ErrEmptyLayout))

	_, err = ParseLayout([]string{"###", "#.", "###"})
	assert.True(t, errors.Is(err, ErrRaggedLayout))

	_, err = ParseLayout([]string{"#x#"})
	assert.Error(t, err)
}

func TestWallPositionsAndBorder(t *testing.T) {
	g := sixBySix(t)
	walls := g.WallPositions(2)
	assert.Len(t, walls, 24)
	assert.Equal(t, Vec3{-5, 1, -5}, walls[0])
	assert.True(t, g.HasClosedBorder())

	open, err := ParseLayout([]string{"#.#", "#.#", "###"})
	require.NoError(t, err)
	assert.False(t, open.HasClosedBorder())
}

func TestExtent(t *testing.T) {
	g := sixBySix(t)
	e := g.Extent(2)
	assert.Equal(t, Extent{MinX: -6, MaxX: 6, MinZ: -6, MaxZ: 6}, e)
	assert.True(t, e.Contains(0, 0))
	assert.False(t, e.Contains(6.5, 0))
}

func TestLinesRoundTrip(t *testing.T) {
	g := sixBySix(t)
	again, err := ParseLayout(g.Lines())
	require.NoError(t, err)
	assert.Equal(t, g, again)
}
