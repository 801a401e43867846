package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMazeDeterministic(t *testing.T) {
	cfg := GenerateConfig{Width: 15, Height: 11, Braiding: 0.3, Seed: 7}
	a := GenerateMaze(cfg)
	b := GenerateMaze(cfg)
	assert.Equal(t, a.Lines(), b.Lines())
	assert.Equal(t, 15, a.Width())
	assert.Equal(t, 11, a.Height())
	assert.True(t, a.HasClosedBorder())
}

func TestGenerateMazeRoundsToOdd(t *testing.T) {
	g := GenerateMaze(GenerateConfig{Width: 8, Height: 2, Seed: 1})
	assert.Equal(t, 7, g.Width())
	assert.Equal(t, 5, g.Height())
}

func TestGenerateMazeConnected(t *testing.T) {
	g := GenerateMaze(GenerateConfig{Width: 21, Height: 21, Seed: 3})
	floor := g.FloorCells()
	require.NotEmpty(t, floor)

	seen := map[Cell]bool{floor[0]: true}
	queue := []Cell{floor[0]}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, d := range steps {
			n := Cell{c.X + d.X, c.Z + d.Z}
			if !g.IsWall(n.X, n.Z) && !seen[n] {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}
	assert.Len(t, seen, len(floor))
}

func TestGeneratedLevelPlacesKeysOnFloor(t *testing.T) {
	l := GeneratedLevel(GenerateConfig{Width: 11, Height: 11, Seed: 5}, 6)
	g, err := l.Grid()
	require.NoError(t, err)

	assert.Equal(t, 6, l.KeyCount)
	require.Len(t, l.Keys, 6)
	for _, k := range l.Keys {
		x, z := g.WorldToCell(k, l.CellSize)
		assert.False(t, g.IsWall(x, z), "key %v on wall", k)
		assert.Equal(t, DefaultKeyHeight, k.Y)
	}
	sx, sz := g.WorldToCell(l.Spawn, l.CellSize)
	assert.False(t, g.IsWall(sx, sz))
}
