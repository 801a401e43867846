package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinLevelsAreValid(t *testing.T) {
	for _, l := range BuiltinLevels {
		l := l.WithDefaults()
		t.Run(l.Name, func(t *testing.T) {
			g, err := l.Grid()
			require.NoError(t, err)
			assert.True(t, g.HasClosedBorder())
			for _, k := range l.Keys {
				assert.False(t, insideWall(g, k, l.CellSize), "key %v inside a wall", k)
			}
			assert.False(t, insideWall(g, l.Spawn, l.CellSize))
		})
	}
}

func TestBuiltinLevelDefaults(t *testing.T) {
	l, ok := BuiltinLevel("classic")
	require.True(t, ok)
	assert.Equal(t, 3, l.KeyCount)
	assert.Equal(t, DefaultCellSize, l.CellSize)

	l, ok = BuiltinLevel("extended-10")
	require.True(t, ok)
	assert.Equal(t, 10, l.KeyCount)
	assert.Len(t, l.Keys, 8)

	_, ok = BuiltinLevel("nope")
	assert.False(t, ok)
}

func TestMergeIntents(t *testing.T) {
	kb := MovementIntent{Forward: true}
	pad := MovementIntent{Forward: true, StrafeLeft: true}
	got := MergeIntents(kb, pad, MovementIntent{})
	assert.Equal(t, MovementIntent{Forward: true, StrafeLeft: true}, got)
	assert.True(t, MergeIntents().IsZero())
}

func TestQuatRotate(t *testing.T) {
	q := QuatFromYaw(0.7)
	f := q.Rotate(Vec3{Z: -1})
	assert.InDelta(t, 1, f.Len(), 1e-9)
	assert.InDelta(t, 0.7, q.Yaw(), 1e-9)

	var zero Quat
	assert.Equal(t, Vec3{1, 2, 3}, zero.Rotate(Vec3{1, 2, 3}))
}

// insideWall is strict: a point on a wall face does not count.
func insideWall(g *MazeGrid, p Vec3, cellSize float64) bool {
	for _, w := range g.WallPositions(cellSize) {
		if math.Abs(p.X-w.X) < cellSize/2 && math.Abs(p.Z-w.Z) < cellSize/2 {
			return true
		}
	}
	return false
}
