package game

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zucenko/mazekeys/model"
)

func TestRaySphere(t *testing.T) {
	r := model.NewRay(model.Vec3{}, model.Vec3{Z: -1})

	d, ok := RaySphere(r, model.Vec3{Z: -5}, 1)
	require.True(t, ok)
	assert.InDelta(t, 4, d, 1e-9)

	_, ok = RaySphere(r, model.Vec3{Z: 5}, 1)
	assert.False(t, ok, "behind the origin")

	_, ok = RaySphere(r, model.Vec3{X: 2, Z: -5}, 1)
	assert.False(t, ok)

	d, ok = RaySphere(r, model.Vec3{}, 1)
	require.True(t, ok)
	assert.InDelta(t, 1, d, 1e-9)

	_, ok = RaySphere(model.Ray{}, model.Vec3{}, 1)
	assert.False(t, ok)
}

func line(zs ...int) []model.Vec3 {
	out := make([]model.Vec3, len(zs))
	for i, z := range zs {
		out[i] = model.Vec3{Z: float64(z)}
	}
	return out
}

func TestPickNearestUncollected(t *testing.T) {
	reg := model.SpawnAll(line(-10, -4, -7), 3, model.Extent{}, 0, nil)
	r := model.NewRay(model.Vec3{}, model.Vec3{Z: -1})
	res := Resolver{Radius: 0.3}

	id, ok := res.Pick(r, reg)
	require.True(t, ok)
	assert.Equal(t, 1, id)

	reg.MarkCollected(1)
	id, ok = res.Pick(r, reg)
	require.True(t, ok)
	assert.Equal(t, 2, id, "collected keys are not candidates")

	reg.MarkCollected(2)
	reg.MarkCollected(0)
	_, ok = res.Pick(r, reg)
	assert.False(t, ok)
}

func TestPickTieGoesToLowerID(t *testing.T) {
	reg := model.SpawnAll(line(-5, -5), 2, model.Extent{}, 0, nil)
	id, ok := Resolver{Radius: 0.3}.Pick(model.NewRay(model.Vec3{}, model.Vec3{Z: -1}), reg)
	require.True(t, ok)
	assert.Equal(t, 0, id)
}

func TestPointerRayCentre(t *testing.T) {
	r := PointerRay(model.Vec3{Y: 1.6}, math.Pi/2, 0, DefaultConfig().FovY, 16.0/9, 0, 0)
	assert.InDelta(t, -1, r.Direction.X, 1e-9)
	assert.InDelta(t, 0, r.Direction.Y, 1e-9)
	assert.InDelta(t, 0, r.Direction.Z, 1e-9)

	up := PointerRay(model.Vec3{}, 0, 0, math.Pi/2, 1, 0, 1)
	assert.InDelta(t, math.Sqrt2/2, up.Direction.Y, 1e-9)
	assert.InDelta(t, -math.Sqrt2/2, up.Direction.Z, 1e-9)
}

func TestOverheadAndControllerRays(t *testing.T) {
	reg := model.SpawnAll([]model.Vec3{{X: 3, Y: 1.5, Z: 0}}, 1, model.Extent{}, 0, nil)
	res := Resolver{Radius: 0.3}

	_, ok := res.Pick(OverheadRay(3.1, -0.1, 10), reg)
	assert.True(t, ok)
	_, ok = res.Pick(OverheadRay(3.5, 0, 10), reg)
	assert.False(t, ok)

	pose := model.Pose{Position: model.Vec3{Y: 1.5}, Orientation: model.QuatFromYaw(-math.Pi / 2)}
	_, ok = res.Pick(ControllerRay(pose), reg)
	assert.True(t, ok)
}
