package game

import (
	"math"

	"github.com/zucenko/mazekeys/model"
)

// RaySphere returns the nearest non-negative distance along r at which it
// meets the sphere. An origin inside the sphere hits on the way out.
func RaySphere(r model.Ray, center model.Vec3, radius float64) (float64, bool) {
	a := r.Direction.Dot(r.Direction)
	if a == 0 {
		return 0, false
	}
	oc := r.Origin.Sub(center)
	b := oc.Dot(r.Direction)
	c := oc.Dot(oc) - radius*radius
	disc := b*b - a*c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t := (-b - sq) / a
	if t < 0 {
		t = (-b + sq) / a
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

type Resolver struct {
	Radius float64
}

// Pick returns the uncollected key nearest along r. Collected keys are not
// candidates at all, whatever their old position. Equal distances go to the
// lower id.
func (p Resolver) Pick(r model.Ray, reg *model.Registry) (int, bool) {
	best, bestT := -1, math.Inf(1)
	for _, c := range reg.Uncollected() {
		t, ok := RaySphere(r, c.Position, p.Radius)
		if ok && t < bestT {
			best, bestT = c.ID, t
		}
	}
	return best, best >= 0
}

// PointerRay unprojects a pointer in normalised device coordinates
// (-1..1, y up) through a perspective camera at eye.
func PointerRay(eye model.Vec3, yaw, pitch, fovY, aspect, ndcX, ndcY float64) model.Ray {
	if aspect <= 0 {
		aspect = 1
	}
	h := math.Tan(fovY / 2)
	local := model.Vec3{X: ndcX * h * aspect, Y: ndcY * h, Z: -1}
	return model.NewRay(eye, model.QuatFromYawPitch(yaw, pitch).Rotate(local))
}

// OverheadRay looks straight down at a world point, for top-down views.
func OverheadRay(x, z, height float64) model.Ray {
	return model.Ray{Origin: model.Vec3{X: x, Y: height, Z: z}, Direction: model.Vec3{Y: -1}}
}

// ControllerRay points along the controller's -Z.
func ControllerRay(pose model.Pose) model.Ray {
	return model.NewRay(pose.Position, pose.Orientation.Rotate(model.Vec3{Z: -1}))
}
