package model

import "math"

type Vec3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

func V3(x, y, z float64) Vec3 {
	return Vec3{x, y, z}
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) Len() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalize returns the zero vector for a zero-length input.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Quat is a rotation quaternion, W is the scalar part.
// The zero value is treated as identity.
type Quat struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
	W float64 `json:"w" yaml:"w"`
}

func IdentityQuat() Quat {
	return Quat{W: 1}
}

// QuatFromYaw rotates about +Y.
func QuatFromYaw(yaw float64) Quat {
	s, c := math.Sincos(yaw / 2)
	return Quat{Y: s, W: c}
}

// QuatFromYawPitch applies pitch (about +X) first, then yaw.
func QuatFromYawPitch(yaw, pitch float64) Quat {
	return QuatFromYaw(yaw).Mul(Quat{X: math.Sin(pitch / 2), W: math.Cos(pitch / 2)})
}

func (q Quat) isZero() bool {
	return q.X == 0 && q.Y == 0 && q.Z == 0 && q.W == 0
}

func (q Quat) Mul(o Quat) Quat {
	if q.isZero() {
		q = IdentityQuat()
	}
	if o.isZero() {
		o = IdentityQuat()
	}
	return Quat{
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
	}
}

// Rotate applies q to v. q is expected to be unit length.
func (q Quat) Rotate(v Vec3) Vec3 {
	if q.isZero() {
		return v
	}
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// Yaw extracts the heading about +Y, in the same convention as QuatFromYaw.
func (q Quat) Yaw() float64 {
	f := q.Rotate(Vec3{Z: -1})
	if f.X == 0 && f.Z == 0 {
		return 0
	}
	return math.Atan2(-f.X, -f.Z)
}

type Pose struct {
	Position    Vec3 `json:"position"`
	Orientation Quat `json:"orientation"`
}

// Ray direction is unit length when built through NewRay.
type Ray struct {
	Origin    Vec3 `json:"origin"`
	Direction Vec3 `json:"direction"`
}

func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}
