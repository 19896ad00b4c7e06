package geometry

import "math"

// Quaternion represents a rotation
type Quaternion struct {
	X, Y, Z, W float64
}

// IdentityQuaternion returns the rotation that leaves vectors unchanged
func IdentityQuaternion() Quaternion {
	return Quaternion{W: 1}
}

// Length returns the norm of the quaternion
func (q Quaternion) Length() float64 {
	return math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
}

// Normalize returns a unit quaternion; a zero quaternion becomes the identity
func (q Quaternion) Normalize() Quaternion {
	length := q.Length()
	if length == 0 {
		return IdentityQuaternion()
	}
	return Quaternion{X: q.X / length, Y: q.Y / length, Z: q.Z / length, W: q.W / length}
}

// Rotate applies the rotation to v
func (q Quaternion) Rotate(v Vector3) Vector3 {
	u := Vector3{X: q.X, Y: q.Y, Z: q.Z}
	s := q.W

	// v' = 2(u.v)u + (s^2 - u.u)v + 2s(u x v)
	return u.Mul(2 * u.Dot(v)).
		Add(v.Mul(s*s - u.Dot(u))).
		Add(u.Cross(v).Mul(2 * s))
}
