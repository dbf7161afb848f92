// math/orient.go
// Copyright(c) 2025 flightsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	// Body axes: X is the pitch axis, Y the yaw axis and Z the roll axis.
	// The nose points down -Z.
	AxisPitch = mgl64.Vec3{1, 0, 0}
	AxisYaw   = mgl64.Vec3{0, 1, 0}
	AxisRoll  = mgl64.Vec3{0, 0, 1}
	Forward   = mgl64.Vec3{0, 0, -1}
)

// Euler holds intrinsic Y-X-Z angles in radians: yaw about Y is applied
// first, then pitch about X, then roll about Z.
type Euler struct {
	Pitch, Yaw, Roll float64
}

// EulerYXZ decomposes a unit quaternion into yaw, pitch and roll using
// the Y-X-Z order. Near pitch = ±π/2 roll is folded into yaw.
func EulerYXZ(q mgl64.Quat) Euler {
	m := q.Normalize().Mat4()
	m13, m21, m22, m23 := m.At(0, 2), m.At(1, 0), m.At(1, 1), m.At(1, 2)
	m11, m31, m33 := m.At(0, 0), m.At(2, 0), m.At(2, 2)

	var e Euler
	e.Pitch = gomath.Asin(-Clamp(m23, -1, 1))
	if Abs(m23) < 0.9999999 {
		e.Yaw = gomath.Atan2(m13, m33)
		e.Roll = gomath.Atan2(m21, m22)
	} else {
		e.Yaw = gomath.Atan2(-m31, m11)
	}
	return e
}

// QuatFromEuler is the inverse of EulerYXZ.
func QuatFromEuler(e Euler) mgl64.Quat {
	return mgl64.QuatRotate(e.Yaw, AxisYaw).
		Mul(mgl64.QuatRotate(e.Pitch, AxisPitch)).
		Mul(mgl64.QuatRotate(e.Roll, AxisRoll))
}

// HorizontalDistance returns the distance between a and b projected onto
// the ground (X-Z) plane.
func HorizontalDistance(a, b mgl64.Vec3) float64 {
	return gomath.Sqrt(Sqr(a[0]-b[0]) + Sqr(a[2]-b[2]))
}
