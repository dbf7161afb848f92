// math/core.go
// Copyright(c) 2025 flightsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	gomath "math"

	"golang.org/x/exp/constraints"
)

// FeetPerUnit converts simulation distance units to feet for the
// altimeter.
const FeetPerUnit = 3.28

// Degrees converts an angle expressed in radians to degrees
func Degrees(r float64) float64 {
	return r * 180 / gomath.Pi
}

// Radians converts an angle expressed in degrees to radians
func Radians(d float64) float64 {
	return d / 180 * gomath.Pi
}

func Abs[V constraints.Integer | constraints.Float](x V) V {
	if x < 0 {
		return -x
	}
	return x
}

func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}

func Sqr[V constraints.Integer | constraints.Float](v V) V { return v * v }

func Clamp[T constraints.Ordered](x T, low T, high T) T {
	if x < low {
		return low
	} else if x > high {
		return high
	}
	return x
}

// ClampSym clamps x to [-limit, limit].
func ClampSym[V constraints.Float](x V, limit V) V {
	return Clamp(x, -limit, limit)
}

func Lerp(x, a, b float64) float64 {
	return (1-x)*a + x*b
}

// Mean returns the equal-weight blend of a and b.
func Mean[V constraints.Float](a, b V) V {
	return (a + b) / 2
}

// IsFinite reports whether none of the given values is NaN or infinite.
func IsFinite(v ...float64) bool {
	for _, f := range v {
		if gomath.IsNaN(f) || gomath.IsInf(f, 0) {
			return false
		}
	}
	return true
}

func FeetToUnits(ft float64) float64 {
	return ft / FeetPerUnit
}

func UnitsToFeet(u float64) float64 {
	return u * FeetPerUnit
}
