// flight/body.go
// Copyright(c) 2025 flightsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package flight

import (
	"log/slog"

	"github.com/aiflightsim/flightsim/math"

	"github.com/go-gl/mathgl/mgl64"
)

// Body is the simulated rigid body. Position and Velocity are in world
// units; Velocity is per integration step.
type Body struct {
	Position    mgl64.Vec3
	Velocity    mgl64.Vec3
	Orientation mgl64.Quat
	Grounded    bool
}

// Deltas are one tick's worth of incremental rotations, in radians.
type Deltas struct {
	Pitch, Roll, Yaw float64
}

func (d Deltas) Add(o Deltas) Deltas {
	return Deltas{Pitch: d.Pitch + o.Pitch, Roll: d.Roll + o.Roll, Yaw: d.Yaw + o.Yaw}
}

func NewBody(pos mgl64.Vec3) Body {
	return Body{
		Position:    pos,
		Orientation: mgl64.QuatIdent(),
	}
}

func (b *Body) Altitude() float64 {
	return b.Position[1]
}

// Heading returns the direction the nose points in.
func (b *Body) Heading() mgl64.Vec3 {
	return b.Orientation.Rotate(math.Forward)
}

// Advance performs one unit integration step at the given throttle
// setting and returns the lift that was applied.
func (b *Body) Advance(throttle float64, p Physics) float64 {
	forward := b.Heading()
	speed := throttle * p.SpeedFactor

	// Horizontal velocity follows the throttle directly; there is no
	// horizontal momentum.
	b.Velocity[0] = forward[0] * speed
	b.Velocity[2] = forward[2] * speed

	e := math.EulerYXZ(b.Orientation)
	lift := p.Lift(speed, e.Pitch)

	b.Velocity[1] += lift + p.Gravity
	b.Velocity[1] *= p.Drag

	b.Position = b.Position.Add(b.Velocity)
	b.clampEnvelope(p)

	return lift
}

// AdvanceArcade performs one integration step of the simplified hover
// model: tilt drives horizontal motion and throttle above or below the
// hover setting drives vertical motion.
func (b *Body) AdvanceArcade(throttle float64, p Physics) {
	e := math.EulerYXZ(b.Orientation)
	yaw := mgl64.QuatRotate(e.Yaw, math.AxisYaw)
	forward := yaw.Rotate(math.Forward)
	right := yaw.Rotate(math.AxisPitch)

	// Negative pitch moves the body forward, negative roll to the right.
	h := forward.Mul(-e.Pitch * p.SpeedFactor).Add(right.Mul(-e.Roll * p.SpeedFactor))
	b.Velocity[0] = h[0]
	b.Velocity[2] = h[2]
	b.Velocity[1] = (throttle - p.HoverThrottle) * p.ClimbRate

	b.Position = b.Position.Add(b.Velocity)
	b.clampEnvelope(p)
}

func (b *Body) clampEnvelope(p Physics) {
	if b.Position[1] > p.Ceiling {
		b.Position[1] = p.Ceiling
		b.Velocity[1] = math.Min(0, b.Velocity[1])
	}

	if b.Position[1] <= p.GroundLevel && b.Velocity[1] <= 0 {
		b.Position[1] = p.GroundLevel
		b.Velocity[1] = 0
		b.Grounded = true
	} else {
		b.Grounded = false
	}
}

// Rotate applies the deltas as body-local rotations, yaw first, then
// pitch, then roll.
func (b *Body) Rotate(d Deltas) {
	q := b.Orientation
	q = q.Mul(mgl64.QuatRotate(d.Yaw, math.AxisYaw))
	q = q.Mul(mgl64.QuatRotate(d.Pitch, math.AxisPitch))
	q = q.Mul(mgl64.QuatRotate(d.Roll, math.AxisRoll))
	b.Orientation = q.Normalize()
}

// Attitude returns the body's Euler angles with pitch limited to
// ±MaxPitch, suitable as controller feedback.
func (b *Body) Attitude() math.Euler {
	e := math.EulerYXZ(b.Orientation)
	e.Pitch = math.ClampSym(e.Pitch, MaxPitch)
	return e
}

func (b Body) LogValue() slog.Value {
	e := math.EulerYXZ(b.Orientation)
	return slog.GroupValue(
		slog.Any("position", b.Position),
		slog.Any("velocity", b.Velocity),
		slog.Float64("pitch", e.Pitch),
		slog.Float64("yaw", e.Yaw),
		slog.Float64("roll", e.Roll),
		slog.Bool("grounded", b.Grounded))
}
