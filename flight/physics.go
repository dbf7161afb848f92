// flight/physics.go
// Copyright(c) 2025 flightsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package flight

import (
	"github.com/aiflightsim/flightsim/math"
)

const (
	// StepsPerTick is the number of unit integration steps taken per
	// simulation tick. Velocities are expressed in units per step, so the
	// physics does not depend on the front end's frame rate.
	StepsPerTick = 1

	// TickRate is the number of simulation ticks per second of wall-clock
	// time.
	TickRate = 60

	// MaxPitch bounds the pitch angle reported by Attitude.
	MaxPitch = 0.52
)

// Physics collects the constants of the simplified flight model. All
// rates are per integration step.
type Physics struct {
	SpeedFactor     float64 `yaml:"speed_factor" json:"speed_factor"`
	Gravity         float64 `yaml:"gravity" json:"gravity"`
	Drag            float64 `yaml:"drag" json:"drag"`
	LiftPower       float64 `yaml:"lift_power" json:"lift_power"`
	MinTakeoffSpeed float64 `yaml:"min_takeoff_speed" json:"min_takeoff_speed"`
	MinPitch        float64 `yaml:"min_pitch" json:"min_pitch"`
	GroundLevel     float64 `yaml:"ground_level" json:"ground_level"`
	Ceiling         float64 `yaml:"ceiling" json:"ceiling"`

	// Used only by the arcade model: vertical speed is proportional to
	// the throttle's excess over HoverThrottle.
	HoverThrottle float64 `yaml:"hover_throttle" json:"hover_throttle"`
	ClimbRate     float64 `yaml:"climb_rate" json:"climb_rate"`
}

func DefaultPhysics() Physics {
	return Physics{
		SpeedFactor:     1.5,
		Gravity:         -0.012,
		Drag:            0.995,
		LiftPower:       0.08,
		MinTakeoffSpeed: 0.12,
		MinPitch:        0.01,
		GroundLevel:     0.25,
		Ceiling:         200,
	}
}

func ArcadePhysics() Physics {
	p := DefaultPhysics()
	p.SpeedFactor = 0.5
	p.HoverThrottle = 0.5
	p.ClimbRate = 0.2
	return p
}

func (p Physics) Validate() error {
	if !math.IsFinite(p.SpeedFactor, p.Gravity, p.Drag, p.LiftPower, p.MinTakeoffSpeed,
		p.MinPitch, p.GroundLevel, p.Ceiling, p.HoverThrottle, p.ClimbRate) {
		return ErrInvalidPhysics
	}
	if p.GroundLevel >= p.Ceiling {
		return ErrInvalidEnvelope
	}
	return nil
}

// Lift returns the vertical lift produced at the given horizontal speed
// and pitch. Negative pitch is nose-up; no lift is produced below the
// minimum takeoff speed or without sufficient nose-up pitch.
func (p Physics) Lift(speed, pitch float64) float64 {
	if speed > p.MinTakeoffSpeed && pitch < -p.MinPitch {
		return p.LiftPower * speed * -pitch
	}
	return 0
}
