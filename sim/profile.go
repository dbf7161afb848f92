// sim/profile.go
// Copyright(c) 2025 flightsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"github.com/aiflightsim/flightsim/advisory"
	"github.com/aiflightsim/flightsim/flight"
	"github.com/aiflightsim/flightsim/math"

	"github.com/go-gl/mathgl/mgl64"
)

// Profile holds the vehicle-specific constants used by the control loop.
// Altitudes are in simulation units; durations are in ticks.
type Profile struct {
	Kind    VehicleKind    `yaml:"-"`
	Physics flight.Physics `yaml:"physics"`

	PitchPID    flight.PIDConfig `yaml:"pitch_pid"`
	RollPID     flight.PIDConfig `yaml:"roll_pid"`
	YawPID      flight.PIDConfig `yaml:"yaw_pid"`
	ThrottlePID flight.PIDConfig `yaml:"throttle_pid"`

	Limits advisory.Limits `yaml:"advisory_limits"`

	InitialPosition mgl64.Vec3 `yaml:"initial_position"`
	CruisePitch     float64    `yaml:"cruise_pitch"`
	MinSafeAltitude float64    `yaml:"min_safe_altitude"`

	// In pid and auto modes the pitch target is offset by
	// AltitudeHoldGain per unit of altitude error, less ClimbRateGain per
	// unit of vertical speed.
	AltitudeHoldGain float64 `yaml:"altitude_hold_gain"`
	ClimbRateGain    float64 `yaml:"climb_rate_gain"`

	TakeoffTargetAltitude float64 `yaml:"takeoff_target_altitude"`
	TakeoffTimeoutTicks   int     `yaml:"takeoff_timeout_ticks"`
	TakeoffThrottleStep   float64 `yaml:"takeoff_throttle_step"`
	TakeoffPitch          float64 `yaml:"takeoff_pitch"`

	ArrivalPoint            mgl64.Vec3 `yaml:"arrival_point"`
	LandingProximity        float64    `yaml:"landing_proximity"`
	LandingPitch            float64    `yaml:"landing_pitch"`
	LandingAltitude         float64    `yaml:"landing_altitude"`
	LandingThrottleStep     float64    `yaml:"landing_throttle_step"`
	LandingCompleteAltitude float64    `yaml:"landing_complete_altitude"`

	AdvisoryIntervalTicks int `yaml:"advisory_interval_ticks"`
}

func DefaultProfile() Profile {
	return Profile{
		Kind:    Aircraft,
		Physics: flight.DefaultPhysics(),

		PitchPID:    flight.PIDConfig{Kp: 0.5, Ki: 0, Kd: 0.1, DT: 0.1, Min: -0.02, Max: 0.02},
		RollPID:     flight.PIDConfig{Kp: 0.5, Ki: 0, Kd: 0.1, DT: 0.1, Min: -0.02, Max: 0.02},
		YawPID:      flight.PIDConfig{Kp: 0.3, Ki: 0, Kd: 0.05, DT: 0.1, Min: -0.01, Max: 0.01},
		ThrottlePID: flight.PIDConfig{Kp: 0.2, Ki: 0, Kd: 0.05, DT: 0.1, Min: -0.005, Max: 0.005},

		Limits: advisory.AircraftLimits(),

		InitialPosition: mgl64.Vec3{0, 15, 0},
		CruisePitch:     -0.1,
		MinSafeAltitude: math.FeetToUnits(500),

		AltitudeHoldGain: 0.005,
		ClimbRateGain:    1,

		TakeoffTargetAltitude: math.FeetToUnits(1000),
		TakeoffTimeoutTicks:   60 * flight.TickRate,
		TakeoffThrottleStep:   0.01,
		TakeoffPitch:          -0.12,

		ArrivalPoint:            mgl64.Vec3{500, 15, -500},
		LandingProximity:        50,
		LandingPitch:            0.1,
		LandingAltitude:         0.5,
		LandingThrottleStep:     0.005,
		LandingCompleteAltitude: 1,

		AdvisoryIntervalTicks: 30 * 60 * flight.TickRate,
	}
}

func DroneProfile() Profile {
	p := DefaultProfile()
	p.Kind = Drone
	p.Physics = flight.ArcadePhysics()
	p.Limits = advisory.DroneLimits()
	p.InitialPosition = mgl64.Vec3{0, p.Physics.GroundLevel, 0}
	p.CruisePitch = 0
	p.MinSafeAltitude = p.Physics.GroundLevel
	p.TakeoffTargetAltitude = 5
	p.TakeoffPitch = 0
	return p
}

// AdvisoryLimits returns the limits for ingesting advisories, with
// altitude overrides bounded by the minimum safe altitude and the
// ceiling.
func (p Profile) AdvisoryLimits() advisory.Limits {
	l := p.Limits
	l.MinAltitude = p.MinSafeAltitude
	l.MaxAltitude = p.Physics.Ceiling
	return l
}

func (p Profile) Validate() error {
	if err := p.Physics.Validate(); err != nil {
		return err
	}
	for _, c := range []flight.PIDConfig{p.PitchPID, p.RollPID, p.YawPID, p.ThrottlePID} {
		if err := c.Validate(); err != nil {
			return err
		}
	}

	ground, ceiling := p.Physics.GroundLevel, p.Physics.Ceiling
	for _, alt := range []float64{p.MinSafeAltitude, p.LandingAltitude, p.LandingCompleteAltitude} {
		if alt < ground || alt > ceiling {
			return ErrInvalidAltitudes
		}
	}
	// The takeoff target may sit above the ceiling; the takeoff timeout
	// ends the climb in that case.
	if p.TakeoffTargetAltitude < ground || !math.IsFinite(p.TakeoffTargetAltitude) {
		return ErrInvalidAltitudes
	}

	if p.AltitudeHoldGain < 0 || p.ClimbRateGain < 0 || !math.IsFinite(p.AltitudeHoldGain, p.ClimbRateGain) {
		return ErrInvalidHoldGain
	}

	if p.TakeoffTimeoutTicks <= 0 || p.AdvisoryIntervalTicks <= 0 {
		return ErrInvalidInterval
	}
	return nil
}
