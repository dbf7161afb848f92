// telemetry/frame.go
// Copyright(c) 2025 flightsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package telemetry

import (
	"fmt"
	"time"

	"github.com/aiflightsim/flightsim/advisory"
	"github.com/aiflightsim/flightsim/math"
	"github.com/aiflightsim/flightsim/sim"

	"github.com/google/uuid"
)

// Frame is one telemetry sample. Angles are in degrees; positions and
// velocities are in simulation units.
type Frame struct {
	ID       string          `json:"id"`
	Time     time.Time       `json:"time"`
	Tick     int64           `json:"tick"`
	Vehicle  string          `json:"vehicle"`
	Mode     string          `json:"mode"`
	Position advisory.Vector `json:"position"`
	Velocity advisory.Vector `json:"velocity"`
	Pitch    float64         `json:"pitch"`
	Roll     float64         `json:"roll"`
	Heading  float64         `json:"heading"`
	Throttle float64         `json:"throttle"`
	EngineOn bool            `json:"engineOn"`
	AltFeet  float64         `json:"altitudeFeet"`
}

func MakeFrame(s sim.Snapshot, t time.Time) Frame {
	return Frame{
		ID:       uuid.NewString(),
		Time:     t,
		Tick:     s.Tick,
		Vehicle:  s.Vehicle.String(),
		Mode:     s.Mode.String(),
		Position: advisory.MakeVector(s.Position),
		Velocity: advisory.MakeVector(s.Velocity),
		Pitch:    math.Degrees(s.Attitude.Pitch),
		Roll:     math.Degrees(s.Attitude.Roll),
		Heading:  math.Degrees(s.Attitude.Yaw),
		Throttle: s.Throttle,
		EngineOn: s.EngineOn,
		AltFeet:  math.UnitsToFeet(s.Altitude()),
	}
}

func (f Frame) String() string {
	engine := "off"
	if f.EngineOn {
		engine = "on"
	}
	return fmt.Sprintf("%6d %-11s pos (%8.1f %7.1f %8.1f) alt %6.0f ft  pitch %6.1f roll %6.1f hdg %6.1f  thr %3.0f%% engine %s",
		f.Tick, f.Mode, f.Position.X, f.Position.Y, f.Position.Z, f.AltFeet, f.Pitch, f.Roll, f.Heading,
		100*f.Throttle, engine)
}
