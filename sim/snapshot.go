// sim/snapshot.go
// Copyright(c) 2025 flightsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"sync"

	"github.com/aiflightsim/flightsim/advisory"
	"github.com/aiflightsim/flightsim/flight"
	"github.com/aiflightsim/flightsim/math"

	"github.com/brunoga/deep"
	"github.com/go-gl/mathgl/mgl64"
)

// Snapshot is a self-contained copy of the externally visible state,
// safe to hand to other goroutines.
type Snapshot struct {
	Tick            int64           `msgpack:"tick" json:"tick"`
	Vehicle         VehicleKind     `msgpack:"vehicle" json:"vehicle"`
	Mode            ControlMode     `msgpack:"mode" json:"mode"`
	EngineOn        bool            `msgpack:"engineOn" json:"engineOn"`
	Throttle        float64         `msgpack:"throttle" json:"throttle"`
	AdvisoryEnabled bool            `msgpack:"advisoryEnabled" json:"advisoryEnabled"`
	TakeoffComplete bool            `msgpack:"takeoffComplete" json:"takeoffComplete"`
	Position        mgl64.Vec3      `msgpack:"position" json:"position"`
	Velocity        mgl64.Vec3      `msgpack:"velocity" json:"velocity"`
	Orientation     mgl64.Quat      `msgpack:"orientation" json:"orientation"`
	Attitude        math.Euler      `msgpack:"attitude" json:"attitude"`
	Grounded        bool            `msgpack:"grounded" json:"grounded"`
	Targets         Targets         `msgpack:"targets" json:"targets"`
	Advisory        advisory.Deltas `msgpack:"advisory" json:"advisory"`
	Notice          string          `msgpack:"notice" json:"notice"`
}

func (s *State) Snapshot() Snapshot {
	return deep.MustCopy(Snapshot{
		Tick:            s.Ticks,
		Vehicle:         s.Profile.Kind,
		Mode:            s.Mode,
		EngineOn:        s.EngineOn,
		Throttle:        s.Throttle,
		AdvisoryEnabled: s.AdvisoryEnabled,
		TakeoffComplete: s.TakeoffComplete,
		Position:        s.Body.Position,
		Velocity:        s.Body.Velocity,
		Orientation:     s.Body.Orientation,
		Attitude:        math.EulerYXZ(s.Body.Orientation),
		Grounded:        s.Body.Grounded,
		Targets:         s.Targets,
		Advisory:        s.Advisory,
		Notice:          s.Notice,
	})
}

func (s Snapshot) Altitude() float64 {
	return s.Position[1]
}

func (s Snapshot) FlightData() advisory.FlightData {
	b := flight.Body{Position: s.Position, Velocity: s.Velocity, Orientation: s.Orientation}
	return advisory.MakeFlightData(b, s.Throttle, s.EngineOn)
}

// SnapshotCell holds the most recent snapshot for readers on other
// goroutines.
type SnapshotCell struct {
	mu   sync.Mutex
	snap Snapshot
}

func (c *SnapshotCell) Store(s Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = s
}

func (c *SnapshotCell) Load() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}
