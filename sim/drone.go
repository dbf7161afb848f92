// sim/drone.go
// Copyright(c) 2025 flightsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"github.com/aiflightsim/flightsim/flight"
)

// tickDrone is the reduced control path used for drones: there is no
// stabilization and no scripted landing. After a full-throttle climb to
// the takeoff altitude the throttle settles at the hover setting, and
// in auto mode the advisory deltas are added to the operator's input.
func (s *State) tickDrone(in Input) {
	p := &s.Profile

	var d flight.Deltas
	switch s.Mode {
	case ModeAutoTakeoff:
		s.setEngine(true)
		if s.Body.Altitude() >= p.TakeoffTargetAltitude || s.TakeoffTicks >= p.TakeoffTimeoutTicks {
			s.Throttle = p.Physics.HoverThrottle
			s.completeTakeoff()
		} else {
			s.Throttle = 1
			s.TakeoffTicks++
		}

	case ModeAuto:
		d = s.Advisory.Rotation()
		s.Throttle += s.Advisory.Throttle

	case ModePID, ModeAutoLanding, ModeManual:
		// Operator input only.
	}

	s.integrate(d, in)
	s.scheduleAdvisory()
}
