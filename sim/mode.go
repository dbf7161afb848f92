// sim/mode.go
// Copyright(c) 2025 flightsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"fmt"
	"strings"
)

// ControlMode identifies which authority produces a tick's control
// deltas.
type ControlMode int

const (
	// ModeAutoTakeoff ramps the throttle and holds a nose-up bias until
	// the takeoff altitude or timeout is reached.
	ModeAutoTakeoff ControlMode = iota
	// ModePID applies the per-axis controller corrections directly.
	ModePID
	// ModeAuto blends the advisory deltas with the controller corrections.
	ModeAuto
	// ModeAutoLanding runs the scripted descent.
	ModeAutoLanding
	// ModeManual takes deltas from the input collector only.
	ModeManual
	NumControlModes
)

func (m ControlMode) String() string {
	switch m {
	case ModeAutoTakeoff:
		return "autoTakeoff"
	case ModePID:
		return "pid"
	case ModeAuto:
		return "auto"
	case ModeAutoLanding:
		return "autoLanding"
	case ModeManual:
		return "manual"
	default:
		return fmt.Sprintf("ControlMode(%d)", int(m))
	}
}

func (m ControlMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *ControlMode) UnmarshalText(b []byte) error {
	for i := range NumControlModes {
		if strings.EqualFold(string(b), i.String()) {
			*m = i
			return nil
		}
	}
	return fmt.Errorf("%s: %w", string(b), ErrUnknownMode)
}

// VehicleKind selects the control and integration path.
type VehicleKind int

const (
	Aircraft VehicleKind = iota
	// Drone has no PID stabilization and uses the arcade integrator.
	Drone
)

func (k VehicleKind) String() string {
	switch k {
	case Aircraft:
		return "aircraft"
	case Drone:
		return "drone"
	default:
		return fmt.Sprintf("VehicleKind(%d)", int(k))
	}
}

func (k VehicleKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *VehicleKind) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "aircraft", "plane":
		*k = Aircraft
	case "drone":
		*k = Drone
	default:
		return fmt.Errorf("%s: %w", string(b), ErrUnknownVehicle)
	}
	return nil
}
