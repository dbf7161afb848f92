// sim/errors.go
// Copyright(c) 2025 flightsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"errors"
)

var (
	ErrInvalidAltitudes = errors.New("Altitude targets must lie between the ground and the ceiling")
	ErrInvalidHoldGain  = errors.New("Altitude hold gains must be finite and non-negative")
	ErrInvalidInterval  = errors.New("Tick counts must be positive")
	ErrUnknownMode      = errors.New("Unknown control mode")
	ErrUnknownVehicle   = errors.New("Unknown vehicle type")
)
