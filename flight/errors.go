// flight/errors.go
// Copyright(c) 2025 flightsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package flight

import (
	"errors"
)

var (
	ErrInvalidClamp    = errors.New("Output minimum exceeds maximum")
	ErrInvalidEnvelope = errors.New("Ground level must be below the ceiling")
	ErrInvalidGain     = errors.New("PID gains must be non-negative")
	ErrInvalidPhysics  = errors.New("Physics constants must be finite")
	ErrInvalidTimeStep = errors.New("PID time step must be positive")
)
