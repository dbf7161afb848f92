// config/errors.go
// Copyright(c) 2025 flightsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package config

import (
	"errors"
)

var (
	ErrInvalidAdvisorURL = errors.New("Advisory service URL must be an absolute http(s) URL")
	ErrInvalidAltimeter  = errors.New("Altimeter scale factor must be non-zero")
	ErrInvalidControls   = errors.New("Control rates must be finite and non-negative")
	ErrInvalidTelemetry  = errors.New("Telemetry interval must be positive")
	ErrInvalidTimeout    = errors.New("Timeouts must not be negative")
)
