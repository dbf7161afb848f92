// telemetry/errors.go
// Copyright(c) 2025 flightsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package telemetry

import (
	"errors"
)

var (
	ErrBadDatagram    = errors.New("Malformed telemetry datagram")
	ErrConnectTimeout = errors.New("Timed out connecting to the MQTT broker")
	ErrNoSinks        = errors.New("No telemetry sinks configured")
)
