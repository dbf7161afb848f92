// advisory/errors.go
// Copyright(c) 2025 flightsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package advisory

import (
	"errors"
)

var (
	ErrEmptyResponse   = errors.New("Advisory service returned no response")
	ErrInvalidAdvisory = errors.New("Invalid advisory response")
	ErrNoAdvisor       = errors.New("No advisory service configured")
	ErrRequestPending  = errors.New("Advisory request already pending")
)
