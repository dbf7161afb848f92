// sim/stepper.go
// Copyright(c) 2025 flightsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"time"
)

// Stepper converts wall-clock time into a whole number of fixed-length
// ticks, carrying the remainder over to the next call.
type Stepper struct {
	Step time.Duration
	// MaxSteps bounds the ticks returned by a single Advance so that a
	// long stall does not produce a burst of catch-up ticks.
	MaxSteps int

	accum time.Duration
}

func NewStepper(rate int) *Stepper {
	return &Stepper{
		Step:     time.Second / time.Duration(rate),
		MaxSteps: rate / 4,
	}
}

// Advance adds elapsed time and returns the number of ticks to run.
func (s *Stepper) Advance(elapsed time.Duration) int {
	if elapsed > 0 {
		s.accum += elapsed
	}
	n := int(s.accum / s.Step)
	s.accum -= time.Duration(n) * s.Step

	if s.MaxSteps > 0 && n > s.MaxSteps {
		n = s.MaxSteps
		s.accum = 0
	}
	return n
}

// Alpha returns the fraction of a tick that has accumulated but not yet
// been run.
func (s *Stepper) Alpha() float64 {
	return float64(s.accum) / float64(s.Step)
}
