// sim/input.go
// Copyright(c) 2025 flightsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"sync"

	"github.com/aiflightsim/flightsim/flight"
)

// Input is one tick's worth of operator control deltas. It is added to
// whatever the active control mode produces.
type Input struct {
	Pitch, Roll, Yaw, Throttle float64
}

func (in Input) Rotation() flight.Deltas {
	return flight.Deltas{Pitch: in.Pitch, Roll: in.Roll, Yaw: in.Yaw}
}

func (in Input) IsZero() bool {
	return in == Input{}
}

// KeyRates gives the per-press deltas for the keyboard controls.
type KeyRates struct {
	PitchSpeed        float64 `yaml:"pitch_speed" json:"pitchSpeed"`
	YawSpeed          float64 `yaml:"yaw_speed" json:"yawSpeed"`
	RollSpeed         float64 `yaml:"roll_speed" json:"rollSpeed"`
	ThrottleIncrement float64 `yaml:"throttle_increment" json:"throttleIncrement"`
}

func DefaultKeyRates() KeyRates {
	return KeyRates{PitchSpeed: 0.01, YawSpeed: 0.01, RollSpeed: 0.01, ThrottleIncrement: 0.01}
}

// Control identifies a continuous flight control key.
type Control int

const (
	PitchDown Control = iota
	PitchUp
	YawLeft
	YawRight
	RollLeft
	RollRight
	ThrottleUp
	ThrottleDown
)

// InputCollector accumulates control presses between ticks. It is safe
// for concurrent use by the UI and the tick loop.
type InputCollector struct {
	mu    sync.Mutex
	rates KeyRates
	in    Input
}

func NewInputCollector(r KeyRates) *InputCollector {
	return &InputCollector{rates: r}
}

// Press records one press (or key repeat) of the given control. Pitch is
// nose-up negative.
func (c *InputCollector) Press(ctrl Control) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch ctrl {
	case PitchUp:
		c.in.Pitch -= c.rates.PitchSpeed
	case PitchDown:
		c.in.Pitch += c.rates.PitchSpeed
	case YawLeft:
		c.in.Yaw -= c.rates.YawSpeed
	case YawRight:
		c.in.Yaw += c.rates.YawSpeed
	case RollLeft:
		c.in.Roll += c.rates.RollSpeed
	case RollRight:
		c.in.Roll -= c.rates.RollSpeed
	case ThrottleUp:
		c.in.Throttle += c.rates.ThrottleIncrement
	case ThrottleDown:
		c.in.Throttle -= c.rates.ThrottleIncrement
	}
}

// Take returns the accumulated input and clears it.
func (c *InputCollector) Take() Input {
	c.mu.Lock()
	defer c.mu.Unlock()

	in := c.in
	c.in = Input{}
	return in
}
