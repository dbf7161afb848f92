// flight/pid.go
// Copyright(c) 2025 flightsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package flight

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/aiflightsim/flightsim/math"

	"go.einride.tech/pid"
)

// PIDConfig holds the gains, sampling step and output range of a single
// axis controller. Min and Max are independent so that a controller can be
// biased in one direction.
type PIDConfig struct {
	Kp  float64 `yaml:"kp" json:"kp"`
	Ki  float64 `yaml:"ki" json:"ki"`
	Kd  float64 `yaml:"kd" json:"kd"`
	DT  float64 `yaml:"dt" json:"dt"`
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

func (c PIDConfig) Validate() error {
	if !math.IsFinite(c.Kp, c.Ki, c.Kd, c.DT, c.Min, c.Max) {
		return ErrInvalidPhysics
	}
	if c.Kp < 0 || c.Ki < 0 || c.Kd < 0 {
		return ErrInvalidGain
	}
	if c.DT <= 0 {
		return ErrInvalidTimeStep
	}
	if c.Min > c.Max {
		return ErrInvalidClamp
	}
	return nil
}

func (c PIDConfig) String() string {
	return fmt.Sprintf("kp=%g ki=%g kd=%g dt=%g [%g, %g]", c.Kp, c.Ki, c.Kd, c.DT, c.Min, c.Max)
}

// PID is a discrete PID controller with a clamped output. The integral and
// previous-error terms live in the embedded controller state and persist
// across calls to Update until Reset is called.
type PID struct {
	Config     PIDConfig
	Controller pid.Controller
	Output     float64
}

func NewPID(c PIDConfig) PID {
	p := PID{Config: c}
	p.SetGains(c.Kp, c.Ki, c.Kd)
	return p
}

// Update computes the clamped correction for one sample.
func (p *PID) Update(target, measured float64) float64 {
	p.Controller.Update(pid.ControllerInput{
		ReferenceSignal:  target,
		ActualSignal:     measured,
		SamplingInterval: p.samplingInterval(),
	})
	p.Output = math.Clamp(p.Controller.State.ControlSignal, p.Config.Min, p.Config.Max)
	return p.Output
}

func (p *PID) samplingInterval() time.Duration {
	return time.Duration(p.Config.DT * float64(time.Second))
}

func (p *PID) Reset() {
	p.Controller.State = pid.ControllerState{}
	p.Output = 0
}

func (p *PID) SetGains(kp, ki, kd float64) {
	p.Config.Kp, p.Config.Ki, p.Config.Kd = kp, ki, kd
	p.Controller.Config = pid.ControllerConfig{
		ProportionalGain: kp,
		IntegralGain:     ki,
		DerivativeGain:   kd,
	}
}

// Integral returns the accumulated error integral.
func (p *PID) Integral() float64 {
	return p.Controller.State.ControlErrorIntegral
}

// PreviousError returns the error seen by the most recent Update.
func (p *PID) PreviousError() float64 {
	return p.Controller.State.ControlError
}

func (p PID) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("error", p.Controller.State.ControlError),
		slog.Float64("integral", p.Controller.State.ControlErrorIntegral),
		slog.Float64("output", p.Output))
}
