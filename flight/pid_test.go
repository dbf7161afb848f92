// flight/pid_test.go
// Copyright(c) 2025 flightsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package flight

import (
	gomath "math"
	"testing"
)

func near(a, b, eps float64) bool {
	return gomath.Abs(a-b) <= eps
}

func TestPIDUpdate(t *testing.T) {
	p := NewPID(PIDConfig{Kp: 1, Ki: 0.5, Kd: 0.1, DT: 0.1, Min: -100, Max: 100})

	// e=1, integral=0.1, derivative=10
	if out := p.Update(1, 0); !near(out, 2.05, 1e-9) {
		t.Errorf("first update = %f, expected 2.05", out)
	}
	// e=0.5, integral=0.15, derivative=-5
	if out := p.Update(1, 0.5); !near(out, 0.075, 1e-9) {
		t.Errorf("second update = %f, expected 0.075", out)
	}
	if !near(p.Integral(), 0.15, 1e-12) {
		t.Errorf("integral = %f, expected 0.15", p.Integral())
	}
	if p.PreviousError() != 0.5 {
		t.Errorf("previous error = %f, expected 0.5", p.PreviousError())
	}
}

func TestPIDProportionalConvergence(t *testing.T) {
	p := NewPID(PIDConfig{Kp: 0.5, DT: 0.1, Min: -10, Max: 10})

	// Open loop: a constant error yields a constant Kp*error.
	for i := range 10 {
		if out := p.Update(1, 0.2); !near(out, 0.4, 1e-12) {
			t.Errorf("iteration %d: output %f, expected 0.4", i, out)
		}
	}

	// Closed loop: feeding the correction back drives the error and the
	// output toward zero.
	p.Reset()
	measured, lastErr := 0.0, 1.0
	for i := range 50 {
		measured += p.Update(1, measured)
		err := gomath.Abs(1 - measured)
		if err > lastErr {
			t.Errorf("iteration %d: error grew from %f to %f", i, lastErr, err)
		}
		lastErr = err
	}
	if lastErr > 1e-9 || gomath.Abs(p.Output) > 1e-9 {
		t.Errorf("did not converge: error %g output %g", lastErr, p.Output)
	}
}

func TestPIDOutputClamp(t *testing.T) {
	for _, c := range []PIDConfig{
		{Kp: 0.5, Kd: 0.1, DT: 0.1, Min: -0.02, Max: 0.02},
		{Kp: 0.2, Kd: 0.05, DT: 0.1, Min: -0.005, Max: 0.005},
		{Kp: 3, Ki: 2, Kd: 1, DT: 0.01, Min: -0.001, Max: 0.05},
	} {
		p := NewPID(c)
		for _, in := range []struct{ target, measured float64 }{
			{1e9, 0}, {-1e9, 0}, {0, 1e12}, {0.3, -0.3}, {-5, 5}, {0, 0}, {1e-9, 0},
		} {
			out := p.Update(in.target, in.measured)
			if out < c.Min || out > c.Max {
				t.Errorf("%s: Update(%g, %g) = %g outside [%g, %g]", c, in.target, in.measured,
					out, c.Min, c.Max)
			}
		}
	}
}

func TestPIDResetAndGains(t *testing.T) {
	p := NewPID(PIDConfig{Kp: 1, Ki: 1, DT: 0.1, Min: -10, Max: 10})
	p.Update(2, 0)
	p.Update(2, 0)
	p.Reset()
	if p.Integral() != 0 || p.PreviousError() != 0 || p.Output != 0 {
		t.Errorf("state not cleared by Reset: %+v", p.Controller.State)
	}

	p.SetGains(2, 0, 0)
	if out := p.Update(1, 0); !near(out, 2, 1e-12) {
		t.Errorf("output after SetGains = %f, expected 2", out)
	}
	if p.Config.Kp != 2 || p.Config.Ki != 0 {
		t.Errorf("config not updated: %s", p.Config)
	}
}

func TestPIDConfigValidate(t *testing.T) {
	for _, test := range []struct {
		c   PIDConfig
		err error
	}{
		{c: PIDConfig{Kp: 0.5, Kd: 0.1, DT: 0.1, Min: -0.02, Max: 0.02}},
		{c: PIDConfig{Kp: -1, DT: 0.1}, err: ErrInvalidGain},
		{c: PIDConfig{Kp: 1, DT: 0}, err: ErrInvalidTimeStep},
		{c: PIDConfig{Kp: 1, DT: 0.1, Min: 1, Max: -1}, err: ErrInvalidClamp},
		{c: PIDConfig{Kp: gomath.NaN(), DT: 0.1}, err: ErrInvalidPhysics},
	} {
		if err := test.c.Validate(); err != test.err {
			t.Errorf("%s: got error %v, expected %v", test.c, err, test.err)
		}
	}
}
