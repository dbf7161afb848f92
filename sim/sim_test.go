// sim/sim_test.go
// Copyright(c) 2025 flightsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/aiflightsim/flightsim/advisory"
	"github.com/aiflightsim/flightsim/flight"

	"github.com/vmihailenco/msgpack/v5"
)

func TestDroneTakeoffAndHover(t *testing.T) {
	s := NewState(DroneProfile(), nil)
	if s.Body.Altitude() != s.Profile.Physics.GroundLevel {
		t.Fatalf("drone should start on the ground, at %f", s.Body.Altitude())
	}

	for s.Mode == ModeAutoTakeoff && s.Ticks < 200 {
		s.Tick(Input{})
	}
	if s.Mode != ModePID || !s.TakeoffComplete {
		t.Fatalf("mode %s after %d ticks", s.Mode, s.Ticks)
	}
	if s.Body.Altitude() < s.Profile.TakeoffTargetAltitude {
		t.Errorf("takeoff completed at %f", s.Body.Altitude())
	}
	if s.Throttle != s.Profile.Physics.HoverThrottle {
		t.Errorf("throttle %f, expected hover %f", s.Throttle, s.Profile.Physics.HoverThrottle)
	}

	alt := s.Body.Altitude()
	for range 20 {
		s.Tick(Input{})
	}
	if !near(s.Body.Altitude(), alt, 1e-9) {
		t.Errorf("hovering drone drifted from %f to %f", alt, s.Body.Altitude())
	}
	if s.Controllers.Pitch.PreviousError() != 0 {
		t.Errorf("drone ran the attitude controllers")
	}

	s.Tick(Input{Throttle: 0.1})
	if !near(s.Body.Altitude()-alt, 0.1*s.Profile.Physics.ClimbRate, 1e-9) {
		t.Errorf("climbed %f at throttle %f", s.Body.Altitude()-alt, s.Throttle)
	}
}

func TestDroneAdvisory(t *testing.T) {
	s := NewState(DroneProfile(), nil)
	adv := &fakeAdvisor{}
	s.SetAdvisor(adv)
	s.SetAdvisoryEnabled(true)

	for range 5 {
		s.Tick(Input{})
	}
	if len(adv.requests) != 0 {
		t.Fatalf("drone requested an advisory before takeoff completed")
	}
	for s.Mode == ModeAutoTakeoff && s.Ticks < 200 {
		s.Tick(Input{})
	}
	if s.Mode != ModeAuto {
		t.Fatalf("mode %s after takeoff with advisory enabled", s.Mode)
	}
	if len(adv.requests) != 1 || adv.requests[0].VehicleType != "drone" {
		t.Fatalf("requests %+v", adv.requests)
	}

	adv.deliver(advisory.ModeControl, `{"pitch": 1, "roll": -0.1, "yaw": 0, "throttle": 1}`, nil, time.Now())
	s.Tick(Input{Roll: -0.05})
	if s.Advisory != (advisory.Deltas{Pitch: 0.2, Roll: -0.1, Throttle: 0.2}) {
		t.Errorf("drone advisory %+v", s.Advisory)
	}
	// Advisory and operator deltas add.
	if a := s.Body.Attitude(); !near(a.Pitch, 0.2, 1e-9) || !near(a.Roll, -0.15, 1e-9) {
		t.Errorf("attitude %+v", a)
	}
	if !near(s.Throttle, s.Profile.Physics.HoverThrottle+0.2, 1e-12) {
		t.Errorf("throttle %f", s.Throttle)
	}
}

func TestProfileValidate(t *testing.T) {
	for _, p := range []Profile{DefaultProfile(), DroneProfile()} {
		if err := p.Validate(); err != nil {
			t.Errorf("%s profile: %v", p.Kind, err)
		}
	}

	for _, test := range []struct {
		name   string
		modify func(p *Profile)
		err    error
	}{
		{"negative gain", func(p *Profile) { p.YawPID.Kd = -1 }, flight.ErrInvalidGain},
		{"inverted clamp", func(p *Profile) { p.ThrottlePID.Min = 1 }, flight.ErrInvalidClamp},
		{"zero dt", func(p *Profile) { p.PitchPID.DT = 0 }, flight.ErrInvalidTimeStep},
		{"ground above ceiling", func(p *Profile) { p.Physics.GroundLevel = 300 }, flight.ErrInvalidEnvelope},
		{"safe altitude above ceiling", func(p *Profile) { p.MinSafeAltitude = 250 }, ErrInvalidAltitudes},
		{"landing below ground", func(p *Profile) { p.LandingAltitude = 0 }, ErrInvalidAltitudes},
		{"negative hold gain", func(p *Profile) { p.ClimbRateGain = -1 }, ErrInvalidHoldGain},
		{"zero timeout", func(p *Profile) { p.TakeoffTimeoutTicks = 0 }, ErrInvalidInterval},
		{"zero interval", func(p *Profile) { p.AdvisoryIntervalTicks = -5 }, ErrInvalidInterval},
	} {
		p := DefaultProfile()
		test.modify(&p)
		if err := p.Validate(); !errors.Is(err, test.err) {
			t.Errorf("%s: got %v, expected %v", test.name, err, test.err)
		}
	}
}

func TestAdvisoryLimits(t *testing.T) {
	p := DefaultProfile()
	p.Physics.Ceiling = 400
	l := p.AdvisoryLimits()
	if l.MinAltitude != p.MinSafeAltitude || l.MaxAltitude != 400 || l.Rotation != 0.05 {
		t.Errorf("limits %s", l)
	}
}

func TestControlModeText(t *testing.T) {
	for m := range NumControlModes {
		b, err := m.MarshalText()
		if err != nil {
			t.Fatalf("%s: %v", m, err)
		}
		var back ControlMode
		if err := back.UnmarshalText(b); err != nil || back != m {
			t.Errorf("%s: read back %s / %v", m, back, err)
		}
	}
	var m ControlMode
	if err := m.UnmarshalText([]byte("hover")); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("got %v, expected ErrUnknownMode", err)
	}

	var k VehicleKind
	for s, expected := range map[string]VehicleKind{"plane": Aircraft, "Aircraft": Aircraft, "drone": Drone} {
		if err := k.UnmarshalText([]byte(s)); err != nil || k != expected {
			t.Errorf("%q: got %s / %v", s, k, err)
		}
	}
	if err := k.UnmarshalText([]byte("blimp")); !errors.Is(err, ErrUnknownVehicle) {
		t.Errorf("got %v, expected ErrUnknownVehicle", err)
	}
}

func TestSnapshot(t *testing.T) {
	s := cruising(120)
	s.Tick(Input{})
	snap := s.Snapshot()

	if snap.Tick != 1 || snap.Mode != ModePID || snap.Altitude() != s.Body.Altitude() {
		t.Errorf("snapshot %+v", snap)
	}
	if snap.FlightData() != s.FlightData() {
		t.Errorf("flight data %+v, expected %+v", snap.FlightData(), s.FlightData())
	}

	s.Tick(Input{})
	if snap.Tick != 1 || snap.Position == s.Body.Position {
		t.Errorf("snapshot changed along with the state")
	}

	var buf bytes.Buffer
	if err := msgpack.NewEncoder(&buf).Encode(snap); err != nil {
		t.Fatalf("encode: %v", err)
	}
	var back Snapshot
	if err := msgpack.NewDecoder(&buf).Decode(&back); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if back != snap {
		t.Errorf("decoded %+v, expected %+v", back, snap)
	}
}

func TestInputCollector(t *testing.T) {
	c := NewInputCollector(KeyRates{PitchSpeed: 0.01, YawSpeed: 0.02, RollSpeed: 0.03, ThrottleIncrement: 0.05})
	for _, ctrl := range []Control{PitchUp, PitchUp, YawRight, RollLeft, ThrottleUp, ThrottleUp, ThrottleDown} {
		c.Press(ctrl)
	}
	in := c.Take()
	if !near(in.Pitch, -0.02, 1e-12) || in.Yaw != 0.02 || in.Roll != 0.03 || !near(in.Throttle, 0.05, 1e-12) {
		t.Errorf("input %+v", in)
	}
	if !c.Take().IsZero() {
		t.Errorf("Take did not reset the input")
	}

	c.Press(PitchDown)
	c.Press(YawLeft)
	c.Press(RollRight)
	if in := c.Take(); in != (Input{Pitch: 0.01, Yaw: -0.02, Roll: -0.03}) {
		t.Errorf("input %+v", in)
	}
}

func TestStepper(t *testing.T) {
	s := NewStepper(60)
	if n := s.Advance(10 * time.Millisecond); n != 0 {
		t.Errorf("10ms: %d ticks", n)
	}
	if n := s.Advance(10 * time.Millisecond); n != 1 {
		t.Errorf("20ms total: %d ticks", n)
	}
	if a := s.Alpha(); a < 0.19 || a > 0.21 {
		t.Errorf("alpha %f after 20ms", a)
	}
	if n := s.Advance(50 * time.Millisecond); n != 3 {
		t.Errorf("70ms total: %d ticks", n)
	}
	if n := s.Advance(time.Second); n != s.MaxSteps {
		t.Errorf("long stall: %d ticks, expected cap %d", n, s.MaxSteps)
	}
	if s.Alpha() != 0 {
		t.Errorf("remainder %f carried past the cap", s.Alpha())
	}
	if n := s.Advance(-time.Second); n != 0 {
		t.Errorf("negative elapsed: %d ticks", n)
	}
}

func TestAltimeter(t *testing.T) {
	a := DefaultAltimeter()
	if s := a.Format(100); s != "Altitude: 328 ft | 100.0 units" {
		t.Errorf("got %q", s)
	}
	a = Altimeter{BaseElevation: 1200, ScaleFactor: 2.5, Unit: "m"}
	if s := a.Format(10); s != "Altitude: 33 ft | 1225.0 m" {
		t.Errorf("got %q", s)
	}
}
