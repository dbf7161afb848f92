// sim/control.go
// Copyright(c) 2025 flightsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"errors"
	"log/slog"
	gomath "math"
	"time"

	"github.com/aiflightsim/flightsim/advisory"
	"github.com/aiflightsim/flightsim/flight"
	"github.com/aiflightsim/flightsim/flightlog"
	"github.com/aiflightsim/flightsim/math"
)

const (
	NoticeAdvisoryFailed  = "Failed to get AI feedback."
	NoticeAdvisoryInvalid = "AI response was not valid JSON."
)

// Tick advances the simulation by one fixed step. Completed advisory
// results are applied first; then the active mode computes its control
// deltas, the operator's input is added on top, and, if the engine is
// running, the body is rotated and integrated.
func (s *State) Tick(in Input) {
	s.Ticks++
	s.applyResults()

	if s.Profile.Kind == Drone {
		s.tickDrone(in)
		return
	}

	var d flight.Deltas
	switch s.Mode {
	case ModeAutoTakeoff:
		d = s.tickTakeoff()

	case ModePID:
		d = s.attitudeCorrection()
		s.Throttle += s.throttleCorrection()

	case ModeAuto:
		c := s.attitudeCorrection()
		a := s.Advisory
		d = flight.Deltas{
			Pitch: math.Mean(a.Pitch, c.Pitch),
			Roll:  math.Mean(a.Roll, c.Roll),
			Yaw:   math.Mean(a.Yaw, c.Yaw),
		}
		s.Throttle += math.Mean(a.Throttle, s.throttleCorrection())

		if math.HorizontalDistance(s.Body.Position, s.Profile.ArrivalPoint) < s.Profile.LandingProximity {
			s.lg.Info("arrival point reached, starting landing", slog.Any("position", s.Body.Position))
			s.setMode(ModeAutoLanding)
		}

	case ModeAutoLanding:
		d = s.tickLanding()

	case ModeManual:
	}

	s.integrate(d, in)
	s.scheduleAdvisory()
}

func (s *State) integrate(d flight.Deltas, in Input) {
	d = d.Add(in.Rotation())
	s.Throttle = math.Clamp(s.Throttle+in.Throttle, 0, 1)

	if !s.EngineOn {
		return
	}
	s.Body.Rotate(d)
	for range flight.StepsPerTick {
		if s.Profile.Kind == Drone {
			s.Body.AdvanceArcade(s.Throttle, s.Profile.Physics)
		} else {
			s.Body.Advance(s.Throttle, s.Profile.Physics)
		}
	}
}

func (s *State) tickTakeoff() flight.Deltas {
	p := &s.Profile
	if s.Body.Altitude() >= p.TakeoffTargetAltitude {
		s.completeTakeoff()
		return s.attitudeCorrection()
	} else if s.TakeoffTicks >= p.TakeoffTimeoutTicks {
		s.lg.Warn("takeoff timed out", slog.Float64("altitude", s.Body.Altitude()),
			slog.Int("ticks", s.TakeoffTicks))
		s.completeTakeoff()
		return s.attitudeCorrection()
	}

	s.setEngine(true)
	s.TakeoffThrottle = math.Min(1, s.TakeoffThrottle+p.TakeoffThrottleStep)
	s.Throttle = s.TakeoffThrottle
	s.Targets.Pitch = p.TakeoffPitch
	s.TakeoffTicks++

	return s.attitudeCorrection()
}

func (s *State) completeTakeoff() {
	s.TakeoffComplete = true
	s.Targets.Pitch = s.Profile.CruisePitch
	s.lg.Info("takeoff complete", slog.Float64("altitude", s.Body.Altitude()),
		slog.Int("ticks", s.TakeoffTicks))

	if s.AdvisoryEnabled {
		s.setMode(ModeAuto)
	} else {
		s.setMode(ModePID)
	}
}

func (s *State) tickLanding() flight.Deltas {
	p := &s.Profile
	if s.Body.Altitude() <= p.LandingCompleteAltitude {
		s.lg.Info("landing complete", slog.Any("position", s.Body.Position))
		s.setEngine(false)
		s.setMode(ModePID)
		return flight.Deltas{}
	}

	s.Targets.Pitch = p.LandingPitch
	s.Targets.Altitude = p.LandingAltitude
	s.Throttle = math.Max(0, s.Throttle-p.LandingThrottleStep)
	return s.attitudeCorrection()
}

// attitudeCorrection runs the pitch, roll and yaw controllers against
// the current attitude.
func (s *State) attitudeCorrection() flight.Deltas {
	a := s.Body.Attitude()
	c := &s.Controllers
	pitch := s.Targets.Pitch
	if s.Mode == ModePID || s.Mode == ModeAuto {
		pitch = s.holdPitch()
	}

	// The heading error is wrapped so the controller turns the short way.
	yawErr := gomath.Remainder(s.Targets.Yaw-a.Yaw, 2*gomath.Pi)

	return flight.Deltas{
		Pitch: c.Pitch.Update(pitch, a.Pitch),
		Roll:  c.Roll.Update(s.Targets.Roll, a.Roll),
		Yaw:   c.Yaw.Update(yawErr, 0),
	}
}

// holdPitch returns the pitch target offset toward the target altitude
// and against the vertical speed. Negative pitch is nose-up.
func (s *State) holdPitch() float64 {
	p := &s.Profile
	bias := p.AltitudeHoldGain*(s.Targets.Altitude-s.Body.Altitude()) - p.ClimbRateGain*s.Body.Velocity[1]
	return math.Clamp(s.Targets.Pitch-bias, -flight.MaxPitch, flight.MaxPitch)
}

// throttleCorrection runs the altitude controller. Below the minimum safe
// altitude the target is raised to it and the correction may only add
// throttle.
func (s *State) throttleCorrection() float64 {
	alt := s.Body.Altitude()
	out := s.Controllers.Throttle.Update(s.Targets.Altitude, alt)

	if floor := s.Profile.MinSafeAltitude; alt < floor && s.Mode != ModeAutoLanding {
		s.Targets.Altitude = math.Max(s.Targets.Altitude, floor)
		out = math.Abs(out)
	}
	return out
}

func (s *State) setMode(m ControlMode) {
	if m == s.Mode {
		return
	}
	from := s.Mode
	if from == ModeAuto {
		s.Controllers.Reset()
	}
	s.Mode = m

	s.lg.Info("control mode changed", slog.String("from", from.String()), slog.String("to", m.String()))
	s.post(Event{Type: ModeChangedEvent, From: from, To: m})
}

func (s *State) setEngine(on bool) {
	if on == s.EngineOn {
		return
	}
	s.EngineOn = on

	text := "Engine off"
	if on {
		text = "Engine on"
	}
	s.lg.Info(text)
	s.post(Event{Type: EngineEvent, Text: text})
}

// ToggleEngine starts or stops the engine. Orientation and position only
// update while it runs.
func (s *State) ToggleEngine() {
	s.setEngine(!s.EngineOn)
}

// RequestManual switches to direct operator control.
func (s *State) RequestManual() {
	s.setMode(ModeManual)
	s.notify("Manual control")
}

// SetAdvisoryEnabled turns the periodic control advisories on or off. An
// in-progress takeoff is unaffected; otherwise the mode becomes auto or
// pid, or returns to takeoff if takeoff never completed.
func (s *State) SetAdvisoryEnabled(on bool) {
	s.AdvisoryEnabled = on
	if on {
		// Due on the first tick in auto mode.
		s.AdvisoryTicks = s.Profile.AdvisoryIntervalTicks
	} else {
		s.Advisory = advisory.Deltas{}
		s.AdvisoryTicks = 0
		s.staleBefore = time.Now()
	}

	switch {
	case s.Mode == ModeAutoTakeoff:
	case !s.TakeoffComplete:
		s.setMode(ModeAutoTakeoff)
	case on:
		s.setMode(ModeAuto)
	default:
		s.setMode(ModePID)
	}

	if on {
		s.notify("AI control enabled")
	} else {
		s.notify("AI control disabled")
	}
}

// RequestAdvisory issues an advisory request for the current flight data
// immediately. It fails if no advisor is attached or a request is
// already outstanding.
func (s *State) RequestAdvisory(mode advisory.Mode) error {
	if s.advisor == nil {
		return advisory.ErrNoAdvisor
	}

	req := advisory.Request{FlightData: s.FlightData(), Mode: mode}
	if s.Profile.Kind == Drone {
		req.VehicleType = Drone.String()
	}

	id, err := s.advisor.Request(req)
	if err != nil {
		return err
	}
	s.lg.Debug("advisory requested", slog.String("id", id), slog.String("mode", string(mode)))
	return nil
}

func (s *State) scheduleAdvisory() {
	if s.advisor == nil || s.Mode != ModeAuto {
		return
	}

	s.AdvisoryTicks++
	if s.AdvisoryTicks < s.Profile.AdvisoryIntervalTicks {
		return
	}
	// On failure the counter stays due and the request is retried next
	// tick.
	if err := s.RequestAdvisory(advisory.ModeControl); err != nil {
		if !errors.Is(err, advisory.ErrRequestPending) {
			s.lg.Warn("advisory request not issued", slog.Any("error", err))
		}
		return
	}
	s.AdvisoryTicks = 0
}

func (s *State) applyResults() {
	if s.advisor == nil {
		return
	}

	for _, r := range s.advisor.Poll() {
		if r.Err != nil {
			s.lg.Warn("advisory request failed", slog.String("id", r.ID), slog.Any("error", r.Err),
				slog.Duration("elapsed", r.Elapsed))
			s.notify(NoticeAdvisoryFailed)
			continue
		}

		s.feedback.Append(flightlog.MakeEntry(r.Issued, r.Request, r.Response))

		switch r.Request.Mode {
		case advisory.ModeControl:
			s.applyControl(r)
		case advisory.ModeFeedback:
			s.Notice = r.Response
			s.lg.Info("advisory feedback", slog.String("id", r.ID), slog.String("text", r.Response))
			s.post(Event{Type: FeedbackEvent, Text: r.Response})
		default:
			s.lg.Warnf("%s: unexpected advisory mode", r.Request.Mode)
		}
	}
}

func (s *State) applyControl(r advisory.Result) {
	if r.Issued.Before(s.staleBefore) {
		s.lg.Info("advisory issued before advisory mode was disabled; ignored", slog.String("id", r.ID))
		return
	}

	adv, err := advisory.Ingest(r.Response, s.Profile.AdvisoryLimits())
	if err != nil {
		s.Advisory = advisory.Deltas{}
		s.lg.Warn("advisory rejected", slog.String("id", r.ID), slog.Any("error", err))
		s.notify(NoticeAdvisoryInvalid)
		return
	}

	s.Advisory = adv.Deltas
	o := adv.Overrides
	if o.Pitch != nil {
		s.Targets.Pitch = *o.Pitch
	}
	if o.Roll != nil {
		s.Targets.Roll = *o.Roll
	}
	if o.Yaw != nil {
		s.Targets.Yaw = *o.Yaw
	}
	if o.Altitude != nil {
		s.Targets.Altitude = *o.Altitude
	}

	s.lg.Info("advisory applied", slog.String("id", r.ID), slog.Any("advisory", adv))
	s.post(Event{Type: AdvisoryAppliedEvent, Advisory: &adv})
}
