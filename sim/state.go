// sim/state.go
// Copyright(c) 2025 flightsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"log/slog"
	"time"

	"github.com/aiflightsim/flightsim/advisory"
	"github.com/aiflightsim/flightsim/flight"
	"github.com/aiflightsim/flightsim/flightlog"
	"github.com/aiflightsim/flightsim/log"
)

// Targets are the controller set points. Angles are in radians and the
// altitude is in simulation units.
type Targets struct {
	Pitch    float64 `msgpack:"pitch" json:"pitch"`
	Roll     float64 `msgpack:"roll" json:"roll"`
	Yaw      float64 `msgpack:"yaw" json:"yaw"`
	Altitude float64 `msgpack:"altitude" json:"altitude"`
}

// Controllers holds one PID per controlled axis; the throttle controller
// tracks altitude.
type Controllers struct {
	Pitch, Roll, Yaw, Throttle flight.PID
}

func makeControllers(p Profile) Controllers {
	return Controllers{
		Pitch:    flight.NewPID(p.PitchPID),
		Roll:     flight.NewPID(p.RollPID),
		Yaw:      flight.NewPID(p.YawPID),
		Throttle: flight.NewPID(p.ThrottlePID),
	}
}

func (c *Controllers) Reset() {
	c.Pitch.Reset()
	c.Roll.Reset()
	c.Yaw.Reset()
	c.Throttle.Reset()
}

// Advisor issues advisory requests in the background. advisory.Dispatcher
// implements it.
type Advisor interface {
	Request(req advisory.Request) (string, error)
	Poll() []advisory.Result
}

// State is the complete per-vehicle simulation state. It is owned by a
// single goroutine; Tick and the action methods must not be called
// concurrently.
type State struct {
	Profile Profile

	Body            flight.Body
	Throttle        float64
	TakeoffThrottle float64
	EngineOn        bool

	Mode            ControlMode
	Targets         Targets
	Controllers     Controllers
	AdvisoryEnabled bool
	TakeoffComplete bool
	// Advisory holds the deltas from the most recent control advisory.
	Advisory advisory.Deltas

	Ticks         int64
	TakeoffTicks  int
	AdvisoryTicks int

	// Notice is the most recent operator-facing message.
	Notice string

	advisor     Advisor
	feedback    *flightlog.Log
	events      *EventStream
	staleBefore time.Time
	lg          *log.Logger
}

func NewState(p Profile, lg *log.Logger) *State {
	s := &State{
		Profile:     p,
		Body:        flight.NewBody(p.InitialPosition),
		Mode:        ModeAutoTakeoff,
		Controllers: makeControllers(p),
		Targets: Targets{
			Pitch:    p.TakeoffPitch,
			Altitude: p.MinSafeAltitude,
		},
		feedback: &flightlog.Log{},
		lg:       lg.With(slog.String("vehicle", p.Kind.String())),
	}
	return s
}

// SetAdvisor attaches the advisory request path; without one, periodic
// advisories are skipped and RequestAdvisory fails.
func (s *State) SetAdvisor(a Advisor) {
	s.advisor = a
}

// SetEventStream attaches the stream that mode changes, notices and
// advisory outcomes are posted to.
func (s *State) SetEventStream(es *EventStream) {
	s.events = es
}

// FeedbackLog returns the log of completed advisory exchanges.
func (s *State) FeedbackLog() *flightlog.Log {
	return s.feedback
}

func (s *State) FlightData() advisory.FlightData {
	return advisory.MakeFlightData(s.Body, s.Throttle, s.EngineOn)
}

func (s *State) post(e Event) {
	if s.events != nil {
		e.Tick = s.Ticks
		s.events.Post(e)
	}
}

func (s *State) notify(text string) {
	s.Notice = text
	s.lg.Info("notice", slog.String("text", text))
	s.post(Event{Type: NoticeEvent, Text: text})
}

func (s *State) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("tick", s.Ticks),
		slog.String("mode", s.Mode.String()),
		slog.Bool("engine", s.EngineOn),
		slog.Float64("throttle", s.Throttle),
		slog.Bool("advisory", s.AdvisoryEnabled),
		slog.Any("body", s.Body),
		slog.Any("targets", s.Targets))
}
