// cmd/flightsim/tui.go
// Copyright(c) 2025 flightsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/aiflightsim/flightsim/advisory"
	"github.com/aiflightsim/flightsim/config"
	"github.com/aiflightsim/flightsim/flightlog"
	"github.com/aiflightsim/flightsim/log"
	"github.com/aiflightsim/flightsim/math"
	"github.com/aiflightsim/flightsim/sim"

	"github.com/gdamore/tcell/v2"
)

const maxEventLines = 10

const helpText = " [↑↓]=Pitch [←→]=Yaw [A/D]=Roll [W/S]=Throttle [E]=Engine [\\]=AI [/]=Manual " +
	"[C]=AI control [K]=AI feedback [L]=Export+feedback [J]=Export log [H]=Log flight [Q]=Quit "

type ui struct {
	screen    tcell.Screen
	cell      *sim.SnapshotCell
	es        *sim.EventStream
	events    *sim.EventsSubscription
	input     *sim.InputCollector
	cmds      chan<- command
	cfg       config.Config
	manualLog *flightlog.Client
	exportDir string
	lines     []string
	lg        *log.Logger
}

// controlForKey maps the flight control keys to their inputs.
func controlForKey(key tcell.Key, r rune) (sim.Control, bool) {
	switch key {
	case tcell.KeyUp:
		return sim.PitchUp, true
	case tcell.KeyDown:
		return sim.PitchDown, true
	case tcell.KeyLeft:
		return sim.YawLeft, true
	case tcell.KeyRight:
		return sim.YawRight, true
	case tcell.KeyRune:
		switch r {
		case 'a', 'A':
			return sim.RollLeft, true
		case 'd', 'D':
			return sim.RollRight, true
		case 'w', 'W':
			return sim.ThrottleUp, true
		case 's', 'S':
			return sim.ThrottleDown, true
		}
	}
	return 0, false
}

// run draws the display and handles keys until the user quits or ctx is
// canceled.
func (u *ui) run(ctx context.Context, quit func()) error {
	defer u.lg.CatchAndReportCrash()

	// All drawing happens on this goroutine; the ticker just wakes it up.
	go func() {
		t := time.NewTicker(time.Second / 30)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				u.screen.PostEvent(tcell.NewEventInterrupt(nil))
				return
			case <-t.C:
				u.screen.PostEvent(tcell.NewEventInterrupt(nil))
			}
		}
	}()

	for {
		if ctx.Err() != nil {
			return nil
		}

		switch ev := u.screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventResize:
			u.screen.Sync()
		case *tcell.EventKey:
			if u.handleKey(ctx, ev) {
				quit()
				return nil
			}
		}
		u.render()
	}
}

// handleKey returns true if the user asked to quit.
func (u *ui) handleKey(ctx context.Context, ev *tcell.EventKey) bool {
	if c, ok := controlForKey(ev.Key(), ev.Rune()); ok {
		u.input.Press(c)
		return false
	}

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
	default:
		return false
	}

	switch ev.Rune() {
	case 'q', 'Q':
		return true

	case 'e', 'E':
		u.do(func(s *sim.State) { s.ToggleEngine() })

	case '\\':
		u.do(func(s *sim.State) { s.SetAdvisoryEnabled(!s.AdvisoryEnabled) })

	case '/':
		u.do(func(s *sim.State) { s.RequestManual() })

	case 'c', 'C':
		u.do(func(s *sim.State) {
			u.requestAdvisory(s, advisory.ModeControl, "Forced AI control call sent!")
		})

	case 'k', 'K':
		u.do(func(s *sim.State) {
			u.requestAdvisory(s, advisory.ModeFeedback, "AI feedback requested")
		})

	case 'l', 'L':
		u.do(func(s *sim.State) {
			path := filepath.Join(u.exportDir, "flight_data.json")
			if err := flightlog.ExportFlightData(path, s.FlightData()); err != nil {
				u.flash(fmt.Sprintf("Export failed: %v", err))
			} else {
				u.flash("Flight data exported to " + path)
			}
			u.requestAdvisory(s, advisory.ModeFeedback, "AI feedback requested")
		})

	case 'j', 'J':
		u.do(func(s *sim.State) {
			name := "ai_feedback_log.json"
			if s.Profile.Kind == sim.Drone {
				name = "drone_ai_feedback_log.json"
			}
			path := filepath.Join(u.exportDir, name)
			if err := s.FeedbackLog().Export(path); err != nil {
				u.flash(fmt.Sprintf("Export failed: %v", err))
			} else {
				u.flash(fmt.Sprintf("%d feedback entries exported to %s", s.FeedbackLog().Len(), path))
			}
		})

	case 'h', 'H':
		u.do(func(s *sim.State) {
			fd := s.FlightData()
			go func() {
				if err := u.manualLog.ManualLog(ctx, fd); err != nil {
					u.flash(fmt.Sprintf("Manual log failed: %v", err))
				} else {
					u.flash("Flight data appended to log!")
				}
			}()
		})
	}
	return false
}

// do queues f to run on the simulation goroutine.
func (u *ui) do(f command) {
	select {
	case u.cmds <- f:
	default:
		u.lg.Warn("command queue full; key dropped")
	}
}

// flash shows a message in the event list. It may be called from any
// goroutine.
func (u *ui) flash(text string) {
	u.es.Post(sim.Event{Type: sim.NoticeEvent, Text: text})
}

func (u *ui) requestAdvisory(s *sim.State, mode advisory.Mode, sent string) {
	if err := s.RequestAdvisory(mode); err != nil {
		u.flash(fmt.Sprintf("AI %s request: %v", mode, err))
	} else {
		u.flash(sent)
	}
}

func (u *ui) render() {
	for _, e := range u.events.Get() {
		u.lines = append(u.lines, fmt.Sprintf("%6d  %s", e.Tick, e.String()))
	}
	if n := len(u.lines); n > maxEventLines {
		u.lines = u.lines[n-maxEventLines:]
	}

	snap := u.cell.Load()
	u.screen.Clear()
	width, height := u.screen.Size()

	styleHeader := tcell.StyleDefault.Bold(true).Reverse(true)
	styleDefault := tcell.StyleDefault
	styleNotice := tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleWarn := tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleHelp := tcell.StyleDefault.Foreground(tcell.ColorGray)

	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}

	header := fmt.Sprintf(" %s | mode %s | engine %s | AI %s | tick %d",
		u.cfg.Label, snap.Mode, onOff(snap.EngineOn), onOff(snap.AdvisoryEnabled), snap.Tick)
	drawText(u.screen, 0, 0, width, styleHeader, header)

	y := 2
	line := func(style tcell.Style, format string, args ...any) {
		drawText(u.screen, 1, y, width-1, style, fmt.Sprintf(format, args...))
		y++
	}

	altStyle := styleDefault
	if snap.Altitude() < snap.Targets.Altitude {
		altStyle = styleWarn
	}
	line(altStyle, "%s", u.cfg.Altimeter.Format(snap.Altitude()))
	ground := "airborne"
	if snap.Grounded {
		ground = "on ground"
	}
	line(styleDefault, "Throttle: %3.0f%%   Speed: %.2f   %s", 100*snap.Throttle, snap.Velocity.Len(), ground)
	line(styleDefault, "Pitch: %6.1f°   Roll: %6.1f°   Heading: %6.1f°", math.Degrees(snap.Attitude.Pitch),
		math.Degrees(snap.Attitude.Roll), math.Degrees(snap.Attitude.Yaw))
	line(styleDefault, "Position: (%.1f, %.1f, %.1f)", snap.Position[0], snap.Position[1], snap.Position[2])
	line(styleDefault, "Targets: pitch %.2f  roll %.2f  yaw %.2f  altitude %.1f", snap.Targets.Pitch,
		snap.Targets.Roll, snap.Targets.Yaw, snap.Targets.Altitude)
	if !snap.Advisory.IsZero() {
		a := snap.Advisory
		line(styleDefault, "AI deltas: pitch %+.3f  roll %+.3f  yaw %+.3f  throttle %+.3f", a.Pitch, a.Roll, a.Yaw, a.Throttle)
	}
	if snap.Notice != "" {
		line(styleNotice, "%s", snap.Notice)
	}

	y++
	line(styleHeader, " Events ")
	for _, l := range u.lines {
		if y >= height-1 {
			break
		}
		line(styleDefault, "%s", l)
	}

	drawText(u.screen, 0, height-1, width, styleHelp, helpText)
	u.screen.Show()
}

// drawText draws a string at the given position, padding it with spaces
// to maxWidth.
func drawText(screen tcell.Screen, x, y, maxWidth int, style tcell.Style, text string) {
	col := 0
	for _, r := range text {
		if col >= maxWidth {
			break
		}
		screen.SetContent(x+col, y, r, nil, style)
		col++
	}
	for col < maxWidth {
		screen.SetContent(x+col, y, ' ', nil, style)
		col++
	}
}
