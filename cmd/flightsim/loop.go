// cmd/flightsim/loop.go
// Copyright(c) 2025 flightsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aiflightsim/flightsim/config"
	"github.com/aiflightsim/flightsim/flight"
	"github.com/aiflightsim/flightsim/flightlog"
	"github.com/aiflightsim/flightsim/log"
	"github.com/aiflightsim/flightsim/server"
	"github.com/aiflightsim/flightsim/sim"
	"github.com/aiflightsim/flightsim/telemetry"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/sync/errgroup"
)

// command is run on the simulation goroutine between ticks; it is the
// only way other goroutines touch the sim.State.
type command func(s *sim.State)

// runSim owns st: it ticks it in real time at flight.TickRate, runs
// queued commands, and publishes a snapshot after each change.
func runSim(ctx context.Context, st *sim.State, input *sim.InputCollector, cmds <-chan command,
	cell *sim.SnapshotCell, lg *log.Logger) error {
	defer lg.CatchAndReportCrash()

	stepper := sim.NewStepper(flight.TickRate)
	ticker := time.NewTicker(stepper.Step)
	defer ticker.Stop()

	cell.Store(st.Snapshot())
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil

		case cmd := <-cmds:
			cmd(st)
			cell.Store(st.Snapshot())

		case now := <-ticker.C:
			n := stepper.Advance(now.Sub(last))
			last = now
			for range n {
				// Input accumulated since the last tick applies once.
				st.Tick(input.Take())
			}
			if n > 0 {
				cell.Store(st.Snapshot())
			}
		}
	}
}

// runHeadless ticks st as fast as possible, writing a telemetry line for
// every simulated second and for the final tick.
func runHeadless(ctx context.Context, st *sim.State, steps int, pub *telemetry.Publisher, w io.Writer,
	lg *log.Logger) error {
	if pub != nil {
		defer pub.Close()
	}

	start := time.Now()
	for i := range steps {
		if ctx.Err() != nil {
			lg.Infof("headless run interrupted after %d ticks", i)
			break
		}
		st.Tick(sim.Input{})

		if (i+1)%flight.TickRate != 0 && i != steps-1 {
			continue
		}
		f := telemetry.MakeFrame(st.Snapshot(), start.Add(time.Duration(i+1)*time.Second/flight.TickRate))
		if _, err := fmt.Fprintln(w, f.String()); err != nil {
			return err
		}
		if pub != nil {
			if err := pub.Publish(ctx, f); err != nil {
				lg.Warnf("telemetry: %v", err)
			}
		}
	}
	return nil
}

func runInteractive(ctx context.Context, st *sim.State, es *sim.EventStream, cfg config.Config,
	pub *telemetry.Publisher, lg *log.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()

	screen.SetStyle(tcell.StyleDefault.
		Background(tcell.ColorReset).
		Foreground(tcell.ColorReset))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var cell sim.SnapshotCell
	input := sim.NewInputCollector(cfg.Controls)
	cmds := make(chan command, 16)

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error { return runSim(ctx, st, input, cmds, &cell, lg) })

	if *httpPort >= 0 {
		if l, port, err := server.Listen(*httpPort, lg); err != nil {
			lg.Warnf("Unable to start status server: %v", err)
		} else {
			lg.Infof("status server on port %d", port)
			srv := server.New(&cell, es, 0, lg)
			eg.Go(func() error { return srv.Serve(ctx, l) })
		}
	}
	if pub != nil {
		eg.Go(func() error { return pub.Run(ctx, cell.Load) })
	}

	u := &ui{
		screen:    screen,
		cell:      &cell,
		es:        es,
		events:    es.Subscribe(),
		input:     input,
		cmds:      cmds,
		cfg:       cfg,
		manualLog: flightlog.NewClient(*manualLogURL, 10*time.Second, lg),
		exportDir: *exportDir,
		lg:        lg,
	}
	defer u.events.Unsubscribe()
	eg.Go(func() error { return u.run(ctx, cancel) })

	return eg.Wait()
}
