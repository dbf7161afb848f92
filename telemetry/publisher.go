// telemetry/publisher.go
// Copyright(c) 2025 flightsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package telemetry

import (
	"context"
	"log/slog"
	"time"

	"github.com/aiflightsim/flightsim/log"
	"github.com/aiflightsim/flightsim/sim"
)

// Sink is a telemetry destination.
type Sink interface {
	Name() string
	Send(ctx context.Context, f Frame) error
	Close() error
}

// Publisher periodically samples the simulation and fans frames out to
// its sinks. A failing sink is logged and does not affect the others.
type Publisher struct {
	sinks    []Sink
	interval time.Duration
	lg       *log.Logger

	Sent, Failed int
}

func NewPublisher(interval time.Duration, lg *log.Logger, sinks ...Sink) *Publisher {
	return &Publisher{sinks: sinks, interval: interval, lg: lg}
}

// Publish sends one frame to every sink and returns the first error.
func (p *Publisher) Publish(ctx context.Context, f Frame) error {
	if len(p.sinks) == 0 {
		return ErrNoSinks
	}

	var first error
	for _, s := range p.sinks {
		sctx, cancel := context.WithTimeout(ctx, p.interval)
		err := s.Send(sctx, f)
		cancel()

		if err != nil {
			p.Failed++
			p.lg.Warn("telemetry send failed", slog.String("sink", s.Name()), slog.Any("error", err))
			if first == nil {
				first = err
			}
		} else {
			p.Sent++
		}
	}
	return first
}

// Run publishes a frame from source every interval until ctx is
// canceled, then closes the sinks.
func (p *Publisher) Run(ctx context.Context, source func() sim.Snapshot) error {
	defer p.lg.CatchAndReportCrash()
	defer p.Close()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.lg.Info("telemetry stopped", slog.Int("sent", p.Sent), slog.Int("failed", p.Failed))
			return nil
		case t := <-ticker.C:
			_ = p.Publish(ctx, MakeFrame(source(), t))
		}
	}
}

func (p *Publisher) Close() {
	for _, s := range p.sinks {
		if err := s.Close(); err != nil {
			p.lg.Warn("telemetry sink close", slog.String("sink", s.Name()), slog.Any("error", err))
		}
	}
}
