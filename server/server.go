// server/server.go
// Copyright(c) 2025 flightsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/aiflightsim/flightsim/log"
	"github.com/aiflightsim/flightsim/sim"
)

const DefaultPort = 6502

// DefaultStateInterval is how often the state websocket pushes a
// snapshot.
const DefaultStateInterval = 50 * time.Millisecond

// Server exposes the running simulation over HTTP: a status page, a
// websocket stream of snapshots for external renderers, and pprof.
type Server struct {
	snapshots *sim.SnapshotCell
	events    *sim.EventStream
	interval  time.Duration
	// Sampling window for the status page's CPU figure; zero compares
	// against the previous call.
	CPUInterval time.Duration

	startTime time.Time
	clients   atomic.Int32
	txBytes   atomic.Int64
	lg        *log.Logger
}

// New returns a server reading from snapshots. events may be nil, in
// which case state frames carry no events.
func New(snapshots *sim.SnapshotCell, events *sim.EventStream, interval time.Duration, lg *log.Logger) *Server {
	if interval <= 0 {
		interval = DefaultStateInterval
	}
	return &Server{
		snapshots:   snapshots,
		events:      events,
		interval:    interval,
		CPUInterval: time.Second,
		startTime:   time.Now(),
		lg:          lg,
	}
}

// Listen opens a listener on port, trying the following nine ports if
// it is taken. A zero port picks any free one.
func Listen(port int, lg *log.Logger) (net.Listener, int, error) {
	if port == 0 {
		l, err := net.Listen("tcp", ":0")
		if err != nil {
			return nil, 0, err
		}
		return l, l.Addr().(*net.TCPAddr).Port, nil
	}

	var err error
	for i := range 10 {
		var l net.Listener
		if l, err = net.Listen("tcp", ":"+strconv.Itoa(port+i)); err == nil {
			return l, port + i, nil
		}
		lg.Debugf("port %d: %v", port+i, err)
	}
	return nil, 0, err
}

// Serve handles requests on l until ctx is canceled.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			s.lg.Warnf("HTTP server shutdown: %v", err)
			srv.Close()
		}
	}()

	s.lg.Infof("serving status on %s", l.Addr())
	if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
