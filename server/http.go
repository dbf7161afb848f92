// server/http.go
// Copyright(c) 2025 flightsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package server

import (
	"context"
	"fmt"
	"html/template"
	gomath "math"
	"net/http"
	"net/http/pprof"
	"runtime"
	"time"

	"github.com/aiflightsim/flightsim/math"
	"github.com/aiflightsim/flightsim/sim"

	"github.com/gorilla/websocket"
	"github.com/shirou/gopsutil/cpu"
	"github.com/vmihailenco/msgpack/v5"
)

// StateFrame is one binary message on the /state websocket: the latest
// snapshot plus any simulation events posted since the previous frame.
type StateFrame struct {
	Snapshot sim.Snapshot `msgpack:"snapshot"`
	Events   []sim.Event  `msgpack:"events,omitempty"`
}

type serverStats struct {
	Uptime           time.Duration
	AllocMemory      uint64
	TotalAllocMemory uint64
	SysMemory        uint64
	TX               int64
	NumGC            uint32
	NumGoRoutines    int
	CPUUsage         int
	StateClients     int32

	Sim simStatus
}

type simStatus struct {
	Tick            int64
	Vehicle         string
	Mode            string
	AltitudeFeet    int
	Throttle        float64
	EngineOn        bool
	AdvisoryEnabled bool
	Notice          string
}

func makeSimStatus(snap sim.Snapshot) simStatus {
	return simStatus{
		Tick:            snap.Tick,
		Vehicle:         snap.Vehicle.String(),
		Mode:            snap.Mode.String(),
		AltitudeFeet:    int(gomath.Round(math.UnitsToFeet(snap.Altitude()))),
		Throttle:        snap.Throttle,
		EngineOn:        snap.EngineOn,
		AdvisoryEnabled: snap.AdvisoryEnabled,
		Notice:          snap.Notice,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/sup", func(w http.ResponseWriter, r *http.Request) {
		s.statsHandler(w, r)
		s.lg.Debugf("%s: served stats request", r.URL.String())
	})
	mux.HandleFunc("/state", s.stateHandler)

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	return mux
}

var templateFuncs = template.FuncMap{
	"kb": func(v int64) string { return fmt.Sprintf("%.1f KB", float64(v)/1024) },
}

var statsTemplate = template.Must(template.New("").Funcs(templateFuncs).Parse(`
<!DOCTYPE html>
<html>
<head>
<title>flightsim status</title>
</head>
<style>
table {
  border-collapse: collapse;
}

th, td {
  border: 1px solid #dddddd;
  padding: 8px;
  text-align: left;
}

tr:nth-child(even) {
  background-color: #f2f2f2;
}
</style>
<body>
<h1>Server Status</h1>
<ul>
  <li>Uptime: {{.Uptime}}</li>
  <li>CPU usage: {{.CPUUsage}}%</li>
  <li>State stream: {{.StateClients}} clients, {{kb .TX}} sent</li>
  <li>Allocated memory: {{.AllocMemory}} MB</li>
  <li>Total allocated memory: {{.TotalAllocMemory}} MB</li>
  <li>System memory: {{.SysMemory}} MB</li>
  <li>Garbage collection passes: {{.NumGC}}</li>
  <li>Running goroutines: {{.NumGoRoutines}}</li>
</ul>

<h1>Flight</h1>
<table>
{{with .Sim}}
  <tr><th>Tick</th><td>{{.Tick}}</td></tr>
  <tr><th>Vehicle</th><td>{{.Vehicle}}</td></tr>
  <tr><th>Mode</th><td>{{.Mode}}</td></tr>
  <tr><th>Altitude</th><td>{{.AltitudeFeet}} ft</td></tr>
  <tr><th>Throttle</th><td>{{printf "%.2f" .Throttle}}</td></tr>
  <tr><th>Engine</th><td>{{if .EngineOn}}on{{else}}off{{end}}</td></tr>
  <tr><th>Advisory</th><td>{{if .AdvisoryEnabled}}enabled{{else}}disabled{{end}}</td></tr>
  <tr><th>Notice</th><td>{{.Notice}}</td></tr>
{{end}}
</table>

</body>
</html>
`))

func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	stats := serverStats{
		Uptime:           time.Since(s.startTime).Round(time.Second),
		AllocMemory:      m.Alloc / (1024 * 1024),
		TotalAllocMemory: m.TotalAlloc / (1024 * 1024),
		SysMemory:        m.Sys / (1024 * 1024),
		TX:               s.txBytes.Load(),
		NumGC:            m.NumGC,
		NumGoRoutines:    runtime.NumGoroutine(),
		StateClients:     s.clients.Load(),

		Sim: makeSimStatus(s.snapshots.Load()),
	}
	if usage, err := cpu.Percent(s.CPUInterval, false); err == nil && len(usage) > 0 {
		stats.CPUUsage = int(gomath.Round(usage[0]))
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := statsTemplate.Execute(w, stats); err != nil {
		s.lg.Errorf("stats template: %v", err)
	}
}

// stateHandler streams StateFrames to a websocket client, one per
// interval, skipping intervals where neither the tick nor the events
// changed.
func (s *Server) stateHandler(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{EnableCompression: false}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.lg.Errorf("Unable to upgrade state websocket: %v", err)
		return
	}
	defer conn.Close()

	s.clients.Add(1)
	defer s.clients.Add(-1)
	s.lg.Infof("%s: state websocket connected", r.RemoteAddr)

	var sub *sim.EventsSubscription
	if s.events != nil {
		sub = s.events.Subscribe()
		defer sub.Unsubscribe()
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Clients don't send anything, but reading is how we see them go away.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	lastTick := int64(-1)
	for {
		frame := StateFrame{Snapshot: s.snapshots.Load()}
		if sub != nil {
			frame.Events = sub.Get()
		}

		if frame.Snapshot.Tick != lastTick || len(frame.Events) > 0 {
			if err := s.writeFrame(conn, frame); err != nil {
				s.lg.Infof("%s: state websocket closed: %v", r.RemoteAddr, err)
				return
			}
			lastTick = frame.Snapshot.Tick
		}

		select {
		case <-ctx.Done():
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
			return
		case <-ticker.C:
		}
	}
}

func (s *Server) writeFrame(conn *websocket.Conn, frame StateFrame) error {
	b, err := msgpack.Marshal(frame)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(max(5*s.interval, time.Second)))
	if err := conn.WriteMessage(websocket.BinaryMessage, b); err != nil {
		return err
	}
	s.txBytes.Add(int64(len(b)))
	return nil
}
