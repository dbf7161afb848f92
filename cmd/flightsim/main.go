// cmd/flightsim/main.go
// Copyright(c) 2025 flightsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

// flightsim runs the flight control loop either interactively, in a
// terminal, or headless for a fixed number of ticks.

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aiflightsim/flightsim/advisory"
	"github.com/aiflightsim/flightsim/config"
	"github.com/aiflightsim/flightsim/log"
	"github.com/aiflightsim/flightsim/server"
	"github.com/aiflightsim/flightsim/sim"
	"github.com/aiflightsim/flightsim/telemetry"

	"github.com/goforj/godump"
)

var (
	logLevel     = flag.String("loglevel", "info", "logging level: debug, info, warn, error")
	logDir       = flag.String("logdir", "", "log file directory")
	configPath   = flag.String("config", "", "vehicle configuration file (default: FlightSim/vehicle.yaml in the user config directory)")
	vehicle      = flag.String("vehicle", "aircraft", "vehicle to fly when there is no configuration file: aircraft, drone")
	advisorURL   = flag.String("advisor", "", "advisory service base URL, overriding the configuration")
	manualLogURL = flag.String("manuallog", "http://localhost:3001", "base URL of the manual flight log service")
	enableAI     = flag.Bool("ai", false, "start with AI control enabled")
	steps        = flag.Int("steps", 0, "run headless for this many ticks and exit")
	httpPort     = flag.Int("port", server.DefaultPort, "status server port; 0 picks a free port, -1 disables the server")
	mqttBroker   = flag.String("mqtt", "", "MQTT broker URL for telemetry, overriding the configuration")
	udpAddr      = flag.String("udp", "", "host:port for telemetry datagrams, overriding the configuration")
	exportDir    = flag.String("exportdir", ".", "directory for flight data and feedback log exports")
	dump         = flag.Bool("dump", false, "dump the final simulation state on exit")
	writeConfig  = flag.Bool("writeconfig", false, "write the effective configuration to the configuration path and exit")
)

func main() {
	flag.Parse()

	lg := log.New(*logLevel, *logDir)
	defer lg.CatchAndReportCrash()

	var kind sim.VehicleKind
	if err := kind.UnmarshalText([]byte(*vehicle)); err != nil {
		fatalf(lg, "%s: %v", *vehicle, err)
	}

	path := *configPath
	if path == "" {
		path = config.DefaultPath(lg)
	}
	cfg, err := config.LoadOrDefault(path, kind, lg)
	if err != nil {
		fatalf(lg, "%v", err)
	}
	applyFlags(&cfg)
	if err := cfg.Validate(); err != nil {
		fatalf(lg, "%v", err)
	}

	if *writeConfig {
		if err := cfg.Save(path); err != nil {
			fatalf(lg, "%v", err)
		}
		fmt.Printf("Wrote configuration to %s\n", path)
		return
	}

	st := sim.NewState(cfg.Profile, lg)
	es := sim.NewEventStream(lg)
	defer es.Destroy()
	st.SetEventStream(es)

	if cfg.Advisory.URL != "" {
		client := advisory.NewClient(cfg.Advisory.URL, cfg.Advisory.Timeout, lg)
		st.SetAdvisor(advisory.NewDispatcher(client, cfg.Advisory.Timeout, lg))
	}
	if cfg.Advisory.Enabled {
		st.SetAdvisoryEnabled(true)
	}

	pub, err := makePublisher(cfg.Telemetry, lg)
	if err != nil {
		fatalf(lg, "telemetry: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *steps > 0 {
		err = runHeadless(ctx, st, *steps, pub, os.Stdout, lg)
	} else {
		err = runInteractive(ctx, st, es, cfg, pub, lg)
	}
	if err != nil {
		lg.Errorf("%v", err)
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}

	if *dump {
		godump.Dump(st.Snapshot())
	}
	if err != nil {
		os.Exit(1)
	}
}

func fatalf(lg *log.Logger, format string, args ...any) {
	lg.Errorf(format, args...)
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// applyFlags overlays command-line settings onto the loaded configuration.
func applyFlags(cfg *config.Config) {
	if *advisorURL != "" {
		cfg.Advisory.URL = *advisorURL
	}
	if *enableAI {
		cfg.Advisory.Enabled = true
	}
	if *mqttBroker != "" {
		cfg.Telemetry.MQTTBroker = *mqttBroker
	}
	if *udpAddr != "" {
		cfg.Telemetry.UDPAddr = *udpAddr
	}
}

// makePublisher connects the configured telemetry sinks. It returns nil
// if none are configured.
func makePublisher(t config.Telemetry, lg *log.Logger) (*telemetry.Publisher, error) {
	var sinks []telemetry.Sink
	closeAll := func() {
		for _, s := range sinks {
			s.Close()
		}
	}

	if t.MQTTBroker != "" {
		m, err := telemetry.DialMQTT(t.MQTTBroker, t.MQTTTopic, 5*time.Second, lg)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, m)
	}
	if t.UDPAddr != "" {
		u, err := telemetry.DialUDP(t.UDPAddr, time.Second)
		if err != nil {
			closeAll()
			return nil, err
		}
		sinks = append(sinks, u)
	}

	if len(sinks) == 0 {
		return nil, nil
	}
	return telemetry.NewPublisher(t.Interval, lg, sinks...), nil
}
