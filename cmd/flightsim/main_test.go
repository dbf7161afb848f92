// cmd/flightsim/main_test.go
// Copyright(c) 2025 flightsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"bytes"
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/aiflightsim/flightsim/config"
	"github.com/aiflightsim/flightsim/sim"
	"github.com/aiflightsim/flightsim/telemetry"

	"github.com/gdamore/tcell/v2"
)

func TestRunHeadless(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer pc.Close()

	sink, err := telemetry.DialUDP(pc.LocalAddr().String(), time.Second)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	pub := telemetry.NewPublisher(time.Second, nil, sink)

	st := sim.NewState(sim.DefaultProfile(), nil)
	var out bytes.Buffer
	if err := runHeadless(context.Background(), st, 150, pub, &out, nil); err != nil {
		t.Fatalf("runHeadless: %v", err)
	}

	if st.Ticks != 150 {
		t.Errorf("ran %d ticks", st.Ticks)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %q", out.String())
	}
	if !strings.HasPrefix(strings.TrimSpace(lines[2]), "150 ") {
		t.Errorf("last line %q", lines[2])
	}
	if pub.Sent != 3 {
		t.Errorf("published %d frames", pub.Sent)
	}

	buf := make([]byte, 128)
	pc.SetReadDeadline(time.Now().Add(time.Second))
	n, _, err := pc.ReadFrom(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	d, err := telemetry.UnpackDatagram(buf[:n])
	if err != nil {
		t.Fatalf("unpack: %v", err)
	}
	if d.Tick != 60 {
		t.Errorf("first datagram tick %d", d.Tick)
	}
}

func TestRunHeadlessCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	st := sim.NewState(sim.DefaultProfile(), nil)
	var out bytes.Buffer
	if err := runHeadless(ctx, st, 100, nil, &out, nil); err != nil {
		t.Fatalf("runHeadless: %v", err)
	}
	if st.Ticks != 0 || out.Len() != 0 {
		t.Errorf("canceled run still ticked %d times", st.Ticks)
	}
}

func TestMakePublisherNoSinks(t *testing.T) {
	pub, err := makePublisher(config.Default(sim.Aircraft).Telemetry, nil)
	if pub != nil || err != nil {
		t.Errorf("got %v / %v with no sinks configured", pub, err)
	}
}

func TestControlForKey(t *testing.T) {
	for _, test := range []struct {
		key  tcell.Key
		r    rune
		ctrl sim.Control
		ok   bool
	}{
		{tcell.KeyUp, 0, sim.PitchUp, true},
		{tcell.KeyDown, 0, sim.PitchDown, true},
		{tcell.KeyLeft, 0, sim.YawLeft, true},
		{tcell.KeyRight, 0, sim.YawRight, true},
		{tcell.KeyRune, 'a', sim.RollLeft, true},
		{tcell.KeyRune, 'D', sim.RollRight, true},
		{tcell.KeyRune, 'w', sim.ThrottleUp, true},
		{tcell.KeyRune, 's', sim.ThrottleDown, true},
		{tcell.KeyRune, 'e', 0, false},
		{tcell.KeyEnter, 0, 0, false},
	} {
		ctrl, ok := controlForKey(test.key, test.r)
		if ok != test.ok || (ok && ctrl != test.ctrl) {
			t.Errorf("key %v %q: got %v/%v, expected %v/%v", test.key, test.r, ctrl, ok, test.ctrl, test.ok)
		}
	}
}
