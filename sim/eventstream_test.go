// sim/eventstream_test.go
// Copyright(c) 2025 flightsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"math/rand/v2"
	"testing"
)

func TestEventStream(t *testing.T) {
	es := NewEventStream(nil)
	defer es.Destroy()

	es.Post(Event{Type: NoticeEvent, Text: "dropped"})
	sub := es.Subscribe()
	if len(sub.Get()) != 0 {
		t.Errorf("subscriber saw an event posted before it subscribed")
	}

	es.Post(Event{Type: ModeChangedEvent, From: ModeAutoTakeoff, To: ModePID})
	es.Post(Event{Type: EngineEvent, Text: "Engine off"})
	s := sub.Get()
	if len(s) != 2 {
		t.Fatalf("expected 2 events, got %d", len(s))
	}
	if s[0].Type != ModeChangedEvent || s[0].To != ModePID {
		t.Errorf("first event %s", s[0].String())
	}
	if s[1].Type != EngineEvent {
		t.Errorf("second event %s", s[1].String())
	}

	if len(sub.Get()) != 0 {
		t.Errorf("events delivered twice")
	}
	sub.Unsubscribe()
}

func TestEventStreamCompact(t *testing.T) {
	es := NewEventStream(nil)
	defer es.Destroy()
	r := rand.New(rand.NewPCG(1, 2))

	// Consumers read at different rates; one goes away early.
	subs := [4]*EventsSubscription{es.Subscribe(), es.Subscribe(), es.Subscribe(), es.Subscribe()}
	p := [4]float32{1, 0.75, 0.05, 0.5}
	var next [4]int

	i, iter := 0, 0
	for i < 65536 {
		n := r.IntN(255)
		for j := range n {
			es.Post(Event{Type: EventType((i + j) % int(NumEventTypes))})
		}
		i += n

		if iter == 1 {
			subs[1].Unsubscribe()
		}

		for c, prob := range p {
			if r.Float32() > prob || (iter > 0 && c == 1) {
				continue
			}
			for _, ev := range subs[c].Get() {
				if next[c] != int(ev.Type) {
					t.Fatalf("consumer %d: expected %d, got %d", c, next[c], int(ev.Type))
				}
				next[c] = (next[c] + 1) % int(NumEventTypes)
			}
		}

		es.mu.Lock()
		es.compact()
		es.mu.Unlock()
		iter++
	}

	if cap(es.events) > i/2 {
		t.Errorf("events not compacted: len %d cap %d", len(es.events), cap(es.events))
	}
}

func TestStatePostsEvents(t *testing.T) {
	es := NewEventStream(nil)
	defer es.Destroy()
	sub := es.Subscribe()

	s := cruising(120)
	s.SetEventStream(es)
	s.Tick(Input{})
	s.RequestManual()
	s.ToggleEngine()

	evs := sub.Get()
	if len(evs) != 3 {
		t.Fatalf("expected mode, notice and engine events, got %d", len(evs))
	}
	if evs[0].Type != ModeChangedEvent || evs[0].From != ModePID || evs[0].To != ModeManual || evs[0].Tick != 1 {
		t.Errorf("mode event %s", evs[0].String())
	}
	if evs[1].Type != NoticeEvent || evs[1].Text != "Manual control" {
		t.Errorf("notice event %s", evs[1].String())
	}
	if evs[2].Type != EngineEvent || evs[2].Text != "Engine off" {
		t.Errorf("engine event %s", evs[2].String())
	}
}
