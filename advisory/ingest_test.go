// advisory/ingest_test.go
// Copyright(c) 2025 flightsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package advisory

import (
	"errors"
	gomath "math"
	"testing"
)

func TestIngestClampsDeltas(t *testing.T) {
	for _, test := range []struct {
		raw      string
		limits   Limits
		expected Deltas
	}{
		{
			raw:      `{"pitch": 10, "roll": 0, "yaw": 0, "throttle": 0}`,
			limits:   AircraftLimits(),
			expected: Deltas{Pitch: 0.05},
		},
		{
			raw:      `{"pitch": -0.01, "roll": -3, "yaw": 0.2, "throttle": 0.5}`,
			limits:   AircraftLimits(),
			expected: Deltas{Pitch: -0.01, Roll: -0.05, Yaw: 0.05, Throttle: 0.01},
		},
		{
			raw:      `{"pitch": 10, "roll": -0.1, "yaw": -1, "throttle": -1}`,
			limits:   DroneLimits(),
			expected: Deltas{Pitch: 0.2, Roll: -0.1, Yaw: -0.2, Throttle: -0.2},
		},
		{
			// Absent and non-numeric fields are zero.
			raw:      `{"pitch": "up", "yaw": null, "throttle": 0.004, "comment": "climb"}`,
			limits:   AircraftLimits(),
			expected: Deltas{Throttle: 0.004},
		},
		{
			raw:      `{}`,
			limits:   AircraftLimits(),
			expected: Deltas{},
		},
		{
			// Beyond float64 range; clamps like any other large value.
			raw:      `{"pitch": 1e400, "roll": -1e400, "yaw": 1e-400}`,
			limits:   AircraftLimits(),
			expected: Deltas{Pitch: 0.05, Roll: -0.05},
		},
	} {
		a, err := Ingest(test.raw, test.limits)
		if err != nil {
			t.Errorf("%s: unexpected error %v", test.raw, err)
			continue
		}
		if a.Deltas != test.expected {
			t.Errorf("%s: got %+v, expected %+v", test.raw, a.Deltas, test.expected)
		}
	}
}

func TestIngestInvalid(t *testing.T) {
	for _, raw := range []string{
		"",
		"Climb to 3000 feet and hold heading.",
		`{"pitch": 0.01,`,
		`[0.01, 0, 0, 0]`,
		`42`,
		`null`,
		`"{\"pitch\": 0.01}"`,
		`{"pitch": 0.01} {"roll": 0.01}`,
		`{"pitch": 0.01}}`,
	} {
		a, err := Ingest(raw, AircraftLimits())
		if !errors.Is(err, ErrInvalidAdvisory) {
			t.Errorf("%q: got error %v, expected ErrInvalidAdvisory", raw, err)
		}
		if !a.Deltas.IsZero() || a.Overrides != (Overrides{}) {
			t.Errorf("%q: got %+v, expected zero advisory", raw, a)
		}
	}
}

func TestIngestOverrides(t *testing.T) {
	l := AircraftLimits()

	a, err := Ingest(`{"targetPitch": -0.2, "targetAltitude": 180}`, l)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if a.Overrides.Pitch == nil || *a.Overrides.Pitch != -0.2 {
		t.Errorf("targetPitch override = %v, expected -0.2", a.Overrides.Pitch)
	}
	if a.Overrides.Altitude == nil || *a.Overrides.Altitude != 180 {
		t.Errorf("targetAltitude override = %v, expected 180", a.Overrides.Altitude)
	}
	if a.Overrides.Roll != nil || a.Overrides.Yaw != nil {
		t.Errorf("unexpected roll/yaw overrides %+v", a.Overrides)
	}

	a, err = Ingest(`{"targetAltitude": 1e999}`, l)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if a.Overrides.Altitude == nil || *a.Overrides.Altitude != l.MaxAltitude {
		t.Errorf("out of range targetAltitude = %v, expected %f", a.Overrides.Altitude, l.MaxAltitude)
	}

	a, err = Ingest(`{"targetPitch": 3, "targetRoll": -9, "targetYaw": 12, "targetAltitude": 1}`, l)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	for _, test := range []struct {
		name     string
		v        *float64
		expected float64
	}{
		{name: "pitch", v: a.Overrides.Pitch, expected: 0.52},
		{name: "roll", v: a.Overrides.Roll, expected: -0.52},
		{name: "yaw", v: a.Overrides.Yaw, expected: gomath.Pi},
		{name: "altitude", v: a.Overrides.Altitude, expected: l.MinAltitude},
	} {
		if test.v == nil || *test.v != test.expected {
			t.Errorf("%s override = %v, expected %f", test.name, test.v, test.expected)
		}
	}

	a, _ = Ingest(`{"targetAltitude": 5000}`, l)
	if a.Overrides.Altitude == nil || *a.Overrides.Altitude != l.MaxAltitude {
		t.Errorf("altitude override = %v, expected ceiling %f", a.Overrides.Altitude, l.MaxAltitude)
	}
}
