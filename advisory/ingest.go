// advisory/ingest.go
// Copyright(c) 2025 flightsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package advisory

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	gomath "math"
	"strconv"
	"strings"

	"github.com/aiflightsim/flightsim/flight"
	"github.com/aiflightsim/flightsim/math"

	"github.com/pkg/errors"
)

// Deltas are per-tick control adjustments suggested by the advisory
// service.
type Deltas struct {
	Pitch    float64 `json:"pitch"`
	Roll     float64 `json:"roll"`
	Yaw      float64 `json:"yaw"`
	Throttle float64 `json:"throttle"`
}

func (d Deltas) Rotation() flight.Deltas {
	return flight.Deltas{Pitch: d.Pitch, Roll: d.Roll, Yaw: d.Yaw}
}

func (d Deltas) IsZero() bool {
	return d == Deltas{}
}

// Overrides holds the controller targets the advisory asked for; nil
// fields were absent or not numeric.
type Overrides struct {
	Pitch    *float64 `json:"targetPitch,omitempty"`
	Roll     *float64 `json:"targetRoll,omitempty"`
	Yaw      *float64 `json:"targetYaw,omitempty"`
	Altitude *float64 `json:"targetAltitude,omitempty"`
}

type Advisory struct {
	Deltas    Deltas
	Overrides Overrides
}

func (a Advisory) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Float64("pitch", a.Deltas.Pitch),
		slog.Float64("roll", a.Deltas.Roll),
		slog.Float64("yaw", a.Deltas.Yaw),
		slog.Float64("throttle", a.Deltas.Throttle),
	}
	add := func(name string, v *float64) {
		if v != nil {
			attrs = append(attrs, slog.Float64(name, *v))
		}
	}
	add("target_pitch", a.Overrides.Pitch)
	add("target_roll", a.Overrides.Roll)
	add("target_yaw", a.Overrides.Yaw)
	add("target_altitude", a.Overrides.Altitude)
	return slog.GroupValue(attrs...)
}

// Limits bounds what an advisory may ask for. Rotation and Throttle are
// symmetric per-tick delta limits; the remaining fields bound target
// overrides.
type Limits struct {
	Rotation    float64 `yaml:"rotation" json:"rotation"`
	Throttle    float64 `yaml:"throttle" json:"throttle"`
	Attitude    float64 `yaml:"attitude" json:"attitude"`
	Heading     float64 `yaml:"heading" json:"heading"`
	MinAltitude float64 `yaml:"min_altitude" json:"min_altitude"`
	MaxAltitude float64 `yaml:"max_altitude" json:"max_altitude"`
}

func AircraftLimits() Limits {
	return Limits{
		Rotation:    0.05,
		Throttle:    0.01,
		Attitude:    flight.MaxPitch,
		Heading:     gomath.Pi,
		MinAltitude: math.FeetToUnits(500),
		MaxAltitude: flight.DefaultPhysics().Ceiling,
	}
}

func DroneLimits() Limits {
	return Limits{
		Rotation:    0.2,
		Throttle:    0.2,
		Attitude:    flight.MaxPitch,
		Heading:     gomath.Pi,
		MinAltitude: flight.DefaultPhysics().GroundLevel,
		MaxAltitude: flight.DefaultPhysics().Ceiling,
	}
}

func (l Limits) String() string {
	return fmt.Sprintf("rotation ±%g throttle ±%g attitude ±%g heading ±%g altitude [%g, %g]",
		l.Rotation, l.Throttle, l.Attitude, l.Heading, l.MinAltitude, l.MaxAltitude)
}

// Ingest parses the text of a control advisory. The text must be a JSON
// object; numeric pitch/roll/yaw/throttle fields become deltas clamped to
// the limits, and numeric targetPitch/targetRoll/targetYaw/targetAltitude
// fields become clamped target overrides. Absent or non-numeric fields
// are treated as zero (deltas) or ignored (overrides). Numbers beyond
// float64 range clamp to the limit of their sign.
//
// On failure the returned Advisory is zero and the error wraps
// ErrInvalidAdvisory.
func Ingest(raw string, l Limits) (Advisory, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return Advisory{}, errors.WithMessage(ErrInvalidAdvisory, err.Error())
	} else if fields == nil {
		// "null"
		return Advisory{}, errors.WithMessage(ErrInvalidAdvisory, "not a JSON object")
	} else if _, err := dec.Token(); err != io.EOF {
		return Advisory{}, errors.WithMessage(ErrInvalidAdvisory, "trailing data after JSON object")
	}

	number := func(name string) (float64, bool) {
		n, ok := fields[name].(json.Number)
		if !ok {
			return 0, false
		}
		// Out of range values come back as ±Inf along with ErrRange.
		v, err := strconv.ParseFloat(n.String(), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return 0, false
		}
		return v, true
	}
	delta := func(name string, limit float64) float64 {
		v, _ := number(name)
		return math.ClampSym(v, limit)
	}
	override := func(name string, lo, hi float64) *float64 {
		if v, ok := number(name); ok {
			v = math.Clamp(v, lo, hi)
			return &v
		}
		return nil
	}

	return Advisory{
		Deltas: Deltas{
			Pitch:    delta("pitch", l.Rotation),
			Roll:     delta("roll", l.Rotation),
			Yaw:      delta("yaw", l.Rotation),
			Throttle: delta("throttle", l.Throttle),
		},
		Overrides: Overrides{
			Pitch:    override("targetPitch", -l.Attitude, l.Attitude),
			Roll:     override("targetRoll", -l.Attitude, l.Attitude),
			Yaw:      override("targetYaw", -l.Heading, l.Heading),
			Altitude: override("targetAltitude", l.MinAltitude, l.MaxAltitude),
		},
	}, nil
}
