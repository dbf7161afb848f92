// sim/altimeter.go
// Copyright(c) 2025 flightsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"fmt"

	"github.com/aiflightsim/flightsim/math"
)

// Altimeter converts simulation altitude into the readout shown to the
// operator.
type Altimeter struct {
	BaseElevation float64 `yaml:"base_elevation" json:"baseElevation"`
	ScaleFactor   float64 `yaml:"scale_factor" json:"scaleFactor"`
	Unit          string  `yaml:"unit" json:"unit"`
}

func DefaultAltimeter() Altimeter {
	return Altimeter{ScaleFactor: 1, Unit: "units"}
}

// Display returns the scaled altitude in display units.
func (a Altimeter) Display(alt float64) float64 {
	return a.BaseElevation + alt*a.ScaleFactor
}

func (a Altimeter) Format(alt float64) string {
	return fmt.Sprintf("Altitude: %.0f ft | %.1f %s", math.UnitsToFeet(alt), a.Display(alt), a.Unit)
}
