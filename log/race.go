// log/race.go
// Copyright(c) 2025 flightsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

//go:build race

package log

// RaceEnabled records whether the binary was built with the race
// detector; it is included in the startup system information.
const RaceEnabled = true
