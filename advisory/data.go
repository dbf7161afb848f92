// advisory/data.go
// Copyright(c) 2025 flightsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package advisory

import (
	"github.com/aiflightsim/flightsim/flight"

	"github.com/go-gl/mathgl/mgl64"
)

// Mode selects how the advisory service treats a request: "control"
// responses carry deltas to apply, "feedback" responses are free text.
type Mode string

const (
	ModeControl  Mode = "control"
	ModeFeedback Mode = "feedback"
)

type Vector struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
	Z float64 `json:"z" msgpack:"z"`
}

func MakeVector(v mgl64.Vec3) Vector {
	return Vector{X: v[0], Y: v[1], Z: v[2]}
}

type Quaternion struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
	Z float64 `json:"z" msgpack:"z"`
	W float64 `json:"w" msgpack:"w"`
}

// FlightData is the snapshot of the vehicle that is sent to the advisory
// service and recorded in flight logs.
type FlightData struct {
	Position   Vector     `json:"position" msgpack:"position"`
	Velocity   Vector     `json:"velocity" msgpack:"velocity"`
	Quaternion Quaternion `json:"quaternion" msgpack:"quaternion"`
	Throttle   float64    `json:"throttle" msgpack:"throttle"`
	EngineOn   bool       `json:"engineOn" msgpack:"engineOn"`
}

func MakeFlightData(b flight.Body, throttle float64, engineOn bool) FlightData {
	q := b.Orientation
	return FlightData{
		Position:   MakeVector(b.Position),
		Velocity:   MakeVector(b.Velocity),
		Quaternion: Quaternion{X: q.X(), Y: q.Y(), Z: q.Z(), W: q.W},
		Throttle:   throttle,
		EngineOn:   engineOn,
	}
}

// Request is the body POSTed to the advisory service.
type Request struct {
	FlightData  FlightData `json:"flightData"`
	Mode        Mode       `json:"mode"`
	VehicleType string     `json:"vehicleType,omitempty"`
}

type response struct {
	AIResponse *string `json:"aiResponse"`
}
