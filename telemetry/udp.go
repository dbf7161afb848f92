// telemetry/udp.go
// Copyright(c) 2025 flightsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package telemetry

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"time"

	"github.com/aiflightsim/flightsim/sim"

	"github.com/lunixbochs/struc"
	"github.com/pkg/errors"
)

const DatagramHeader = "FSIM"

// Datagram is the fixed-layout little-endian UDP telemetry packet.
type Datagram struct {
	Header    string  `struc:"[4]uint8,little"`
	Padding__ byte    `struc:"pad"`
	Tick      int64   `struc:"int64,little"`
	Mode      uint8   `struc:"uint8"`
	EngineOn  bool    `struc:"bool"`
	X         float64 `struc:"float64,little"`
	Y         float64 `struc:"float64,little"`
	Z         float64 `struc:"float64,little"`
	Pitch     float32 `struc:"float32,little"`
	Roll      float32 `struc:"float32,little"`
	Heading   float32 `struc:"float32,little"`
	Throttle  float32 `struc:"float32,little"`
}

func MakeDatagram(f Frame) Datagram {
	// Unknown mode names are sent as ModeAutoTakeoff.
	var mode sim.ControlMode
	_ = mode.UnmarshalText([]byte(f.Mode))

	return Datagram{
		Header:   DatagramHeader,
		Tick:     f.Tick,
		Mode:     uint8(mode),
		EngineOn: f.EngineOn,
		X:        f.Position.X,
		Y:        f.Position.Y,
		Z:        f.Position.Z,
		Pitch:    float32(f.Pitch),
		Roll:     float32(f.Roll),
		Heading:  float32(f.Heading),
		Throttle: float32(f.Throttle),
	}
}

func (d *Datagram) Pack() ([]byte, error) {
	var buf bytes.Buffer
	if err := struc.Pack(&buf, d); err != nil {
		return nil, fmt.Errorf("pack datagram: %w", err)
	}
	return buf.Bytes(), nil
}

func UnpackDatagram(b []byte) (Datagram, error) {
	var d Datagram
	if err := struc.Unpack(bytes.NewReader(b), &d); err != nil {
		return d, errors.WithMessage(ErrBadDatagram, err.Error())
	}
	if d.Header != DatagramHeader {
		return d, errors.WithMessagef(ErrBadDatagram, "header %q", d.Header)
	}
	return d, nil
}

// UDPSink sends each frame as a single Datagram.
type UDPSink struct {
	udp     *net.UDPConn
	timeout time.Duration
}

func DialUDP(addr string, timeout time.Duration) (*UDPSink, error) {
	serverAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("resolve telemetry address: %w", err)
	}

	conn, err := net.DialUDP("udp", nil, serverAddr)
	if err != nil {
		return nil, fmt.Errorf("dial udp: %w", err)
	}
	return &UDPSink{udp: conn, timeout: timeout}, nil
}

func (u *UDPSink) Name() string {
	return "udp " + u.udp.RemoteAddr().String()
}

func (u *UDPSink) Send(ctx context.Context, f Frame) error {
	d := MakeDatagram(f)
	b, err := d.Pack()
	if err != nil {
		return err
	}

	var deadline time.Time
	if u.timeout > 0 {
		deadline = time.Now().Add(u.timeout)
	}
	if dl, ok := ctx.Deadline(); ok && (deadline.IsZero() || dl.Before(deadline)) {
		deadline = dl
	}
	_ = u.udp.SetWriteDeadline(deadline)
	_, err = u.udp.Write(b)
	return err
}

func (u *UDPSink) Close() error {
	return u.udp.Close()
}
