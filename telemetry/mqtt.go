// telemetry/mqtt.go
// Copyright(c) 2025 flightsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package telemetry

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aiflightsim/flightsim/log"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	qos    = 0
	retain = false
)

// MQTTSink publishes frames as JSON to a single topic.
type MQTTSink struct {
	client mqtt.Client
	topic  string
	lg     *log.Logger
}

func DialMQTT(broker, topic string, timeout time.Duration, lg *log.Logger) (*MQTTSink, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID("flightsim-" + uuid.NewString()).
		SetConnectTimeout(timeout).
		SetAutoReconnect(true).
		SetProtocolVersion(4) // MQTT 3.1.1

	client := mqtt.NewClient(opts)

	lg.Infof("Connecting to MQTT broker %s", broker)
	tok := client.Connect()
	if !tok.WaitTimeout(timeout) {
		return nil, errors.WithMessage(ErrConnectTimeout, broker)
	}
	if err := tok.Error(); err != nil {
		return nil, errors.WithMessagef(err, "%s", broker)
	}
	lg.Info("MQTT connected", "broker", broker, "topic", topic)

	return NewMQTTSink(client, topic, lg), nil
}

// NewMQTTSink wraps an already connected client.
func NewMQTTSink(client mqtt.Client, topic string, lg *log.Logger) *MQTTSink {
	return &MQTTSink{client: client, topic: topic, lg: lg}
}

func (m *MQTTSink) Name() string {
	return "mqtt " + m.topic
}

func (m *MQTTSink) Send(ctx context.Context, f Frame) error {
	b, err := json.Marshal(f)
	if err != nil {
		return err
	}

	tok := m.client.Publish(m.topic, qos, retain, b)
	select {
	case <-tok.Done():
		return tok.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *MQTTSink) Close() error {
	m.client.Disconnect(250)
	return nil
}
