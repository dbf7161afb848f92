// config/config.go
// Copyright(c) 2025 flightsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package config

import (
	"bytes"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/aiflightsim/flightsim/advisory"
	"github.com/aiflightsim/flightsim/log"
	"github.com/aiflightsim/flightsim/math"
	"github.com/aiflightsim/flightsim/sim"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is a vehicle configuration file. Fields that are absent from
// the file keep the defaults for the selected vehicle.
type Config struct {
	Label     string          `yaml:"label"`
	Vehicle   sim.VehicleKind `yaml:"vehicle"`
	Controls  sim.KeyRates    `yaml:"controls"`
	Altimeter sim.Altimeter   `yaml:"altimeter"`
	Profile   sim.Profile     `yaml:"profile"`
	Advisory  Advisory        `yaml:"advisory"`
	Telemetry Telemetry       `yaml:"telemetry"`
}

type Advisory struct {
	// URL is the base URL of the advisory service; no advisories are
	// requested if it is empty.
	URL     string        `yaml:"url"`
	Enabled bool          `yaml:"enabled"`
	Timeout time.Duration `yaml:"timeout"`
}

type Telemetry struct {
	MQTTBroker string        `yaml:"mqtt_broker"`
	MQTTTopic  string        `yaml:"mqtt_topic"`
	UDPAddr    string        `yaml:"udp_addr"`
	Interval   time.Duration `yaml:"interval"`
}

func Default(kind sim.VehicleKind) Config {
	c := Config{
		Label:     "Aircraft",
		Vehicle:   kind,
		Controls:  sim.DefaultKeyRates(),
		Altimeter: sim.DefaultAltimeter(),
		Profile:   sim.DefaultProfile(),
		Advisory: Advisory{
			URL:     "http://localhost:3000",
			Timeout: advisory.DefaultTimeout,
		},
		Telemetry: Telemetry{
			MQTTTopic: "flightsim/telemetry",
			Interval:  time.Second,
		},
	}
	if kind == sim.Drone {
		c.Label = "Drone"
		c.Profile = sim.DroneProfile()
	}
	return c
}

// DefaultPath returns the location of the user's configuration file.
func DefaultPath(lg *log.Logger) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		lg.Errorf("Unable to find user config dir: %v", err)
		dir = "."
	}
	return filepath.Join(dir, "FlightSim", "vehicle.yaml")
}

// Parse decodes a configuration, filling absent fields from the defaults
// for the vehicle it names, and validates the result.
func Parse(b []byte) (Config, error) {
	// The vehicle kind selects the defaults, so it is read first.
	var head struct {
		Vehicle sim.VehicleKind `yaml:"vehicle"`
	}
	if err := yaml.Unmarshal(b, &head); err != nil {
		return Config{}, errors.WithMessage(err, "vehicle")
	}

	c := Default(head.Vehicle)
	d := yaml.NewDecoder(bytes.NewReader(b))
	d.KnownFields(true)
	if err := d.Decode(&c); err != nil && err != io.EOF {
		return Config{}, err
	}
	c.Profile.Kind = c.Vehicle

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	c, err := Parse(b)
	if err != nil {
		return Config{}, errors.WithMessage(err, path)
	}
	return c, nil
}

// LoadOrDefault loads the configuration at path; if there is no such file
// the defaults for kind are returned.
func LoadOrDefault(path string, kind sim.VehicleKind, lg *log.Logger) (Config, error) {
	c, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		lg.Infof("%s: no configuration file; using %s defaults", path, kind)
		return Default(kind), nil
	} else if err != nil {
		return Config{}, err
	}
	lg.Info("loaded configuration", "path", path, "label", c.Label, "vehicle", c.Vehicle)
	return c, nil
}

func (c Config) Validate() error {
	if err := c.Profile.Validate(); err != nil {
		return errors.WithMessage(err, "profile")
	}

	k := c.Controls
	if !math.IsFinite(k.PitchSpeed, k.YawSpeed, k.RollSpeed, k.ThrottleIncrement) ||
		k.PitchSpeed < 0 || k.YawSpeed < 0 || k.RollSpeed < 0 || k.ThrottleIncrement < 0 {
		return ErrInvalidControls
	}

	if c.Altimeter.ScaleFactor == 0 || !math.IsFinite(c.Altimeter.ScaleFactor, c.Altimeter.BaseElevation) {
		return ErrInvalidAltimeter
	}

	if c.Advisory.URL != "" {
		u, err := url.Parse(c.Advisory.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return errors.WithMessagef(ErrInvalidAdvisorURL, "%q", c.Advisory.URL)
		}
	}
	if c.Advisory.Timeout < 0 {
		return ErrInvalidTimeout
	}
	if c.Telemetry.Interval <= 0 {
		return ErrInvalidTelemetry
	}
	return nil
}

func (c Config) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}

func (c Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return c.Encode(f)
}
