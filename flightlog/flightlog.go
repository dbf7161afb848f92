// flightlog/flightlog.go
// Copyright(c) 2025 flightsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package flightlog keeps the in-memory record of advisory exchanges and
// exports it and flight-data snapshots to files.
package flightlog

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/aiflightsim/flightsim/advisory"
	"github.com/aiflightsim/flightsim/util"

	"github.com/pkg/errors"
)

const (
	FeedbackLogFilename = "ai_feedback_log.json"
	FlightDataFilename  = "flight_data.json"
)

// Entry records one completed advisory exchange.
type Entry struct {
	Timestamp  int64               `json:"timestamp" msgpack:"timestamp"` // ms since the epoch
	Mode       advisory.Mode       `json:"mode" msgpack:"mode"`
	FlightData advisory.FlightData `json:"flightData" msgpack:"flightData"`
	AIResponse string              `json:"aiResponse" msgpack:"aiResponse"`
}

func MakeEntry(t time.Time, req advisory.Request, response string) Entry {
	return Entry{
		Timestamp:  t.UnixMilli(),
		Mode:       req.Mode,
		FlightData: req.FlightData,
		AIResponse: response,
	}
}

// Log is an append-only in-memory list of entries. It is safe for
// concurrent use.
type Log struct {
	mu      sync.Mutex
	entries []Entry
}

func (l *Log) Append(e Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, e)
}

func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Entries returns a copy of the log's entries.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.entries)
}

// WriteJSON writes the log as an indented JSON array.
func (l *Log) WriteJSON(w io.Writer) error {
	entries := l.Entries()
	if entries == nil {
		entries = []Entry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

// Export writes the log to path; the format follows the extension (see
// WriteFile).
func (l *Log) Export(path string) error {
	return WriteFile(path, l.Entries())
}

// ExportFlightData writes a single flight-data snapshot to path.
func ExportFlightData(path string, fd advisory.FlightData) error {
	return WriteFile(path, fd)
}

// WriteFile writes obj to path as zstd-compressed msgpack if path ends in
// ".msgpack.zst" and as indented JSON otherwise.
func WriteFile(path string, obj any) error {
	if strings.HasSuffix(path, ".msgpack.zst") {
		return errors.WithMessagef(util.StoreObjectFile(path, obj), "%s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return err
	}
	return errors.WithMessagef(os.WriteFile(path, b, 0o644), "%s", path)
}

// ReadFile is the inverse of WriteFile.
func ReadFile[T any](path string, obj *T) error {
	if strings.HasSuffix(path, ".msgpack.zst") {
		return errors.WithMessagef(util.RetrieveObjectFile(path, obj), "%s", path)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return errors.WithMessagef(util.UnmarshalJSONBytes(b, obj), "%s", path)
}
