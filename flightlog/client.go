// flightlog/client.go
// Copyright(c) 2025 flightsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package flightlog

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/aiflightsim/flightsim/advisory"
	"github.com/aiflightsim/flightsim/log"
	"github.com/aiflightsim/flightsim/util"

	pkgerrors "github.com/pkg/errors"
)

const ManualLogPath = "/api/manual-log"

var ErrManualLogRejected = errors.New("Manual log entry rejected")

// Client appends flight-data snapshots to the advisory service's durable
// log.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	lg      *log.Logger
}

func NewClient(baseURL string, timeout time.Duration, lg *log.Logger) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
		lg:      lg,
	}
}

type manualLogRequest struct {
	FlightData advisory.FlightData `json:"flightData"`
}

type manualLogResponse struct {
	Status string `json:"status"`
}

func (c *Client) ManualLog(ctx context.Context, fd advisory.FlightData) error {
	var resp manualLogResponse
	if err := util.PostJSON(ctx, c.HTTP, c.BaseURL+ManualLogPath, manualLogRequest{FlightData: fd}, &resp); err != nil {
		c.lg.Warn("manual log failed", "error", err)
		return pkgerrors.WithMessage(err, "manual log")
	}
	if resp.Status != "ok" {
		return pkgerrors.WithMessagef(ErrManualLogRejected, "status %q", resp.Status)
	}
	c.lg.Info("flight data appended to log")
	return nil
}
