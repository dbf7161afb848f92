// advisory/client.go
// Copyright(c) 2025 flightsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package advisory

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/aiflightsim/flightsim/log"
	"github.com/aiflightsim/flightsim/util"

	"github.com/pkg/errors"
)

const FeedbackPath = "/api/flight-feedback"

// Client talks to the advisory service over HTTP.
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

// Feedback POSTs the request to the flight-feedback endpoint and returns
// the service's aiResponse text.
func (c *Client) Feedback(ctx context.Context, req Request) (string, error) {
	var resp response
	start := time.Now()
	if err := util.PostJSON(ctx, c.HTTP, c.BaseURL+FeedbackPath, req, &resp); err != nil {
		c.lg.Warn("advisory request failed", "mode", req.Mode, "error", err)
		return "", errors.WithMessage(err, "advisory")
	}
	if resp.AIResponse == nil {
		return "", ErrEmptyResponse
	}

	c.lg.Debug("advisory response", "mode", req.Mode, "elapsed", time.Since(start),
		"length", len(*resp.AIResponse))
	return *resp.AIResponse, nil
}
