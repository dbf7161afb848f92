// advisory/dispatcher.go
// Copyright(c) 2025 flightsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package advisory

import (
	"context"
	"time"

	"github.com/aiflightsim/flightsim/log"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Requester issues a single advisory request.
type Requester interface {
	Feedback(ctx context.Context, req Request) (string, error)
}

// Result is the outcome of a dispatched request.
type Result struct {
	ID       string
	Request  Request
	Response string
	Err      error
	Issued   time.Time
	Elapsed  time.Duration
}

// Dispatcher runs advisory requests asynchronously with at most one
// request outstanding. A request is outstanding until its result is
// polled or its timeout elapses; results that arrive after the timeout
// are discarded.
type Dispatcher struct {
	requester Requester
	timeout   time.Duration
	pending   *expirable.LRU[string, time.Time]
	results   chan Result
	lg        *log.Logger
}

const DefaultTimeout = 30 * time.Second

func NewDispatcher(r Requester, timeout time.Duration, lg *log.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Dispatcher{
		requester: r,
		timeout:   timeout,
		// The slot outlives the request context slightly so that the
		// timeout error itself is still delivered.
		pending:   expirable.NewLRU[string, time.Time](1, nil, timeout+time.Second),
		results:   make(chan Result, 4),
		lg:        lg,
	}
}

// Pending reports whether a request is outstanding.
func (d *Dispatcher) Pending() bool {
	return len(d.pending.Values()) > 0
}

// Request starts req in the background and returns its ID. It returns
// ErrRequestPending if another request is outstanding.
func (d *Dispatcher) Request(req Request) (string, error) {
	if d.Pending() {
		return "", ErrRequestPending
	}

	id := uuid.NewString()
	issued := time.Now()
	d.pending.Add(id, issued)

	go func() {
		defer d.lg.CatchAndReportCrash()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		resp, err := d.requester.Feedback(ctx, req)
		r := Result{
			ID:       id,
			Request:  req,
			Response: resp,
			Err:      err,
			Issued:   issued,
			Elapsed:  time.Since(issued),
		}

		select {
		case d.results <- r:
		default:
			d.lg.Warn("advisory result dropped: queue full", "id", id)
		}
	}()

	d.lg.Debug("advisory request issued", "id", id, "mode", req.Mode)
	return id, nil
}

// Poll returns the results that have completed since the last call
// without blocking. Results for requests that timed out are dropped.
func (d *Dispatcher) Poll() []Result {
	var r []Result
	for {
		select {
		case res := <-d.results:
			if _, ok := d.pending.Peek(res.ID); !ok {
				d.lg.Info("stale advisory result dropped", "id", res.ID, "elapsed", res.Elapsed)
				continue
			}
			d.pending.Remove(res.ID)
			r = append(r, res)
		default:
			return r
		}
	}
}
