// advisory/client_test.go
// Copyright(c) 2025 flightsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package advisory

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/aiflightsim/flightsim/flight"
	"github.com/aiflightsim/flightsim/util"

	"github.com/go-gl/mathgl/mgl64"
)

func newAdvisoryServer(t *testing.T, reply func(Request) (int, string)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != FeedbackPath {
			http.NotFound(w, r)
			return
		}
		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		status, body := reply(req)
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientFeedback(t *testing.T) {
	var got Request
	srv := newAdvisoryServer(t, func(req Request) (int, string) {
		got = req
		return http.StatusOK, `{"aiResponse": "{\"pitch\": 0.02}"}`
	})

	b := flight.NewBody(mgl64.Vec3{1, 2, 3})
	fd := MakeFlightData(b, 0.4, true)
	c := NewClient(srv.URL+"/", time.Second, nil)

	resp, err := c.Feedback(context.Background(), Request{FlightData: fd, Mode: ModeControl})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if resp != `{"pitch": 0.02}` {
		t.Errorf("got response %q", resp)
	}
	if got.Mode != ModeControl || got.FlightData.Position != (Vector{1, 2, 3}) ||
		got.FlightData.Throttle != 0.4 || !got.FlightData.EngineOn || got.FlightData.Quaternion.W != 1 {
		t.Errorf("server received %+v", got)
	}
}

func TestClientErrors(t *testing.T) {
	srv := newAdvisoryServer(t, func(req Request) (int, string) {
		switch req.Mode {
		case ModeControl:
			return http.StatusBadGateway, `{"error": "upstream"}`
		default:
			return http.StatusOK, `{"status": "ok"}`
		}
	})
	c := NewClient(srv.URL, time.Second, nil)

	if _, err := c.Feedback(context.Background(), Request{Mode: ModeControl}); !errors.Is(err, util.ErrHTTPStatus) {
		t.Errorf("got %v, expected ErrHTTPStatus", err)
	}
	if _, err := c.Feedback(context.Background(), Request{Mode: ModeFeedback}); !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("got %v, expected ErrEmptyResponse", err)
	}

	bad := NewClient("http://127.0.0.1:1", time.Second, nil)
	if _, err := bad.Feedback(context.Background(), Request{Mode: ModeFeedback}); err == nil {
		t.Errorf("expected transport error")
	}
}

type fakeRequester struct {
	mu      sync.Mutex
	calls   int
	release chan struct{}
	reply   string
	err     error
}

func (f *fakeRequester) Feedback(ctx context.Context, req Request) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.reply, f.err
}

func pollUntil(t *testing.T, d *Dispatcher) []Result {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if r := d.Poll(); len(r) > 0 {
			return r
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for advisory result")
	return nil
}

func TestDispatcherSingleSlot(t *testing.T) {
	f := &fakeRequester{release: make(chan struct{}), reply: `{"yaw": 0.01}`}
	d := NewDispatcher(f, 5*time.Second, nil)

	id, err := d.Request(Request{Mode: ModeControl})
	if err != nil || id == "" {
		t.Fatalf("first request: id=%q err=%v", id, err)
	}
	if !d.Pending() {
		t.Errorf("request not marked pending")
	}
	if _, err := d.Request(Request{Mode: ModeFeedback}); !errors.Is(err, ErrRequestPending) {
		t.Errorf("second request: got %v, expected ErrRequestPending", err)
	}
	if r := d.Poll(); len(r) != 0 {
		t.Errorf("got results %+v before the request completed", r)
	}

	close(f.release)
	r := pollUntil(t, d)
	if len(r) != 1 || r[0].ID != id || r[0].Response != `{"yaw": 0.01}` || r[0].Err != nil {
		t.Errorf("got results %+v", r)
	}
	if d.Pending() {
		t.Errorf("slot not released after result was polled")
	}

	if _, err := d.Request(Request{Mode: ModeControl}); err != nil {
		t.Errorf("request after completion: %v", err)
	}
}

func TestDispatcherTimeout(t *testing.T) {
	f := &fakeRequester{release: make(chan struct{})}
	d := NewDispatcher(f, 20*time.Millisecond, nil)

	if _, err := d.Request(Request{Mode: ModeControl}); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	r := pollUntil(t, d)
	if len(r) != 1 || !errors.Is(r[0].Err, context.DeadlineExceeded) {
		t.Errorf("got results %+v, expected a deadline error", r)
	}
}
