// util/util_test.go
// Copyright(c) 2025 flightsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
)

func TestUnmarshalJSONBytesErrors(t *testing.T) {
	var v map[string]float64
	err := UnmarshalJSONBytes([]byte("{\n  \"a\": 1,\n  \"b\": }"), &v)
	if err == nil || !strings.Contains(err.Error(), "line 3") {
		t.Errorf("expected error on line 3, got %v", err)
	}

	err = UnmarshalJSONBytes([]byte(`{"a": "x"}`), &v)
	if err == nil || !strings.Contains(err.Error(), "string value") {
		t.Errorf("expected type error, got %v", err)
	}

	if err := UnmarshalJSONBytes([]byte(`{"a": 2}`), &v); err != nil || v["a"] != 2 {
		t.Errorf("got %v / %v, expected a=2", v, err)
	}
}

func TestPostJSON(t *testing.T) {
	type req struct {
		Name string `json:"name"`
	}
	type resp struct {
		Greeting string `json:"greeting"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		var in req
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if in.Name == "fail" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(resp{Greeting: "hello " + in.Name})
	}))
	defer srv.Close()

	var out resp
	if err := PostJSON(context.Background(), srv.Client(), srv.URL, req{Name: "pilot"}, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Greeting != "hello pilot" {
		t.Errorf("got greeting %q", out.Greeting)
	}

	err := PostJSON(context.Background(), srv.Client(), srv.URL, req{Name: "fail"}, &out)
	if !errors.Is(err, ErrHTTPStatus) {
		t.Errorf("got %v, expected ErrHTTPStatus", err)
	}
}

func TestStoreRetrieveObject(t *testing.T) {
	type record struct {
		Mode  string
		Value []float64
	}
	in := []record{{Mode: "control", Value: []float64{1, 2.5}}, {Mode: "feedback"}}

	var buf bytes.Buffer
	if err := StoreObject(&buf, in); err != nil {
		t.Fatalf("StoreObject: %v", err)
	}
	var out []record
	if err := RetrieveObject(&buf, &out); err != nil {
		t.Fatalf("RetrieveObject: %v", err)
	}
	if len(out) != 2 || out[0].Mode != "control" || out[0].Value[1] != 2.5 || out[1].Mode != "feedback" {
		t.Errorf("got %+v, expected %+v", out, in)
	}

	fn := filepath.Join(t.TempDir(), "sub", "obj.msgpack.zst")
	if err := StoreObjectFile(fn, in); err != nil {
		t.Fatalf("StoreObjectFile: %v", err)
	}
	out = nil
	if err := RetrieveObjectFile(fn, &out); err != nil || len(out) != 2 {
		t.Errorf("RetrieveObjectFile: %v / %+v", err, out)
	}
}
