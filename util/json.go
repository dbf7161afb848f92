// util/json.go
// Copyright(c) 2025 flightsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

var ErrHTTPStatus = errors.New("Unexpected HTTP status")

// Unmarshal the bytes into the given type but go through some efforts to
// return useful error messages when the JSON is invalid...
func UnmarshalJSONBytes[T any](b []byte, out *T) error {
	err := json.Unmarshal(b, out)
	if err == nil {
		return nil
	}

	decodeOffset := func(offset int64) (line, char int) {
		line, char = 1, 1
		for i := 0; i < int(offset) && i < len(b); i++ {
			if b[i] == '\n' {
				line++
				char = 1
			} else {
				char++
			}
		}
		return
	}

	switch jerr := err.(type) {
	case *json.SyntaxError:
		line, char := decodeOffset(jerr.Offset)
		return fmt.Errorf("Error at line %d, character %d: %v", line, char, jerr)

	case *json.UnmarshalTypeError:
		line, char := decodeOffset(jerr.Offset)
		return fmt.Errorf("Error at line %d, character %d: %s value invalid for type %s",
			line, char, jerr.Value, jerr.Type.String())

	default:
		return err
	}
}

// PostJSON POSTs in as JSON to url and decodes the JSON response body
// into out. Non-2xx responses return an error wrapping ErrHTTPStatus.
func PostJSON[In, Out any](ctx context.Context, hc *http.Client, url string, in In, out *Out) error {
	body, err := json.Marshal(in)
	if err != nil {
		return errors.WithMessage(err, "encoding request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return errors.WithMessagef(err, "POST %s", url)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WithMessagef(err, "%s: reading response", url)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.WithMessagef(ErrHTTPStatus, "%s: %s", url, resp.Status)
	}

	if err := UnmarshalJSONBytes(b, out); err != nil {
		return errors.WithMessagef(err, "%s: decoding response", url)
	}
	return nil
}
