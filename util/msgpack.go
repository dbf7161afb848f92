// util/msgpack.go
// Copyright(c) 2025 flightsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

// StoreObject writes obj to w as zstd-compressed msgpack.
func StoreObject(w io.Writer, obj any) error {
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return errors.WithMessage(err, "creating zstd writer")
	}
	defer zw.Close()

	if err := msgpack.NewEncoder(zw).Encode(obj); err != nil {
		return errors.WithMessage(err, "encoding object")
	}
	return zw.Close()
}

// RetrieveObject is the inverse of StoreObject.
func RetrieveObject(r io.Reader, obj any) error {
	zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(0))
	if err != nil {
		return errors.WithMessage(err, "creating zstd reader")
	}
	defer zr.Close()

	return msgpack.NewDecoder(zr).Decode(obj)
}

func StoreObjectFile(path string, obj any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := StoreObject(f, obj); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func RetrieveObjectFile(path string, obj any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return RetrieveObject(f, obj)
}
