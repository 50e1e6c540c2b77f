// Copyright 2023 The go-daq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package daq

import (
	"bytes"
	"io"
	"log"
	"testing"

	"github.com/go-daq/pcc/counts"
)

// fakeLink replays a canned byte stream as the instrument and records
// the command bytes sent to it.
type fakeLink struct {
	rd     io.Reader
	cmds   bytes.Buffer
	closed bool
}

func (lk *fakeLink) Read(p []byte) (int, error)  { return lk.rd.Read(p) }
func (lk *fakeLink) Write(p []byte) (int, error) { return lk.cmds.Write(p) }
func (lk *fakeLink) Close() error {
	lk.closed = true
	return nil
}

// wire encodes frames back-to-back in the instrument's wire format.
func wire(t *testing.T, frames ...counts.Frame) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	enc := counts.NewEncoder(buf)
	for i := range frames {
		if err := enc.Encode(&frames[i]); err != nil {
			t.Fatalf("could not encode frame %d: %+v", i, err)
		}
	}
	return buf.Bytes()
}

func newFakeDevice(t *testing.T, lk link) *Device {
	t.Helper()
	old := serialOpen
	serialOpen = func(name string, baud int) (link, error) { return lk, nil }
	defer func() { serialOpen = old }()

	dev, err := NewDevice("/dev/ttyFAKE", WithLogger(log.New(io.Discard, "", 0)))
	if err != nil {
		t.Fatalf("could not create fake device: %+v", err)
	}
	return dev
}

// closeRecorder is a log sink that records whether it was closed.
type closeRecorder struct {
	bytes.Buffer
	closed int
}

func (w *closeRecorder) Close() error {
	w.closed++
	return nil
}

func (w *closeRecorder) lines() []string {
	var lines []string
	for _, l := range bytes.Split(w.Bytes(), []byte("\n")) {
		if len(l) == 0 {
			continue
		}
		lines = append(lines, string(l))
	}
	return lines
}
