// Copyright 2023 The go-daq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package daq

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"golang.org/x/xerrors"

	"github.com/go-daq/pcc/counts"
)

// Readout drives the counter's start/stop handshake and produces the
// stream of decoded count frames, appending each raw frame to the log
// before handing it out.
//
// A Readout is not restartable: once the stream ends (stop request,
// exhausted sample budget or link error) the stop command has been sent
// and the log closed, and Next only returns io.EOF.
//
// Stop is cooperative and honored at frame boundaries only: a Next call
// blocked on a stalled instrument returns when the link itself does.
// This bounds the shutdown latency by one frame period.
type Readout struct {
	msg *log.Logger
	dev *Device
	dec *counts.Decoder

	out     io.WriteCloser // raw count log, nil if disabled
	samples int            // remaining sample budget, negative for unbounded

	started bool
	done    bool

	quit chan struct{}
	once sync.Once
}

// NewReadout creates a readout attached to dev. The device must stay
// open for the lifetime of the readout.
func NewReadout(dev *Device, opts ...Option) (*Readout, error) {
	cfg := newConfig()
	cfg.msg = dev.msg
	for _, opt := range opts {
		opt(&cfg)
	}

	out := cfg.out
	if cfg.fname != "" {
		f, err := os.OpenFile(cfg.fname, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("daq: could not open count log %q: %w", cfg.fname, err)
		}
		out = f
	}

	return &Readout{
		msg:     cfg.msg,
		dev:     dev,
		dec:     counts.NewDecoder(dev.port),
		out:     out,
		samples: cfg.samples,
		quit:    make(chan struct{}),
	}, nil
}

// Start sends the start command to the counter. Starting a readout
// twice, or after its stream has ended, is an error.
func (rdo *Readout) Start() error {
	switch {
	case rdo.done:
		return xerrors.Errorf("daq: readout already stopped")
	case rdo.started:
		return xerrors.Errorf("daq: readout already started")
	}

	err := rdo.dev.start()
	if err != nil {
		return xerrors.Errorf("daq: could not start acquisition: %w", err)
	}
	rdo.started = true
	rdo.msg.Printf("acquisition started")
	return nil
}

// Next blocks until one full frame is available and decodes it into f.
// The raw frame is appended to the log before Next returns, so a frame
// is never yielded without being logged nor logged without being
// yielded. Next returns io.EOF once the stream has ended.
func (rdo *Readout) Next(f *counts.Frame) error {
	switch {
	case !rdo.started:
		return xerrors.Errorf("daq: readout not started")
	case rdo.done:
		return io.EOF
	}

	select {
	case <-rdo.quit:
		return rdo.finish(nil)
	default:
	}

	if rdo.samples == 0 {
		return rdo.finish(nil)
	}

	err := rdo.dec.Decode(f)
	if err != nil {
		return rdo.finish(xerrors.Errorf("daq: could not acquire frame: %w", err))
	}

	if rdo.out != nil {
		_, err = fmt.Fprintf(rdo.out, "%d %d %d %d %d %d %d\n",
			f[0], f[1], f[2], f[3], f[4], f[5], f[6],
		)
		if err != nil {
			return rdo.finish(xerrors.Errorf("daq: could not log frame: %w", err))
		}
	}

	if rdo.samples > 0 {
		rdo.samples--
	}
	return nil
}

// Stop requests termination of the stream. Stop is idempotent and takes
// effect at the next frame boundary; the frame already in flight is
// still decoded, logged and yielded.
func (rdo *Readout) Stop() {
	rdo.once.Do(func() { close(rdo.quit) })
}

// finish tears the stream down: best-effort stop handshake and log
// close, in that order. A prior acquisition error takes precedence over
// cleanup errors; a clean shutdown reports io.EOF.
func (rdo *Readout) finish(err error) error {
	rdo.done = true

	stopErr := rdo.dev.stop()

	var closeErr error
	if rdo.out != nil {
		closeErr = rdo.out.Close()
		rdo.out = nil
	}

	switch {
	case err != nil:
		return err
	case stopErr != nil:
		return xerrors.Errorf("daq: could not stop acquisition: %w", stopErr)
	case closeErr != nil:
		return xerrors.Errorf("daq: could not close count log: %w", closeErr)
	}

	rdo.msg.Printf("acquisition stopped")
	return io.EOF
}
