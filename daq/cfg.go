// Copyright 2023 The go-daq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package daq

import (
	"io"
	"log"
	"os"
)

type config struct {
	msg     *log.Logger
	baud    int
	samples int            // number of frames to acquire, negative for unbounded
	out     io.WriteCloser // raw count log sink
	fname   string         // raw count log file, opened in append mode
}

func newConfig() config {
	return config{
		msg:     log.New(os.Stdout, "daq: ", 0),
		baud:    115200,
		samples: -1,
	}
}

// Option configures a Device, Readout or Session.
type Option func(cfg *config)

// WithBaudRate sets the baud rate of the serial link.
func WithBaudRate(v int) Option {
	return func(cfg *config) {
		cfg.baud = v
	}
}

// WithSamples bounds the acquisition to n frames. A negative n (the
// default) acquires until the readout is stopped.
func WithSamples(n int) Option {
	return func(cfg *config) {
		cfg.samples = n
	}
}

// WithLog appends one raw record per acquired frame to w. The readout
// takes ownership of w and closes it when the stream ends.
func WithLog(w io.WriteCloser) Option {
	return func(cfg *config) {
		cfg.out = w
		cfg.fname = ""
	}
}

// WithLogFile appends one raw record per acquired frame to the named
// file, created if needed.
func WithLogFile(fname string) Option {
	return func(cfg *config) {
		cfg.fname = fname
		cfg.out = nil
	}
}

// WithLogger sets the logger used for progress messages.
func WithLogger(msg *log.Logger) Option {
	return func(cfg *config) {
		cfg.msg = msg
	}
}
