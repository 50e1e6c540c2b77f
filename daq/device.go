// Copyright 2023 The go-daq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package daq

import (
	"fmt"
	"io"
	"log"

	"go.bug.st/serial"
)

// Single-byte commands understood by the counter firmware.
const (
	cmdStart = 's' // start streaming count frames
	cmdStop  = 'x' // stop streaming
)

// link is the byte-oriented channel to the instrument.
type link interface {
	io.Reader
	io.Writer
	io.Closer
}

var serialOpen = serialOpenImpl

func serialOpenImpl(name string, baud int) (link, error) {
	port, err := serial.Open(name, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	return port, err
}

// Device represents the photon-coincidence counter, attached through a
// serial link. The link is exclusively owned by the device and, during
// an acquisition, driven only by its Readout.
type Device struct {
	msg  *log.Logger
	name string
	port link
}

// NewDevice opens the serial link to the counter on the named port.
func NewDevice(name string, opts ...Option) (*Device, error) {
	cfg := newConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	port, err := serialOpen(name, cfg.baud)
	if err != nil {
		return nil, fmt.Errorf("daq: could not open serial link %q: %w", name, err)
	}

	dev := &Device{
		msg:  cfg.msg,
		name: name,
		port: port,
	}
	dev.msg.Printf("serial link %q initialized (baud=%d)", name, cfg.baud)
	return dev, nil
}

func (dev *Device) cmd(v byte) error {
	if dev.port == nil {
		return fmt.Errorf("daq: device %q is closed", dev.name)
	}
	_, err := dev.port.Write([]byte{v})
	if err != nil {
		return fmt.Errorf("daq: could not send command %q to %q: %w", v, dev.name, err)
	}
	return nil
}

func (dev *Device) start() error { return dev.cmd(cmdStart) }
func (dev *Device) stop() error  { return dev.cmd(cmdStop) }

// Close closes the serial link. Close is idempotent.
func (dev *Device) Close() error {
	if dev.port == nil {
		return nil
	}
	err := dev.port.Close()
	dev.port = nil
	if err != nil {
		return fmt.Errorf("daq: could not close serial link %q: %w", dev.name, err)
	}
	return nil
}
