// Copyright 2023 The go-daq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package daq

import (
	"context"
	"errors"
	"io"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/go-daq/pcc/counts"
	"github.com/go-daq/pcc/monitor"
)

// State is the lifecycle state of a Session.
type State int32

const (
	Idle State = iota
	Running
	Stopping
	Stopped // terminal, no restart
)

func (st State) String() string {
	switch st {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	case Stopped:
		return "stopped"
	}
	return "invalid"
}

// Publisher receives the updated chart states, once per processed frame.
type Publisher interface {
	Publish(snaps [counts.NumChans]monitor.Snapshot)
}

// PublisherFunc adapts a function to the Publisher interface.
type PublisherFunc func(snaps [counts.NumChans]monitor.Snapshot)

func (f PublisherFunc) Publish(snaps [counts.NumChans]monitor.Snapshot) { f(snaps) }

// Session orchestrates one acquisition: it pulls frames from the
// readout on a dedicated goroutine, applies the accidental-coincidence
// correction, feeds the chart board in wire order and publishes the
// updated charts, one snapshot set per frame, in strict arrival order.
type Session struct {
	rdo *Readout
	cor *Corrector
	brd *monitor.Board
	pub Publisher

	state int32
}

// NewSession creates a session over rdo. pub may be nil.
func NewSession(rdo *Readout, cor *Corrector, brd *monitor.Board, pub Publisher) *Session {
	return &Session{
		rdo: rdo,
		cor: cor,
		brd: brd,
		pub: pub,
	}
}

// State returns the current session state.
func (s *Session) State() State {
	return State(atomic.LoadInt32(&s.state))
}

func (s *Session) setState(st State) {
	atomic.StoreInt32(&s.state, int32(st))
}

// Stop requests termination of the acquisition. Stop is idempotent; the
// frame already in flight is still processed and published.
func (s *Session) Stop() {
	atomic.CompareAndSwapInt32(&s.state, int32(Running), int32(Stopping))
	s.rdo.Stop()
}

// Run drives the acquisition until the stream ends: stop request,
// exhausted sample budget, ctx cancellation or link failure. On return
// the hardware link is closed and the session is Stopped.
func (s *Session) Run(ctx context.Context) error {
	err := s.rdo.Start()
	if err != nil {
		s.setState(Stopped)
		return err
	}
	s.setState(Running)

	var (
		frames = make(chan counts.Frame)
		halt   = make(chan struct{})
		grp    errgroup.Group
	)

	go func() {
		select {
		case <-ctx.Done():
			s.Stop()
		case <-halt:
		}
	}()

	grp.Go(func() error {
		defer close(frames)
		for {
			var f counts.Frame
			err := s.rdo.Next(&f)
			switch {
			case errors.Is(err, io.EOF):
				return nil
			case err != nil:
				return err
			}
			frames <- f
		}
	})

	grp.Go(func() error {
		for f := range frames {
			s.brd.Update(s.cor.Apply(f))
			if s.pub != nil {
				s.pub.Publish(s.brd.Snapshot())
			}
		}
		return nil
	})

	err = grp.Wait()
	close(halt)
	s.setState(Stopped)

	cerr := s.rdo.dev.Close()
	if err != nil {
		return err
	}
	return cerr
}
