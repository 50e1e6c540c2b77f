// Copyright 2023 The go-daq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package monitor accumulates per-channel count rates into fixed-capacity
// rolling windows for display, together with a running total over the
// whole acquisition.
package monitor // import "github.com/go-daq/pcc/monitor"

import (
	"gonum.org/v1/gonum/stat"

	"github.com/go-daq/pcc/counts"
)

// Chart is the rolling time series of one channel.
//
// Samples are ingested at a fixed logical time step: each Update
// advances the chart clock by dt and appends one (time, value) pair,
// evicting the oldest pair once the window is full. The running sum
// covers every sample ever ingested, not just the window.
type Chart struct {
	name string
	dt   float64

	time   float64
	times  []float64
	values []float64
	n      int // window capacity

	last float64
	sum  float64
}

// NewChart creates a chart named name, holding interval seconds of
// samples ingested every dt seconds.
func NewChart(name string, interval, dt float64) *Chart {
	n := int(interval / dt)
	if n < 1 {
		n = 1
	}
	return &Chart{
		name:   name,
		dt:     dt,
		times:  make([]float64, 0, n),
		values: make([]float64, 0, n),
		n:      n,
	}
}

// Update advances the chart clock by dt and ingests v.
func (c *Chart) Update(v float64) {
	if len(c.values) == c.n {
		c.times = c.times[:copy(c.times, c.times[1:])]
		c.values = c.values[:copy(c.values, c.values[1:])]
	}
	c.time += c.dt
	c.times = append(c.times, c.time)
	c.values = append(c.values, v)
	c.last = v
	c.sum += v
}

// Name returns the channel display name.
func (c *Chart) Name() string { return c.name }

// Last returns the most recently ingested value.
func (c *Chart) Last() float64 { return c.last }

// Sum returns the running total over all ingested samples.
func (c *Chart) Sum() float64 { return c.sum }

// Len returns the number of samples currently in the window.
func (c *Chart) Len() int { return len(c.values) }

// Window returns copies of the (time, value) pairs currently in the
// window, oldest first.
func (c *Chart) Window() (times, values []float64) {
	times = make([]float64, len(c.times))
	values = make([]float64, len(c.values))
	copy(times, c.times)
	copy(values, c.values)
	return times, values
}

// Mean returns the mean of the values currently in the window.
func (c *Chart) Mean() float64 {
	if len(c.values) == 0 {
		return 0
	}
	return stat.Mean(c.values, nil)
}

// Snapshot is the per-frame presentation feed of one chart.
type Snapshot struct {
	Name   string
	Times  []float64
	Values []float64
	Last   float64
	Sum    float64
	Mean   float64
}

func (c *Chart) snapshot() Snapshot {
	times, values := c.Window()
	return Snapshot{
		Name:   c.name,
		Times:  times,
		Values: values,
		Last:   c.last,
		Sum:    c.sum,
		Mean:   c.Mean(),
	}
}

// Board holds the seven channel charts of the coincidence counter,
// keyed by the fixed counts channel identity.
type Board struct {
	charts [counts.NumChans]*Chart
}

// NewBoard creates the seven charts, each holding interval seconds of
// samples at one sample every dt seconds.
func NewBoard(interval, dt float64) *Board {
	brd := new(Board)
	for i := range brd.charts {
		brd.charts[i] = NewChart(counts.ChanName(i), interval, dt)
	}
	return brd
}

// Update ingests one value per channel, in wire order.
func (brd *Board) Update(vals [counts.NumChans]float64) {
	for i, v := range vals {
		brd.charts[i].Update(v)
	}
}

// Chart returns the chart of the i-th channel.
func (brd *Board) Chart(i int) *Chart { return brd.charts[i] }

// Snapshot returns the current state of all seven charts, in wire order.
func (brd *Board) Snapshot() [counts.NumChans]Snapshot {
	var snaps [counts.NumChans]Snapshot
	for i, c := range brd.charts {
		snaps[i] = c.snapshot()
	}
	return snaps
}
