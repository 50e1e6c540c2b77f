// Copyright 2023 The go-daq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package daq

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/xerrors"

	"github.com/go-daq/pcc/counts"
)

// Correctable pairs, indexing both the tau vector and the enable flags.
const (
	PairAB = iota
	PairABp
	PairBBp

	NumPairs = 3
)

// PairName returns the display name of the i-th correctable pair.
func PairName(i int) string { return counts.ChanName(counts.ChanAB + i) }

// ErrTau reports a rejected replacement tau vector.
var ErrTau = errors.New("daq: invalid tau vector")

// Corrector subtracts the accidental-coincidence estimate from the pair
// channels of a frame.
//
// The tau coefficients and the per-pair enable flags may be replaced at
// any time by the operator; Apply reads them as one consistent snapshot
// per frame. A rejected replacement leaves the active vector untouched.
type Corrector struct {
	mu  sync.RWMutex
	tau [NumPairs]float64 // coincidence windows, seconds: AB, AB', BB'
	on  [NumPairs]bool
}

// NewCorrector creates a corrector with the given initial tau vector
// and all corrections disabled.
func NewCorrector(tau [NumPairs]float64) *Corrector {
	return &Corrector{tau: tau}
}

// SetTau replaces the active tau vector. The replacement must have
// exactly three non-negative finite entries; anything else is rejected
// with ErrTau and the active vector kept.
func (cor *Corrector) SetTau(tau []float64) error {
	if len(tau) != NumPairs {
		return xerrors.Errorf("daq: got %d tau entries, want %d: %w", len(tau), NumPairs, ErrTau)
	}
	for _, v := range tau {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return xerrors.Errorf("daq: tau entry %v out of range: %w", v, ErrTau)
		}
	}

	cor.mu.Lock()
	copy(cor.tau[:], tau)
	cor.mu.Unlock()
	return nil
}

// SetTauText parses and applies an operator-supplied tau vector of the
// form "[3.85e-9, 2.65e-9, 3.6e-9]" (brackets optional). Malformed
// input is rejected with ErrTau and the active vector kept.
func (cor *Corrector) SetTauText(text string) error {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")

	var tau []float64
	for _, tok := range strings.Split(s, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(tok), 64)
		if err != nil {
			return xerrors.Errorf("daq: could not parse tau entry %q: %w", tok, ErrTau)
		}
		tau = append(tau, v)
	}
	return cor.SetTau(tau)
}

// Tau returns the active tau vector.
func (cor *Corrector) Tau() [NumPairs]float64 {
	cor.mu.RLock()
	defer cor.mu.RUnlock()
	return cor.tau
}

// Enable switches the correction of the given pair on or off.
func (cor *Corrector) Enable(pair int, on bool) {
	cor.mu.Lock()
	cor.on[pair] = on
	cor.mu.Unlock()
}

// Enabled returns the per-pair enable flags.
func (cor *Corrector) Enabled() [NumPairs]bool {
	cor.mu.RLock()
	defer cor.mu.RUnlock()
	return cor.on
}

// Apply returns the corrected channel values of f. For each enabled
// pair, the accidental estimate 2*tau*singles*singles (from the raw,
// uncorrected singles of the same frame) is subtracted; the result may
// be negative. Singles and the triple coincidence pass through
// unchanged. f itself is never modified, and corrected values are for
// display only: the count log always receives the raw frame.
func (cor *Corrector) Apply(f counts.Frame) [counts.NumChans]float64 {
	cor.mu.RLock()
	tau, on := cor.tau, cor.on
	cor.mu.RUnlock()

	var out [counts.NumChans]float64
	for i, v := range f {
		out[i] = float64(v)
	}

	var (
		a  = float64(f[counts.ChanA])
		b  = float64(f[counts.ChanB])
		bp = float64(f[counts.ChanBp])
	)
	if on[PairAB] {
		out[counts.ChanAB] -= 2 * tau[PairAB] * a * b
	}
	if on[PairABp] {
		out[counts.ChanABp] -= 2 * tau[PairABp] * a * bp
	}
	if on[PairBBp] {
		out[counts.ChanBBp] -= 2 * tau[PairBBp] * b * bp
	}
	return out
}
