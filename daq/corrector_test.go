// Copyright 2023 The go-daq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package daq

import (
	"errors"
	"math"
	"testing"

	"github.com/go-daq/pcc/counts"
)

func TestCorrectorApply(t *testing.T) {
	raw := counts.Frame{10, 10, 10, 5, 5, 5, 2}

	for _, tc := range []struct {
		name string
		tau  [NumPairs]float64
		on   [NumPairs]bool
		want [counts.NumChans]float64
	}{
		{
			name: "all-disabled",
			tau:  [NumPairs]float64{0.1, 0.1, 0.1},
			want: [counts.NumChans]float64{10, 10, 10, 5, 5, 5, 2},
		},
		{
			name: "ab-only",
			tau:  [NumPairs]float64{0.1, 0.1, 0.1},
			on:   [NumPairs]bool{PairAB: true},
			want: [counts.NumChans]float64{10, 10, 10, -15, 5, 5, 2},
		},
		{
			name: "abp-only",
			tau:  [NumPairs]float64{0.1, 0.1, 0.1},
			on:   [NumPairs]bool{PairABp: true},
			want: [counts.NumChans]float64{10, 10, 10, 5, -15, 5, 2},
		},
		{
			name: "bbp-only",
			tau:  [NumPairs]float64{0.1, 0.1, 0.1},
			on:   [NumPairs]bool{PairBBp: true},
			want: [counts.NumChans]float64{10, 10, 10, 5, 5, -15, 2},
		},
		{
			name: "all-enabled",
			tau:  [NumPairs]float64{0.1, 0.2, 0.3},
			on:   [NumPairs]bool{true, true, true},
			want: [counts.NumChans]float64{10, 10, 10, -15, -35, -55, 2},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cor := NewCorrector(tc.tau)
			for pair, on := range tc.on {
				cor.Enable(pair, on)
			}
			got := cor.Apply(raw)
			if got != tc.want {
				t.Fatalf("invalid corrected frame:\ngot= %v\nwant=%v", got, tc.want)
			}
		})
	}
}

// Correction is channel-local: toggling one pair never changes the
// corrected value of the others.
func TestCorrectorChannelLocal(t *testing.T) {
	var (
		raw = counts.Frame{100, 200, 300, 7, 8, 9, 1}
		tau = [NumPairs]float64{1e-3, 2e-3, 3e-3}
	)

	cor := NewCorrector(tau)
	cor.Enable(PairAB, true)
	base := cor.Apply(raw)

	cor.Enable(PairABp, true)
	got := cor.Apply(raw)

	if got[counts.ChanAB] != base[counts.ChanAB] {
		t.Fatalf("enabling AB' changed AB: got=%v, want=%v",
			got[counts.ChanAB], base[counts.ChanAB],
		)
	}
	if got[counts.ChanBBp] != base[counts.ChanBBp] {
		t.Fatalf("enabling AB' changed BB': got=%v, want=%v",
			got[counts.ChanBBp], base[counts.ChanBBp],
		)
	}
}

func TestCorrectorSetTau(t *testing.T) {
	active := [NumPairs]float64{3.85e-9, 2.65e-9, 3.6e-9}

	for _, tc := range []struct {
		name string
		tau  []float64
		ok   bool
	}{
		{name: "valid", tau: []float64{1e-9, 2e-9, 3e-9}, ok: true},
		{name: "zero-entries", tau: []float64{0, 0, 0}, ok: true},
		{name: "too-short", tau: []float64{1e-9, 2e-9}},
		{name: "too-long", tau: []float64{1, 2, 3, 4}},
		{name: "empty", tau: nil},
		{name: "negative", tau: []float64{1e-9, -2e-9, 3e-9}},
		{name: "nan", tau: []float64{1e-9, math.NaN(), 3e-9}},
		{name: "inf", tau: []float64{1e-9, 2e-9, math.Inf(1)}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cor := NewCorrector(active)
			err := cor.SetTau(tc.tau)
			if tc.ok {
				if err != nil {
					t.Fatalf("could not set tau: %+v", err)
				}
				want := [NumPairs]float64{tc.tau[0], tc.tau[1], tc.tau[2]}
				if got := cor.Tau(); got != want {
					t.Fatalf("invalid tau: got=%v, want=%v", got, want)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected an error")
			}
			if !errors.Is(err, ErrTau) {
				t.Fatalf("error does not wrap ErrTau: %+v", err)
			}
			// the active vector is never partially applied.
			if got := cor.Tau(); got != active {
				t.Fatalf("rejected tau altered active vector: got=%v, want=%v", got, active)
			}
		})
	}
}

func TestCorrectorSetTauText(t *testing.T) {
	active := [NumPairs]float64{3.85e-9, 2.65e-9, 3.6e-9}

	for _, tc := range []struct {
		name string
		text string
		want [NumPairs]float64
		ok   bool
	}{
		{name: "brackets", text: "[1e-9, 2e-9, 3e-9]", want: [NumPairs]float64{1e-9, 2e-9, 3e-9}, ok: true},
		{name: "bare", text: "1e-9,2e-9,3e-9", want: [NumPairs]float64{1e-9, 2e-9, 3e-9}, ok: true},
		{name: "spaces", text: "  [ 0.5 , 0.25 , 0.125 ]  ", want: [NumPairs]float64{0.5, 0.25, 0.125}, ok: true},
		{name: "two-entries", text: "[1e-9, 2e-9]"},
		{name: "garbage", text: "import os"},
		{name: "partial-edit", text: "[1e-9, 2e-"},
		{name: "empty", text: ""},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cor := NewCorrector(active)
			err := cor.SetTauText(tc.text)
			if tc.ok {
				if err != nil {
					t.Fatalf("could not set tau from %q: %+v", tc.text, err)
				}
				if got := cor.Tau(); got != tc.want {
					t.Fatalf("invalid tau: got=%v, want=%v", got, tc.want)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected an error for %q", tc.text)
			}
			if !errors.Is(err, ErrTau) {
				t.Fatalf("error does not wrap ErrTau: %+v", err)
			}
			if got := cor.Tau(); got != active {
				t.Fatalf("rejected tau altered active vector: got=%v, want=%v", got, active)
			}
		})
	}
}

func TestPairName(t *testing.T) {
	for i, want := range []string{"AB", "AB'", "BB'"} {
		if got := PairName(i); got != want {
			t.Fatalf("pair %d: got=%q, want=%q", i, got, want)
		}
	}
}
