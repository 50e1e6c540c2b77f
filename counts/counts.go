// Copyright 2023 The go-daq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package counts describes and handles count frames from the
// photon-coincidence counter.
package counts // import "github.com/go-daq/pcc/counts"

// Channel indices, in wire order. The instrument streams the three
// singles channels, the three pair-coincidence channels and the triple
// coincidence, always in this order.
const (
	ChanA = iota // singles, detector A
	ChanB        // singles, detector B
	ChanBp       // singles, detector B'
	ChanAB       // coincidences A-B
	ChanABp      // coincidences A-B'
	ChanBBp      // coincidences B-B'
	ChanABBp     // triple coincidences A-B-B'

	NumChans = 7
)

const (
	// FrameSize is the size of one count frame on the wire: seven
	// 4-byte counter words, no delimiter.
	FrameSize = 4 * NumChans
)

var chanNames = [NumChans]string{"A", "B", "B'", "AB", "AB'", "BB'", "ABB'"}

// ChanName returns the display name of the i-th channel.
func ChanName(i int) string { return chanNames[i] }

// Frame is one decoded measurement from the instrument: the seven
// channel counts accumulated over one integration period, in wire order.
type Frame [NumChans]uint32
