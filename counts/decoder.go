// Copyright 2023 The go-daq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package counts

import (
	"encoding/binary"
	"io"

	"golang.org/x/xerrors"
)

// Decoder reads count frames from an underlying data source.
//
// Frame boundaries are purely positional: the instrument pushes
// back-to-back 28-byte frames with no delimiter, so a short read is
// fatal (the stream can not be re-aligned) and surfaces as an error
// wrapping io.ErrUnexpectedEOF.
type Decoder struct {
	r   io.Reader
	buf []byte
	err error
}

// NewDecoder creates a decoder that reads frames from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{
		r:   r,
		buf: make([]byte, FrameSize),
	}
}

// Decode reads the next frame from the stream into f.
func (dec *Decoder) Decode(f *Frame) error {
	dec.load()
	if dec.err != nil {
		return xerrors.Errorf("counts: could not read frame: %w", dec.err)
	}
	for i := range f {
		f[i] = wordAt(dec.buf[4*i:])
	}
	return nil
}

func (dec *Decoder) load() {
	if dec.err != nil {
		return
	}
	_, dec.err = io.ReadFull(dec.r, dec.buf)
}

// wordAt decodes one counter word. The instrument sends each 32-bit
// counter MSB first: reverse the 4-byte block, then interpret it as a
// little-endian word. The reversal is part of the protocol and must not
// be folded into a single big-endian read.
func wordAt(p []byte) uint32 {
	var b [4]byte
	b[0], b[1], b[2], b[3] = p[3], p[2], p[1], p[0]
	return binary.LittleEndian.Uint32(b[:])
}
