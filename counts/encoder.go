// Copyright 2023 The go-daq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package counts

import (
	"encoding/binary"
	"io"

	"golang.org/x/xerrors"
)

// Encoder writes count frames to an output stream, in the instrument's
// wire format. It is the exact inverse of Decoder.
type Encoder struct {
	w   io.Writer
	buf []byte
	err error
}

// NewEncoder returns a new Encoder that writes to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{
		w:   w,
		buf: make([]byte, FrameSize),
	}
}

// Encode writes the frame f to the stream.
func (enc *Encoder) Encode(f *Frame) error {
	if enc.err != nil {
		return xerrors.Errorf("counts: could not write frame: %w", enc.err)
	}
	for i, v := range f {
		putWordAt(enc.buf[4*i:], v)
	}
	var n int
	n, enc.err = enc.w.Write(enc.buf)
	if enc.err == nil && n != FrameSize {
		enc.err = io.ErrShortWrite
	}
	if enc.err != nil {
		return xerrors.Errorf("counts: could not write frame: %w", enc.err)
	}
	return nil
}

// putWordAt encodes one counter word, MSB first on the wire: write the
// little-endian word, then reverse the 4-byte block.
func putWordAt(p []byte, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	p[0], p[1], p[2], p[3] = b[3], b[2], b[1], b[0]
}
