// Copyright 2023 The go-daq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package counts

import (
	"bytes"
	"io"
	"testing"

	"golang.org/x/xerrors"
)

func TestDecoder(t *testing.T) {
	for _, tc := range []struct {
		name string
		raw  []byte
		fr   Frame
		want error
	}{
		{
			name: "no-data",
			raw:  nil,
			want: xerrors.Errorf("counts: could not read frame: %w", io.EOF),
		},
		{
			name: "short-frame",
			raw: []byte{
				0, 0, 0, 1,
				0, 0, 0, 2,
				0, 0, 0, 3,
			},
			want: xerrors.Errorf("counts: could not read frame: %w", io.ErrUnexpectedEOF),
		},
		{
			name: "truncated-word",
			raw: []byte{
				0, 0, 0, 1,
				0, 0, 0, 2,
				0, 0, 0, 3,
				0, 0, 0, 4,
				0, 0, 0, 5,
				0, 0, 0, 6,
				0, 0, 7,
			},
			want: xerrors.Errorf("counts: could not read frame: %w", io.ErrUnexpectedEOF),
		},
		{
			name: "all-ones",
			raw: []byte{
				0, 0, 0, 1,
				0, 0, 0, 1,
				0, 0, 0, 1,
				0, 0, 0, 1,
				0, 0, 0, 1,
				0, 0, 0, 1,
				0, 0, 0, 1,
			},
			fr: Frame{1, 1, 1, 1, 1, 1, 1},
		},
		{
			name: "byte-order",
			raw: []byte{
				0x00, 0x00, 0x00, 0x01, // 1
				0x00, 0x00, 0x01, 0x00, // 256
				0x00, 0x01, 0x00, 0x00, // 65536
				0x01, 0x00, 0x00, 0x00, // 16777216
				0x12, 0x34, 0x56, 0x78, // 0x12345678
				0xff, 0xff, 0xff, 0xff, // max
				0x00, 0x00, 0x00, 0x00, // 0
			},
			fr: Frame{1, 256, 65536, 16777216, 0x12345678, 0xffffffff, 0},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var (
				dec = NewDecoder(bytes.NewReader(tc.raw))
				fr  Frame
				err = dec.Decode(&fr)
			)
			switch {
			case err != nil && tc.want == nil:
				t.Fatalf("could not decode frame: %+v", err)
			case err == nil && tc.want != nil:
				t.Fatalf("expected an error: %+v", tc.want)
			case err != nil && tc.want != nil:
				if got, want := err.Error(), tc.want.Error(); got != want {
					t.Fatalf("invalid error:\ngot: %s\nwant:%s", got, want)
				}
				return
			}
			if fr != tc.fr {
				t.Fatalf("invalid frame:\ngot= %v\nwant=%v", fr, tc.fr)
			}
		})
	}
}

func TestDecoderStream(t *testing.T) {
	// two back-to-back frames, no delimiter.
	raw := []byte{
		0, 0, 0, 10,
		0, 0, 0, 11,
		0, 0, 0, 12,
		0, 0, 0, 13,
		0, 0, 0, 14,
		0, 0, 0, 15,
		0, 0, 0, 16,

		0, 0, 0, 20,
		0, 0, 0, 21,
		0, 0, 0, 22,
		0, 0, 0, 23,
		0, 0, 0, 24,
		0, 0, 0, 25,
		0, 0, 0, 26,
	}

	var (
		dec  = NewDecoder(bytes.NewReader(raw))
		want = []Frame{
			{10, 11, 12, 13, 14, 15, 16},
			{20, 21, 22, 23, 24, 25, 26},
		}
	)
	for i, w := range want {
		var fr Frame
		err := dec.Decode(&fr)
		if err != nil {
			t.Fatalf("frame %d: could not decode: %+v", i, err)
		}
		if fr != w {
			t.Fatalf("frame %d:\ngot= %v\nwant=%v", i, fr, w)
		}
	}

	var fr Frame
	if err := dec.Decode(&fr); err == nil {
		t.Fatalf("expected EOF after last frame")
	}
}
