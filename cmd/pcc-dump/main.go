// Copyright 2023 The go-daq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// pcc-dump decodes and displays raw count frame files.
//
// Usage: pcc-dump [OPTIONS] FILE1 [FILE2 [FILE3 ...]]
//
// Example:
//
//	$> pcc-dump ./testdata/run42.raw
//	         A         B        B'        AB       AB'       BB'      ABB'
//	       512       498         3        42         0         1         0
//	       525       501         2        40         1         0         0
//	[...]
package main // import "github.com/go-daq/pcc/cmd/pcc-dump"

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/go-daq/pcc/counts"
)

func main() {
	log.SetPrefix("pcc-dump: ")
	log.SetFlags(0)

	xmain(os.Stdout, os.Args[1:])
}

func xmain(w io.Writer, args []string) {
	fset := flag.NewFlagSet("pcc-dump", flag.ExitOnError)
	sum := fset.Bool("sum", false, "print per-channel totals")

	fset.Usage = func() {
		fmt.Printf(`pcc-dump decodes and displays raw count frame files.

Usage: pcc-dump [OPTIONS] FILE1 [FILE2 [FILE3 ...]]

Example:

 $> pcc-dump ./testdata/run42.raw
          A         B        B'        AB       AB'       BB'      ABB'
        512       498         3        42         0         1         0
        525       501         2        40         1         0         0
 [...]

`)
		fset.PrintDefaults()
	}

	err := fset.Parse(args)
	if err != nil {
		log.Fatalf("could not parse args %q: %+v", args, err)
	}

	if fset.NArg() == 0 {
		fset.Usage()
		log.Fatalf("missing path to input count file")
	}

	for _, fname := range fset.Args() {
		err := process(w, fname, *sum)
		if err != nil {
			log.Fatalf("could not dump file %q: %+v", fname, err)
		}
	}
}

func process(w io.Writer, fname string, sum bool) error {
	wbuf := bufio.NewWriter(w)
	defer wbuf.Flush()

	f, err := os.Open(fname)
	if err != nil {
		return fmt.Errorf("could not open %q: %w", fname, err)
	}
	defer f.Close()

	for i := 0; i < counts.NumChans; i++ {
		fmt.Fprintf(wbuf, "%10s", counts.ChanName(i))
	}
	fmt.Fprintf(wbuf, "\n")

	var (
		dec = counts.NewDecoder(bufio.NewReader(f))
		tot [counts.NumChans]uint64
		n   int
	)
loop:
	for {
		var frame counts.Frame
		err := dec.Decode(&frame)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break loop
			}
			return fmt.Errorf("could not decode frame %d: %w", n, err)
		}
		for i, v := range frame {
			fmt.Fprintf(wbuf, "%10d", v)
			tot[i] += uint64(v)
		}
		fmt.Fprintf(wbuf, "\n")
		n++
	}

	if sum {
		fmt.Fprintf(wbuf, "sum:\n")
		for _, v := range tot {
			fmt.Fprintf(wbuf, "%10d", v)
		}
		fmt.Fprintf(wbuf, "\n")
	}

	return nil
}
