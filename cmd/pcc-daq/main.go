// Copyright 2023 The go-daq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command pcc-daq drives the acquisition of a photon coincidence
// counter over its serial link.
//
// It streams count frames from the instrument, applies the accidental
// coincidence correction to the monitoring charts, appends the raw
// counts to a log file and answers operator commands on stdin:
//
//	pcc> tau [1.2e-9,1.2e-9,1.2e-9]
//	pcc> corr AB on
//	pcc> stat
//	pcc> stop
//
// Example:
//
//	$> pcc-daq -p /dev/ttyUSB0 -o run42.txt -n 600
package main // import "github.com/go-daq/pcc/cmd/pcc-daq"

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"sync"

	"github.com/peterh/liner"

	"github.com/go-daq/pcc/counts"
	"github.com/go-daq/pcc/daq"
	"github.com/go-daq/pcc/monitor"
)

func main() {
	log.SetPrefix("pcc-daq: ")
	log.SetFlags(0)

	cfg := loadConfig()
	flag.StringVar(&cfg.Port, "p", cfg.Port, "serial port of the counter")
	flag.IntVar(&cfg.Baud, "baud", cfg.Baud, "baud rate of the serial link")
	flag.StringVar(&cfg.Output, "o", cfg.Output, "raw count log file (append)")
	flag.IntVar(&cfg.Samples, "n", cfg.Samples, "number of frames to acquire (negative: until stopped)")
	flag.Float64Var(&cfg.Interval, "interval", cfg.Interval, "rolling window span (seconds)")
	flag.Float64Var(&cfg.DT, "dt", cfg.DT, "counting period of one frame (seconds)")
	flag.StringVar(&cfg.Tau, "tau", cfg.Tau, "coincidence windows [AB,AB',BB'] (seconds)")

	flag.Usage = func() {
		fmt.Printf(`pcc-daq drives the acquisition of a photon coincidence counter.

Usage: pcc-daq [OPTIONS]

Example:

 $> pcc-daq -p /dev/ttyUSB0 -o run42.txt -n 600

Options:
`)
		flag.PrintDefaults()
	}

	flag.Parse()

	if cfg.Port == "" {
		flag.Usage()
		log.Fatalf("missing serial port")
	}

	err := run(cfg, os.Stdout)
	if err != nil {
		log.Fatalf("could not run acquisition: %+v", err)
	}
}

func run(cfg Config, w io.Writer) error {
	dev, err := daq.NewDevice(cfg.Port, daq.WithBaudRate(cfg.Baud))
	if err != nil {
		return fmt.Errorf("could not open counter: %w", err)
	}
	defer dev.Close()

	opts := []daq.Option{daq.WithSamples(cfg.Samples)}
	if cfg.Output != "" {
		opts = append(opts, daq.WithLogFile(cfg.Output))
	}
	rdo, err := daq.NewReadout(dev, opts...)
	if err != nil {
		return fmt.Errorf("could not create readout: %w", err)
	}

	cor := daq.NewCorrector([daq.NumPairs]float64{})
	err = cor.SetTauText(cfg.Tau)
	if err != nil {
		return fmt.Errorf("could not parse tau %q: %w", cfg.Tau, err)
	}
	for _, name := range cfg.Corr {
		pair, ok := pairIndex(name)
		if !ok {
			return fmt.Errorf("unknown coincidence pair %q", name)
		}
		cor.Enable(pair, true)
	}

	pnl := &panel{w: w}
	sess := daq.NewSession(rdo, cor, monitor.NewBoard(cfg.Interval, cfg.DT), pnl)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go console(sess, cor, pnl)

	return sess.Run(ctx)
}

// panel publishes one line per acquired frame and keeps the latest
// snapshot for the stat command.
type panel struct {
	w io.Writer

	mu    sync.Mutex
	n     int
	snaps [counts.NumChans]monitor.Snapshot
}

func (pnl *panel) Publish(snaps [counts.NumChans]monitor.Snapshot) {
	pnl.mu.Lock()
	pnl.n++
	n := pnl.n
	pnl.snaps = snaps
	pnl.mu.Unlock()

	var buf strings.Builder
	fmt.Fprintf(&buf, "frame %07d", n)
	for _, snap := range snaps {
		fmt.Fprintf(&buf, "  %s=%v", snap.Name, snap.Last)
	}
	fmt.Fprintf(pnl.w, "%s\n", buf.String())
}

func (pnl *panel) stat(w io.Writer) {
	pnl.mu.Lock()
	n := pnl.n
	snaps := pnl.snaps
	pnl.mu.Unlock()

	fmt.Fprintf(w, "frames: %d\n", n)
	for _, snap := range snaps {
		fmt.Fprintf(w, "%-4s last=%12v sum=%12v mean=%12v\n",
			snap.Name, snap.Last, snap.Sum, snap.Mean,
		)
	}
}

// console answers operator commands until the stream is stopped or
// stdin is closed. An invalid tau vector is reported and the active
// one kept.
func console(sess *daq.Session, cor *daq.Corrector, pnl *panel) {
	term := liner.NewLiner()
	defer term.Close()
	term.SetCtrlCAborts(true)

	for {
		line, err := term.Prompt("pcc> ")
		if err != nil { // io.EOF or liner.ErrPromptAborted
			sess.Stop()
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		term.AppendHistory(line)

		toks := strings.Fields(line)
		switch toks[0] {
		case "stop", "quit":
			sess.Stop()
			return
		case "tau":
			if len(toks) != 2 {
				log.Printf("usage: tau [a,b,c]")
				continue
			}
			err := cor.SetTauText(toks[1])
			if err != nil {
				log.Printf("invalid tau %q: %+v (keeping %v)", toks[1], err, cor.Tau())
				continue
			}
			log.Printf("tau: %v", cor.Tau())
		case "corr":
			if len(toks) != 3 || (toks[2] != "on" && toks[2] != "off") {
				log.Printf("usage: corr AB|AB'|BB' on|off")
				continue
			}
			pair, ok := pairIndex(toks[1])
			if !ok {
				log.Printf("unknown coincidence pair %q", toks[1])
				continue
			}
			cor.Enable(pair, toks[2] == "on")
			log.Printf("correction %s: %s", daq.PairName(pair), toks[2])
		case "stat":
			pnl.stat(os.Stdout)
		default:
			log.Printf("unknown command %q", toks[0])
		}
	}
}

func pairIndex(name string) (int, bool) {
	for i := 0; i < daq.NumPairs; i++ {
		if strings.EqualFold(name, daq.PairName(i)) {
			return i, true
		}
	}
	return 0, false
}
