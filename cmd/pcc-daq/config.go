// Copyright 2023 The go-daq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"log"

	"github.com/spf13/viper"
)

// Config gathers the front panel settings. Values come from pcc.toml
// when present, and flags override them.
type Config struct {
	Port     string   `mapstructure:"port"`     // serial port of the counter
	Baud     int      `mapstructure:"baud"`     // serial link baud rate
	Output   string   `mapstructure:"output"`   // raw count log file (append)
	Samples  int      `mapstructure:"samples"`  // frames to acquire, negative for unbounded
	Interval float64  `mapstructure:"interval"` // rolling window span, in seconds
	DT       float64  `mapstructure:"dt"`       // counting period of one frame, in seconds
	Tau      string   `mapstructure:"tau"`      // coincidence windows [AB,AB',BB'], in seconds
	Corr     []string `mapstructure:"corr"`     // pairs with accidentals subtraction enabled
}

func defaultConfig() Config {
	return Config{
		Baud:     115200,
		Samples:  -1,
		Interval: 60,
		DT:       1,
		Tau:      "[0,0,0]",
	}
}

// loadConfig reads the [daq] section of a TOML file called 'pcc.toml',
// looked up in /etc/pcc and then in the current directory. A missing
// file falls back to the defaults.
func loadConfig() Config {
	cfg := defaultConfig()
	viper.SetConfigName("pcc")
	viper.AddConfigPath("/etc/pcc")
	viper.AddConfigPath(".")
	err := viper.ReadInConfig()
	if err != nil {
		return cfg
	}
	err = viper.UnmarshalKey("daq", &cfg)
	if err != nil {
		log.Printf("could not parse %q: %+v", viper.ConfigFileUsed(), err)
		return defaultConfig()
	}
	return cfg
}
