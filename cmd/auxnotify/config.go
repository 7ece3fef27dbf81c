// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	flags "github.com/jessevdk/go-flags"

	"github.com/auxmerge/auxd/internal/alog"
)

// config defines the configuration options for auxnotify.
//
// See loadConfig for details on the configuration load process.
type config struct {
	Listen      string `short:"l" long:"listen" default:":8535" description:"Websocket listen address"`
	KeyFile     string `short:"k" long:"keyfile" description:"Path to the signer's private key; generated on first run if absent"`
	LogFile     string `long:"logfile" description:"Log file path; stderr only if unset"`
	DebugLevel  string `short:"d" long:"debuglevel" default:"info" description:"Logging level {trace, debug, info, warn, error, critical}"`
	ShowVersion bool   `short:"V" long:"version" description:"Display version information and exit"`
}

// loadConfig parses command-line options into a config, applying
// defaults for anything unset.
func loadConfig() (*config, error) {
	cfg := config{}
	parser := flags.NewParser(&cfg, flags.Default)
	_, err := parser.Parse()
	if err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			os.Exit(0)
		}
		return nil, err
	}

	if _, ok := alog.LevelFromString(cfg.DebugLevel); !ok {
		return nil, fmt.Errorf("invalid debuglevel: %q", cfg.DebugLevel)
	}

	return &cfg, nil
}
