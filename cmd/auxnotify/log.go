// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jrick/logrotate/rotator"

	"github.com/auxmerge/auxd/auxpow"
	"github.com/auxmerge/auxd/chainreg"
	"github.com/auxmerge/auxd/internal/alog"
	"github.com/auxmerge/auxd/mining"
)

var (
	logRotator *rotator.Rotator
	log        alog.Logger = alog.Disabled
)

// initLogRotator opens logFile for appending, creating the containing
// directory as needed, and rotates it once it passes 10 MiB, keeping the
// last 3 rolls.
func initLogRotator(logFile string) error {
	logDir := filepath.Dir(logFile)
	if err := os.MkdirAll(logDir, 0700); err != nil {
		return fmt.Errorf("auxnotify: create log directory: %w", err)
	}
	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		return fmt.Errorf("auxnotify: open log rotator: %w", err)
	}
	logRotator = r
	return nil
}

// useLogLevel wires this command's logger and the package-level loggers
// of auxpow, chainreg and mining to logger; the level is whatever
// logger's handler filters at.
func useLogLevel(logger alog.Logger) {
	log = logger
	auxpow.UseLogger(logger)
	chainreg.UseLogger(logger)
	mining.UseLogger(logger)
}
