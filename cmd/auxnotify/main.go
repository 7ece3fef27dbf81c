// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Command auxnotify runs the merged-mining verdict broadcaster: it
// serves a websocket feed at /ws, and each verdict handed to the hub's
// Publish is signed and pushed to every subscriber. The command has no
// input path for verdicts: nothing in it reads auxpow.Check outcomes or
// calls Publish.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	secp256k1 "github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/auxmerge/auxd/internal/alog"
	"github.com/auxmerge/auxd/notify"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	level, _ := alog.LevelFromString(cfg.DebugLevel)

	var out io.Writer = os.Stderr
	if cfg.LogFile != "" {
		if err := initLogRotator(cfg.LogFile); err != nil {
			return err
		}
		out = logRotator
	}
	slogger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level.SlogLevel()}))
	useLogLevel(alog.NewSlogLogger(slogger, "AUXNOTIFY"))

	signer, err := loadOrCreateSigner(cfg.KeyFile)
	if err != nil {
		return err
	}
	log.Infof("auxnotify: signer public key %x", signer.PublicKey())

	h := newHub(signer)
	mux := http.NewServeMux()
	mux.Handle("/ws", h)

	log.Infof("auxnotify: listening on %s", cfg.Listen)
	return http.ListenAndServe(cfg.Listen, mux)
}

// loadOrCreateSigner loads a private key from keyFile, generating and
// persisting a fresh one if the file does not yet exist.
func loadOrCreateSigner(keyFile string) (*notify.Signer, error) {
	if keyFile == "" {
		signer, _, err := notify.GenerateSigner()
		return signer, err
	}

	raw, err := os.ReadFile(keyFile)
	if err == nil {
		priv := secp256k1.PrivKeyFromBytes(raw)
		return notify.NewSigner(priv), nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("auxnotify: read key file: %w", err)
	}

	signer, priv, err := notify.GenerateSigner()
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(keyFile, priv.Serialize(), 0600); err != nil {
		return nil, fmt.Errorf("auxnotify: persist key file: %w", err)
	}
	return signer, nil
}
