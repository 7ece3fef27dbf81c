// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Command auxfixture exports and imports serialized AuxPow fixtures,
// bzip2-compressed, for use in tests and cross-implementation
// interoperability checks.
package main

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/dsnet/compress/bzip2"
	flags "github.com/jessevdk/go-flags"

	"github.com/auxmerge/auxd/auxpow"
	"github.com/auxmerge/auxd/chainhash"
	"github.com/auxmerge/auxd/wire"
)

// fixtureMagic identifies an auxfixture file so a misdirected file does
// not get parsed as a valid set of AuxPow records.
var fixtureMagic = [4]byte{'a', 'x', 'f', '1'}

type options struct {
	Export       string `long:"export" description:"Write a fixture file containing one AuxPow record" value-name:"PATH"`
	Import       string `long:"import" description:"Read and verify every AuxPow record from a fixture file" value-name:"PATH"`
	AuxPowHex    string `long:"auxpow-hex" description:"Hex-encoded serialized AuxPow to export"`
	AuxBlockHash string `long:"aux-block-hash" description:"Hex-encoded auxiliary block hash the record is checked against"`
	ChainID      uint32 `long:"chain-id" description:"Merged-mining chain ID the record is checked against"`
	NoBZip2      bool   `long:"no-bz2" description:"Write/read uncompressed fixtures"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			return nil
		}
		return err
	}

	switch {
	case opts.Export != "":
		return exportFixture(&opts)
	case opts.Import != "":
		return importFixture(&opts)
	default:
		return fmt.Errorf("auxfixture: one of --export or --import is required")
	}
}

// record is one exported fixture: a serialized AuxPow plus the context
// auxpow.Check needs to re-verify it.
type record struct {
	AuxPow       []byte
	AuxBlockHash chainhash.Hash
	ChainID      uint32
}

func exportFixture(opts *options) error {
	if opts.AuxPowHex == "" || opts.AuxBlockHash == "" {
		return fmt.Errorf("auxfixture: --export requires --auxpow-hex and --aux-block-hash")
	}

	raw, err := hex.DecodeString(opts.AuxPowHex)
	if err != nil {
		return fmt.Errorf("auxfixture: decode --auxpow-hex: %w", err)
	}
	hashBytes, err := hex.DecodeString(opts.AuxBlockHash)
	if err != nil {
		return fmt.Errorf("auxfixture: decode --aux-block-hash: %w", err)
	}
	var auxBlockHash chainhash.Hash
	if err := auxBlockHash.SetBytes(hashBytes); err != nil {
		return fmt.Errorf("auxfixture: bad --aux-block-hash: %w", err)
	}

	f, err := os.Create(opts.Export)
	if err != nil {
		return fmt.Errorf("auxfixture: create %s: %w", opts.Export, err)
	}
	defer f.Close()

	var w io.Writer = f
	var bz2w *bzip2.Writer
	if !opts.NoBZip2 {
		bz2w, err = bzip2.NewWriter(f, &bzip2.WriterConfig{Level: bzip2.BestCompression})
		if err != nil {
			return fmt.Errorf("auxfixture: bzip2 writer: %w", err)
		}
		w = bz2w
	}

	if _, err := w.Write(fixtureMagic[:]); err != nil {
		return err
	}
	if err := writeRecord(w, record{AuxPow: raw, AuxBlockHash: auxBlockHash, ChainID: opts.ChainID}); err != nil {
		return err
	}

	if bz2w != nil {
		return bz2w.Close()
	}
	return nil
}

func importFixture(opts *options) error {
	f, err := os.Open(opts.Import)
	if err != nil {
		return fmt.Errorf("auxfixture: open %s: %w", opts.Import, err)
	}
	defer f.Close()

	var r io.Reader = bufio.NewReader(f)
	if !opts.NoBZip2 {
		r, err = bzip2.NewReader(r, nil)
		if err != nil {
			return fmt.Errorf("auxfixture: bzip2 reader: %w", err)
		}
	}

	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return fmt.Errorf("auxfixture: read magic: %w", err)
	}
	if magic != fixtureMagic {
		return fmt.Errorf("auxfixture: not an auxfixture file")
	}

	count := 0
	for {
		rec, err := readRecord(r)
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("auxfixture: read record %d: %w", count, err)
		}

		var ap wire.AuxPow
		if err := ap.Deserialize(bytes.NewReader(rec.AuxPow)); err != nil {
			return fmt.Errorf("auxfixture: decode record %d: %w", count, err)
		}

		checkErr := auxpow.Check(&ap, rec.AuxBlockHash, rec.ChainID)
		fmt.Printf("record %d: chain=%d auxBlockHash=%s result=%v\n", count, rec.ChainID, rec.AuxBlockHash, resultString(checkErr))
		count++
	}

	fmt.Printf("imported %d record(s)\n", count)
	return nil
}

func resultString(err error) string {
	if err == nil {
		return "accepted"
	}
	return err.Error()
}

func writeRecord(w io.Writer, rec record) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(rec.AuxPow))); err != nil {
		return err
	}
	if _, err := w.Write(rec.AuxPow); err != nil {
		return err
	}
	if _, err := w.Write(rec.AuxBlockHash[:]); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, rec.ChainID)
}

func readRecord(r io.Reader) (record, error) {
	var rec record

	var length uint32
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return rec, err
	}
	rec.AuxPow = make([]byte, length)
	if _, err := io.ReadFull(r, rec.AuxPow); err != nil {
		return rec, err
	}
	if _, err := io.ReadFull(r, rec.AuxBlockHash[:]); err != nil {
		return rec, err
	}
	if err := binary.Read(r, binary.LittleEndian, &rec.ChainID); err != nil {
		return rec, err
	}
	return rec, nil
}
