// Copyright 2026 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/blinklabs-io/lwmad/difficulty"
	"github.com/blinklabs-io/lwmad/internal/config"
	"github.com/blinklabs-io/lwmad/internal/indexer"
	"github.com/blinklabs-io/lwmad/internal/logging"
	"github.com/blinklabs-io/lwmad/internal/state"
)

var errHashAboveTarget = errors.New("hash does not meet difficulty")

type importCommand struct {
	Args struct {
		File string `positional-arg-name:"file" description:"YAML block file"`
	} `positional-args:"yes" required:"yes"`
}

func (c *importCommand) Execute(_ []string) error {
	if _, err := config.Load(opts.ConfigFile); err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logging.Setup()
	if err := state.GetState().Load(); err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	defer func() {
		_ = state.GetState().Close()
	}()
	idx := indexer.GetIndexer()
	if err := idx.Start(); err != nil {
		return fmt.Errorf("start indexer: %w", err)
	}
	count, err := idx.ImportFile(c.Args.File)
	fmt.Printf("imported %d blocks\n", count)
	if err != nil {
		return err
	}
	next, err := idx.NextDifficulty()
	if err != nil {
		return err
	}
	fmt.Printf("next difficulty: %s\n", next.Hex())
	return nil
}

type windowEntry struct {
	Timestamp  uint64           `yaml:"timestamp"`
	Cumulative difficulty.Value `yaml:"cumulative"`
}

func readWindowFile(path string) ([]uint64, []difficulty.Value, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	var entries []windowEntry
	if err := yaml.UnmarshalStrict(buf, &entries); err != nil {
		return nil, nil, fmt.Errorf("parse window file: %w", err)
	}
	timestamps := make([]uint64, 0, len(entries))
	cumulative := make([]difficulty.Value, 0, len(entries))
	for _, entry := range entries {
		timestamps = append(timestamps, entry.Timestamp)
		cumulative = append(cumulative, entry.Cumulative)
	}
	return timestamps, cumulative, nil
}

type nextCommand struct {
	File    string `short:"f" long:"file" required:"yes" description:"YAML window file"`
	Profile string `short:"p" long:"profile" description:"network profile to use instead of the configured one"`
}

func (c *nextCommand) Execute(_ []string) error {
	params, err := c.params()
	if err != nil {
		return err
	}
	timestamps, cumulative, err := readWindowFile(c.File)
	if err != nil {
		return err
	}
	next := difficulty.NextDifficulty(timestamps, cumulative, params)
	fmt.Printf("%s (%s)\n", next.Hex(), next.String())
	return nil
}

func (c *nextCommand) params() (difficulty.Params, error) {
	if c.Profile != "" {
		return config.GetProfile(c.Profile)
	}
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return difficulty.Params{}, fmt.Errorf("load config: %w", err)
	}
	return cfg.Params()
}

type checkCommand struct {
	Hash       string `long:"hash" required:"yes" description:"block hash as 64 hex characters"`
	Difficulty string `short:"d" long:"difficulty" required:"yes" description:"difficulty as decimal or 0x-prefixed hex"`
}

func (c *checkCommand) Execute(_ []string) error {
	hash, err := difficulty.ParseHash(c.Hash)
	if err != nil {
		return err
	}
	d, err := difficulty.ParseValue(c.Difficulty)
	if err != nil {
		return err
	}
	ok := difficulty.CheckHash(hash, d)
	fmt.Printf("%t\n", ok)
	if !ok {
		return errHashAboveTarget
	}
	return nil
}
