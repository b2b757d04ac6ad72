// Copyright 2024 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"

	_ "go.uber.org/automaxprocs"

	"github.com/blinklabs-io/lwmad/internal/config"
	"github.com/blinklabs-io/lwmad/internal/dns"
	"github.com/blinklabs-io/lwmad/internal/indexer"
	"github.com/blinklabs-io/lwmad/internal/logging"
	"github.com/blinklabs-io/lwmad/internal/metrics"
	"github.com/blinklabs-io/lwmad/internal/state"
	"github.com/blinklabs-io/lwmad/internal/version"
)

var cmdlineFlags struct {
	configFile string
	importFile string
}

func main() {
	flag.StringVar(
		&cmdlineFlags.configFile,
		"config",
		"",
		"path to config file to load",
	)
	flag.StringVar(
		&cmdlineFlags.importFile,
		"import",
		"",
		"path to YAML block file to import before serving",
	)
	flag.Parse()

	// Load config
	cfg, err := config.Load(cmdlineFlags.configFile)
	if err != nil {
		fmt.Printf("Failed to load config: %s\n", err)
		os.Exit(1)
	}

	// Configure logging
	logging.Setup()
	logger := logging.GetLogger()
	// Sync logger on exit
	defer func() {
		if err := logger.Sync(); err != nil {
			return
		}
	}()

	logger.Info(
		fmt.Sprintf("lwmad %s started", version.GetVersionString()),
	)

	// Load state
	if err := state.GetState().Load(); err != nil {
		logger.Fatalf("failed to load state: %s", err)
	}

	// Start debug listener
	if cfg.Debug.ListenPort > 0 {
		logger.Infof(
			"starting debug listener on %s:%d",
			cfg.Debug.ListenAddress,
			cfg.Debug.ListenPort,
		)
		go func() {
			err := http.ListenAndServe(
				fmt.Sprintf(
					"%s:%d",
					cfg.Debug.ListenAddress,
					cfg.Debug.ListenPort,
				),
				nil,
			)
			if err != nil {
				logger.Fatalf("failed to start debug listener: %s", err)
			}
		}()
	}

	// Start metrics listener
	if err := metrics.Start(); err != nil {
		logger.Fatalf("failed to start metrics listener: %s", err)
	}

	// Start indexer
	if err := indexer.GetIndexer().Start(); err != nil {
		logger.Fatalf("failed to start indexer: %s", err)
	}
	if cmdlineFlags.importFile != "" {
		count, err := indexer.GetIndexer().ImportFile(cmdlineFlags.importFile)
		if err != nil {
			logger.Fatalf("failed to import blocks after %d: %s", count, err)
		}
		logger.Infof("imported %d blocks from %s", count, cmdlineFlags.importFile)
	}

	// Start DNS listener
	logger.Infof(
		"starting DNS listener on %s:%d",
		cfg.Dns.ListenAddress,
		cfg.Dns.ListenPort,
	)
	if err := dns.Start(); err != nil {
		logger.Fatalf("failed to start DNS listener: %s", err)
	}

	// Wait forever
	select {}
}
