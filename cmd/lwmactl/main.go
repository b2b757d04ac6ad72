// Copyright 2026 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"errors"
	"os"

	"github.com/jessevdk/go-flags"
)

type globalOptions struct {
	ConfigFile string `short:"c" long:"config" env:"LWMACTL_CONFIG" description:"path to config file to load"`
}

var opts globalOptions

func main() {
	parser := flags.NewParser(&opts, flags.Default)
	_, _ = parser.AddCommand(
		"import",
		"Import blocks",
		"Import a YAML list of blocks into the configured state directory",
		&importCommand{},
	)
	_, _ = parser.AddCommand(
		"next",
		"Next difficulty for a window",
		"Compute the next difficulty for a YAML window of timestamps and cumulative difficulties",
		&nextCommand{},
	)
	_, _ = parser.AddCommand(
		"check",
		"Check a hash",
		"Check whether a hash meets a difficulty",
		&checkCommand{},
	)
	if _, err := parser.Parse(); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		os.Exit(1)
	}
}
