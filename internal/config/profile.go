// Copyright 2024 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/blinklabs-io/lwmad/difficulty"
)

var Profiles = map[string]difficulty.Params{
	"mainnet":  difficulty.MainnetParams,
	"testnet":  difficulty.TestnetParams,
	"stagenet": difficulty.StagenetParams,
}

func GetProfile(name string) (difficulty.Params, error) {
	profile, ok := Profiles[name]
	if !ok {
		return difficulty.Params{}, fmt.Errorf(
			"unknown network profile: %s: available profiles: %s",
			name,
			strings.Join(GetAvailableProfiles(), ","),
		)
	}
	return profile, nil
}

func GetAvailableProfiles() []string {
	ret := make([]string, 0, len(Profiles))
	for k := range Profiles {
		ret = append(ret, k)
	}
	slices.Sort(ret)
	return ret
}
