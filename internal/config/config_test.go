// Copyright 2026 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blinklabs-io/lwmad/difficulty"
)

func TestParamsProfiles(t *testing.T) {
	for _, name := range GetAvailableProfiles() {
		cfg := &Config{Network: NetworkConfig{Profile: name}}
		params, err := cfg.Params()
		require.NoError(t, err)
		require.Equal(t, Profiles[name], params)
	}
	require.Equal(
		t,
		[]string{"mainnet", "stagenet", "testnet"},
		GetAvailableProfiles(),
	)
}

func TestParamsOverrides(t *testing.T) {
	cfg := &Config{
		Network: NetworkConfig{
			Profile:         "testnet",
			TargetSeconds:   30,
			FutureTimeLimit: 90,
			WindowSize:      45,
		},
	}
	params, err := cfg.Params()
	require.NoError(t, err)
	require.Equal(t, uint64(30), params.TargetSeconds)
	require.Equal(t, uint64(90), params.FutureTimeLimit)
	require.Equal(t, 45, params.WindowSize)
	require.Equal(t, difficulty.DefaultAdjust, params.Adjust)
}

func TestParamsInvalid(t *testing.T) {
	cfg := &Config{Network: NetworkConfig{Profile: "regtest"}}
	_, err := cfg.Params()
	require.ErrorContains(t, err, "available profiles: mainnet,stagenet,testnet")

	cfg = &Config{Network: NetworkConfig{Profile: "mainnet", TargetSeconds: 2}}
	_, err = cfg.Params()
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
dns:
  zone: pow.example.
network:
  profile: stagenet
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	t.Setenv("DNS_TTL", "5")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "pow.example.", cfg.Dns.Zone)
	require.Equal(t, uint32(5), cfg.Dns.Ttl)
	require.Equal(t, uint(8053), cfg.Dns.ListenPort)
	params, err := cfg.Params()
	require.NoError(t, err)
	require.Equal(t, difficulty.StagenetParams, params)
	require.Same(t, cfg, GetConfig())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
