// Copyright 2023 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package config

import (
	"fmt"
	"os"

	"github.com/blinklabs-io/lwmad/difficulty"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Dns     DnsConfig     `yaml:"dns"`
	Debug   DebugConfig   `yaml:"debug"`
	State   StateConfig   `yaml:"state"`
	Network NetworkConfig `yaml:"network"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"    envconfig:"LOGGING_LEVEL"`
	QueryLog bool   `yaml:"queryLog" envconfig:"LOGGING_QUERY_LOG"`
}

type DnsConfig struct {
	ListenAddress string `yaml:"address" envconfig:"DNS_LISTEN_ADDRESS"`
	ListenPort    uint   `yaml:"port"    envconfig:"DNS_LISTEN_PORT"`
	Zone          string `yaml:"zone"    envconfig:"DNS_ZONE"`
	Ttl           uint32 `yaml:"ttl"     envconfig:"DNS_TTL"`
}

type DebugConfig struct {
	ListenAddress string `yaml:"address" envconfig:"DEBUG_ADDRESS"`
	ListenPort    uint   `yaml:"port"    envconfig:"DEBUG_PORT"`
}

type MetricsConfig struct {
	ListenAddress string `yaml:"address" envconfig:"METRICS_LISTEN_ADDRESS"`
	ListenPort    uint   `yaml:"port"    envconfig:"METRICS_LISTEN_PORT"`
}

type StateConfig struct {
	Directory string `yaml:"dir" envconfig:"STATE_DIR"`
}

// NetworkConfig selects the consensus constants. The overrides are only
// meant for private test networks.
type NetworkConfig struct {
	Profile         string `yaml:"profile"         envconfig:"NETWORK_PROFILE"`
	TargetSeconds   uint64 `yaml:"targetSeconds"   envconfig:"NETWORK_TARGET_SECONDS"`
	FutureTimeLimit uint64 `yaml:"futureTimeLimit" envconfig:"NETWORK_FUTURE_TIME_LIMIT"`
	WindowSize      int    `yaml:"windowSize"      envconfig:"NETWORK_WINDOW_SIZE"`
}

// Singleton config instance with default values
var globalConfig = &Config{
	Logging: LoggingConfig{
		Level:    "info",
		QueryLog: true,
	},
	Dns: DnsConfig{
		ListenAddress: "",
		ListenPort:    8053,
		Zone:          "difficulty.local.",
		Ttl:           60,
	},
	Debug: DebugConfig{
		ListenAddress: "localhost",
		ListenPort:    0,
	},
	Metrics: MetricsConfig{
		ListenAddress: "",
		ListenPort:    8081,
	},
	State: StateConfig{
		Directory: "./.state",
	},
	Network: NetworkConfig{
		Profile: "mainnet",
	},
}

func Load(configFile string) (*Config, error) {
	// Load config file as YAML if provided
	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		err = yaml.Unmarshal(buf, globalConfig)
		if err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}
	// Load config values from environment variables
	// We use "dummy" as the app name here to (mostly) prevent picking up env
	// vars that we hadn't explicitly specified in annotations above
	err := envconfig.Process("dummy", globalConfig)
	if err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}
	// Check network params
	if _, err := globalConfig.Params(); err != nil {
		return nil, err
	}
	return globalConfig, nil
}

// Params returns the consensus params for the configured network profile
// with any overrides applied
func (c *Config) Params() (difficulty.Params, error) {
	params, err := GetProfile(c.Network.Profile)
	if err != nil {
		return params, err
	}
	if c.Network.TargetSeconds > 0 {
		params.TargetSeconds = c.Network.TargetSeconds
	}
	if c.Network.FutureTimeLimit > 0 {
		params.FutureTimeLimit = c.Network.FutureTimeLimit
	}
	if c.Network.WindowSize > 0 {
		params.WindowSize = c.Network.WindowSize
	}
	if err := params.Validate(); err != nil {
		return params, fmt.Errorf("invalid network params: %w", err)
	}
	return params, nil
}

// GetConfig returns the global config instance
func GetConfig() *Config {
	return globalConfig
}
