// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"os"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"

	"github.com/xode-dao/xode-staking/staking"
	"github.com/xode-dao/xode-staking/xode"
)

// Config is the simulator configuration file.
type Config struct {
	Staking       staking.Config `yaml:"staking"`
	SessionLength uint32         `yaml:"session-length"`
}

func defaultConfig() *Config {
	return &Config{
		Staking:       staking.DefaultConfig(),
		SessionLength: xode.DefaultSessionBlockLength,
	}
}

// parseConfig decodes data over the default configuration.
func parseConfig(data []byte) (*Config, error) {
	config := defaultConfig()
	if len(bytes.TrimSpace(data)) > 0 {
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(config); err != nil {
			return nil, errors.Wrap(err, "decode config")
		}
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	if c.SessionLength == 0 {
		return errors.New("session-length must be positive")
	}
	return c.Staking.Validate()
}

func loadConfig(ctx *cli.Context) (*Config, error) {
	var data []byte
	if path := ctx.String(configFlag.Name); path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, errors.Wrapf(err, "read config file [%v]", path)
		}
	}
	config, err := parseConfig(data)
	if err != nil {
		return nil, err
	}
	if ctx.IsSet(sessionLengthFlag.Name) {
		config.SessionLength = uint32(ctx.Uint64(sessionLengthFlag.Name)) // #nosec G115
		if err := config.validate(); err != nil {
			return nil, err
		}
	}
	return config, nil
}
