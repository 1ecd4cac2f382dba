// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var (
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "path to a YAML configuration file, defaults are used for missing fields",
	}
	scenarioFlag = cli.StringFlag{
		Name:  "scenario",
		Usage: "path to a YAML scenario file, a built-in demo scenario is used if empty",
	}
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Usage: "directory of the state database, the state is kept in memory if empty",
	}
	cacheFlag = cli.IntFlag{
		Name:  "cache",
		Value: 128,
		Usage: "megabytes of ram allocated to the state database cache",
	}
	blocksFlag = cli.Uint64Flag{
		Name:  "blocks",
		Value: 100,
		Usage: "number of blocks to simulate",
	}
	sessionLengthFlag = cli.Uint64Flag{
		Name:  "session-length",
		Usage: "blocks per session, overrides the configuration",
	}
	blockIntervalFlag = cli.DurationFlag{
		Name:  "block-interval",
		Usage: "wall clock pause between two simulated blocks",
	}
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Usage: "status API listening address, disabled if empty",
	}
	lingerFlag = cli.BoolFlag{
		Name:  "linger",
		Usage: "keep serving the status API after the simulation until interrupted",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "collect prometheus metrics, served on the status API under /metrics",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-5)",
	}
	progressFlag = cli.BoolFlag{
		Name:  "progress",
		Usage: "show a progress bar of the simulated blocks",
	}
	logJSONFlag = cli.BoolFlag{
		Name:  "log-json",
		Usage: "write logs as JSON",
	}
)
