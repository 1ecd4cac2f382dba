// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/elastic/gosigar"
	"github.com/ethereum/go-ethereum/common/fdlimit"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/xode-dao/xode-staking/log"
	"github.com/xode-dao/xode-staking/lvldb"
)

func initLogger(ctx *cli.Context) {
	level := log.FromLegacyLevel(ctx.Int(verbosityFlag.Name))
	if ctx.Bool(logJSONFlag.Name) {
		log.SetHandler(log.NewJSONHandler(os.Stderr, level))
		return
	}
	useColor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
	log.SetHandler(log.NewTerminalHandler(os.Stderr, level, useColor))
}

// openDB opens the leveldb under dataDir, or an in-memory one when dataDir is empty.
func openDB(dataDir string, cacheMB int) (*lvldb.LevelDB, string, error) {
	if dataDir == "" {
		db, err := lvldb.NewMem()
		return db, "memory", err
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, "", errors.Wrapf(err, "create data dir [%v]", dataDir)
	}
	path := filepath.Join(dataDir, "state.db")
	db, err := lvldb.New(path, lvldb.Options{
		CacheSize:              normalizeCacheSize(cacheMB),
		OpenFilesCacheCapacity: suggestFDCache(),
	})
	if err != nil {
		return nil, "", errors.Wrapf(err, "open state database [%v]", path)
	}
	return db, path, nil
}

func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 16 {
		sizeMB = 16
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		logger.Warn("failed to get total mem", "err", err)
	} else {
		// limit to 1/4 os physical ram
		limitMB := int(mem.Total / 1024 / 1024 / 4) // #nosec G115
		if sizeMB > limitMB {
			sizeMB = limitMB
			logger.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

func suggestFDCache() int {
	limit, err := fdlimit.Current()
	if err != nil {
		logger.Warn("failed to get fd limit", "err", err)
		return 64
	}
	n := limit / 2
	if n > 1024 {
		return 1024
	}
	return n
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		logger.Info("exit for signal", "signal", sig)
		cancel()
	}()
	return ctx
}
