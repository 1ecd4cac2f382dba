// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"

	"github.com/xode-dao/xode-staking/api"
	"github.com/xode-dao/xode-staking/log"
	"github.com/xode-dao/xode-staking/metrics"
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "xode-staking",
		Usage:     "Collator staking simulator of the Xode chain",
		Copyright: "2025 Xode DAO",
		Flags: []cli.Flag{
			configFlag,
			scenarioFlag,
			dataDirFlag,
			cacheFlag,
			blocksFlag,
			sessionLengthFlag,
			blockIntervalFlag,
			apiAddrFlag,
			lingerFlag,
			enableMetricsFlag,
			verbosityFlag,
			progressFlag,
			logJSONFlag,
		},
		Action: runAction,
		Commands: []cli.Command{
			{
				Name:   "config",
				Usage:  "print the effective configuration as YAML",
				Flags:  []cli.Flag{configFlag, sessionLengthFlag},
				Action: configAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func configAction(ctx *cli.Context) error {
	config, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	out, err := yaml.Marshal(config)
	if err != nil {
		return errors.Wrap(err, "encode config")
	}
	_, err = os.Stdout.Write(out)
	return err
}

func runAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	initLogger(ctx)

	config, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	scenario, err := loadScenario(ctx.String(scenarioFlag.Name))
	if err != nil {
		return err
	}

	apiAddr := ctx.String(apiAddrFlag.Name)
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	db, dbName, err := openDB(ctx.String(dataDirFlag.Name), ctx.Int(cacheFlag.Name))
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing state database..."); db.Close() }()

	sim, err := newSimulator(db, config, scenario)
	if err != nil {
		return err
	}
	sim.interval = ctx.Duration(blockIntervalFlag.Name)

	logger.Info("starting simulation",
		"db", dbName,
		"blocks", ctx.Uint64(blocksFlag.Name),
		"cache", ctx.Int(cacheFlag.Name),
		"session-length", config.SessionLength,
		"capacity", config.Staking.AuthoringCapacity(),
		"accounts", len(scenario.Accounts),
		"actions", len(scenario.Actions))

	exitCtx := handleExitSignal()
	runCtx, stop := context.WithCancel(exitCtx)
	defer stop()

	group, groupCtx := errgroup.WithContext(runCtx)

	if apiAddr != "" {
		listener, err := net.Listen("tcp", apiAddr)
		if err != nil {
			return errors.Wrapf(err, "listen API addr [%v]", apiAddr)
		}
		srv := &http.Server{
			Handler:           api.NewHandler(sim),
			ReadHeaderTimeout: time.Second,
			ReadTimeout:       5 * time.Second,
		}
		logger.Info("status API started", "url", "http://"+listener.Addr().String())

		group.Go(func() error {
			if err := srv.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		group.Go(func() error {
			<-groupCtx.Done()
			logger.Info("stopping status API...")
			return srv.Close()
		})
	}

	blocks := uint32(ctx.Uint64(blocksFlag.Name)) // #nosec G115
	if ctx.Bool(progressFlag.Name) {
		bar := pb.New64(int64(blocks)).SetMaxWidth(90).Start()
		sim.onBlock = func() { bar.Increment() }
		defer bar.Finish()
	}

	linger := ctx.Bool(lingerFlag.Name) && apiAddr != ""
	group.Go(func() error {
		if err := sim.Run(groupCtx, blocks); err != nil {
			return err
		}
		if !linger {
			stop()
		}
		return nil
	})

	return group.Wait()
}
