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
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakefarm/api"
	"github.com/vechain/stakefarm/api/admin"
	"github.com/vechain/stakefarm/log"
	"github.com/vechain/stakefarm/logdb"
	"github.com/vechain/stakefarm/lvldb"
	"github.com/vechain/stakefarm/metrics"
	"github.com/vechain/stakefarm/runtime"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "main")
)

const shutdownTimeout = 5 * time.Second

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func newApp() *cli.App {
	return &cli.App{
		Version:   fullVersion(),
		Name:      "StakeFarm",
		Usage:     "Token staking ledger node",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Flags: []cli.Flag{
			dataDirFlag,
			persistFlag,
			genesisFlag,
			cacheFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiTimeoutFlag,
			apiLogsLimitFlag,
			apiSlowQueriesThresholdFlag,
			enableAPILogsFlag,
			skipLogsFlag,
			verbosityFlag,
			jsonLogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			adminAddrFlag,
		},
		Action: action,
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func action(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	logLevel := initLogger(ctx)
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	gene, err := loadGenesis(ctx)
	if err != nil {
		return err
	}
	cacheMB := normalizeCacheSize(ctx.Int(cacheFlag.Name))
	logger.Debug("cache size(MB)", "size", cacheMB)

	var (
		mainDB      *lvldb.LevelDB
		logDB       *logdb.LogDB
		instanceDir = "Memory"
	)
	if ctx.Bool(persistFlag.Name) {
		if instanceDir, err = makeInstanceDir(ctx, gene); err != nil {
			return err
		}
		if mainDB, err = openMainDB(cacheMB, instanceDir); err != nil {
			return err
		}
		if !ctx.Bool(skipLogsFlag.Name) {
			if logDB, err = openLogDB(instanceDir); err != nil {
				mainDB.Close()
				return err
			}
		}
	} else {
		if mainDB, err = lvldb.NewMem(); err != nil {
			return errors.WithMessage(err, "open main database")
		}
		if !ctx.Bool(skipLogsFlag.Name) {
			if logDB, err = logdb.NewMem(); err != nil {
				mainDB.Close()
				return errors.WithMessage(err, "open log database")
			}
		}
	}
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()
	if logDB != nil {
		defer func() { logger.Info("closing log database..."); logDB.Close() }()
	}

	rt, err := initRuntime(mainDB, logDB, gene, cacheMB)
	if err != nil {
		return err
	}

	var logAPIRequests atomic.Bool
	logAPIRequests.Store(ctx.Bool(enableAPILogsFlag.Name))

	apiHandler, closeSubs := api.New(rt, logDB, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		LogsLimit:            ctx.Uint64(apiLogsLimitFlag.Name),
		SkipLogs:             ctx.Bool(skipLogsFlag.Name),
		EnableReqLogger:      &logAPIRequests,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
	})
	var handler http.Handler = apiHandler
	if timeout := ctx.Uint64(apiTimeoutFlag.Name); timeout > 0 {
		handler = handleAPITimeout(handler, time.Duration(timeout)*time.Millisecond)
	}
	handler = requestBodyLimit(handler)

	runCtx, cancel := context.WithCancel(exitSignal)
	defer cancel()
	group, groupCtx := errgroup.WithContext(runCtx)

	apiURL, err := serve(groupCtx, group, "api", ctx.String(apiAddrFlag.Name), handler, closeSubs)
	if err != nil {
		return err
	}
	var metricsURL, adminURL string
	if ctx.Bool(enableMetricsFlag.Name) {
		if metricsURL, err = serve(groupCtx, group, "metrics", ctx.String(metricsAddrFlag.Name), metrics.HTTPHandler(), nil); err != nil {
			return err
		}
	}
	if addr := ctx.String(adminAddrFlag.Name); addr != "" {
		if adminURL, err = serve(groupCtx, group, "admin", addr, admin.New(logLevel, &logAPIRequests).Handler(), nil); err != nil {
			return err
		}
		adminURL += "admin"
	}

	var seq uint64
	if err := rt.View(func(v *runtime.View) (err error) {
		seq, err = v.Seq()
		return
	}); err != nil {
		return err
	}
	printStartupMessage(gene, seq, instanceDir, apiURL, metricsURL, adminURL)

	return group.Wait()
}

// serve runs an http server on addr until ctx is done. beforeShutdown, if any, runs first on shutdown.
func serve(ctx context.Context, group *errgroup.Group, name, addr string, handler http.Handler, beforeShutdown func()) (string, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", errors.Wrapf(err, "listen %s addr [%v]", name, addr)
	}
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second}

	group.Go(func() error {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrapf(err, "%s server", name)
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		logger.Info(fmt.Sprintf("stopping %s server...", name))
		if beforeShutdown != nil {
			beforeShutdown()
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return "http://" + listener.Addr().String() + "/", nil
}
