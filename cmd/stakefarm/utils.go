// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/elastic/gosigar"
	"github.com/ethereum/go-ethereum/common/fdlimit"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakefarm/genesis"
	"github.com/vechain/stakefarm/kv"
	"github.com/vechain/stakefarm/log"
	"github.com/vechain/stakefarm/logdb"
	"github.com/vechain/stakefarm/lvldb"
	"github.com/vechain/stakefarm/runtime"
	"github.com/vechain/stakefarm/state"
	"github.com/vechain/stakefarm/thor"
)

// approximate size of a cached state slot
const slotCacheBytes = 256

func defaultDataDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".org.vechain.stakefarm")
	}
	return ""
}

func initLogger(ctx *cli.Context) *slog.LevelVar {
	var level slog.LevelVar
	level.Set(log.FromLegacyLevel(int(ctx.Uint64(verbosityFlag.Name))))

	var (
		output  io.Writer = os.Stdout
		handler slog.Handler
	)
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.JSONHandlerWithLevel(output, &level)
	} else {
		useColor := (isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())) && os.Getenv("TERM") != "dumb"
		handler = log.NewTerminalHandlerWithLevel(output, &level, useColor)
	}
	log.SetDefault(log.NewLogger(handler))
	return &level
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

func loadGenesis(ctx *cli.Context) (*genesis.Genesis, error) {
	path := ctx.String(genesisFlag.Name)
	if path == "" {
		return genesis.NewDevnet(), nil
	}
	gene, err := genesis.Load(path)
	if err != nil {
		return nil, errors.WithMessagef(err, "load genesis [%v]", path)
	}
	return gene, nil
}

func makeInstanceDir(ctx *cli.Context, gene *genesis.Genesis) (string, error) {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return "", fmt.Errorf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name)
	}
	instanceDir := filepath.Join(dataDir, fmt.Sprintf("instance-%x", gene.ID().Bytes()[24:]))
	if err := os.MkdirAll(instanceDir, 0o700); err != nil {
		return "", errors.Wrapf(err, "create instance dir [%v]", instanceDir)
	}
	return instanceDir, nil
}

func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 128 {
		sizeMB = 128
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		logger.Warn("failed to get total mem:", "err", err)
	} else {
		// limit to 1/2 os physical ram
		limitMB := int(mem.Total / 1024 / 1024 / 2)
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
		return 500
	}
	if limit <= 1024 {
		logger.Warn("low fd limit, increase it if possible", "limit", limit)
	}

	n := limit / 2
	if n > 5120 {
		return 5120
	}
	return n
}

func openMainDB(cacheMB int, dataDir string) (*lvldb.LevelDB, error) {
	// Ensure Go's GC ignores the database cache for trigger percentage
	gogc := math.Max(20, math.Min(100, 100/(float64(cacheMB)/1024)))
	logger.Debug("sanitize Go's GC trigger", "percent", int(gogc))
	debug.SetGCPercent(int(gogc))

	fdCache := suggestFDCache()
	logger.Debug("fd cache", "n", fdCache)

	dir := filepath.Join(dataDir, "main.db")
	db, err := lvldb.New(dir, lvldb.Options{
		CacheSize:              cacheMB / 2,
		OpenFilesCacheCapacity: fdCache,
	})
	if err != nil {
		return nil, errors.WithMessagef(err, "open main database [%v]", dir)
	}
	return db, nil
}

func openLogDB(dataDir string) (*logdb.LogDB, error) {
	dir := filepath.Join(dataDir, "logs.db")
	db, err := logdb.New(dir)
	if err != nil {
		return nil, errors.WithMessagef(err, "open log database [%v]", dir)
	}
	return db, nil
}

// initRuntime opens the ledger state on db and applies gene if db is fresh.
// A db bootstrapped from another genesis is rejected.
func initRuntime(db kv.Store, logDB *logdb.LogDB, gene *genesis.Genesis, cacheMB int) (*runtime.Runtime, error) {
	st, err := state.New(db, cacheMB/2*1024*1024/slotCacheBytes)
	if err != nil {
		return nil, err
	}
	applied, err := genesis.AppliedID(st)
	if err != nil {
		return nil, errors.WithMessage(err, "read genesis id")
	}
	rt := runtime.New(st, logDB)
	switch {
	case applied.IsZero():
		if err := rt.Bootstrap(gene.Apply); err != nil {
			return nil, errors.WithMessage(err, "apply genesis")
		}
		logger.Info("genesis applied", "id", gene.ID(), "name", gene.Name)
	case applied != gene.ID():
		return nil, fmt.Errorf("genesis mismatch: database holds %v, want %v", applied, gene.ID())
	}
	return rt, nil
}

func handleAPITimeout(h http.Handler, timeout time.Duration) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()
		h.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestBodyLimit limits the body size to 200KB.
func requestBodyLimit(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, 200*1024)
		h.ServeHTTP(w, r)
	})
}

func printStartupMessage(gene *genesis.Genesis, seq uint64, instanceDir, apiURL, metricsURL, adminURL string) {
	fmt.Printf(`Starting %v
    Network      [ %v %v ]
    Seq          [ %v ]
    Instance dir [ %v ]
    API portal   [ %v ]
    Metrics      [ %v ]
    Admin        [ %v ]
`,
		fmt.Sprintf("StakeFarm/%v", fullVersion()),
		gene.ID(), gene.Name,
		seq,
		instanceDir,
		apiURL,
		orDisabled(metricsURL),
		orDisabled(adminURL))

	if gene.ID() != genesis.NewDevnet().ID() {
		return
	}
	fmt.Println("    Dev accounts")
	for _, a := range genesis.DevAccounts() {
		fmt.Printf("      %v %v staking %v reward %v\n",
			a.Address,
			thor.BytesToBytes32(a.PrivateKey.Serialize()),
			a.StakingAccount,
			a.RewardAccount)
	}
}

func orDisabled(url string) string {
	if url == "" {
		return "disabled"
	}
	return url
}
