// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/stakefarm/api/accounts"
	"github.com/vechain/stakefarm/api/logs"
	"github.com/vechain/stakefarm/api/middleware"
	"github.com/vechain/stakefarm/api/pools"
	"github.com/vechain/stakefarm/api/subscriptions"
	"github.com/vechain/stakefarm/api/tokens"
	"github.com/vechain/stakefarm/api/transactions"
	"github.com/vechain/stakefarm/log"
	"github.com/vechain/stakefarm/logdb"
	"github.com/vechain/stakefarm/runtime"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	LogsLimit            uint64
	SkipLogs             bool
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
	EnableMetrics        bool
}

// New return api router
func New(rt *runtime.Runtime, logDB *logdb.LogDB, opts Options) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	accounts.New(rt).
		Mount(router, "/accounts")
	pools.New(rt).
		Mount(router, "/pools")
	tokens.New(rt).
		Mount(router, "/tokens")
	transactions.New(rt).
		Mount(router, "/transactions")
	if !opts.SkipLogs && logDB != nil {
		logs.New(logDB, opts.LogsLimit).
			Mount(router, "/logs")
	}
	subs := subscriptions.New(rt, origins)
	subs.Mount(router, "/subscriptions")

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	if opts.EnableReqLogger != nil {
		handler = middleware.RequestLoggerMiddleware(logger, opts.EnableReqLogger, opts.SlowQueriesThreshold)(handler)
	}

	return handler.ServeHTTP, subs.Close // subscriptions handles hijacked conns, which need to be closed
}
