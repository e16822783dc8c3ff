// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package admin serves runtime switches of a running node: log level and API request logging.
package admin

import (
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stakefarm/api/utils"
	"github.com/vechain/stakefarm/log"
)

var logger = log.WithContext("pkg", "admin")

type Admin struct {
	logLevel    *slog.LevelVar
	logRequests *atomic.Bool
}

func New(logLevel *slog.LevelVar, logRequests *atomic.Bool) *Admin {
	return &Admin{logLevel: logLevel, logRequests: logRequests}
}

type logLevelRequest struct {
	Level string `json:"level"`
}

type logLevelResponse struct {
	CurrentLevel string `json:"currentLevel"`
}

type apiLogsRequest struct {
	Enabled *bool `json:"enabled"`
}

type apiLogsResponse struct {
	Enabled bool `json:"enabled"`
}

var levels = map[string]slog.Level{
	"trace": log.LevelTrace,
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
	"crit":  log.LevelCrit,
}

func (a *Admin) getLogLevel(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, &logLevelResponse{CurrentLevel: log.LevelString(a.logLevel.Level())})
}

func (a *Admin) postLogLevel(w http.ResponseWriter, req *http.Request) error {
	var body logLevelRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(err, "body")
	}
	level, ok := levels[body.Level]
	if !ok {
		return utils.BadRequest(errors.Errorf("unknown level %q", body.Level), "level")
	}
	a.logLevel.Set(level)
	logger.Info("log level changed", "level", body.Level)
	return utils.WriteJSON(w, &logLevelResponse{CurrentLevel: log.LevelString(level)})
}

func (a *Admin) getAPILogs(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, &apiLogsResponse{Enabled: a.logRequests.Load()})
}

func (a *Admin) postAPILogs(w http.ResponseWriter, req *http.Request) error {
	var body apiLogsRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(err, "body")
	}
	if body.Enabled == nil {
		return utils.BadRequest(errors.New("missing field"), "enabled")
	}
	a.logRequests.Store(*body.Enabled)
	logger.Warn("admin changed the request logger", "enabled", *body.Enabled)
	return utils.WriteJSON(w, &apiLogsResponse{Enabled: *body.Enabled})
}

// Handler returns the admin routes under /admin.
func (a *Admin) Handler() http.Handler {
	router := mux.NewRouter()
	sub := router.PathPrefix("/admin").Subrouter()

	sub.Path("/loglevel").
		Methods(http.MethodGet).
		Name("get-log-level").
		HandlerFunc(utils.WrapHandlerFunc(a.getLogLevel))
	sub.Path("/loglevel").
		Methods(http.MethodPost).
		Name("post-log-level").
		HandlerFunc(utils.WrapHandlerFunc(a.postLogLevel))
	sub.Path("/apilogs").
		Methods(http.MethodGet).
		Name("get-api-logs-enabled").
		HandlerFunc(utils.WrapHandlerFunc(a.getAPILogs))
	sub.Path("/apilogs").
		Methods(http.MethodPost).
		Name("post-api-logs-enabled").
		HandlerFunc(utils.WrapHandlerFunc(a.postAPILogs))

	return handlers.CompressHandler(router)
}
