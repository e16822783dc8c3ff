// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/stakefarm/log"
)

func TestRequestLoggerMiddleware(t *testing.T) {
	fast := func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Write(body)
	}
	slow := func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(20 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}
	tests := []struct {
		name      string
		handler   http.HandlerFunc
		enabled   bool
		threshold time.Duration
		shouldLog bool
	}{
		{"enabled", fast, true, 0, true},
		{"disabled", fast, false, 0, false},
		{"fast under threshold", fast, false, time.Second, false},
		{"slow over threshold", slow, false, 5 * time.Millisecond, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			lvl := new(slog.LevelVar)
			lvl.Set(log.LevelTrace)
			logger := log.NewLogger(log.NewTerminalHandlerWithLevel(&buf, lvl, false))

			var enabled atomic.Bool
			enabled.Store(tt.enabled)
			h := RequestLoggerMiddleware(logger, &enabled, tt.threshold)(tt.handler)

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/transactions", strings.NewReader(`{"raw":"0x"}`)))
			assert.Equal(t, http.StatusOK, rec.Code)
			if tt.enabled {
				assert.Equal(t, `{"raw":"0x"}`, rec.Body.String(), "body must reach the handler")
			}

			if tt.shouldLog {
				assert.Contains(t, buf.String(), "API Request")
				assert.Contains(t, buf.String(), "/transactions")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}
