// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/stakefarm/log"
)

func TestAdmin(t *testing.T) {
	var (
		level   slog.LevelVar
		enabled atomic.Bool
	)
	level.Set(log.LevelInfo)
	h := New(&level, &enabled).Handler()

	do := func(method, path, body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
		return rec
	}

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		resp   string
	}{
		{"get level", http.MethodGet, "/admin/loglevel", "", http.StatusOK, `{"currentLevel":"info"}`},
		{"set level", http.MethodPost, "/admin/loglevel", `{"level":"trace"}`, http.StatusOK, `{"currentLevel":"trace"}`},
		{"bad level", http.MethodPost, "/admin/loglevel", `{"level":"loud"}`, http.StatusBadRequest, ""},
		{"bad body", http.MethodPost, "/admin/loglevel", `{"lvl":"info"}`, http.StatusBadRequest, ""},
		{"get api logs", http.MethodGet, "/admin/apilogs", "", http.StatusOK, `{"enabled":false}`},
		{"enable api logs", http.MethodPost, "/admin/apilogs", `{"enabled":true}`, http.StatusOK, `{"enabled":true}`},
		{"missing enabled", http.MethodPost, "/admin/apilogs", `{}`, http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			if tt.resp != "" {
				assert.JSONEq(t, tt.resp, rec.Body.String())
			}
		})
	}
	assert.Equal(t, log.LevelTrace, level.Level())
	assert.True(t, enabled.Load())
}
