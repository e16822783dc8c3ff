// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math/big"
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminalHandler(t *testing.T) {
	var buf bytes.Buffer
	var lvl slog.LevelVar
	lvl.Set(LevelInfo)
	l := NewLogger(NewTerminalHandlerWithLevel(&buf, &lvl, false))

	l.Debug("hidden")
	assert.Empty(t, buf.String())

	l.With("pkg", "farm").Info("staked", "amount", big.NewInt(100), "reward", uint256.NewInt(50), "note", "two words")
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "INFO  ["), out)
	assert.Contains(t, out, "pkg=farm")
	assert.Contains(t, out, "amount=100")
	assert.Contains(t, out, "reward=50")
	assert.Contains(t, out, `note="two words"`)
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestJSONHandler(t *testing.T) {
	var buf bytes.Buffer
	var lvl slog.LevelVar
	lvl.Set(LevelTrace)
	NewLogger(JSONHandlerWithLevel(&buf, &lvl)).Trace("msg", "v", (*big.Int)(nil))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "trace", rec["lvl"])
	assert.Equal(t, "<nil>", rec["v"])
	assert.Equal(t, "msg", rec["msg"])
}

func TestWithContextFollowsRoot(t *testing.T) {
	prev := Root()
	defer SetDefault(prev)

	l := WithContext("pkg", "test")

	var buf bytes.Buffer
	var lvl slog.LevelVar
	SetDefault(NewLogger(LogfmtHandlerWithLevel(&buf, &lvl)))

	l.Info("hello", "k", 1)
	assert.Contains(t, buf.String(), "pkg=test")
	assert.Contains(t, buf.String(), "msg=hello")
	assert.Contains(t, buf.String(), "k=1")
}

func TestFromLegacyLevel(t *testing.T) {
	assert.Equal(t, LevelCrit, FromLegacyLevel(0))
	assert.Equal(t, LevelInfo, FromLegacyLevel(3))
	assert.Equal(t, LevelTrace, FromLegacyLevel(5))
	assert.Equal(t, LevelTrace, FromLegacyLevel(9))
	assert.Equal(t, LevelCrit, FromLegacyLevel(-1))
}
