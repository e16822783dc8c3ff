// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tokens

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakefarm/genesis"
	"github.com/vechain/stakefarm/test/testledger"
)

func TestTokens(t *testing.T) {
	l, err := testledger.NewDevnet()
	require.NoError(t, err)
	defer l.Close()

	router := mux.NewRouter()
	New(l.Runtime()).Mount(router, "/tokens")
	ts := httptest.NewServer(router)
	defer ts.Close()

	get := func(path string) ([]byte, int) {
		res, err := http.Get(ts.URL + path) //#nosec G107
		require.NoError(t, err)
		defer res.Body.Close()
		body, err := io.ReadAll(res.Body)
		require.NoError(t, err)
		return body, res.StatusCode
	}
	admin := genesis.DevAccounts()[0]
	alice := genesis.DevAccounts()[1]

	t.Run("mint", func(t *testing.T) {
		body, status := get("/tokens/mints/" + genesis.DevRewardMint.String())
		require.Equal(t, http.StatusOK, status)
		var m Mint
		require.NoError(t, json.Unmarshal(body, &m))
		assert.Equal(t, admin.Address, m.Authority)
		assert.Equal(t, uint64(100_000_000), m.Supply)
	})

	t.Run("account", func(t *testing.T) {
		body, status := get("/tokens/accounts/" + alice.StakingAccount.String())
		require.Equal(t, http.StatusOK, status)
		var a Account
		require.NoError(t, json.Unmarshal(body, &a))
		assert.Equal(t, alice.Address, a.Owner)
		assert.Equal(t, genesis.DevStakingMint, a.Mint)
		assert.Equal(t, uint64(1_000_000), a.Amount)
	})

	t.Run("missing", func(t *testing.T) {
		body, status := get("/tokens/accounts/0x0000000000000000000000000000000000000001")
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "null\n", string(body))

		body, status = get("/tokens/mints/0x0000000000000000000000000000000000000001")
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "null\n", string(body))
	})

	t.Run("bad address", func(t *testing.T) {
		_, status := get("/tokens/mints/xyz")
		assert.Equal(t, http.StatusBadRequest, status)
	})
}
