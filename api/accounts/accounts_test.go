// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakefarm/genesis"
	"github.com/vechain/stakefarm/test/testledger"
)

func TestNonce(t *testing.T) {
	l, err := testledger.NewDevnet()
	require.NoError(t, err)
	defer l.Close()

	router := mux.NewRouter()
	New(l.Runtime()).Mount(router, "/accounts")

	alice := genesis.DevAccounts()[1]
	get := func(path string) (*httptest.ResponseRecorder, Nonce) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		var n Nonce
		if rec.Code == http.StatusOK {
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &n))
		}
		return rec, n
	}

	rec, n := get("/accounts/" + alice.Address.String() + "/nonce")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, Nonce{}, n)

	require.NoError(t, l.Enroll(alice))
	_, n = get("/accounts/" + alice.Address.String() + "/nonce")
	assert.Equal(t, Nonce{Nonce: 1, Seq: 1}, n)

	rec, _ = get("/accounts/nope/nonce")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
