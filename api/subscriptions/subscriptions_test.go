// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakefarm/genesis"
	"github.com/vechain/stakefarm/runtime"
	"github.com/vechain/stakefarm/test/testledger"
	"github.com/vechain/stakefarm/thor"
)

func initSubscriptionsServer(t *testing.T) (*testledger.Ledger, *Subscriptions, *httptest.Server) {
	l, err := testledger.NewDevnet()
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })

	router := mux.NewRouter()
	subs := New(l.Runtime(), []string{"*"})
	subs.Mount(router, "/subscriptions")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return l, subs, ts
}

func dial(t *testing.T, ts *httptest.Server, query string) *websocket.Conn {
	u := url.URL{Scheme: "ws", Host: strings.TrimPrefix(ts.URL, "http://"), Path: "/subscriptions/receipt", RawQuery: query}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readReceipt(t *testing.T, conn *websocket.Conn) *ReceiptMessage {
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg ReceiptMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return &msg
}

func TestSubscribeReceipts(t *testing.T) {
	l, _, ts := initSubscriptionsServer(t)
	alice := genesis.DevAccounts()[1]
	bob := genesis.DevAccounts()[2]

	conn := dial(t, ts, "owner="+alice.Address.String()+"&op="+runtime.OpStake.String())
	all := dial(t, ts, "")

	require.NoError(t, l.Enroll(bob))
	require.NoError(t, l.Enroll(alice))
	_, err := l.StakeDev(bob, 2)
	require.NoError(t, err)
	receipt, err := l.StakeDev(alice, 6)
	require.NoError(t, err)

	msg := readReceipt(t, conn)
	assert.Equal(t, receipt.TxID, msg.TxID)
	assert.Equal(t, runtime.OpStake.String(), msg.Op)
	assert.Equal(t, alice.Address, msg.Owner)
	assert.Equal(t, genesis.DevPool, msg.Pool)
	assert.Equal(t, uint64(6), msg.Amount)
	assert.Equal(t, uint64(3), msg.Reward)
	require.Len(t, msg.Transfers, 2)
	assert.Equal(t, alice.StakingAccount, msg.Transfers[1].From)

	var seqs []uint64
	for range 4 {
		seqs = append(seqs, readReceipt(t, all).Seq)
	}
	assert.Equal(t, []uint64{1, 2, 3, 4}, seqs)
}

func TestSubscribeBadFilter(t *testing.T) {
	_, _, ts := initSubscriptionsServer(t)
	for _, q := range []string{"pool=0x1", "owner=zz", "op=swap"} {
		res, err := http.Get(ts.URL + "/subscriptions/receipt?" + q) //#nosec G107
		require.NoError(t, err)
		res.Body.Close()
		assert.Equal(t, http.StatusBadRequest, res.StatusCode, q)
	}
}

func TestClose(t *testing.T) {
	_, subs, ts := initSubscriptionsServer(t)
	conn := dial(t, ts, "")

	done := make(chan struct{})
	go func() {
		subs.Close()
		close(done)
	}()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "%v", err)
	<-done
}

func TestReceiptFilter(t *testing.T) {
	pool := thor.BytesToAddress([]byte("p"))
	op := runtime.OpUnstake
	f := &ReceiptFilter{Pool: &pool, Op: &op}

	assert.True(t, f.Match(&runtime.Receipt{Pool: pool, Op: runtime.OpUnstake}))
	assert.False(t, f.Match(&runtime.Receipt{Pool: pool, Op: runtime.OpStake}))
	assert.False(t, f.Match(&runtime.Receipt{Op: runtime.OpUnstake}))
	assert.True(t, (&ReceiptFilter{}).Match(&runtime.Receipt{}))
}
