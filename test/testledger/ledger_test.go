// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package testledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakefarm/genesis"
	"github.com/vechain/stakefarm/runtime"
)

func TestDevnet(t *testing.T) {
	l, err := NewDevnet()
	require.NoError(t, err)
	defer l.Close()

	alice := genesis.DevAccounts()[1]
	require.NoError(t, l.Enroll(alice))

	receipt, err := l.StakeDev(alice, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), receipt.Reward)
	assert.Equal(t, uint64(2), receipt.Seq)

	require.NoError(t, l.Runtime().View(func(v *runtime.View) error {
		nonce, err := v.Nonce(alice.Address)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), nonce)

		user, err := v.Farm().GetUser(genesis.DevPool, alice.Address)
		require.NoError(t, err)
		assert.Equal(t, uint64(10), user.BalanceStaked)
		return nil
	}))
}
