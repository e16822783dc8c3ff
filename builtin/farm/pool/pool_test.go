// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakefarm/builtin/reverts"
	"github.com/vechain/stakefarm/builtin/solidity"
	"github.com/vechain/stakefarm/lvldb"
	"github.com/vechain/stakefarm/state"
	"github.com/vechain/stakefarm/thor"
)

var (
	poolID = thor.BytesToAddress([]byte("pool"))
	admin  = thor.BytesToAddress([]byte("admin"))
	sMint  = thor.BytesToAddress([]byte("s-mint"))
	sVault = thor.BytesToAddress([]byte("s-vault"))
	rMint  = thor.BytesToAddress([]byte("r-mint"))
	rVault = thor.BytesToAddress([]byte("r-vault"))
)

func newService(t *testing.T) *Service {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	st, err := state.New(db, 0)
	require.NoError(t, err)
	return New(solidity.NewContext(thor.BytesToAddress([]byte("Farm")), st))
}

func TestCreate(t *testing.T) {
	svc := newService(t)

	p, err := svc.Get(poolID)
	require.NoError(t, err)
	assert.True(t, p.IsEmpty())

	created, err := svc.Create(poolID, admin, 3, sMint, sVault, rMint, rVault)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), created.UserCount)

	p, err = svc.Get(poolID)
	require.NoError(t, err)
	assert.Equal(t, &Pool{
		Authority:    admin,
		Nonce:        3,
		StakingMint:  sMint,
		StakingVault: sVault,
		RewardMint:   rMint,
		RewardVault:  rVault,
	}, p)

	_, err = svc.Create(poolID, admin, 4, sMint, sVault, rMint, rVault)
	assert.ErrorIs(t, err, reverts.ErrDuplicateEnrollment)
}

func TestEnroll(t *testing.T) {
	svc := newService(t)

	_, err := svc.Enroll(poolID)
	assert.ErrorIs(t, err, reverts.ErrNotFound)

	_, err = svc.Create(poolID, admin, 0, sMint, sVault, rMint, rVault)
	require.NoError(t, err)

	for i := uint32(1); i <= 3; i++ {
		n, err := svc.Enroll(poolID)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}
}

func TestEnrollOverflow(t *testing.T) {
	svc := newService(t)
	_, err := svc.Create(poolID, admin, 0, sMint, sVault, rMint, rVault)
	require.NoError(t, err)

	p, err := svc.Get(poolID)
	require.NoError(t, err)
	p.UserCount = math.MaxUint32
	require.NoError(t, svc.pools.Set(poolID, p))

	_, err = svc.Enroll(poolID)
	assert.ErrorIs(t, err, reverts.ErrArithmeticOverflow)

	p, err = svc.Get(poolID)
	require.NoError(t, err)
	assert.Equal(t, uint32(math.MaxUint32), p.UserCount)
}
