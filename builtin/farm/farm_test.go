// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"math"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakefarm/builtin/farm/signer"
	"github.com/vechain/stakefarm/builtin/reverts"
	"github.com/vechain/stakefarm/builtin/token"
	"github.com/vechain/stakefarm/lvldb"
	"github.com/vechain/stakefarm/state"
	"github.com/vechain/stakefarm/thor"
)

var (
	farmAddr  = thor.BytesToAddress([]byte("Farm"))
	tokenAddr = thor.BytesToAddress([]byte("Token"))

	admin  = thor.BytesToAddress([]byte("admin"))
	issuer = thor.BytesToAddress([]byte("issuer"))
	alice  = thor.BytesToAddress([]byte("alice"))
	bob    = thor.BytesToAddress([]byte("bob"))

	poolID       = thor.BytesToAddress([]byte("pool"))
	stakingMint  = thor.BytesToAddress([]byte("s-mint"))
	rewardMint   = thor.BytesToAddress([]byte("r-mint"))
	stakingVault = thor.BytesToAddress([]byte("s-vault"))
	rewardVault  = thor.BytesToAddress([]byte("r-vault"))
	aliceStake   = thor.BytesToAddress([]byte("alice-s"))
	aliceReward  = thor.BytesToAddress([]byte("alice-r"))
)

const (
	poolNonce     = uint8(5)
	rewardSupply  = uint64(1_000_000)
	aliceBalance  = uint64(10_000)
	defaultAmount = uint64(100)
)

type testFarm struct {
	*Farm
	st *state.State
	tk *token.Token
}

func (tf *testFarm) balance(t *testing.T, acc thor.Address) uint64 {
	a, err := tf.tk.GetAccount(acc)
	require.NoError(t, err)
	return a.Amount
}

func (tf *testFarm) record(t *testing.T) (staked, reward uint64) {
	r, err := tf.GetUser(poolID, alice)
	require.NoError(t, err)
	return r.BalanceStaked, r.RewardBalance
}

func aliceAccounts() *Accounts {
	return &Accounts{
		Pool:           poolID,
		Owner:          alice,
		Nonce:          poolNonce,
		StakingAccount: aliceStake,
		RewardAccount:  aliceReward,
	}
}

func newTestFarm(t *testing.T) *testFarm {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	st, err := state.New(db, 0)
	require.NoError(t, err)

	tk := token.New(tokenAddr, st)
	f := New(farmAddr, st, tk)
	authority := signer.Derive(farmAddr, poolID, poolNonce)

	require.NoError(t, tk.CreateMint(stakingMint, issuer))
	require.NoError(t, tk.CreateMint(rewardMint, issuer))
	require.NoError(t, tk.OpenAccount(stakingVault, stakingMint, authority))
	require.NoError(t, tk.OpenAccount(rewardVault, rewardMint, authority))
	require.NoError(t, tk.OpenAccount(aliceStake, stakingMint, alice))
	require.NoError(t, tk.OpenAccount(aliceReward, rewardMint, alice))
	require.NoError(t, tk.MintTo(rewardMint, rewardVault, rewardSupply, token.Identity(issuer)))
	require.NoError(t, tk.MintTo(stakingMint, aliceStake, aliceBalance, token.Identity(issuer)))

	require.NoError(t, f.InitializePool(poolID, admin, poolNonce, stakingMint, stakingVault, rewardMint, rewardVault))
	require.NoError(t, f.CreateUser(poolID, alice, 255))

	return &testFarm{Farm: f, st: st, tk: tk}
}

func TestInitializePool(t *testing.T) {
	tf := newTestFarm(t)

	p, err := tf.GetPool(poolID)
	require.NoError(t, err)
	assert.Equal(t, admin, p.Authority)
	assert.Equal(t, poolNonce, p.Nonce)
	assert.Equal(t, uint32(1), p.UserCount)

	err = tf.InitializePool(poolID, admin, poolNonce, stakingMint, stakingVault, rewardMint, rewardVault)
	assert.ErrorIs(t, err, reverts.ErrDuplicateEnrollment)

	assert.Equal(t, signer.Derive(farmAddr, poolID, poolNonce), tf.SignerOf(poolID, poolNonce))
}

func TestCreateUser(t *testing.T) {
	tf := newTestFarm(t)

	r, err := tf.GetUser(poolID, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), r.BalanceStaked)
	assert.Equal(t, uint64(0), r.RewardBalance)
	assert.Equal(t, uint8(255), r.Bump)

	assert.ErrorIs(t, tf.CreateUser(poolID, alice, 255), reverts.ErrDuplicateEnrollment)
	p, err := tf.GetPool(poolID)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), p.UserCount)

	require.NoError(t, tf.CreateUser(poolID, bob, 1))
	p, err = tf.GetPool(poolID)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), p.UserCount)

	// unknown pool leaves no record behind
	other := thor.BytesToAddress([]byte("other-pool"))
	assert.ErrorIs(t, tf.CreateUser(other, bob, 1), reverts.ErrNotFound)
	r, err = tf.GetUser(other, bob)
	require.NoError(t, err)
	assert.True(t, r.IsEmpty())
}

func TestStakeRewards(t *testing.T) {
	tests := []struct {
		amount uint64
		reward uint64
	}{
		{1, 0},
		{2, 1},
		{3, 1},
		{100, 50},
		{101, 50},
	}
	for _, tt := range tests {
		tf := newTestFarm(t)
		reward, err := tf.Stake(aliceAccounts(), tt.amount, token.Identity(alice))
		require.NoError(t, err)
		assert.Equal(t, tt.reward, reward, "amount %d", tt.amount)

		staked, rewarded := tf.record(t)
		assert.Equal(t, tt.amount, staked)
		assert.Equal(t, tt.reward, rewarded)

		assert.Equal(t, tt.amount, tf.balance(t, stakingVault))
		assert.Equal(t, aliceBalance-tt.amount, tf.balance(t, aliceStake))
		assert.Equal(t, tt.reward, tf.balance(t, aliceReward))
		assert.Equal(t, rewardSupply-tt.reward, tf.balance(t, rewardVault))
	}
}

func TestStakeAccumulates(t *testing.T) {
	tf := newTestFarm(t)

	_, err := tf.Stake(aliceAccounts(), 10, token.Identity(alice))
	require.NoError(t, err)
	_, err = tf.Stake(aliceAccounts(), 10, token.Identity(alice))
	require.NoError(t, err)

	staked, reward := tf.record(t)
	assert.Equal(t, uint64(20), staked)
	assert.Equal(t, uint64(10), reward)
}

func TestStakeInvalid(t *testing.T) {
	tf := newTestFarm(t)

	_, err := tf.Stake(aliceAccounts(), 0, token.Identity(alice))
	assert.ErrorIs(t, err, reverts.ErrInvalidAmount)

	accs := aliceAccounts()
	accs.Nonce = poolNonce + 1
	_, err = tf.Stake(accs, defaultAmount, token.Identity(alice))
	assert.ErrorIs(t, err, reverts.ErrAuthorizationMismatch)

	// a mismatched owner fails on the second leg and rolls back the first one
	_, err = tf.Stake(aliceAccounts(), defaultAmount, token.Identity(bob))
	assert.ErrorIs(t, err, reverts.ErrAuthorizationMismatch)

	// more than alice holds
	_, err = tf.Stake(aliceAccounts(), aliceBalance+1, token.Identity(alice))
	assert.ErrorIs(t, err, reverts.ErrInsufficientBalance)

	staked, reward := tf.record(t)
	assert.Equal(t, uint64(0), staked)
	assert.Equal(t, uint64(0), reward)
	assert.Equal(t, uint64(0), tf.balance(t, aliceReward))
	assert.Equal(t, rewardSupply, tf.balance(t, rewardVault))
	assert.Equal(t, aliceBalance, tf.balance(t, aliceStake))
}

func TestStakeOverflow(t *testing.T) {
	tf := newTestFarm(t)

	r, err := tf.GetUser(poolID, alice)
	require.NoError(t, err)
	r.BalanceStaked = math.MaxUint64 - 1
	require.NoError(t, tf.userService.Set(r))

	_, err = tf.Stake(aliceAccounts(), 2, token.Identity(alice))
	assert.ErrorIs(t, err, reverts.ErrArithmeticOverflow)

	staked, reward := tf.record(t)
	assert.Equal(t, uint64(math.MaxUint64-1), staked)
	assert.Equal(t, uint64(0), reward)
	assert.Equal(t, uint64(0), tf.balance(t, aliceReward))
}

func TestUnstake(t *testing.T) {
	tf := newTestFarm(t)

	_, err := tf.Stake(aliceAccounts(), defaultAmount, token.Identity(alice))
	require.NoError(t, err)

	assert.ErrorIs(t, tf.Unstake(aliceAccounts(), 0), reverts.ErrInvalidAmount)
	assert.ErrorIs(t, tf.Unstake(aliceAccounts(), defaultAmount+1), reverts.ErrInsufficientBalance)

	accs := aliceAccounts()
	accs.Nonce = poolNonce - 1
	assert.ErrorIs(t, tf.Unstake(accs, 1), reverts.ErrAuthorizationMismatch)

	require.NoError(t, tf.Unstake(aliceAccounts(), 40))
	staked, reward := tf.record(t)
	assert.Equal(t, uint64(60), staked)
	assert.Equal(t, uint64(50), reward)
	assert.Equal(t, uint64(60), tf.balance(t, stakingVault))
	assert.Equal(t, aliceBalance-60, tf.balance(t, aliceStake))

	require.NoError(t, tf.Unstake(aliceAccounts(), 60))
	staked, reward = tf.record(t)
	assert.Equal(t, uint64(0), staked)
	assert.Equal(t, uint64(50), reward)
	assert.Equal(t, aliceBalance, tf.balance(t, aliceStake))
}

func TestUnknownUser(t *testing.T) {
	tf := newTestFarm(t)
	accs := aliceAccounts()
	accs.Owner = bob

	_, err := tf.Stake(accs, 1, token.Identity(bob))
	assert.ErrorIs(t, err, reverts.ErrNotFound)
	assert.ErrorIs(t, tf.Unstake(accs, 1), reverts.ErrNotFound)
}

func TestFuzzStakeUnstake(t *testing.T) {
	f := fuzz.NewWithSeed(42)

	for range 50 {
		tf := newTestFarm(t)

		var amounts []uint16
		f.NumElements(1, 8).Fuzz(&amounts)

		var lastReward uint64
		for _, a := range amounts {
			amount := uint64(a)%aliceBalance + 1
			stakedBefore, _ := tf.record(t)
			if stakedBefore+amount > aliceBalance {
				break
			}

			_, err := tf.Stake(aliceAccounts(), amount, token.Identity(alice))
			require.NoError(t, err)
			_, reward := tf.record(t)
			assert.GreaterOrEqual(t, reward, lastReward)
			assert.Equal(t, lastReward+amount/2, reward)
			lastReward = reward

			require.NoError(t, tf.Unstake(aliceAccounts(), amount))
			stakedAfter, rewardAfter := tf.record(t)
			assert.Equal(t, stakedBefore, stakedAfter)
			assert.Equal(t, reward, rewardAfter)
		}
		assert.Equal(t, aliceBalance, tf.balance(t, aliceStake))
	}
}
