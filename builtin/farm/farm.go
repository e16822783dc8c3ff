// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/vechain/stakefarm/builtin/farm/ledger"
	"github.com/vechain/stakefarm/builtin/farm/pool"
	"github.com/vechain/stakefarm/builtin/farm/signer"
	"github.com/vechain/stakefarm/builtin/reverts"
	"github.com/vechain/stakefarm/builtin/solidity"
	"github.com/vechain/stakefarm/builtin/token"
	"github.com/vechain/stakefarm/log"
	"github.com/vechain/stakefarm/state"
	"github.com/vechain/stakefarm/thor"
)

var logger = log.WithContext("pkg", "farm")

func SetLogger(l log.Logger) {
	logger = l
}

// Accounts names the accounts a stake or unstake call operates on.
// They are checked by the caller before the call. Nonce is the signer nonce supplied by the caller.
type Accounts struct {
	Pool           thor.Address
	Owner          thor.Address
	Nonce          uint8
	StakingAccount thor.Address // owner's account of the staking mint
	RewardAccount  thor.Address // owner's account of the reward mint
}

// Farm implements the staking engine of the `Farm` contract.
type Farm struct {
	addr  thor.Address
	state *state.State
	token *token.Token

	poolService *pool.Service
	userService *ledger.Service
}

// New create a new instance.
func New(addr thor.Address, state *state.State, token *token.Token) *Farm {
	sctx := solidity.NewContext(addr, state)
	return &Farm{
		addr:        addr,
		state:       state,
		token:       token,
		poolService: pool.New(sctx),
		userService: ledger.New(sctx),
	}
}

func (f *Farm) Address() thor.Address {
	return f.addr
}

// Token returns the token ledger used for movements.
func (f *Farm) Token() *token.Token {
	return f.token
}

// SignerOf returns the vault authority of a pool under nonce.
func (f *Farm) SignerOf(poolID thor.Address, nonce uint8) thor.Address {
	return signer.Derive(f.addr, poolID, nonce)
}

func (f *Farm) GetPool(id thor.Address) (*pool.Pool, error) {
	return f.poolService.Get(id)
}

func (f *Farm) GetUser(poolID, owner thor.Address) (*ledger.Record, error) {
	return f.userService.Get(poolID, owner)
}

// atomic runs fn inside a state checkpoint, which is reverted if fn fails.
func (f *Farm) atomic(fn func() error) error {
	rev := f.state.NewCheckpoint()
	if err := fn(); err != nil {
		f.state.RevertTo(rev)
		return err
	}
	return nil
}

// InitializePool registers a pool whose vaults are owned by the derived authority of (id, nonce).
func (f *Farm) InitializePool(
	id thor.Address,
	authority thor.Address,
	nonce uint8,
	stakingMint thor.Address,
	stakingVault thor.Address,
	rewardMint thor.Address,
	rewardVault thor.Address,
) error {
	return f.atomic(func() error {
		if _, err := f.poolService.Create(id, authority, nonce, stakingMint, stakingVault, rewardMint, rewardVault); err != nil {
			return err
		}
		logger.Info("pool initialized", "pool", id, "authority", authority, "nonce", nonce)
		return nil
	})
}

// CreateUser opens the record of owner in pool and counts it.
func (f *Farm) CreateUser(poolID, owner thor.Address, bump uint8) error {
	return f.atomic(func() error {
		if _, err := f.userService.Create(poolID, owner, bump); err != nil {
			return err
		}
		count, err := f.poolService.Enroll(poolID)
		if err != nil {
			return err
		}
		logger.Debug("user created", "pool", poolID, "owner", owner, "count", count)
		return nil
	})
}

func (f *Farm) load(accs *Accounts) (*pool.Pool, *signer.Signer, *ledger.Record, error) {
	p, err := f.poolService.Get(accs.Pool)
	if err != nil {
		return nil, nil, nil, err
	}
	if p.IsEmpty() {
		return nil, nil, nil, errors.WithMessage(reverts.ErrNotFound, "pool")
	}
	sig, err := signer.Seal(f.addr, accs.Pool, p.Nonce, accs.Nonce)
	if err != nil {
		return nil, nil, nil, err
	}
	rec, err := f.userService.Get(accs.Pool, accs.Owner)
	if err != nil {
		return nil, nil, nil, err
	}
	if rec.IsEmpty() {
		return nil, nil, nil, errors.WithMessage(reverts.ErrNotFound, "user record")
	}
	return p, sig, rec, nil
}

// Stake locks amount of the staking token into the pool vault and credits half of it
// as reward, paid out of the reward vault. It returns the credited reward.
func (f *Farm) Stake(accs *Accounts, amount uint64, owner token.Authorization) (reward uint64, err error) {
	if amount == 0 {
		return 0, reverts.ErrInvalidAmount
	}

	err = f.atomic(func() error {
		p, sig, rec, err := f.load(accs)
		if err != nil {
			return err
		}

		reward = CalcReward(amount)
		rewardBalance, overflow := math.SafeAdd(rec.RewardBalance, reward)
		if overflow {
			return errors.WithMessage(reverts.ErrArithmeticOverflow, "reward balance")
		}
		staked, overflow := math.SafeAdd(rec.BalanceStaked, amount)
		if overflow {
			return errors.WithMessage(reverts.ErrArithmeticOverflow, "staked balance")
		}
		rec.RewardBalance = rewardBalance
		rec.BalanceStaked = staked
		if err := f.userService.Set(rec); err != nil {
			return err
		}

		if err := f.token.Transfer(p.RewardVault, accs.RewardAccount, reward, sig); err != nil {
			return errors.WithMessage(err, "reward payout")
		}
		if err := f.token.Transfer(accs.StakingAccount, p.StakingVault, amount, owner); err != nil {
			return errors.WithMessage(err, "stake deposit")
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	logger.Debug("staked", "pool", accs.Pool, "owner", accs.Owner, "amount", amount, "reward", reward)
	return reward, nil
}

// Unstake returns amount of staked principal from the pool vault to the owner. Rewards are kept.
func (f *Farm) Unstake(accs *Accounts, amount uint64) error {
	if amount == 0 {
		return reverts.ErrInvalidAmount
	}

	err := f.atomic(func() error {
		p, sig, rec, err := f.load(accs)
		if err != nil {
			return err
		}

		staked, underflow := math.SafeSub(rec.BalanceStaked, amount)
		if underflow {
			return errors.WithMessage(reverts.ErrInsufficientBalance, "staked balance")
		}
		rec.BalanceStaked = staked
		if err := f.userService.Set(rec); err != nil {
			return err
		}

		if err := f.token.Transfer(p.StakingVault, accs.StakingAccount, amount, sig); err != nil {
			return errors.WithMessage(err, "stake withdrawal")
		}
		return nil
	})
	if err != nil {
		return err
	}
	logger.Debug("unstaked", "pool", accs.Pool, "owner", accs.Owner, "amount", amount)
	return nil
}
