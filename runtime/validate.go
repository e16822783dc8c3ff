// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/pkg/errors"

	"github.com/vechain/stakefarm/builtin/farm"
	"github.com/vechain/stakefarm/builtin/farm/pool"
	"github.com/vechain/stakefarm/builtin/reverts"
	"github.com/vechain/stakefarm/builtin/token"
	"github.com/vechain/stakefarm/thor"
)

// validator checks the account graph of a clause before the farm is invoked.
type validator struct {
	farm  *farm.Farm
	token *token.Token
}

// checkAccount ensures addr is an opened account of mint owned by owner.
func (v *validator) checkAccount(name string, addr, mint, owner thor.Address) error {
	acc, err := v.token.GetAccount(addr)
	if err != nil {
		return err
	}
	if acc.IsEmpty() {
		return errors.WithMessage(reverts.ErrNotFound, name)
	}
	if acc.Mint != mint {
		return errors.WithMessage(reverts.ErrMintMismatch, name)
	}
	if acc.Owner != owner {
		return errors.WithMessage(reverts.ErrAuthorizationMismatch, name+" owner")
	}
	return nil
}

func (v *validator) existingPool(id thor.Address) (*pool.Pool, error) {
	p, err := v.farm.GetPool(id)
	if err != nil {
		return nil, err
	}
	if p.IsEmpty() {
		return nil, errors.WithMessage(reverts.ErrNotFound, "pool")
	}
	return p, nil
}

// checkVaults ensures the pool vaults are still held by the derived authority.
func (v *validator) checkVaults(id thor.Address, p *pool.Pool) error {
	authority := v.farm.SignerOf(id, p.Nonce)
	if err := v.checkAccount("staking vault", p.StakingVault, p.StakingMint, authority); err != nil {
		return err
	}
	return v.checkAccount("reward vault", p.RewardVault, p.RewardMint, authority)
}

func (v *validator) initializePool(args *InitializePool) error {
	if args.Pool.IsZero() {
		return reverts.New(reverts.CodeNotFound, "zero pool")
	}
	p, err := v.farm.GetPool(args.Pool)
	if err != nil {
		return err
	}
	if !p.IsEmpty() {
		return errors.WithMessage(reverts.ErrDuplicateEnrollment, "pool")
	}
	authority := v.farm.SignerOf(args.Pool, args.Nonce)
	if err := v.checkAccount("staking vault", args.StakingVault, args.StakingMint, authority); err != nil {
		return err
	}
	return v.checkAccount("reward vault", args.RewardVault, args.RewardMint, authority)
}

func (v *validator) createUser(args *CreateUser) error {
	_, err := v.existingPool(args.Pool)
	return err
}

func (v *validator) position(origin, poolID thor.Address) (*pool.Pool, error) {
	p, err := v.existingPool(poolID)
	if err != nil {
		return nil, err
	}
	rec, err := v.farm.GetUser(poolID, origin)
	if err != nil {
		return nil, err
	}
	if rec.IsEmpty() {
		return nil, errors.WithMessage(reverts.ErrNotFound, "user record")
	}
	if rec.Owner != origin || rec.Pool != poolID {
		return nil, errors.WithMessage(reverts.ErrAuthorizationMismatch, "user record")
	}
	if err := v.checkVaults(poolID, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (v *validator) stake(origin thor.Address, args *Stake) error {
	p, err := v.position(origin, args.Pool)
	if err != nil {
		return err
	}
	if err := v.checkAccount("staking account", args.StakingAccount, p.StakingMint, origin); err != nil {
		return err
	}
	return v.checkAccount("reward account", args.RewardAccount, p.RewardMint, origin)
}

func (v *validator) unstake(origin thor.Address, args *Unstake) error {
	p, err := v.position(origin, args.Pool)
	if err != nil {
		return err
	}
	return v.checkAccount("staking account", args.StakingAccount, p.StakingMint, origin)
}
