// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	"github.com/vechain/stakefarm/builtin/farm/ledger"
	"github.com/vechain/stakefarm/builtin/farm/pool"
	"github.com/vechain/stakefarm/thor"
)

type Pool struct {
	Address      thor.Address `json:"address"`
	Authority    thor.Address `json:"authority"`
	Nonce        uint8        `json:"nonce"`
	Signer       thor.Address `json:"signer"`
	StakingMint  thor.Address `json:"stakingMint"`
	StakingVault thor.Address `json:"stakingVault"`
	RewardMint   thor.Address `json:"rewardMint"`
	RewardVault  thor.Address `json:"rewardVault"`
	UserCount    uint32       `json:"userCount"`
}

func convertPool(addr, signer thor.Address, p *pool.Pool) *Pool {
	return &Pool{
		Address:      addr,
		Authority:    p.Authority,
		Nonce:        p.Nonce,
		Signer:       signer,
		StakingMint:  p.StakingMint,
		StakingVault: p.StakingVault,
		RewardMint:   p.RewardMint,
		RewardVault:  p.RewardVault,
		UserCount:    p.UserCount,
	}
}

type Signer struct {
	Pool   thor.Address `json:"pool"`
	Nonce  uint8        `json:"nonce"`
	Signer thor.Address `json:"signer"`
}

type User struct {
	Pool          thor.Address `json:"pool"`
	Owner         thor.Address `json:"owner"`
	BalanceStaked uint64       `json:"balanceStaked"`
	RewardBalance uint64       `json:"rewardBalance"`
	Bump          uint8        `json:"bump"`
}

func convertUser(r *ledger.Record) *User {
	return &User{
		Pool:          r.Pool,
		Owner:         r.Owner,
		BalanceStaked: r.BalanceStaked,
		RewardBalance: r.RewardBalance,
		Bump:          r.Bump,
	}
}
