// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis describes the initial mints, accounts and pools of a ledger.
package genesis

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/stakefarm/builtin"
	"github.com/vechain/stakefarm/builtin/solidity"
	"github.com/vechain/stakefarm/builtin/token"
	"github.com/vechain/stakefarm/state"
	"github.com/vechain/stakefarm/thor"
)

var (
	slotGenesis = thor.BytesToBytes32([]byte("genesis"))
	keyID       = thor.BytesToBytes32([]byte("id"))
)

type Mint struct {
	Address   thor.Address `yaml:"address"`
	Authority thor.Address `yaml:"authority"`
}

type Account struct {
	Address thor.Address `yaml:"address"`
	Mint    thor.Address `yaml:"mint"`
	Owner   thor.Address `yaml:"owner"`
	Balance uint64       `yaml:"balance"`
}

// Pool is initialized together with its vaults, which are opened for the derived authority.
type Pool struct {
	Address      thor.Address `yaml:"address"`
	Admin        thor.Address `yaml:"admin"`
	Nonce        uint8        `yaml:"nonce"`
	StakingMint  thor.Address `yaml:"stakingMint"`
	StakingVault thor.Address `yaml:"stakingVault"`
	RewardMint   thor.Address `yaml:"rewardMint"`
	RewardVault  thor.Address `yaml:"rewardVault"`
	RewardSupply uint64       `yaml:"rewardSupply"`
}

type Genesis struct {
	Name     string    `yaml:"name"`
	Mints    []Mint    `yaml:"mints"`
	Accounts []Account `yaml:"accounts"`
	Pools    []Pool    `yaml:"pools"`
}

// Load reads a yaml genesis file.
func Load(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis")
	}
	return Parse(data)
}

func Parse(data []byte) (*Genesis, error) {
	var gen Genesis
	if err := yaml.Unmarshal(data, &gen); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	return &gen, nil
}

// ID identifies the genesis content.
func (g *Genesis) ID() thor.Bytes32 {
	data, err := yaml.Marshal(g)
	if err != nil {
		panic(err)
	}
	return thor.Blake2b(data)
}

func minter(mints map[thor.Address]thor.Address, mint thor.Address) token.Authorization {
	return token.Identity(mints[mint])
}

func marker(st *state.State) *solidity.Mapping[thor.Bytes32, thor.Bytes32] {
	return solidity.NewMapping[thor.Bytes32, thor.Bytes32](solidity.NewContext(builtin.Runtime.Address, st), slotGenesis)
}

// Apply writes the genesis content into st. It fails if st already holds a genesis.
func (g *Genesis) Apply(st *state.State) error {
	applied, err := AppliedID(st)
	if err != nil {
		return err
	}
	if !applied.IsZero() {
		return fmt.Errorf("genesis %v already applied", applied)
	}

	f := builtin.Farm.WithState(st)
	tk := f.Token()

	mints := make(map[thor.Address]thor.Address)
	for _, m := range g.Mints {
		if err := tk.CreateMint(m.Address, m.Authority); err != nil {
			return fmt.Errorf("%s: %w", m.Address, err)
		}
		mints[m.Address] = m.Authority
	}
	for _, a := range g.Accounts {
		if err := tk.OpenAccount(a.Address, a.Mint, a.Owner); err != nil {
			return fmt.Errorf("%s: %w", a.Address, err)
		}
		if a.Balance > 0 {
			if err := tk.MintTo(a.Mint, a.Address, a.Balance, minter(mints, a.Mint)); err != nil {
				return fmt.Errorf("%s: %w", a.Address, err)
			}
		}
	}
	for _, p := range g.Pools {
		authority := f.SignerOf(p.Address, p.Nonce)
		if err := tk.OpenAccount(p.StakingVault, p.StakingMint, authority); err != nil {
			return fmt.Errorf("%s: staking vault: %w", p.Address, err)
		}
		if err := tk.OpenAccount(p.RewardVault, p.RewardMint, authority); err != nil {
			return fmt.Errorf("%s: reward vault: %w", p.Address, err)
		}
		if p.RewardSupply > 0 {
			if err := tk.MintTo(p.RewardMint, p.RewardVault, p.RewardSupply, minter(mints, p.RewardMint)); err != nil {
				return fmt.Errorf("%s: reward supply: %w", p.Address, err)
			}
		}
		if err := f.InitializePool(p.Address, p.Admin, p.Nonce, p.StakingMint, p.StakingVault, p.RewardMint, p.RewardVault); err != nil {
			return fmt.Errorf("%s: %w", p.Address, err)
		}
	}
	return marker(st).Set(keyID, g.ID())
}

// AppliedID returns the id of the genesis held by st, zero if none.
func AppliedID(st *state.State) (thor.Bytes32, error) {
	return marker(st).Get(keyID)
}
