// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"encoding/hex"
	"sync/atomic"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/vechain/stakefarm/cry"
	"github.com/vechain/stakefarm/thor"
)

// DevAccount account for development.
type DevAccount struct {
	Address        thor.Address
	PrivateKey     *secp256k1.PrivateKey
	StakingAccount thor.Address
	RewardAccount  thor.Address
}

// Well-known addresses of the dev network.
var (
	DevStakingMint  = thor.BytesToAddress([]byte("dev-staking-mint"))
	DevRewardMint   = thor.BytesToAddress([]byte("dev-reward-mint"))
	DevPool         = thor.BytesToAddress([]byte("dev-pool"))
	DevStakingVault = thor.BytesToAddress([]byte("dev-staking-vault"))
	DevRewardVault  = thor.BytesToAddress([]byte("dev-reward-vault"))
)

const (
	DevPoolNonce    = uint8(1)
	devStakeBalance = uint64(1_000_000)
	devRewardSupply = uint64(100_000_000)
)

var devAccounts atomic.Value

// DevAccounts returns pre-alloced accounts for the dev network.
func DevAccounts() []DevAccount {
	if accs := devAccounts.Load(); accs != nil {
		return accs.([]DevAccount)
	}

	var accs []DevAccount
	privKeys := []string{
		"dce1443bd2ef0c2631adc1c67e5c93f13dc23a41c18b536effbbdcbcdb96fb65",
		"321d6443bc6177273b5abf54210fe806d451d6b7973bccc2384ef78bbcd0bf51",
		"2d7c882bad2a01105e36dda3646693bc1aaaa45b0ed63fb0ce23c060294f3af2",
		"593537225b037191d322c3b1df585fb1e5100811b71a6f7fc7e29cca1333483e",
		"ca7b25fc980c759df5f3ce17a3d881d6e19a38e651fc4315fc08917edab41058",
	}
	for _, str := range privKeys {
		b, err := hex.DecodeString(str)
		if err != nil {
			panic(err)
		}
		pk := secp256k1.PrivKeyFromBytes(b)
		addr := cry.PubkeyToAddress(pk.PubKey())
		accs = append(accs, DevAccount{
			Address:        addr,
			PrivateKey:     pk,
			StakingAccount: thor.BytesToAddress(thor.Blake2b([]byte("staking"), addr.Bytes()).Bytes()),
			RewardAccount:  thor.BytesToAddress(thor.Blake2b([]byte("reward"), addr.Bytes()).Bytes()),
		})
	}
	devAccounts.Store(accs)
	return accs
}

// NewDevnet creates the genesis of the dev network.
// The first dev account is the authority of both mints and the admin of the dev pool.
// Every dev account holds a funded staking account and an empty reward account.
func NewDevnet() *Genesis {
	accs := DevAccounts()
	admin := accs[0].Address

	gen := &Genesis{
		Name: "devnet",
		Mints: []Mint{
			{Address: DevStakingMint, Authority: admin},
			{Address: DevRewardMint, Authority: admin},
		},
		Pools: []Pool{{
			Address:      DevPool,
			Admin:        admin,
			Nonce:        DevPoolNonce,
			StakingMint:  DevStakingMint,
			StakingVault: DevStakingVault,
			RewardMint:   DevRewardMint,
			RewardVault:  DevRewardVault,
			RewardSupply: devRewardSupply,
		}},
	}
	for _, acc := range accs {
		gen.Accounts = append(gen.Accounts,
			Account{Address: acc.StakingAccount, Mint: DevStakingMint, Owner: acc.Address, Balance: devStakeBalance},
			Account{Address: acc.RewardAccount, Mint: DevRewardMint, Owner: acc.Address},
		)
	}
	return gen
}
