// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"github.com/holiman/uint256"

	"github.com/vechain/stakefarm/thor"
)

var (
	rewardNumerator   = uint256.NewInt(thor.RewardNumerator)
	rewardDenominator = uint256.NewInt(thor.RewardDenominator)
)

// CalcReward returns the reward credited for staking amount, rounded down.
func CalcReward(amount uint64) uint64 {
	// numerator <= denominator, the result always fits in 64 bits
	r, _ := new(uint256.Int).MulDivOverflow(uint256.NewInt(amount), rewardNumerator, rewardDenominator)
	return r.Uint64()
}
