// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

// Constants of the staking farm.
const (
	// RewardNumerator / RewardDenominator is the fixed reward ratio, 2 staked : 1 reward.
	RewardNumerator   uint64 = 1
	RewardDenominator uint64 = 2

	// SignatureLength is the length of a recoverable secp256k1 signature [R || S || V].
	SignatureLength = 65
)
