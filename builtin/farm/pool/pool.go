// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/pkg/errors"

	"github.com/vechain/stakefarm/builtin/reverts"
	"github.com/vechain/stakefarm/builtin/solidity"
	"github.com/vechain/stakefarm/thor"
)

var slotPools = thor.BytesToBytes32([]byte("farm-pools"))

type Pool struct {
	Authority    thor.Address // admin that initialized the pool
	Nonce        uint8        // vault authority derivation nonce
	StakingMint  thor.Address
	StakingVault thor.Address
	RewardMint   thor.Address
	RewardVault  thor.Address
	UserCount    uint32
}

func (p *Pool) IsEmpty() bool {
	return p.StakingMint.IsZero() && p.RewardMint.IsZero()
}

type Service struct {
	pools *solidity.Mapping[thor.Address, *Pool]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		pools: solidity.NewMapping[thor.Address, *Pool](sctx, slotPools),
	}
}

// Get returns the pool with the given id, an empty pool if absent.
func (s *Service) Get(id thor.Address) (*Pool, error) {
	p, err := s.pools.Get(id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get pool")
	}
	return p, nil
}

// Create registers a pool. Vault ownership is checked by the caller.
func (s *Service) Create(
	id thor.Address,
	authority thor.Address,
	nonce uint8,
	stakingMint thor.Address,
	stakingVault thor.Address,
	rewardMint thor.Address,
	rewardVault thor.Address,
) (*Pool, error) {
	exists, err := s.pools.Has(id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check pool")
	}
	if exists {
		return nil, errors.WithMessage(reverts.ErrDuplicateEnrollment, "pool")
	}

	p := &Pool{
		Authority:    authority,
		Nonce:        nonce,
		StakingMint:  stakingMint,
		StakingVault: stakingVault,
		RewardMint:   rewardMint,
		RewardVault:  rewardVault,
	}
	if err := s.pools.Set(id, p); err != nil {
		return nil, errors.Wrap(err, "failed to set pool")
	}
	return p, nil
}

// Enroll counts one more user in the pool.
func (s *Service) Enroll(id thor.Address) (uint32, error) {
	p, err := s.Get(id)
	if err != nil {
		return 0, err
	}
	if p.IsEmpty() {
		return 0, errors.WithMessage(reverts.ErrNotFound, "pool")
	}
	if p.UserCount == ^uint32(0) {
		return 0, errors.WithMessage(reverts.ErrArithmeticOverflow, "user count")
	}
	p.UserCount++
	if err := s.pools.Set(id, p); err != nil {
		return 0, errors.Wrap(err, "failed to set pool")
	}
	return p.UserCount, nil
}
