// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"github.com/pkg/errors"

	"github.com/vechain/stakefarm/builtin/reverts"
	"github.com/vechain/stakefarm/builtin/solidity"
	"github.com/vechain/stakefarm/thor"
)

var (
	slotRecords = thor.BytesToBytes32([]byte("farm-users"))
	recordTag   = []byte("farm-user")
)

// Record is the staking position of one owner in one pool.
type Record struct {
	Pool          thor.Address
	Owner         thor.Address
	BalanceStaked uint64
	RewardBalance uint64
	Bump          uint8
}

func (r *Record) IsEmpty() bool {
	return r.Pool.IsZero() && r.Owner.IsZero()
}

// RecordKey returns the storage key of the (owner, pool) record.
func RecordKey(owner, pool thor.Address) thor.Bytes32 {
	return thor.Blake2b(recordTag, owner.Bytes(), pool.Bytes())
}

type Service struct {
	records *solidity.Mapping[thor.Bytes32, *Record]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		records: solidity.NewMapping[thor.Bytes32, *Record](sctx, slotRecords),
	}
}

func (s *Service) Get(pool, owner thor.Address) (*Record, error) {
	r, err := s.records.Get(RecordKey(owner, pool))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user record")
	}
	return r, nil
}

// Create opens a zero balance record. At most one record exists per (owner, pool).
func (s *Service) Create(pool, owner thor.Address, bump uint8) (*Record, error) {
	key := RecordKey(owner, pool)
	exists, err := s.records.Has(key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check user record")
	}
	if exists {
		return nil, errors.WithMessage(reverts.ErrDuplicateEnrollment, "user record")
	}
	r := &Record{Pool: pool, Owner: owner, Bump: bump}
	if err := s.records.Set(key, r); err != nil {
		return nil, errors.Wrap(err, "failed to set user record")
	}
	return r, nil
}

func (s *Service) Set(r *Record) error {
	if err := s.records.Set(RecordKey(r.Owner, r.Pool), r); err != nil {
		return errors.Wrap(err, "failed to set user record")
	}
	return nil
}
