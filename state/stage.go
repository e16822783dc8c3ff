// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"
)

// Stage abstracts changes on the storage.
type Stage struct {
	state   *State
	changes map[storageKey]rlp.RawValue
}

// Len returns the number of changed slots.
func (s *Stage) Len() int {
	return len(s.changes)
}

// Commit writes all changes in one batch.
// On success the state drops its revisions, so later checkpoints start from the committed data.
func (s *Stage) Commit() error {
	batch := s.state.db.NewBatch()
	putter := storageBucket.NewPutter(batch)
	for k, v := range s.changes {
		var err error
		if len(v) == 0 {
			err = putter.Delete(k.bytes())
		} else {
			err = putter.Put(k.bytes(), v)
		}
		if err != nil {
			return &Error{err}
		}
	}
	if err := batch.Write(); err != nil {
		return &Error{err}
	}

	for k, v := range s.changes {
		s.state.cache.Add(k, v)
	}
	s.state.reset()
	return nil
}
