// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakefarm/lvldb"
	"github.com/vechain/stakefarm/thor"
)

func newTestState(t *testing.T) (*State, *lvldb.LevelDB) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st, err := New(db, 0)
	require.NoError(t, err)
	return st, db
}

func TestStateCheckpoint(t *testing.T) {
	st, _ := newTestState(t)

	addr := thor.BytesToAddress([]byte("account"))
	key := thor.BytesToBytes32([]byte("key"))

	raw, err := st.GetRawStorage(addr, key)
	require.NoError(t, err)
	assert.Empty(t, raw)

	st.SetRawStorage(addr, key, rlp.RawValue{0x01})

	cp := st.NewCheckpoint()
	st.SetRawStorage(addr, key, rlp.RawValue{0x02})

	raw, err = st.GetRawStorage(addr, key)
	require.NoError(t, err)
	assert.Equal(t, rlp.RawValue{0x02}, raw)

	st.RevertTo(cp)
	raw, err = st.GetRawStorage(addr, key)
	require.NoError(t, err)
	assert.Equal(t, rlp.RawValue{0x01}, raw)
}

func TestStageCommit(t *testing.T) {
	st, db := newTestState(t)

	addr := thor.BytesToAddress([]byte("account"))
	k1 := thor.BytesToBytes32([]byte("k1"))
	k2 := thor.BytesToBytes32([]byte("k2"))

	require.NoError(t, st.EncodeStorage(addr, k1, func() ([]byte, error) {
		return rlp.EncodeToBytes(uint64(42))
	}))
	st.SetRawStorage(addr, k2, rlp.RawValue{0x05})

	stage := st.Stage()
	assert.Equal(t, 2, stage.Len())
	require.NoError(t, stage.Commit())

	// a fresh state over the same db sees committed data
	fresh, err := New(db, 0)
	require.NoError(t, err)

	var v uint64
	require.NoError(t, fresh.DecodeStorage(addr, k1, func(raw []byte) error {
		return rlp.DecodeBytes(raw, &v)
	}))
	assert.Equal(t, uint64(42), v)

	// clearing a slot deletes it
	fresh.SetRawStorage(addr, k2, nil)
	require.NoError(t, fresh.Stage().Commit())

	again, err := New(db, 0)
	require.NoError(t, err)
	raw, err := again.GetRawStorage(addr, k2)
	require.NoError(t, err)
	assert.Empty(t, raw)

	// nothing pending after commit
	assert.Equal(t, 0, fresh.Stage().Len())
}
