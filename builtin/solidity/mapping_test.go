// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakefarm/lvldb"
	"github.com/vechain/stakefarm/state"
	"github.com/vechain/stakefarm/thor"
)

type testStruct struct {
	Field1 uint64
	Field2 uint32
	Addr1  thor.Address
	Flag   uint8
}

func newTestContext(t *testing.T) *Context {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st, err := state.New(db, 0)
	require.NoError(t, err)
	return NewContext(thor.BytesToAddress([]byte("contract")), st)
}

func TestMappingStruct(t *testing.T) {
	ctx := newTestContext(t)
	m := NewMapping[thor.Address, *testStruct](ctx, thor.BytesToBytes32([]byte("structs")))

	key := thor.BytesToAddress([]byte("key"))

	v, err := m.Get(key)
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, testStruct{}, *v)

	has, err := m.Has(key)
	require.NoError(t, err)
	assert.False(t, has)

	want := &testStruct{Field1: 100, Field2: 7, Addr1: thor.BytesToAddress([]byte("a")), Flag: 255}
	require.NoError(t, m.Set(key, want))

	v, err = m.Get(key)
	require.NoError(t, err)
	assert.Equal(t, want, v)

	has, err = m.Has(key)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestMappingValue(t *testing.T) {
	ctx := newTestContext(t)
	m := NewMapping[thor.Address, uint64](ctx, thor.BytesToBytes32([]byte("values")))
	other := NewMapping[thor.Address, uint64](ctx, thor.BytesToBytes32([]byte("others")))

	key := thor.BytesToAddress([]byte("key"))

	v, err := m.Get(key)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), v)

	require.NoError(t, m.Set(key, 9))
	v, err = m.Get(key)
	require.NoError(t, err)
	assert.Equal(t, uint64(9), v)

	// same key under another base position is a different slot
	v, err = other.Get(key)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), v)
}
