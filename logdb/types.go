// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"github.com/vechain/stakefarm/thor"
)

// Event is a farm operation recorded after its transaction was committed.
type Event struct {
	Seq      uint64 // sequence number of the transaction
	Index    uint32
	TxID     thor.Bytes32
	TxOrigin thor.Address
	Op       string
	Pool     thor.Address
	Owner    thor.Address
	Amount   uint64
	Reward   uint64
	Time     uint64
}

// Transfer is a committed token movement.
type Transfer struct {
	Seq       uint64
	Index     uint32
	TxID      thor.Bytes32
	TxOrigin  thor.Address
	Mint      thor.Address
	Sender    thor.Address
	Recipient thor.Address
	Amount    uint64
	Time      uint64
}

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

type Options struct {
	Offset uint64
	Limit  uint64
}

type EventFilter struct {
	Pool    *thor.Address
	Owner   *thor.Address
	Op      string
	Options *Options
	Order   Order // default asc
}

type TransferFilter struct {
	TxID    *thor.Bytes32
	Mint    *thor.Address
	Account *thor.Address // matches either sender or recipient
	Options *Options
	Order   Order
}
