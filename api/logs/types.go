// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logs

import (
	"github.com/vechain/stakefarm/logdb"
	"github.com/vechain/stakefarm/thor"
)

type LogMeta struct {
	Seq      uint64       `json:"seq"`
	Index    uint32       `json:"index"`
	TxID     thor.Bytes32 `json:"txID"`
	TxOrigin thor.Address `json:"txOrigin"`
	Time     uint64       `json:"time"`
}

type Event struct {
	Op     string       `json:"op"`
	Pool   thor.Address `json:"pool"`
	Owner  thor.Address `json:"owner"`
	Amount uint64       `json:"amount"`
	Reward uint64       `json:"reward"`
	Meta   LogMeta      `json:"meta"`
}

func convertEvent(e *logdb.Event) *Event {
	return &Event{
		Op:     e.Op,
		Pool:   e.Pool,
		Owner:  e.Owner,
		Amount: e.Amount,
		Reward: e.Reward,
		Meta: LogMeta{
			Seq:      e.Seq,
			Index:    e.Index,
			TxID:     e.TxID,
			TxOrigin: e.TxOrigin,
			Time:     e.Time,
		},
	}
}

type Transfer struct {
	Mint      thor.Address `json:"mint"`
	Sender    thor.Address `json:"sender"`
	Recipient thor.Address `json:"recipient"`
	Amount    uint64       `json:"amount"`
	Meta      LogMeta      `json:"meta"`
}

func convertTransfer(t *logdb.Transfer) *Transfer {
	return &Transfer{
		Mint:      t.Mint,
		Sender:    t.Sender,
		Recipient: t.Recipient,
		Amount:    t.Amount,
		Meta: LogMeta{
			Seq:      t.Seq,
			Index:    t.Index,
			TxID:     t.TxID,
			TxOrigin: t.TxOrigin,
			Time:     t.Time,
		},
	}
}
