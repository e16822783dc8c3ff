// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"github.com/vechain/stakefarm/runtime"
	"github.com/vechain/stakefarm/thor"
)

type Transfer struct {
	Mint   thor.Address `json:"mint"`
	From   thor.Address `json:"from"`
	To     thor.Address `json:"to"`
	Amount uint64       `json:"amount"`
}

// ReceiptMessage is pushed for every committed transaction that matches the filter.
type ReceiptMessage struct {
	Seq       uint64       `json:"seq"`
	TxID      thor.Bytes32 `json:"txID"`
	Origin    thor.Address `json:"origin"`
	Op        string       `json:"op"`
	Pool      thor.Address `json:"pool"`
	Owner     thor.Address `json:"owner"`
	Amount    uint64       `json:"amount"`
	Reward    uint64       `json:"reward"`
	Transfers []Transfer   `json:"transfers"`
	Time      uint64       `json:"time"`
}

func convertReceipt(r *runtime.Receipt) *ReceiptMessage {
	msg := &ReceiptMessage{
		Seq:       r.Seq,
		TxID:      r.TxID,
		Origin:    r.Origin,
		Op:        r.Op.String(),
		Pool:      r.Pool,
		Owner:     r.Owner,
		Amount:    r.Amount,
		Reward:    r.Reward,
		Transfers: make([]Transfer, 0, len(r.Transfers)),
		Time:      r.Time,
	}
	for _, t := range r.Transfers {
		msg.Transfers = append(msg.Transfers, Transfer{Mint: t.Mint, From: t.From, To: t.To, Amount: t.Amount})
	}
	return msg
}

// ReceiptFilter selects receipts by pool, owner and op. Nil fields match anything.
type ReceiptFilter struct {
	Pool  *thor.Address
	Owner *thor.Address
	Op    *runtime.Op
}

func (f *ReceiptFilter) Match(r *runtime.Receipt) bool {
	if f.Pool != nil && *f.Pool != r.Pool {
		return false
	}
	if f.Owner != nil && *f.Owner != r.Owner {
		return false
	}
	if f.Op != nil && *f.Op != r.Op {
		return false
	}
	return true
}
