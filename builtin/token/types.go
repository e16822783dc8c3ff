// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"github.com/vechain/stakefarm/thor"
)

// Mint describes a fungible token kind.
type Mint struct {
	Authority thor.Address // the identity allowed to issue new supply
	Supply    uint64
}

func (m *Mint) IsEmpty() bool {
	return m.Authority.IsZero() && m.Supply == 0
}

// Account holds a balance of a single mint on behalf of its owner.
type Account struct {
	Mint   thor.Address
	Owner  thor.Address
	Amount uint64
}

// IsEmpty returns true for an account that was never opened.
// An opened account always refers to a non-zero mint.
func (a *Account) IsEmpty() bool {
	return a.Mint.IsZero()
}

// Transfer is a requested token movement.
type Transfer struct {
	Mint   thor.Address
	From   thor.Address
	To     thor.Address
	Amount uint64
}

// Authorization proves the right to move tokens out of an account.
// It returns the identity it acts as.
type Authorization interface {
	Authorize(t *Transfer) (thor.Address, error)
}

// Identity is an Authorization that acts as a fixed identity.
// Only trusted host code should construct it.
type Identity thor.Address

func (i Identity) Authorize(*Transfer) (thor.Address, error) {
	return thor.Address(i), nil
}
