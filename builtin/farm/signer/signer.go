// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package signer derives the vault authority of a pool.
//
// The authority is a pure function of the program address, the pool identity and a nonce.
// No private key exists for it, a transfer is signed as the authority only through a Signer
// obtained from Seal.
package signer

import (
	"github.com/pkg/errors"

	"github.com/vechain/stakefarm/builtin/reverts"
	"github.com/vechain/stakefarm/builtin/token"
	"github.com/vechain/stakefarm/thor"
)

var domain = []byte("farm-signer")

// Derive returns the vault authority of pool under the given nonce.
func Derive(program, pool thor.Address, nonce uint8) thor.Address {
	h := thor.Keccak256(domain, program.Bytes(), pool.Bytes(), []byte{nonce})
	return thor.BytesToAddress(h[12:])
}

// Signer is the capability to authorize transfers as a pool's vault authority.
type Signer struct {
	program thor.Address
	pool    thor.Address
	nonce   uint8
}

var _ token.Authorization = (*Signer)(nil)

// Seal returns a Signer for pool if the supplied nonce matches the stored one.
func Seal(program, pool thor.Address, stored, supplied uint8) (*Signer, error) {
	if stored != supplied {
		return nil, errors.WithMessagef(reverts.ErrAuthorizationMismatch, "signer nonce %d", supplied)
	}
	return &Signer{program: program, pool: pool, nonce: stored}, nil
}

// Address returns the derived authority.
func (s *Signer) Address() thor.Address {
	return Derive(s.program, s.pool, s.nonce)
}

// Authorize implements token.Authorization.
func (s *Signer) Authorize(*token.Transfer) (thor.Address, error) {
	if s == nil {
		return thor.Address{}, reverts.ErrAuthorizationMismatch
	}
	return s.Address(), nil
}
