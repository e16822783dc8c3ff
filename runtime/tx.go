// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"io"
	"sync/atomic"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/stakefarm/cry"
	"github.com/vechain/stakefarm/thor"
)

// Tx is a signed request to run one clause as its origin.
type Tx struct {
	body txBody

	cache struct {
		signingHash atomic.Pointer[thor.Bytes32]
		origin      atomic.Pointer[thor.Address]
	}
}

type txBody struct {
	Nonce     uint64
	Clause    clauseBody
	Signature []byte
}

// NewTx creates an unsigned transaction.
func NewTx(nonce uint64, clause *Clause) *Tx {
	return &Tx{body: txBody{Nonce: nonce, Clause: clause.body}}
}

func (t *Tx) Nonce() uint64 {
	return t.body.Nonce
}

func (t *Tx) Clause() *Clause {
	return &Clause{t.body.Clause}
}

func (t *Tx) Signature() []byte {
	return append([]byte(nil), t.body.Signature...)
}

// SigningHash returns the hash to be signed by the origin.
func (t *Tx) SigningHash() thor.Bytes32 {
	if cached := t.cache.signingHash.Load(); cached != nil {
		return *cached
	}
	h := thor.NewBlake2b()
	if err := rlp.Encode(h, []any{t.body.Nonce, &t.body.Clause}); err != nil {
		panic(err)
	}
	var hash thor.Bytes32
	h.Sum(hash[:0])
	t.cache.signingHash.Store(&hash)
	return hash
}

// WithSignature returns a copy of the transaction carrying sig.
func (t *Tx) WithSignature(sig []byte) *Tx {
	return &Tx{body: txBody{
		Nonce:     t.body.Nonce,
		Clause:    t.body.Clause,
		Signature: append([]byte(nil), sig...),
	}}
}

// Sign signs the transaction with key.
func (t *Tx) Sign(key *secp256k1.PrivateKey) *Tx {
	return t.WithSignature(cry.Sign(t.SigningHash(), key))
}

// Origin recovers the signer of the transaction.
func (t *Tx) Origin() (thor.Address, error) {
	if cached := t.cache.origin.Load(); cached != nil {
		return *cached, nil
	}
	origin, err := cry.Recover(t.SigningHash(), t.body.Signature)
	if err != nil {
		return thor.Address{}, err
	}
	t.cache.origin.Store(&origin)
	return origin, nil
}

// ID returns the transaction id, which binds the signing hash to the origin.
// It is zero for a transaction without a valid signature.
func (t *Tx) ID() thor.Bytes32 {
	origin, err := t.Origin()
	if err != nil {
		return thor.Bytes32{}
	}
	return thor.Blake2b(t.SigningHash().Bytes(), origin.Bytes())
}

func (t *Tx) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &t.body)
}

func (t *Tx) DecodeRLP(s *rlp.Stream) error {
	var body txBody
	if err := s.Decode(&body); err != nil {
		return err
	}
	t.body = body
	t.cache.signingHash.Store(nil)
	t.cache.origin.Store(nil)
	return nil
}

// DecodeTx decodes a raw transaction.
func DecodeTx(raw []byte) (*Tx, error) {
	var tx Tx
	if err := rlp.DecodeBytes(raw, &tx); err != nil {
		return nil, errors.Wrap(err, "decode tx")
	}
	return &tx, nil
}
