// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package cry signs and verifies transaction hashes with secp256k1 keys.
package cry

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/pkg/errors"

	"github.com/vechain/stakefarm/thor"
)

// compactRecoveryBase is the recovery code offset of an uncompressed-key compact signature.
const compactRecoveryBase = 27

// ErrInvalidSignature is returned when a signature has a wrong length or can't be recovered.
var ErrInvalidSignature = errors.New("invalid signature")

// GenerateKey creates a new random private key.
func GenerateKey() (*secp256k1.PrivateKey, error) {
	return secp256k1.GeneratePrivateKey()
}

// PubkeyToAddress computes the address owned by the given public key.
func PubkeyToAddress(pub *secp256k1.PublicKey) thor.Address {
	raw := pub.SerializeUncompressed()
	h := thor.Keccak256(raw[1:])
	return thor.BytesToAddress(h[12:])
}

// Sign calculates a recoverable signature of hash.
//
// The produced signature is in the [R || S || V] format where V is 0 or 1.
func Sign(hash thor.Bytes32, key *secp256k1.PrivateKey) []byte {
	compact := ecdsa.SignCompact(key, hash.Bytes(), false)

	sig := make([]byte, thor.SignatureLength)
	copy(sig, compact[1:])
	sig[64] = compact[0] - compactRecoveryBase
	return sig
}

// Recover returns the address of the key which produced sig over hash.
func Recover(hash thor.Bytes32, sig []byte) (thor.Address, error) {
	if len(sig) != thor.SignatureLength || sig[64] > 1 {
		return thor.Address{}, ErrInvalidSignature
	}

	compact := make([]byte, thor.SignatureLength)
	compact[0] = sig[64] + compactRecoveryBase
	copy(compact[1:], sig[:64])

	pub, _, err := ecdsa.RecoverCompact(compact, hash.Bytes())
	if err != nil {
		return thor.Address{}, errors.Wrap(ErrInvalidSignature, err.Error())
	}
	return PubkeyToAddress(pub), nil
}
