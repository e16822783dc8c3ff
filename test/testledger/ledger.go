// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package testledger runs an in-memory ledger bootstrapped from a genesis, for tests.
package testledger

import (
	"context"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/stakefarm/cry"
	"github.com/vechain/stakefarm/genesis"
	"github.com/vechain/stakefarm/logdb"
	"github.com/vechain/stakefarm/lvldb"
	"github.com/vechain/stakefarm/runtime"
	"github.com/vechain/stakefarm/state"
)

type Ledger struct {
	db      *lvldb.LevelDB
	logDB   *logdb.LogDB
	rt      *runtime.Runtime
	genesis *genesis.Genesis
}

// NewDevnet creates a ledger holding the dev network genesis.
func NewDevnet() (*Ledger, error) {
	return New(genesis.NewDevnet())
}

func New(gen *genesis.Genesis) (*Ledger, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return nil, err
	}
	st, err := state.New(db, 0)
	if err != nil {
		db.Close()
		return nil, err
	}
	logDB, err := logdb.NewMem()
	if err != nil {
		db.Close()
		return nil, err
	}
	rt := runtime.New(st, logDB)
	if err := rt.Bootstrap(gen.Apply); err != nil {
		logDB.Close()
		db.Close()
		return nil, err
	}
	return &Ledger{db: db, logDB: logDB, rt: rt, genesis: gen}, nil
}

func (l *Ledger) Runtime() *runtime.Runtime {
	return l.rt
}

func (l *Ledger) LogDB() *logdb.LogDB {
	return l.logDB
}

func (l *Ledger) Genesis() *genesis.Genesis {
	return l.genesis
}

func (l *Ledger) Close() error {
	l.logDB.Close()
	return l.db.Close()
}

// NewTx signs clause with key using the next nonce of its origin.
func (l *Ledger) NewTx(key *secp256k1.PrivateKey, clause *runtime.Clause) (*runtime.Tx, error) {
	var nonce uint64
	origin := cry.PubkeyToAddress(key.PubKey())
	if err := l.rt.View(func(v *runtime.View) (err error) {
		nonce, err = v.Nonce(origin)
		return
	}); err != nil {
		return nil, err
	}
	return runtime.NewTx(nonce, clause).Sign(key), nil
}

// RawTx is NewTx in rlp form.
func (l *Ledger) RawTx(key *secp256k1.PrivateKey, clause *runtime.Clause) ([]byte, error) {
	tx, err := l.NewTx(key, clause)
	if err != nil {
		return nil, err
	}
	return rlp.EncodeToBytes(tx)
}

// Execute signs and executes clause.
func (l *Ledger) Execute(key *secp256k1.PrivateKey, clause *runtime.Clause) (*runtime.Receipt, error) {
	tx, err := l.NewTx(key, clause)
	if err != nil {
		return nil, err
	}
	return l.rt.Execute(context.Background(), tx)
}

// Enroll creates the dev pool user record of acc.
func (l *Ledger) Enroll(acc genesis.DevAccount) error {
	_, err := l.Execute(acc.PrivateKey, runtime.NewCreateUser(runtime.CreateUser{Pool: genesis.DevPool, Bump: 255}))
	return err
}

// StakeDev stakes amount of acc into the dev pool.
func (l *Ledger) StakeDev(acc genesis.DevAccount, amount uint64) (*runtime.Receipt, error) {
	return l.Execute(acc.PrivateKey, runtime.NewStake(runtime.Stake{
		Pool:           genesis.DevPool,
		Nonce:          genesis.DevPoolNonce,
		StakingAccount: acc.StakingAccount,
		RewardAccount:  acc.RewardAccount,
		Amount:         amount,
	}))
}
