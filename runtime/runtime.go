// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/pkg/errors"

	"github.com/vechain/stakefarm/builtin"
	"github.com/vechain/stakefarm/builtin/farm"
	"github.com/vechain/stakefarm/builtin/reverts"
	"github.com/vechain/stakefarm/builtin/solidity"
	"github.com/vechain/stakefarm/builtin/token"
	"github.com/vechain/stakefarm/log"
	"github.com/vechain/stakefarm/logdb"
	"github.com/vechain/stakefarm/state"
	"github.com/vechain/stakefarm/thor"
)

var (
	logger = log.WithContext("pkg", "runtime")

	slotNonces = thor.BytesToBytes32([]byte("runtime-nonces"))
	slotMeta   = thor.BytesToBytes32([]byte("runtime-meta"))
	keySeq     = thor.BytesToBytes32([]byte("seq"))
)

// ErrMalformedClause is returned for a clause whose arguments can't be decoded.
var ErrMalformedClause = errors.New("malformed clause")

// Receipt describes a committed transaction.
type Receipt struct {
	Seq       uint64
	TxID      thor.Bytes32
	Origin    thor.Address
	Op        Op
	Pool      thor.Address // zero for token ops
	Owner     thor.Address
	Amount    uint64
	Reward    uint64
	Transfers []*token.Transfer
	Time      uint64
}

// Runtime executes transactions one at a time against the state.
// Every transaction either commits completely as one batch or leaves no trace.
type Runtime struct {
	mu    sync.RWMutex
	state *state.State
	logDB *logdb.LogDB
	feed  event.Feed
	now   func() time.Time

	nonces *solidity.Mapping[thor.Address, uint64]
	meta   *solidity.Mapping[thor.Bytes32, uint64]
}

// New creates a runtime on st. logDB is optional.
func New(st *state.State, logDB *logdb.LogDB) *Runtime {
	sctx := solidity.NewContext(builtin.Runtime.Address, st)
	return &Runtime{
		state:  st,
		logDB:  logDB,
		now:    time.Now,
		nonces: solidity.NewMapping[thor.Address, uint64](sctx, slotNonces),
		meta:   solidity.NewMapping[thor.Bytes32, uint64](sctx, slotMeta),
	}
}

// SubscribeReceipts delivers receipts of committed transactions to ch.
func (r *Runtime) SubscribeReceipts(ch chan<- *Receipt) event.Subscription {
	return r.feed.Subscribe(ch)
}

// Execute validates and runs tx. It returns the receipt once the changes are committed.
func (r *Runtime) Execute(ctx context.Context, tx *Tx) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	origin, err := tx.Origin()
	if err != nil {
		return nil, err
	}
	clause := tx.Clause()
	args, err := clause.Args()
	if err != nil {
		return nil, errors.WithMessage(ErrMalformedClause, err.Error())
	}

	start := r.now()
	receipt, err := r.execute(tx, origin, clause.Op(), args)
	metricDuration().ObserveWithLabels(time.Since(start).Milliseconds(), map[string]string{"op": clause.Op().String()})
	if err != nil {
		status := "error"
		if reverts.IsRevertErr(err) {
			status = "reverted"
		}
		metricClauses().AddWithLabel(1, map[string]string{"op": clause.Op().String(), "status": status})
		logger.Debug("tx failed", "id", tx.ID(), "origin", origin, "op", clause.Op(), "err", err)
		return nil, err
	}
	metricClauses().AddWithLabel(1, map[string]string{"op": clause.Op().String(), "status": "ok"})
	metricSeq().Set(int64(receipt.Seq))

	r.index(receipt)
	r.feed.Send(receipt)
	logger.Debug("tx committed", "id", receipt.TxID, "seq", receipt.Seq, "op", receipt.Op)
	return receipt, nil
}

func (r *Runtime) execute(tx *Tx, origin thor.Address, op Op, args any) (*Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	nonce, err := r.nonces.Get(origin)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get nonce")
	}
	if tx.Nonce() != nonce {
		return nil, errors.WithMessagef(reverts.ErrBadNonce, "expected %d, got %d", nonce, tx.Nonce())
	}
	seq, err := r.meta.Get(keySeq)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get seq")
	}

	receipt := &Receipt{
		Seq:    seq + 1,
		TxID:   tx.ID(),
		Origin: origin,
		Op:     op,
		Time:   uint64(r.now().Unix()),
	}

	rev := r.state.NewCheckpoint()
	if err := r.apply(receipt, args); err != nil {
		r.state.RevertTo(rev)
		return nil, err
	}
	if err := r.nonces.Set(origin, nonce+1); err != nil {
		r.state.RevertTo(rev)
		return nil, errors.Wrap(err, "failed to set nonce")
	}
	if err := r.meta.Set(keySeq, receipt.Seq); err != nil {
		r.state.RevertTo(rev)
		return nil, errors.Wrap(err, "failed to set seq")
	}
	if err := r.state.Stage().Commit(); err != nil {
		r.state.RevertTo(rev)
		return nil, errors.Wrap(err, "commit")
	}
	return receipt, nil
}

func (r *Runtime) apply(receipt *Receipt, args any) error {
	f := builtin.Farm.WithState(r.state)
	tk := f.Token()
	v := &validator{farm: f, token: tk}
	origin := token.Identity(receipt.Origin)

	var err error
	switch a := args.(type) {
	case *CreateMint:
		err = tk.CreateMint(a.Mint, receipt.Origin)
	case *OpenAccount:
		err = tk.OpenAccount(a.Account, a.Mint, a.Owner)
		receipt.Owner = a.Owner
	case *MintTo:
		err = tk.MintTo(a.Mint, a.Account, a.Amount, origin)
		receipt.Amount = a.Amount
	case *Transfer:
		err = tk.Transfer(a.From, a.To, a.Amount, origin)
		receipt.Amount = a.Amount
	case *InitializePool:
		receipt.Pool = a.Pool
		if err = v.initializePool(a); err == nil {
			err = f.InitializePool(a.Pool, receipt.Origin, a.Nonce, a.StakingMint, a.StakingVault, a.RewardMint, a.RewardVault)
		}
	case *CreateUser:
		receipt.Pool, receipt.Owner = a.Pool, receipt.Origin
		if err = v.createUser(a); err == nil {
			err = f.CreateUser(a.Pool, receipt.Origin, a.Bump)
		}
	case *Stake:
		receipt.Pool, receipt.Owner, receipt.Amount = a.Pool, receipt.Origin, a.Amount
		if err = v.stake(receipt.Origin, a); err == nil {
			receipt.Reward, err = f.Stake(&farm.Accounts{
				Pool:           a.Pool,
				Owner:          receipt.Origin,
				Nonce:          a.Nonce,
				StakingAccount: a.StakingAccount,
				RewardAccount:  a.RewardAccount,
			}, a.Amount, origin)
		}
	case *Unstake:
		receipt.Pool, receipt.Owner, receipt.Amount = a.Pool, receipt.Origin, a.Amount
		if err = v.unstake(receipt.Origin, a); err == nil {
			err = f.Unstake(&farm.Accounts{
				Pool:           a.Pool,
				Owner:          receipt.Origin,
				Nonce:          a.Nonce,
				StakingAccount: a.StakingAccount,
			}, a.Amount)
		}
	default:
		err = errors.Errorf("unsupported args %T", args)
	}
	if err != nil {
		return err
	}
	receipt.Transfers = tk.Journal()
	return nil
}

// index writes the receipt to the log db. Failures are logged, the state is already committed.
func (r *Runtime) index(receipt *Receipt) {
	if r.logDB == nil {
		return
	}
	batch := r.logDB.NewBatch(receipt.Seq, receipt.TxID, receipt.Origin, receipt.Time)
	if !receipt.Pool.IsZero() {
		batch.AddEvent(receipt.Op.String(), receipt.Pool, receipt.Owner, receipt.Amount, receipt.Reward)
	}
	for _, t := range receipt.Transfers {
		batch.AddTransfer(t.Mint, t.From, t.To, t.Amount)
	}
	if err := batch.Commit(); err != nil {
		logger.Warn("failed to index tx", "seq", receipt.Seq, "err", err)
	}
}

// View runs fn with read access to the committed state.
func (r *Runtime) View(fn func(v *View) error) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f := builtin.Farm.WithState(r.state)
	return fn(&View{farm: f, token: f.Token(), nonces: r.nonces, meta: r.meta})
}

// Bootstrap applies fn to the state and commits the result atomically.
func (r *Runtime) Bootstrap(fn func(st *state.State) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rev := r.state.NewCheckpoint()
	if err := fn(r.state); err != nil {
		r.state.RevertTo(rev)
		return err
	}
	if err := r.state.Stage().Commit(); err != nil {
		r.state.RevertTo(rev)
		return errors.Wrap(err, "commit")
	}
	return nil
}

// View is a read-only accessor of committed state.
type View struct {
	farm   *farm.Farm
	token  *token.Token
	nonces *solidity.Mapping[thor.Address, uint64]
	meta   *solidity.Mapping[thor.Bytes32, uint64]
}

func (v *View) Farm() *farm.Farm {
	return v.farm
}

func (v *View) Token() *token.Token {
	return v.token
}

// Nonce returns the nonce expected for the next transaction of origin.
func (v *View) Nonce(origin thor.Address) (uint64, error) {
	return v.nonces.Get(origin)
}

// Seq returns the sequence number of the last committed transaction.
func (v *View) Seq() (uint64, error) {
	return v.meta.Get(keySeq)
}
