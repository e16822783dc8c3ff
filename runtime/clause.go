// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/stakefarm/thor"
)

// Op selects the operation of a clause.
type Op uint8

const (
	OpCreateMint Op = iota + 1
	OpOpenAccount
	OpMintTo
	OpTransfer
	OpInitializePool
	OpCreateUser
	OpStake
	OpUnstake
)

var opNames = map[Op]string{
	OpCreateMint:     "CreateMint",
	OpOpenAccount:    "OpenAccount",
	OpMintTo:         "MintTo",
	OpTransfer:       "Transfer",
	OpInitializePool: "InitializePool",
	OpCreateUser:     "CreateUser",
	OpStake:          "Stake",
	OpUnstake:        "Unstake",
}

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Op(%d)", uint8(o))
}

// ParseOp returns the op with the given name.
func ParseOp(name string) (Op, error) {
	for op, n := range opNames {
		if n == name {
			return op, nil
		}
	}
	return 0, fmt.Errorf("unknown op %q", name)
}

type (
	// CreateMint registers a mint, the tx origin becomes its authority.
	CreateMint struct {
		Mint thor.Address
	}

	OpenAccount struct {
		Account thor.Address
		Mint    thor.Address
		Owner   thor.Address
	}

	MintTo struct {
		Mint    thor.Address
		Account thor.Address
		Amount  uint64
	}

	Transfer struct {
		From   thor.Address
		To     thor.Address
		Amount uint64
	}

	// InitializePool registers a pool, the tx origin is recorded as its admin.
	InitializePool struct {
		Pool         thor.Address
		Nonce        uint8
		StakingMint  thor.Address
		StakingVault thor.Address
		RewardMint   thor.Address
		RewardVault  thor.Address
	}

	// CreateUser enrolls the tx origin into a pool.
	CreateUser struct {
		Pool thor.Address
		Bump uint8
	}

	Stake struct {
		Pool           thor.Address
		Nonce          uint8
		StakingAccount thor.Address
		RewardAccount  thor.Address
		Amount         uint64
	}

	Unstake struct {
		Pool           thor.Address
		Nonce          uint8
		StakingAccount thor.Address
		Amount         uint64
	}
)

// Clause is a single operation carried by a transaction.
type Clause struct {
	body clauseBody
}

type clauseBody struct {
	Op   Op
	Args rlp.RawValue
}

func newClause(op Op, args any) *Clause {
	data, err := rlp.EncodeToBytes(args)
	if err != nil {
		// args are fixed size structs
		panic(err)
	}
	return &Clause{clauseBody{op, data}}
}

func NewCreateMint(args CreateMint) *Clause         { return newClause(OpCreateMint, &args) }
func NewOpenAccount(args OpenAccount) *Clause       { return newClause(OpOpenAccount, &args) }
func NewMintTo(args MintTo) *Clause                 { return newClause(OpMintTo, &args) }
func NewTransfer(args Transfer) *Clause             { return newClause(OpTransfer, &args) }
func NewInitializePool(args InitializePool) *Clause { return newClause(OpInitializePool, &args) }
func NewCreateUser(args CreateUser) *Clause         { return newClause(OpCreateUser, &args) }
func NewStake(args Stake) *Clause                   { return newClause(OpStake, &args) }
func NewUnstake(args Unstake) *Clause               { return newClause(OpUnstake, &args) }

func (c *Clause) Op() Op {
	return c.body.Op
}

// Args decodes the arguments of the clause into a pointer of the struct matching its op.
func (c *Clause) Args() (any, error) {
	var args any
	switch c.body.Op {
	case OpCreateMint:
		args = &CreateMint{}
	case OpOpenAccount:
		args = &OpenAccount{}
	case OpMintTo:
		args = &MintTo{}
	case OpTransfer:
		args = &Transfer{}
	case OpInitializePool:
		args = &InitializePool{}
	case OpCreateUser:
		args = &CreateUser{}
	case OpStake:
		args = &Stake{}
	case OpUnstake:
		args = &Unstake{}
	default:
		return nil, errors.Errorf("unknown op %d", c.body.Op)
	}
	if err := rlp.DecodeBytes(c.body.Args, args); err != nil {
		return nil, errors.Wrapf(err, "decode %v args", c.body.Op)
	}
	return args, nil
}
