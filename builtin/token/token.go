// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/vechain/stakefarm/builtin/reverts"
	"github.com/vechain/stakefarm/builtin/solidity"
	"github.com/vechain/stakefarm/log"
	"github.com/vechain/stakefarm/state"
	"github.com/vechain/stakefarm/thor"
)

var (
	logger = log.WithContext("pkg", "token")

	slotMints    = thor.BytesToBytes32([]byte("token-mints"))
	slotAccounts = thor.BytesToBytes32([]byte("token-accounts"))
)

// Token implements the host token ledger. Mints and accounts live in the storage of the token contract.
type Token struct {
	mints    *solidity.Mapping[thor.Address, *Mint]
	accounts *solidity.Mapping[thor.Address, *Account]

	journal []*Transfer
}

// New create a new instance.
func New(addr thor.Address, state *state.State) *Token {
	sctx := solidity.NewContext(addr, state)
	return &Token{
		mints:    solidity.NewMapping[thor.Address, *Mint](sctx, slotMints),
		accounts: solidity.NewMapping[thor.Address, *Account](sctx, slotAccounts),
	}
}

func (t *Token) GetMint(addr thor.Address) (*Mint, error) {
	m, err := t.mints.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get mint")
	}
	return m, nil
}

func (t *Token) GetAccount(addr thor.Address) (*Account, error) {
	a, err := t.accounts.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get token account")
	}
	return a, nil
}

func (t *Token) setAccount(addr thor.Address, acc *Account) error {
	if err := t.accounts.Set(addr, acc); err != nil {
		return errors.Wrap(err, "failed to set token account")
	}
	return nil
}

// CreateMint registers a new mint at addr, issuing is reserved to authority.
func (t *Token) CreateMint(addr, authority thor.Address) error {
	if addr.IsZero() || authority.IsZero() {
		return reverts.New(reverts.CodeNotFound, "zero mint or authority")
	}
	exists, err := t.mints.Has(addr)
	if err != nil {
		return errors.Wrap(err, "failed to check mint")
	}
	if exists {
		return errors.WithMessage(reverts.ErrDuplicateEnrollment, "mint")
	}
	if err := t.mints.Set(addr, &Mint{Authority: authority}); err != nil {
		return errors.Wrap(err, "failed to set mint")
	}
	logger.Debug("mint created", "mint", addr, "authority", authority)
	return nil
}

// OpenAccount opens an empty account at addr holding tokens of mint for owner.
func (t *Token) OpenAccount(addr, mint, owner thor.Address) error {
	if addr.IsZero() {
		return reverts.New(reverts.CodeNotFound, "zero account")
	}
	m, err := t.GetMint(mint)
	if err != nil {
		return err
	}
	if m.IsEmpty() {
		return errors.WithMessage(reverts.ErrNotFound, "mint")
	}
	exists, err := t.accounts.Has(addr)
	if err != nil {
		return errors.Wrap(err, "failed to check token account")
	}
	if exists {
		return errors.WithMessage(reverts.ErrDuplicateEnrollment, "token account")
	}
	return t.setAccount(addr, &Account{Mint: mint, Owner: owner})
}

// MintTo issues amount of new supply into the given account.
func (t *Token) MintTo(mint, to thor.Address, amount uint64, auth Authorization) error {
	m, err := t.GetMint(mint)
	if err != nil {
		return err
	}
	if m.IsEmpty() {
		return errors.WithMessage(reverts.ErrNotFound, "mint")
	}
	acc, err := t.GetAccount(to)
	if err != nil {
		return err
	}
	if acc.IsEmpty() {
		return errors.WithMessage(reverts.ErrNotFound, "token account")
	}
	if acc.Mint != mint {
		return reverts.ErrMintMismatch
	}
	who, err := auth.Authorize(&Transfer{Mint: mint, To: to, Amount: amount})
	if err != nil {
		return err
	}
	if who != m.Authority {
		return errors.WithMessage(reverts.ErrAuthorizationMismatch, "mint authority")
	}

	supply, overflow := math.SafeAdd(m.Supply, amount)
	if overflow {
		return errors.WithMessage(reverts.ErrArithmeticOverflow, "supply")
	}
	balance, overflow := math.SafeAdd(acc.Amount, amount)
	if overflow {
		return errors.WithMessage(reverts.ErrArithmeticOverflow, "balance")
	}

	m.Supply = supply
	if err := t.mints.Set(mint, m); err != nil {
		return errors.Wrap(err, "failed to set mint")
	}
	acc.Amount = balance
	return t.setAccount(to, acc)
}

// Transfer moves amount from one account to another of the same mint.
// The identity returned by auth must own the source account. A zero amount is accepted.
func (t *Token) Transfer(from, to thor.Address, amount uint64, auth Authorization) error {
	src, err := t.GetAccount(from)
	if err != nil {
		return err
	}
	if src.IsEmpty() {
		return errors.WithMessage(reverts.ErrNotFound, "source account")
	}
	dst, err := t.GetAccount(to)
	if err != nil {
		return err
	}
	if dst.IsEmpty() {
		return errors.WithMessage(reverts.ErrNotFound, "destination account")
	}
	if src.Mint != dst.Mint {
		return reverts.ErrMintMismatch
	}

	tr := &Transfer{Mint: src.Mint, From: from, To: to, Amount: amount}
	who, err := auth.Authorize(tr)
	if err != nil {
		return err
	}
	if who != src.Owner {
		return errors.WithMessage(reverts.ErrAuthorizationMismatch, "source owner")
	}
	if amount > src.Amount {
		return errors.WithMessage(reverts.ErrInsufficientBalance, "source account")
	}

	if from != to {
		credited, overflow := math.SafeAdd(dst.Amount, amount)
		if overflow {
			return errors.WithMessage(reverts.ErrArithmeticOverflow, "destination account")
		}
		src.Amount -= amount
		dst.Amount = credited
		if err := t.setAccount(from, src); err != nil {
			return err
		}
		if err := t.setAccount(to, dst); err != nil {
			return err
		}
	}

	t.journal = append(t.journal, tr)
	return nil
}

// Journal returns transfers performed through this instance, in order.
// Entries are not rolled back by state checkpoints, the instance is discarded when an operation fails.
func (t *Token) Journal() []*Transfer {
	return t.journal
}
