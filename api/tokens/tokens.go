// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tokens

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vechain/stakefarm/api/utils"
	"github.com/vechain/stakefarm/runtime"
	"github.com/vechain/stakefarm/thor"
)

type Mint struct {
	Address   thor.Address `json:"address"`
	Authority thor.Address `json:"authority"`
	Supply    uint64       `json:"supply"`
}

type Account struct {
	Address thor.Address `json:"address"`
	Mint    thor.Address `json:"mint"`
	Owner   thor.Address `json:"owner"`
	Amount  uint64       `json:"amount"`
}

type Tokens struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Tokens {
	return &Tokens{rt}
}

func (t *Tokens) handleGetMint(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	var mint *Mint
	if err := t.rt.View(func(v *runtime.View) error {
		m, err := v.Token().GetMint(addr)
		if err != nil {
			return err
		}
		if !m.IsEmpty() {
			mint = &Mint{Address: addr, Authority: m.Authority, Supply: m.Supply}
		}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, mint)
}

func (t *Tokens) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	var acc *Account
	if err := t.rt.View(func(v *runtime.View) error {
		a, err := v.Token().GetAccount(addr)
		if err != nil {
			return err
		}
		if !a.IsEmpty() {
			acc = &Account{Address: addr, Mint: a.Mint, Owner: a.Owner, Amount: a.Amount}
		}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, acc)
}

func (t *Tokens) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/mints/{address}").
		Methods(http.MethodGet).
		Name("tokens_get_mint").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetMint))
	sub.Path("/accounts/{address}").
		Methods(http.MethodGet).
		Name("tokens_get_account").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetAccount))
}
