// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vechain/stakefarm/api/utils"
	"github.com/vechain/stakefarm/runtime"
)

// Nonce is the transaction nonce expected next from an address.
type Nonce struct {
	Nonce uint64 `json:"nonce"`
	Seq   uint64 `json:"seq"`
}

type Accounts struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Accounts {
	return &Accounts{rt}
}

func (a *Accounts) handleGetNonce(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	var res Nonce
	if err := a.rt.View(func(v *runtime.View) error {
		if res.Nonce, err = v.Nonce(addr); err != nil {
			return err
		}
		res.Seq, err = v.Seq()
		return err
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &res)
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}/nonce").
		Methods(http.MethodGet).
		Name("accounts_get_nonce").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetNonce))
}
