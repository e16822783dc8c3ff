// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stakefarm/api/utils"
	"github.com/vechain/stakefarm/runtime"
	"github.com/vechain/stakefarm/thor"
)

type Pools struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Pools {
	return &Pools{rt}
}

func (p *Pools) handleGetPool(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "pool")
	if err != nil {
		return err
	}
	var pool *Pool
	if err := p.rt.View(func(v *runtime.View) error {
		got, err := v.Farm().GetPool(addr)
		if err != nil {
			return err
		}
		if !got.IsEmpty() {
			pool = convertPool(addr, v.Farm().SignerOf(addr, got.Nonce), got)
		}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, pool)
}

func (p *Pools) handleGetSigner(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "pool")
	if err != nil {
		return err
	}
	if req.URL.Query().Get("nonce") == "" {
		return utils.BadRequest(errors.New("required"), "nonce")
	}
	nonce, err := utils.QueryUint(req, "nonce", 8, 0)
	if err != nil {
		return err
	}
	var signer thor.Address
	_ = p.rt.View(func(v *runtime.View) error {
		signer = v.Farm().SignerOf(addr, uint8(nonce))
		return nil
	})
	return utils.WriteJSON(w, &Signer{Pool: addr, Nonce: uint8(nonce), Signer: signer})
}

func (p *Pools) handleGetUser(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "pool")
	if err != nil {
		return err
	}
	owner, err := utils.AddressVar(req, "owner")
	if err != nil {
		return err
	}
	var user *User
	if err := p.rt.View(func(v *runtime.View) error {
		r, err := v.Farm().GetUser(addr, owner)
		if err != nil {
			return err
		}
		if !r.IsEmpty() {
			user = convertUser(r)
		}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, user)
}

func (p *Pools) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{pool}").
		Methods(http.MethodGet).
		Name("pools_get_pool").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetPool))
	sub.Path("/{pool}/signer").
		Methods(http.MethodGet).
		Name("pools_get_signer").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetSigner))
	sub.Path("/{pool}/users/{owner}").
		Methods(http.MethodGet).
		Name("pools_get_user").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetUser))
}
