// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/vechain/stakefarm/builtin/farm"
	"github.com/vechain/stakefarm/builtin/token"
	"github.com/vechain/stakefarm/state"
	"github.com/vechain/stakefarm/thor"
)

// Builtin contracts binding.
var (
	Token   = &tokenContract{newContract("Token")}
	Farm    = &farmContract{newContract("Farm")}
	Runtime = &runtimeContract{newContract("Runtime")}
)

type contract struct {
	Name    string
	Address thor.Address
}

func newContract(name string) *contract {
	return &contract{
		Name:    name,
		Address: thor.BytesToAddress([]byte(name)),
	}
}

type (
	tokenContract   struct{ *contract }
	farmContract    struct{ *contract }
	runtimeContract struct{ *contract }
)

func (t *tokenContract) WithState(state *state.State) *token.Token {
	return token.New(t.Address, state)
}

// WithState binds the farm to state, token movements go through a fresh token instance.
func (f *farmContract) WithState(state *state.State) *farm.Farm {
	return farm.New(f.Address, state, Token.WithState(state))
}
