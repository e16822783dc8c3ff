// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stakefarm/api/utils"
	"github.com/vechain/stakefarm/cry"
	"github.com/vechain/stakefarm/runtime"
	"github.com/vechain/stakefarm/thor"
)

// RawTx is an rlp encoded, signed transaction in hex.
type RawTx struct {
	Raw string `json:"raw"`
}

func (r *RawTx) decode() (*runtime.Tx, error) {
	data, err := hexutil.Decode(r.Raw)
	if err != nil {
		return nil, err
	}
	return runtime.DecodeTx(data)
}

// SendResult is returned once the transaction is committed.
type SendResult struct {
	ID     thor.Bytes32 `json:"id"`
	Seq    uint64       `json:"seq"`
	Reward uint64       `json:"reward"`
}

type Transactions struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Transactions {
	return &Transactions{rt}
}

func (t *Transactions) handleSendTransaction(w http.ResponseWriter, req *http.Request) error {
	var raw RawTx
	if err := utils.ParseJSON(req.Body, &raw); err != nil {
		return utils.BadRequest(err, "body")
	}
	tx, err := raw.decode()
	if err != nil {
		return utils.BadRequest(err, "raw")
	}

	receipt, err := t.rt.Execute(req.Context(), tx)
	if err != nil {
		if errors.Is(err, cry.ErrInvalidSignature) || errors.Is(err, runtime.ErrMalformedClause) {
			return utils.BadRequest(err, "bad tx")
		}
		return utils.Reverted(err)
	}
	return utils.WriteJSON(w, &SendResult{
		ID:     receipt.TxID,
		Seq:    receipt.Seq,
		Reward: receipt.Reward,
	})
}

func (t *Transactions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("transactions_send_tx").
		HandlerFunc(utils.WrapHandlerFunc(t.handleSendTransaction))
}
