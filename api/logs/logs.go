// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logs

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stakefarm/api/utils"
	"github.com/vechain/stakefarm/logdb"
	"github.com/vechain/stakefarm/thor"
)

type Logs struct {
	logDB *logdb.LogDB
	limit uint64
}

// New creates the log query handlers. limit caps the page size of a query.
func New(logDB *logdb.LogDB, limit uint64) *Logs {
	return &Logs{logDB, limit}
}

func (l *Logs) options(req *http.Request) (*logdb.Options, logdb.Order, error) {
	offset, err := utils.QueryUint(req, "offset", 64, 0)
	if err != nil {
		return nil, "", err
	}
	limit, err := utils.QueryUint(req, "limit", 64, l.limit)
	if err != nil {
		return nil, "", err
	}
	if limit > l.limit {
		return nil, "", utils.Forbidden(fmt.Errorf("exceeds the maximum of %d", l.limit), "limit")
	}
	order := logdb.Order(req.URL.Query().Get("order"))
	switch order {
	case "", logdb.ASC, logdb.DESC:
	default:
		return nil, "", utils.BadRequest(errors.New("should be asc or desc"), "order")
	}
	return &logdb.Options{Offset: offset, Limit: limit}, order, nil
}

func (l *Logs) handleFilterEvents(w http.ResponseWriter, req *http.Request) error {
	pool, err := utils.QueryAddress(req, "pool")
	if err != nil {
		return err
	}
	owner, err := utils.QueryAddress(req, "owner")
	if err != nil {
		return err
	}
	opts, order, err := l.options(req)
	if err != nil {
		return err
	}
	events, err := l.logDB.FilterEvents(req.Context(), &logdb.EventFilter{
		Pool:    pool,
		Owner:   owner,
		Op:      req.URL.Query().Get("op"),
		Options: opts,
		Order:   order,
	})
	if err != nil {
		return err
	}
	res := make([]*Event, 0, len(events))
	for _, e := range events {
		res = append(res, convertEvent(e))
	}
	return utils.WriteJSON(w, res)
}

func (l *Logs) handleFilterTransfers(w http.ResponseWriter, req *http.Request) error {
	account, err := utils.QueryAddress(req, "account")
	if err != nil {
		return err
	}
	mint, err := utils.QueryAddress(req, "mint")
	if err != nil {
		return err
	}
	var txID *thor.Bytes32
	if s := req.URL.Query().Get("txID"); s != "" {
		id, err := thor.ParseBytes32(s)
		if err != nil {
			return utils.BadRequest(err, "txID")
		}
		txID = &id
	}
	opts, order, err := l.options(req)
	if err != nil {
		return err
	}
	transfers, err := l.logDB.FilterTransfers(req.Context(), &logdb.TransferFilter{
		TxID:    txID,
		Mint:    mint,
		Account: account,
		Options: opts,
		Order:   order,
	})
	if err != nil {
		return err
	}
	res := make([]*Transfer, 0, len(transfers))
	for _, t := range transfers {
		res = append(res, convertTransfer(t))
	}
	return utils.WriteJSON(w, res)
}

func (l *Logs) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/event").
		Methods(http.MethodGet).
		Name("logs_filter_event").
		HandlerFunc(utils.WrapHandlerFunc(l.handleFilterEvents))
	sub.Path("/transfer").
		Methods(http.MethodGet).
		Name("logs_filter_transfer").
		HandlerFunc(utils.WrapHandlerFunc(l.handleFilterTransfers))
}
