// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/vechain/stakefarm/api/utils"
	"github.com/vechain/stakefarm/log"
	"github.com/vechain/stakefarm/runtime"
)

var logger = log.WithContext("pkg", "subscriptions")

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 7) / 10

	receiptBuffer = 64
)

type Subscriptions struct {
	rt       *runtime.Runtime
	upgrader *websocket.Upgrader
	done     chan struct{}
	wg       sync.WaitGroup
}

// New creates the subscription handlers. Origins may contain "*" to accept any origin.
func New(rt *runtime.Runtime, allowedOrigins []string) *Subscriptions {
	return &Subscriptions{
		rt: rt,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				return slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, origin)
			},
		},
		done: make(chan struct{}),
	}
}

func parseFilter(req *http.Request) (*ReceiptFilter, error) {
	pool, err := utils.QueryAddress(req, "pool")
	if err != nil {
		return nil, err
	}
	owner, err := utils.QueryAddress(req, "owner")
	if err != nil {
		return nil, err
	}
	filter := &ReceiptFilter{Pool: pool, Owner: owner}
	if s := req.URL.Query().Get("op"); s != "" {
		op, err := runtime.ParseOp(s)
		if err != nil {
			return nil, utils.BadRequest(err, "op")
		}
		filter.Op = &op
	}
	return filter, nil
}

func (s *Subscriptions) handleSubscribeReceipts(w http.ResponseWriter, req *http.Request) error {
	filter, err := parseFilter(req)
	if err != nil {
		return err
	}

	// subscribed before the handshake completes, so no receipt committed afterwards is missed
	ch := make(chan *runtime.Receipt, receiptBuffer)
	sub := s.rt.SubscribeReceipts(ch)
	defer sub.Unsubscribe()

	metricActiveWebsocket().Add(1)
	defer metricActiveWebsocket().Add(-1)

	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		logger.Debug("upgrade failed", "err", err)
		return nil
	}
	s.wg.Add(1)
	defer s.wg.Done()

	if err := s.pipe(conn, filter, ch, sub.Err()); err != nil {
		logger.Debug("subscription closed", "err", err)
	}
	return nil
}

func (s *Subscriptions) pipe(conn *websocket.Conn, filter *ReceiptFilter, ch <-chan *runtime.Receipt, subErr <-chan error) error {
	defer conn.Close()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown"), time.Now().Add(writeWait))
		case <-closed:
			return nil
		case err := <-subErr:
			return err
		case r := <-ch:
			if !filter.Match(r) {
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(convertReceipt(r)); err != nil {
				return err
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}
		}
	}
}

// Close terminates open subscriptions and waits for them to finish.
func (s *Subscriptions) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/receipt").
		Methods(http.MethodGet).
		Name("subscriptions_receipt").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubscribeReceipts))
}
