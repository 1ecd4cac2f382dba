// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 7 / 10
	sessionBuf = 8
)

// handleSubscribeSessions streams a Status message on every session change until the peer goes away.
func (a *API) handleSubscribeSessions(w http.ResponseWriter, req *http.Request) {
	conn, err := a.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// the upgrader has replied already
		logger.Debug("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	ch := make(chan *Status, sessionBuf)
	relayed := make(chan *Status)
	done := make(chan struct{})
	defer close(done)
	sub := a.backend.SubscribeSessions(relayed)
	defer sub.Unsubscribe()
	go relay(relayed, ch, done)

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	pingTicker := time.NewTicker(pingPeriod)
	defer pingTicker.Stop()

	for {
		select {
		case status := <-ch:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(status); err != nil {
				logger.Debug("failed to write session", "err", err)
				return
			}
		case <-pingTicker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-sub.Err():
			return
		case <-closed:
			_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		}
	}
}

// relay forwards statuses from in to out until done is closed. Statuses are dropped while out is full.
func relay(in <-chan *Status, out chan<- *Status, done <-chan struct{}) {
	for {
		select {
		case status := <-in:
			select {
			case out <- status:
			default:
				logger.Debug("dropped session status of a lagging subscriber", "session", status.Session)
			}
		case <-done:
			return
		}
	}
}
