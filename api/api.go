// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package api serves a read-only JSON view of the staking state.
package api

import (
	"net/http"

	"github.com/ethereum/go-ethereum/event"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/xode-dao/xode-staking/log"
	"github.com/xode-dao/xode-staking/metrics"
	"github.com/xode-dao/xode-staking/xode"
)

var logger = log.WithContext("pkg", "api")

// Status is a snapshot of the chain driving the staking module.
type Status struct {
	Block           uint32         `json:"block"`
	Session         uint32         `json:"session"`
	Authors         []xode.Address `json:"authors"`
	Capacity        uint32         `json:"capacity"`
	NextMaintenance uint32         `json:"nextMaintenance"`
	DeclaredWeight  xode.Weight    `json:"declaredWeight"`
	MeasuredWeight  xode.Weight    `json:"measuredWeight"`
}

// Candidate is a candidate record along with the balance of its account.
type Candidate struct {
	Account      xode.Address `json:"account"`
	Bond         string       `json:"bond"`
	Status       string       `json:"status"`
	Offline      bool         `json:"offline"`
	OfflineSince *uint32      `json:"offlineSince,omitempty"`
	Listed       bool         `json:"listed,omitempty"`
	LastUpdated  uint32       `json:"lastUpdated"`
	Free         string       `json:"free"`
	Reserved     string       `json:"reserved"`
}

// Backend provides the data served.
type Backend interface {
	Status() (*Status, error)
	Candidates() ([]*Candidate, error)
	// Candidate returns nil if account is not registered.
	Candidate(account xode.Address) (*Candidate, error)
	// SubscribeSessions delivers the status right after each session change.
	SubscribeSessions(ch chan<- *Status) event.Subscription
}

type API struct {
	backend  Backend
	upgrader *websocket.Upgrader
}

func New(backend Backend) *API {
	return &API{
		backend: backend,
		upgrader: &websocket.Upgrader{
			// read-only data, any origin may watch
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (a *API) handleStatus(w http.ResponseWriter, _ *http.Request) error {
	status, err := a.backend.Status()
	if err != nil {
		return err
	}
	return writeJSON(w, status)
}

func (a *API) handleCandidates(w http.ResponseWriter, _ *http.Request) error {
	candidates, err := a.backend.Candidates()
	if err != nil {
		return err
	}
	return writeJSON(w, candidates)
}

func (a *API) handleCandidate(w http.ResponseWriter, req *http.Request) error {
	account, err := xode.ParseAddress(mux.Vars(req)["account"])
	if err != nil {
		return badRequest(errors.WithMessage(err, "account"))
	}
	c, err := a.backend.Candidate(account)
	if err != nil {
		return err
	}
	if c == nil {
		return notFound(errors.New("candidate not found"))
	}
	return writeJSON(w, c)
}

func (a *API) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/status").
		Methods(http.MethodGet).
		Name("get_status").
		HandlerFunc(wrapHandlerFunc(a.handleStatus))
	sub.Path("/candidates").
		Methods(http.MethodGet).
		Name("get_candidates").
		HandlerFunc(wrapHandlerFunc(a.handleCandidates))
	sub.Path("/candidates/{account}").
		Methods(http.MethodGet).
		Name("get_candidate").
		HandlerFunc(wrapHandlerFunc(a.handleCandidate))
	sub.Path("/subscriptions/session").
		Methods(http.MethodGet).
		Name("subscribe_session").
		HandlerFunc(a.handleSubscribeSessions)
}

// NewHandler returns the HTTP handler of the status API. The prometheus metrics are served
// under /metrics when enabled.
func NewHandler(backend Backend) http.Handler {
	router := mux.NewRouter()
	New(backend).Mount(router, "/staking")

	if metrics.Enabled() {
		router.Use(metricsMiddleware)
		router.Path("/metrics").
			Methods(http.MethodGet).
			Name("metrics").
			Handler(metrics.HTTPHandler())
	}
	return handlers.CompressHandler(router)
}
