// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/xode-dao/xode-staking/log"
	"github.com/xode-dao/xode-staking/staking/bond"
	"github.com/xode-dao/xode-staking/staking/candidate"
	"github.com/xode-dao/xode-staking/staking/maintenance"
	"github.com/xode-dao/xode-staking/staking/offline"
	"github.com/xode-dao/xode-staking/staking/reverts"
	"github.com/xode-dao/xode-staking/state"
	"github.com/xode-dao/xode-staking/storage"
	"github.com/xode-dao/xode-staking/weight"
	"github.com/xode-dao/xode-staking/xode"
)

var logger = log.WithContext("pkg", "staking")

var slotCurrentSession = xode.BytesToBytes32([]byte("current-session"))

// Staking implements the collator selection of the chain. It is driven by the host: OnInitialize
// once per block, the dispatchables in transaction order, and NewSession at session boundaries.
type Staking struct {
	config Config
	state  *state.State
	meter  *weight.Meter

	candidates *candidate.Service
	tracker    *offline.Tracker
	scheduler  *maintenance.Scheduler
	adapter    *bond.Adapter
	session    *storage.Raw[uint32]
}

// New creates the staking module storing its data under addr. The ledger backs candidate bonds,
// and every storage access is recorded on meter, which may be nil.
func New(addr xode.Address, st *state.State, ledger bond.Ledger, config Config, meter *weight.Meter) (*Staking, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid staking config")
	}
	if config.AuthoringCapacity() == 0 {
		logger.Warn("no authoring slot left for candidates", "max-authoring-slots", config.MaxAuthoringSlots, "reserved-slots", config.ReservedSlots)
	}

	sctx := storage.NewContext(addr, st, meter)
	candidates := candidate.New(sctx, config.MaxCandidates)
	tracker := offline.New(sctx, candidates)

	return &Staking{
		config:     config,
		state:      st,
		meter:      meter,
		candidates: candidates,
		tracker:    tracker,
		scheduler:  maintenance.New(sctx, candidates, tracker, config.MaintenancePeriod, config.DBWeight),
		adapter:    bond.NewAdapter(ledger),
		session:    storage.NewRaw[uint32](sctx, slotCurrentSession),
	}, nil
}

//
// Getters - no state change
//

func (s *Staking) Config() Config {
	return s.config
}

func (s *Staking) AuthoringCapacity() uint32 {
	return s.config.AuthoringCapacity()
}

// Candidate returns the record of account, nil if it is not registered.
func (s *Staking) Candidate(account xode.Address) (*candidate.Candidate, error) {
	return s.candidates.Get(account)
}

// Candidates returns all candidates in list order.
func (s *Staking) Candidates() ([]candidate.Entry, error) {
	return s.candidates.Entries()
}

// Authors returns the candidates currently authoring, in list order.
func (s *Staking) Authors() ([]xode.Address, error) {
	var authors []xode.Address
	err := s.candidates.Iterate(func(e candidate.Entry) error {
		if e.Status == candidate.StatusAuthoring {
			authors = append(authors, e.Account)
		}
		return nil
	})
	return authors, err
}

// OfflineMarker returns when the account went offline, nil if it is not marked.
func (s *Staking) OfflineMarker(account xode.Address) (*offline.Marker, error) {
	return s.tracker.Marker(account)
}

// NextMaintenanceBlock returns the block of the next full maintenance pass, 0 when unset.
func (s *Staking) NextMaintenanceBlock() (uint32, error) {
	return s.scheduler.NextBlock()
}

// SetNextMaintenanceBlock overrides the maintenance schedule, for genesis or governance.
func (s *Staking) SetNextMaintenanceBlock(block uint32) error {
	return s.scheduler.SetNextBlock(block)
}

// CurrentSession returns the index of the last session started with NewSession.
func (s *Staking) CurrentSession() (uint32, error) {
	return s.session.Get()
}

//
// Dispatchables - all or nothing
//

// dispatch runs fn for the signer of origin, rolling back every state change if it fails.
func (s *Staking) dispatch(call string, origin Origin, fn func(account xode.Address) error) (err error) {
	checkpoint := s.state.NewCheckpoint()
	defer func() {
		if err != nil {
			s.state.RevertTo(checkpoint)
		}
		metricDispatches().AddWithLabel(1, map[string]string{"call": call, "result": resultLabel(err)})
	}()

	account, err := origin.Signer()
	if err != nil {
		return err
	}
	if err := fn(account); err != nil {
		if !reverts.IsRevertErr(err) {
			logger.Error("dispatch failed", "call", call, "account", account, "err", err)
		}
		return err
	}
	return nil
}

// RegisterCandidate adds the signer as an online candidate with no bond.
func (s *Staking) RegisterCandidate(origin Origin) error {
	return s.dispatch("register", origin, func(account xode.Address) error {
		if _, err := s.candidates.Register(account); err != nil {
			return err
		}
		size, err := s.candidates.Size()
		if err != nil {
			return err
		}
		metricCandidates().Set(int64(size))
		logger.Info("candidate registered", "account", account, "candidates", size)
		return nil
	})
}

// BondCandidate sets the bond of the signer to amount, reserving or releasing the difference.
func (s *Staking) BondCandidate(origin Origin, amount *uint256.Int, block uint32) error {
	return s.dispatch("bond", origin, func(account xode.Address) error {
		if amount == nil || amount.Gt(xode.MaxBond()) {
			return reverts.ErrBondOverflow
		}
		changed, err := s.candidates.SetBond(account, amount, block, s.adapter)
		if err != nil {
			return err
		}
		if changed {
			logger.Debug("candidate bonded", "account", account, "bond", amount, "block", block)
		}
		return nil
	})
}

// OnlineCandidate clears the offline flag of the signer.
func (s *Staking) OnlineCandidate(origin Origin) error {
	return s.dispatch("online", origin, func(account xode.Address) error {
		return s.tracker.MarkOnline(account)
	})
}

// OfflineCandidate flags the signer offline from block in the current session.
func (s *Staking) OfflineCandidate(origin Origin, block uint32) error {
	return s.dispatch("offline", origin, func(account xode.Address) error {
		current, err := s.session.Get()
		if err != nil {
			return err
		}
		return s.tracker.MarkOffline(account, block, current)
	})
}
