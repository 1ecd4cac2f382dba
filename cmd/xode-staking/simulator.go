// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/pkg/errors"

	"github.com/xode-dao/xode-staking/api"
	"github.com/xode-dao/xode-staking/balances"
	"github.com/xode-dao/xode-staking/kv"
	"github.com/xode-dao/xode-staking/staking"
	"github.com/xode-dao/xode-staking/staking/reverts"
	"github.com/xode-dao/xode-staking/state"
	"github.com/xode-dao/xode-staking/storage"
	"github.com/xode-dao/xode-staking/weight"
	"github.com/xode-dao/xode-staking/xode"
)

var (
	stakingAddr   = xode.BytesToAddress([]byte("staking"))
	balancesAddr  = xode.BytesToAddress([]byte("balances"))
	simulatorAddr = xode.BytesToAddress([]byte("simulator"))

	slotGenesis   = xode.BytesToBytes32([]byte("genesis"))
	slotNextBlock = xode.BytesToBytes32([]byte("next-block"))
)

// simulator plays the host chain: it produces blocks, feeds the scenario actions to the staking
// module and starts a session every sessionLength blocks.
type simulator struct {
	mu sync.Mutex

	state         *state.State
	staking       *staking.Staking
	balances      *balances.Balances
	meter         *weight.Meter
	scenario      *Scenario
	sessionLength uint32
	interval      time.Duration
	onBlock       func()

	genesis   *storage.Raw[bool]
	nextBlock *storage.Raw[uint32]

	sessionFeed event.FeedOf[*api.Status]

	block    uint32
	session  uint32
	authors  []xode.Address
	declared xode.Weight
	measured xode.Weight
}

var _ api.Backend = (*simulator)(nil)

func newSimulator(db kv.Store, config *Config, scenario *Scenario) (*simulator, error) {
	st := state.New(db)
	meter := weight.NewMeter()

	bals := balances.New(storage.NewContext(balancesAddr, st, nil))
	stk, err := staking.New(stakingAddr, st, bals, config.Staking, meter)
	if err != nil {
		return nil, err
	}

	simCtx := storage.NewContext(simulatorAddr, st, nil)
	sim := &simulator{
		state:         st,
		staking:       stk,
		balances:      bals,
		meter:         meter,
		scenario:      scenario,
		sessionLength: config.SessionLength,
		genesis:       storage.NewRaw[bool](simCtx, slotGenesis),
		nextBlock:     storage.NewRaw[uint32](simCtx, slotNextBlock),
	}
	if err := sim.init(); err != nil {
		return nil, err
	}
	return sim, nil
}

// init funds the scenario accounts on a fresh state, or resumes a persisted one.
func (sim *simulator) init() error {
	done, err := sim.genesis.Get()
	if err != nil {
		return err
	}
	if !done {
		for _, acc := range sim.scenario.Accounts {
			if err := sim.balances.Deposit(acc.Address, acc.Balance); err != nil {
				return errors.Wrapf(err, "fund %v", acc.Address)
			}
		}
		if err := sim.genesis.Set(true); err != nil {
			return err
		}
		if err := sim.nextBlock.Set(1); err != nil {
			return err
		}
		if _, err := sim.state.Commit(); err != nil {
			return err
		}
		logger.Info("initialized genesis state", "accounts", len(sim.scenario.Accounts))
	}

	next, err := sim.nextBlock.Get()
	if err != nil {
		return err
	}
	if next > 1 {
		sim.block = next - 1
	}
	if sim.session, err = sim.staking.CurrentSession(); err != nil {
		return err
	}
	if sim.authors, err = sim.staking.Authors(); err != nil {
		return err
	}
	if next > 1 {
		logger.Info("resumed from persisted state", "block", sim.block, "session", sim.session, "authors", len(sim.authors))
	}
	return nil
}

// Run produces the given number of blocks, stopping early when ctx is done.
func (sim *simulator) Run(ctx context.Context, blocks uint32) error {
	for i := uint32(0); i < blocks; i++ {
		if ctx.Err() != nil {
			return nil
		}
		status, err := sim.step()
		if err != nil {
			return err
		}
		if status != nil {
			sim.sessionFeed.Send(status)
		}
		if sim.onBlock != nil {
			sim.onBlock()
		}
		if sim.interval > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(sim.interval):
			}
		}
	}

	sim.mu.Lock()
	defer sim.mu.Unlock()
	logger.Info("simulation finished", "block", sim.block, "session", sim.session, "authors", len(sim.authors))
	return nil
}

// step produces the next block and commits it. It returns the status if a session started.
func (sim *simulator) step() (*api.Status, error) {
	sim.mu.Lock()
	defer sim.mu.Unlock()

	block := sim.block + 1
	sim.meter.Reset()

	declared := sim.staking.OnInitialize(block)
	for _, action := range sim.scenario.ActionsAt(block) {
		if err := sim.apply(block, action); err != nil {
			if !reverts.IsRevertErr(err) {
				return nil, errors.Wrapf(err, "block %d: %s", block, action.Call)
			}
			logger.Info("call reverted", "block", block, "call", action.Call, "account", action.Account, "err", err)
		}
	}

	newSession := block%sim.sessionLength == 0
	if newSession {
		index := block / sim.sessionLength
		if authors := sim.staking.NewSession(index); authors != nil {
			sim.authors = authors
		} else {
			logger.Warn("keeping the current authority set", "session", index, "authors", len(sim.authors))
		}
		sim.session = index
	}

	if err := sim.nextBlock.Set(block + 1); err != nil {
		return nil, err
	}
	if _, err := sim.state.Commit(); err != nil {
		return nil, err
	}

	sim.block = block
	sim.declared = declared
	sim.measured = sim.meter.Weight(sim.staking.Config().DBWeight)
	logger.Debug("block produced", "block", block, "declared", declared, "measured", sim.measured, "io", sim.meter.Breakdown())

	if !newSession {
		return nil, nil
	}
	return sim.status()
}

func (sim *simulator) apply(block uint32, action Action) error {
	origin := staking.Signed(action.Account)
	switch action.Call {
	case callRegister:
		return sim.staking.RegisterCandidate(origin)
	case callBond:
		return sim.staking.BondCandidate(origin, action.Amount, block)
	case callOnline:
		return sim.staking.OnlineCandidate(origin)
	case callOffline:
		return sim.staking.OfflineCandidate(origin, block)
	default:
		return errors.Errorf("unknown call %q", action.Call)
	}
}

func (sim *simulator) Status() (*api.Status, error) {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	return sim.status()
}

func (sim *simulator) SubscribeSessions(ch chan<- *api.Status) event.Subscription {
	return sim.sessionFeed.Subscribe(ch)
}

func (sim *simulator) status() (*api.Status, error) {
	next, err := sim.staking.NextMaintenanceBlock()
	if err != nil {
		return nil, err
	}
	authors := append([]xode.Address{}, sim.authors...)
	return &api.Status{
		Block:           sim.block,
		Session:         sim.session,
		Authors:         authors,
		Capacity:        sim.staking.AuthoringCapacity(),
		NextMaintenance: next,
		DeclaredWeight:  sim.declared,
		MeasuredWeight:  sim.measured,
	}, nil
}

func (sim *simulator) Candidates() ([]*api.Candidate, error) {
	sim.mu.Lock()
	defer sim.mu.Unlock()

	entries, err := sim.staking.Candidates()
	if err != nil {
		return nil, err
	}
	views := make([]*api.Candidate, 0, len(entries))
	for _, e := range entries {
		view, err := sim.view(e.Account)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// Candidate returns the view of account, nil if it is not registered.
func (sim *simulator) Candidate(account xode.Address) (*api.Candidate, error) {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	return sim.view(account)
}

func (sim *simulator) view(account xode.Address) (*api.Candidate, error) {
	c, err := sim.staking.Candidate(account)
	if err != nil || c == nil {
		return nil, err
	}
	free, err := sim.balances.Free(account)
	if err != nil {
		return nil, err
	}
	reserved, err := sim.balances.Reserved(account)
	if err != nil {
		return nil, err
	}
	view := &api.Candidate{
		Account:     account,
		Bond:        c.Bond.Dec(),
		Status:      c.Status.String(),
		Offline:     c.Offline,
		Listed:      c.Listed,
		LastUpdated: c.LastUpdated,
		Free:        free.Dec(),
		Reserved:    reserved.Dec(),
	}
	marker, err := sim.staking.OfflineMarker(account)
	if err != nil {
		return nil, err
	}
	if marker != nil {
		since := marker.Block
		view.OfflineSince = &since
	}
	return view, nil
}
