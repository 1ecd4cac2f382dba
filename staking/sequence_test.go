// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"sync"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"

	"github.com/xode-dao/xode-staking/xode"
)

type TestFunc func(t *testing.T)

type TestSequence struct {
	staking *StakingTest

	funcs []TestFunc
	mu    sync.Mutex
}

func NewSequence(staking *StakingTest) *TestSequence {
	return &TestSequence{funcs: make([]TestFunc, 0), staking: staking}
}

func (st *TestSequence) AddFunc(f TestFunc) *TestSequence {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.funcs = append(st.funcs, f)
	return st
}

func (st *TestSequence) Register(addr xode.Address) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.staking.RegisterCandidate(Signed(addr)); err != nil {
			t.Fatalf("failed to register %s: %v", addr, err)
		}
		t.Logf("registered %s", addr.AbbrevString())
	})
}

func (st *TestSequence) Bond(addr xode.Address, amount *uint256.Int, block uint32) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.staking.BondCandidate(Signed(addr), amount, block); err != nil {
			t.Fatalf("failed to bond %s: %v", addr, err)
		}
		t.Logf("bonded %s to %s at block %d", addr.AbbrevString(), amount.Dec(), block)
	})
}

func (st *TestSequence) Offline(addr xode.Address, block uint32) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.staking.OfflineCandidate(Signed(addr), block); err != nil {
			t.Fatalf("failed to mark %s offline: %v", addr, err)
		}
	})
}

func (st *TestSequence) Online(addr xode.Address) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.staking.OnlineCandidate(Signed(addr)); err != nil {
			t.Fatalf("failed to mark %s online: %v", addr, err)
		}
	})
}

func (st *TestSequence) NewSession(index uint32, authors ...xode.Address) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		got := st.staking.NewSession(index)
		if authors == nil {
			authors = []xode.Address{}
		}
		assert.Equal(t, authors, got, "session %d", index)
	})
}

func (st *TestSequence) AssertStatus(addr xode.Address, status string) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		assert.Equal(t, status, st.staking.MustCandidate(addr).Status)
	})
}

func (st *TestSequence) AssertOffline(addr xode.Address, offline bool) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		assert.Equal(t, offline, st.staking.MustCandidate(addr).Offline)
	})
}

func (st *TestSequence) Run(t *testing.T) {
	st.mu.Lock()
	defer st.mu.Unlock()

	for _, f := range st.funcs {
		f(t)
	}
}
