// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"fmt"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/xode-dao/xode-staking/balances"
	"github.com/xode-dao/xode-staking/lvldb"
	"github.com/xode-dao/xode-staking/staking/bond"
	"github.com/xode-dao/xode-staking/state"
	"github.com/xode-dao/xode-staking/storage"
	"github.com/xode-dao/xode-staking/weight"
	"github.com/xode-dao/xode-staking/xode"
)

var (
	stakingAddr  = xode.BytesToAddress([]byte("staking"))
	balancesAddr = xode.BytesToAddress([]byte("balances"))
)

func M(a ...any) []any {
	return a
}

// e15 returns n * 10^15.
func e15(n uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(n), uint256.NewInt(1e15))
}

func account(i int) xode.Address {
	return xode.BytesToAddress([]byte(fmt.Sprintf("collator-%d", i)))
}

type StakingTest struct {
	*Staking
	t        *testing.T
	balances *balances.Balances
	meter    *weight.Meter
}

func newTest(t *testing.T, config Config) *StakingTest {
	return newTestWithLedger(t, config, nil)
}

// newTestWithLedger builds a staking module over an in-memory state. The ledger defaults to the
// in-state balances, wrap lets a test intercept it.
func newTestWithLedger(t *testing.T, config Config, wrap func(bond.Ledger) bond.Ledger) *StakingTest {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db)
	meter := weight.NewMeter()
	bals := balances.New(storage.NewContext(balancesAddr, st, nil))

	var ledger bond.Ledger = bals
	if wrap != nil {
		ledger = wrap(bals)
	}

	staking, err := New(stakingAddr, st, ledger, config, meter)
	require.NoError(t, err)

	return &StakingTest{
		Staking:  staking,
		t:        t,
		balances: bals,
		meter:    meter,
	}
}

func (ts *StakingTest) Fund(account xode.Address, amount *uint256.Int) *StakingTest {
	require.NoError(ts.t, ts.balances.Deposit(account, amount))
	return ts
}

func (ts *StakingTest) Free(account xode.Address) *uint256.Int {
	free, err := ts.balances.Free(account)
	require.NoError(ts.t, err)
	return free
}

func (ts *StakingTest) Reserved(account xode.Address) *uint256.Int {
	reserved, err := ts.balances.Reserved(account)
	require.NoError(ts.t, err)
	return reserved
}

func (ts *StakingTest) MustCandidate(account xode.Address) *candidateView {
	c, err := ts.Candidate(account)
	require.NoError(ts.t, err)
	require.NotNil(ts.t, c, "candidate %s not registered", account)
	return &candidateView{Bond: c.Bond, Status: c.Status.String(), Offline: c.Offline, Listed: c.Listed, LastUpdated: c.LastUpdated}
}

// candidateView is the externally visible part of a candidate record.
type candidateView struct {
	Bond        *uint256.Int
	Status      string
	Offline     bool
	Listed      bool
	LastUpdated uint32
}
