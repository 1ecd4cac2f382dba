// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xode-dao/xode-staking/staking/bond"
	"github.com/xode-dao/xode-staking/staking/maintenance"
	"github.com/xode-dao/xode-staking/staking/reverts"
	"github.com/xode-dao/xode-staking/xode"
)

func TestBondScenarios(t *testing.T) {
	ts := newTest(t, DefaultConfig())
	acc := account(1)
	ts.Fund(acc, e15(100))

	require.NoError(t, ts.RegisterCandidate(Signed(acc)))

	// block 0: first bond
	require.NoError(t, ts.BondCandidate(Signed(acc), e15(11), 0))
	assert.Equal(t, e15(89), ts.Free(acc))
	assert.Equal(t, &candidateView{Bond: e15(11), Status: "online", LastUpdated: 0}, ts.MustCandidate(acc))

	// block 1: lower the bond
	require.NoError(t, ts.BondCandidate(Signed(acc), e15(5), 1))
	assert.Equal(t, e15(95), ts.Free(acc))
	assert.Equal(t, uint32(1), ts.MustCandidate(acc).LastUpdated)

	// block 2 and 3: the repeated amount is a no-op
	require.NoError(t, ts.BondCandidate(Signed(acc), e15(15), 2))
	require.NoError(t, ts.BondCandidate(Signed(acc), e15(15), 3))
	assert.Equal(t, e15(85), ts.Free(acc))
	assert.Equal(t, e15(15), ts.Reserved(acc))
	assert.Equal(t, uint32(2), ts.MustCandidate(acc).LastUpdated)
}

func TestBondIdempotenceWrites(t *testing.T) {
	ts := newTest(t, DefaultConfig())
	acc := account(1)
	ts.Fund(acc, e15(100))
	require.NoError(t, ts.RegisterCandidate(Signed(acc)))
	require.NoError(t, ts.BondCandidate(Signed(acc), e15(15), 2))

	ts.meter.Reset()
	require.NoError(t, ts.BondCandidate(Signed(acc), e15(15), 3))
	assert.Zero(t, ts.meter.Writes())
}

func TestSessionScenario(t *testing.T) {
	ts := newTest(t, DefaultConfig())
	acc := account(1)

	NewSequence(ts).
		Register(acc).
		NewSession(1).
		AssertStatus(acc, "waiting").
		NewSession(2, acc).
		AssertStatus(acc, "authoring").
		Offline(acc, 25).
		NewSession(3, acc).
		AssertStatus(acc, "authoring").
		NewSession(4).
		AssertStatus(acc, "queuing").
		Online(acc).
		AssertStatus(acc, "queuing").
		AssertOffline(acc, false).
		Run(t)

	marker, err := ts.OfflineMarker(acc)
	require.NoError(t, err)
	assert.Equal(t, uint32(25), marker.Block)
	assert.Equal(t, uint32(2), marker.Session)

	// back online, the candidate holds a slot and authors one session later
	assert.Empty(t, ts.NewSession(5))
	assert.Equal(t, &candidateView{Bond: new(uint256.Int), Status: "queuing", Listed: true}, ts.MustCandidate(acc))
	assert.Equal(t, []xode.Address{acc}, ts.NewSession(6))
	assert.Equal(t, &candidateView{Bond: new(uint256.Int), Status: "authoring"}, ts.MustCandidate(acc))
}

func TestSessionRequeueAtCapacity(t *testing.T) {
	ts := newTest(t, DefaultConfig())
	first := account(1)
	ts.Fund(first, e15(100))

	NewSequence(ts).
		Register(first).
		Bond(first, e15(11), 0).
		NewSession(1).
		NewSession(2, first).
		Offline(first, 25).
		NewSession(3, first).
		NewSession(4).
		AssertStatus(first, "queuing").
		Online(first).
		Run(t)

	// fill the list, one candidate more than the free capacity
	for i := 2; i <= 100; i++ {
		ts.Fund(account(i), e15(100))
		require.NoError(t, ts.RegisterCandidate(Signed(account(i))))
		require.NoError(t, ts.BondCandidate(Signed(account(i)), e15(11), 4))
	}
	for i := 2; i <= 100; i++ {
		assert.Equal(t, "online", ts.MustCandidate(account(i)).Status)
	}

	// the queued candidate holds one of the 97 slots without leaving queuing
	assert.Empty(t, ts.NewSession(5))
	assert.Equal(t, "queuing", ts.MustCandidate(first).Status)
	assert.True(t, ts.MustCandidate(first).Listed)
	for i := 2; i <= 100; i++ {
		want := "waiting"
		if i > 97 {
			want = "online"
		}
		assert.Equal(t, want, ts.MustCandidate(account(i)).Status, "candidate %d", i)
	}

	authors := ts.NewSession(6)
	require.Len(t, authors, 97)
	assert.Equal(t, first, authors[0])
	for i := 1; i <= 100; i++ {
		want := "authoring"
		if i > 97 {
			want = "online"
		}
		assert.Equal(t, want, ts.MustCandidate(account(i)).Status, "candidate %d", i)
	}
	assert.False(t, ts.MustCandidate(first).Listed)
}

func TestMaintenanceScenario(t *testing.T) {
	ts := newTest(t, DefaultConfig())
	db := ts.Config().DBWeight

	assert.Equal(t, M(uint32(0), nil), M(ts.NextMaintenanceBlock()))

	ts.meter.Reset()
	assert.Equal(t, db.ReadsWrites(14, 28), ts.OnInitialize(0))
	assert.LessOrEqual(t, ts.meter.Weight(db), db.ReadsWrites(14, 28))
	assert.Equal(t, M(uint32(10), nil), M(ts.NextMaintenanceBlock()))

	require.NoError(t, ts.SetNextMaintenanceBlock(2))
	ts.meter.Reset()
	assert.Equal(t, db.ReadsWrites(2, 2), ts.OnInitialize(1))
	assert.LessOrEqual(t, ts.meter.Weight(db), db.ReadsWrites(2, 2))

	assert.Equal(t, maintenance.Heavy(db, 0), ts.OnInitialize(2))
}

func TestMaintenanceWeightGrowsWithCandidates(t *testing.T) {
	ts := newTest(t, DefaultConfig())
	db := ts.Config().DBWeight
	for i := range 10 {
		require.NoError(t, ts.RegisterCandidate(Signed(account(i))))
		require.NoError(t, ts.OfflineCandidate(Signed(account(i)), 0))
		require.NoError(t, ts.OnlineCandidate(Signed(account(i))))
	}

	ts.meter.Reset()
	declared := ts.OnInitialize(0)
	assert.Equal(t, maintenance.Heavy(db, 10), declared)
	assert.LessOrEqual(t, ts.meter.Weight(db), declared)

	// stale markers are gone
	for i := range 10 {
		marker, err := ts.OfflineMarker(account(i))
		require.NoError(t, err)
		assert.Nil(t, marker)
	}
}

func TestDispatchErrors(t *testing.T) {
	config := DefaultConfig()
	config.MaxCandidates = 2
	ts := newTest(t, config)

	assert.ErrorIs(t, ts.RegisterCandidate(None()), reverts.ErrBadOrigin)
	assert.ErrorIs(t, ts.RegisterCandidate(Signed(xode.Address{})), reverts.ErrBadOrigin)

	require.NoError(t, ts.RegisterCandidate(Signed(account(1))))
	assert.ErrorIs(t, ts.RegisterCandidate(Signed(account(1))), reverts.ErrAlreadyRegistered)
	require.NoError(t, ts.RegisterCandidate(Signed(account(2))))
	assert.ErrorIs(t, ts.RegisterCandidate(Signed(account(3))), reverts.ErrCandidateListFull)

	assert.ErrorIs(t, ts.BondCandidate(Signed(account(3)), e15(1), 0), reverts.ErrNotRegistered)
	assert.ErrorIs(t, ts.OnlineCandidate(Signed(account(3))), reverts.ErrNotRegistered)
	assert.ErrorIs(t, ts.OfflineCandidate(Signed(account(3)), 0), reverts.ErrNotRegistered)

	assert.ErrorIs(t, ts.BondCandidate(Signed(account(1)), e15(1), 0), reverts.ErrInsufficientBalance)

	tooLarge := new(uint256.Int).Add(xode.MaxBond(), uint256.NewInt(1))
	assert.ErrorIs(t, ts.BondCandidate(Signed(account(1)), tooLarge, 0), reverts.ErrBondOverflow)
	assert.ErrorIs(t, ts.BondCandidate(Signed(account(1)), nil, 0), reverts.ErrBondOverflow)

	candidates, err := ts.Candidates()
	require.NoError(t, err)
	assert.Len(t, candidates, 2)
}

type failingLedger struct {
	bond.Ledger
}

// Reserve moves the funds and then fails, leaving the rollback to the dispatch.
func (l failingLedger) Reserve(account xode.Address, amount *uint256.Int) error {
	if err := l.Ledger.Reserve(account, amount); err != nil {
		return err
	}
	return errors.New("ledger unavailable")
}

func TestDispatchRollback(t *testing.T) {
	ts := newTestWithLedger(t, DefaultConfig(), func(l bond.Ledger) bond.Ledger {
		return failingLedger{l}
	})
	acc := account(1)
	ts.Fund(acc, e15(100))
	require.NoError(t, ts.RegisterCandidate(Signed(acc)))

	err := ts.BondCandidate(Signed(acc), e15(11), 4)
	assert.Error(t, err)
	assert.False(t, reverts.IsRevertErr(err))

	assert.Equal(t, e15(100), ts.Free(acc))
	assert.True(t, ts.Reserved(acc).IsZero())
	assert.Equal(t, &candidateView{Bond: new(uint256.Int), Status: "online"}, ts.MustCandidate(acc))
}

func TestCandidatesOrdered(t *testing.T) {
	ts := newTest(t, DefaultConfig())
	for i := 1; i <= 4; i++ {
		ts.Fund(account(i), e15(100))
		require.NoError(t, ts.RegisterCandidate(Signed(account(i))))
	}
	require.NoError(t, ts.BondCandidate(Signed(account(3)), e15(30), 1))
	require.NoError(t, ts.BondCandidate(Signed(account(2)), e15(30), 1))
	require.NoError(t, ts.BondCandidate(Signed(account(4)), e15(50), 1))

	entries, err := ts.Candidates()
	require.NoError(t, err)
	var order []xode.Address
	for _, e := range entries {
		order = append(order, e.Account)
	}
	assert.Equal(t, []xode.Address{account(4), account(2), account(3), account(1)}, order)
}

func TestRotationWithReservedSlots(t *testing.T) {
	const n = 100
	ts := newTest(t, DefaultConfig())
	require.Equal(t, uint32(97), ts.AuthoringCapacity())

	var all []xode.Address
	for i := 1; i <= n; i++ {
		require.NoError(t, ts.RegisterCandidate(Signed(account(i))))
		all = append(all, account(i))
	}

	assert.Empty(t, ts.NewSession(1))
	authors := ts.NewSession(2)
	assert.Equal(t, all[:97], authors)

	for i := 97; i < n; i++ {
		assert.Equal(t, "online", ts.MustCandidate(all[i]).Status)
	}

	current, err := ts.Authors()
	require.NoError(t, err)
	assert.Equal(t, authors, current)
	assert.Equal(t, M(uint32(2), nil), M(ts.CurrentSession()))
}

func TestRotationWithoutCapacity(t *testing.T) {
	config := DefaultConfig()
	config.ReservedSlots = config.MaxAuthoringSlots + 1
	ts := newTest(t, config)
	assert.Zero(t, ts.AuthoringCapacity())

	require.NoError(t, ts.RegisterCandidate(Signed(account(1))))
	assert.Empty(t, ts.NewSession(1))
	assert.Equal(t, "online", ts.MustCandidate(account(1)).Status)
}

func TestNewSessionDegrades(t *testing.T) {
	ts := newTest(t, DefaultConfig())
	require.NoError(t, ts.RegisterCandidate(Signed(account(1))))
	require.NoError(t, ts.RegisterCandidate(Signed(account(2))))

	// point the tail at a record that does not exist
	c, err := ts.candidates.Get(account(2))
	require.NoError(t, err)
	missing := account(99)
	c.Next = &missing
	require.NoError(t, ts.candidates.Update(account(2), c))

	assert.Nil(t, ts.NewSession(1))
	assert.Equal(t, "online", ts.MustCandidate(account(1)).Status)
	assert.Equal(t, M(uint32(1), nil), M(ts.CurrentSession()))

	// the next full maintenance pass repairs the list
	ts.OnInitialize(0)
	assert.Equal(t, []xode.Address{}, ts.NewSession(2))
	assert.Equal(t, "waiting", ts.MustCandidate(account(1)).Status)
	assert.Equal(t, "waiting", ts.MustCandidate(account(2)).Status)
}

func TestInvalidConfig(t *testing.T) {
	config := DefaultConfig()
	config.MaintenancePeriod = 0
	_, err := New(stakingAddr, nil, nil, config, nil)
	assert.ErrorContains(t, err, "maintenance-period")
}
