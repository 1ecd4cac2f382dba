// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package offline

import (
	"github.com/pkg/errors"

	"github.com/xode-dao/xode-staking/log"
	"github.com/xode-dao/xode-staking/staking/candidate"
	"github.com/xode-dao/xode-staking/staking/reverts"
	"github.com/xode-dao/xode-staking/storage"
	"github.com/xode-dao/xode-staking/xode"
)

var logger = log.WithContext("pkg", "offline")

var slotMarkers = xode.BytesToBytes32([]byte("offline-markers"))

// Marker records when a candidate went offline.
type Marker struct {
	Block   uint32
	Session uint32
}

// Elapsed returns the number of session boundaries passed since the marker was set.
func (m *Marker) Elapsed(session uint32) uint32 {
	if session < m.Session {
		return 0
	}
	return session - m.Session
}

// Tracker toggles the offline flag of candidates. The flag is independent of the candidate status.
type Tracker struct {
	markers    *storage.Mapping[xode.Address, *Marker]
	candidates *candidate.Service
}

func New(sctx *storage.Context, candidates *candidate.Service) *Tracker {
	return &Tracker{
		markers:    storage.NewMapping[xode.Address, *Marker](sctx, slotMarkers),
		candidates: candidates,
	}
}

// MarkOffline flags the candidate offline and remembers the block and session. Marking an offline
// candidate again changes nothing.
func (t *Tracker) MarkOffline(account xode.Address, atBlock, session uint32) error {
	c, err := t.candidates.Get(account)
	if err != nil {
		return err
	}
	if c == nil {
		return reverts.ErrNotRegistered
	}
	if c.Offline {
		return nil
	}

	c.Offline = true
	if err := t.candidates.Update(account, c); err != nil {
		return err
	}
	if err := t.markers.Set(account, &Marker{Block: atBlock, Session: session}); err != nil {
		return errors.Wrapf(err, "failed to set offline marker %s", account)
	}
	logger.Debug("candidate offline", "account", account, "block", atBlock, "session", session, "status", c.Status)
	return nil
}

// MarkOnline clears the offline flag. The status is left to the next session rotation and the
// marker to the next maintenance pass.
func (t *Tracker) MarkOnline(account xode.Address) error {
	c, err := t.candidates.Get(account)
	if err != nil {
		return err
	}
	if c == nil {
		return reverts.ErrNotRegistered
	}
	if !c.Offline {
		return nil
	}

	c.Offline = false
	if err := t.candidates.Update(account, c); err != nil {
		return err
	}
	logger.Debug("candidate online", "account", account, "status", c.Status)
	return nil
}

// Marker returns the offline marker of the account, nil if none.
func (t *Tracker) Marker(account xode.Address) (*Marker, error) {
	m, err := t.markers.Get(account)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get offline marker %s", account)
	}
	return m, nil
}

// ClearStale deletes the marker of an online candidate. It returns whether a marker was deleted.
func (t *Tracker) ClearStale(e candidate.Entry) (bool, error) {
	if e.Offline {
		return false, nil
	}
	m, err := t.Marker(e.Account)
	if err != nil {
		return false, err
	}
	if m == nil {
		return false, nil
	}
	t.markers.Delete(e.Account)
	return true, nil
}
