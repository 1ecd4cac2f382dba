// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package session

import (
	"github.com/holiman/uint256"

	"github.com/xode-dao/xode-staking/staking/candidate"
	"github.com/xode-dao/xode-staking/staking/offline"
	"github.com/xode-dao/xode-staking/xode"
)

// Input is everything a rotation depends on.
type Input struct {
	Entries       []candidate.Entry // in list order
	Markers       map[xode.Address]*offline.Marker
	Session       uint32
	Capacity      uint32
	GraceSessions uint32
	MinBond       *uint256.Int // nil or zero disables the filter
}

type Transition struct {
	Account xode.Address
	From    candidate.Status
	To      candidate.Status
}

type Result struct {
	// Statuses holds the resulting status of every entry, aligned with Input.Entries.
	Statuses []candidate.Status
	// Listed holds the resulting slot reservation of every entry, aligned with Input.Entries.
	Listed []bool
	// Authoring is the new authority set in list order.
	Authoring []xode.Address
	// Transitions lists every single status hop in the order they were applied.
	Transitions []Transition
	// Unmarked lists offline authoring candidates that have no marker and were left authoring.
	Unmarked []xode.Address
}

// Rotate computes the statuses for a new session. It does not modify the input.
//
// A queuing candidate that wins a slot keeps its status and holds the slot as listed. It joins the
// authority set at the next rotation together with the candidates selected alongside it.
func Rotate(in Input) *Result {
	statuses := make([]candidate.Status, len(in.Entries))
	listed := make([]bool, len(in.Entries))
	for i, e := range in.Entries {
		statuses[i] = e.Status
		listed[i] = e.Listed && e.Status == candidate.StatusQueuing
	}

	res := &Result{Statuses: statuses, Listed: listed}
	move := func(i int, to candidate.Status) {
		res.Transitions = append(res.Transitions, Transition{Account: in.Entries[i].Account, From: statuses[i], To: to})
		statuses[i] = to
	}

	// waiting candidates were selected last session, listed ones hop through waiting
	for i, e := range in.Entries {
		switch {
		case statuses[i] == candidate.StatusWaiting:
			move(i, candidate.StatusAuthoring)
		case listed[i]:
			listed[i] = false
			if eligible(e, statuses[i], in.MinBond) {
				move(i, candidate.StatusWaiting)
				move(i, candidate.StatusAuthoring)
			}
		}
	}

	// pull authors that have been offline for the whole grace period
	for i, e := range in.Entries {
		if statuses[i] != candidate.StatusAuthoring || !e.Offline {
			continue
		}
		m := in.Markers[e.Account]
		if m == nil {
			res.Unmarked = append(res.Unmarked, e.Account)
			continue
		}
		if m.Elapsed(in.Session) >= in.GraceSessions {
			move(i, candidate.StatusQueuing)
		}
	}

	var occupied uint32
	for _, s := range statuses {
		if s == candidate.StatusAuthoring || s == candidate.StatusWaiting {
			occupied++
		}
	}
	var free uint32
	if occupied < in.Capacity {
		free = in.Capacity - occupied
	}

	for i, e := range in.Entries {
		if free == 0 {
			break
		}
		if !eligible(e, statuses[i], in.MinBond) {
			continue
		}
		if statuses[i] == candidate.StatusQueuing {
			listed[i] = true
		} else {
			move(i, candidate.StatusWaiting)
		}
		free--
	}

	for i, e := range in.Entries {
		if statuses[i] == candidate.StatusAuthoring {
			res.Authoring = append(res.Authoring, e.Account)
		}
	}
	return res
}

func eligible(e candidate.Entry, status candidate.Status, minBond *uint256.Int) bool {
	if status != candidate.StatusOnline && status != candidate.StatusQueuing {
		return false
	}
	if e.Offline {
		return false
	}
	if minBond != nil && e.Bond.Lt(minBond) {
		return false
	}
	return true
}

// Count returns the number of resulting statuses equal to s.
func (r *Result) Count(s candidate.Status) int {
	n := 0
	for _, status := range r.Statuses {
		if status == s {
			n++
		}
	}
	return n
}
