// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package candidate

import (
	"github.com/holiman/uint256"

	"github.com/xode-dao/xode-staking/xode"
)

type Status uint8

const (
	StatusUnknown   Status = iota // zero value, never stored for a registered candidate
	StatusOnline                  // registered, not yet selected
	StatusWaiting                 // selected, authors from the next session
	StatusAuthoring               // part of the authority set
	StatusQueuing                 // pulled from the authority set, waiting for a free slot
)

func (s Status) String() string {
	switch s {
	case StatusOnline:
		return "online"
	case StatusWaiting:
		return "waiting"
	case StatusAuthoring:
		return "authoring"
	case StatusQueuing:
		return "queuing"
	default:
		return "unknown"
	}
}

// CanTransition reports whether a candidate may move from one status to another in a session rotation.
// Staying in the same status is always allowed.
func CanTransition(from, to Status) bool {
	if from == to {
		return from != StatusUnknown
	}
	switch from {
	case StatusOnline:
		return to == StatusWaiting
	case StatusWaiting:
		return to == StatusAuthoring
	case StatusAuthoring:
		return to == StatusQueuing
	case StatusQueuing:
		return to == StatusWaiting || to == StatusAuthoring
	default:
		return false
	}
}

type Candidate struct {
	Bond        *uint256.Int
	Status      Status
	Offline     bool
	LastUpdated uint32
	Seq         uint64 // registration sequence, breaks bond ties
	Listed      bool   // queuing candidate holding a slot for the next session

	Prev *xode.Address `rlp:"nil"`
	Next *xode.Address `rlp:"nil"`
}

// IsEmpty returns whether the entry can be treated as empty.
func (c *Candidate) IsEmpty() bool {
	return c == nil || c.Status == StatusUnknown
}

// Precedes reports whether c orders before o in the candidate list:
// higher bond first, earlier registration on equal bonds.
func (c *Candidate) Precedes(o *Candidate) bool {
	if cmp := c.Bond.Cmp(o.Bond); cmp != 0 {
		return cmp > 0
	}
	return c.Seq < o.Seq
}

// Entry is a candidate record together with its account.
type Entry struct {
	Account xode.Address
	*Candidate
}
