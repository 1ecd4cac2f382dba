// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package candidate

import (
	"slices"

	"github.com/xode-dao/xode-staking/xode"
)

// Repair walks the whole list, checking back links, tail, size and ordering.
// On any violation the reachable entries are sorted and relinked.
// It returns the entries in list order and whether the list was rewritten.
func (s *Service) Repair() ([]Entry, bool, error) {
	headID, err := s.head.Get()
	if err != nil {
		return nil, false, err
	}
	tailID, err := s.tail.Get()
	if err != nil {
		return nil, false, err
	}
	size, err := s.size.Get()
	if err != nil {
		return nil, false, err
	}

	var (
		entries []Entry
		seen    = make(map[xode.Address]struct{})
		broken  bool
		prevID  *xode.Address
	)
	for id := headID; !id.IsZero(); {
		if _, ok := seen[id]; ok {
			logger.Warn("candidate list has a cycle", "account", id)
			broken = true
			break
		}
		seen[id] = struct{}{}

		c, err := s.Get(id)
		if err != nil {
			return nil, false, err
		}
		if c == nil {
			logger.Warn("candidate list links to a missing record", "account", id)
			broken = true
			break
		}
		if !sameAddress(c.Prev, prevID) {
			logger.Warn("candidate has a stale back link", "account", id)
			broken = true
		}
		if n := len(entries); n > 0 && !entries[n-1].Precedes(c) {
			logger.Warn("candidate list out of order", "account", id, "prev", entries[n-1].Account)
			broken = true
		}
		entries = append(entries, Entry{Account: id, Candidate: c})

		current := id
		prevID = &current
		if c.Next == nil {
			break
		}
		id = *c.Next
	}

	last := xode.Address{}
	if n := len(entries); n > 0 {
		last = entries[n-1].Account
	}
	if last != tailID {
		logger.Warn("candidate list tail mismatch", "tail", tailID, "last", last)
		broken = true
	}
	if int(size) != len(entries) {
		logger.Warn("candidate list size mismatch", "size", size, "reachable", len(entries))
		broken = true
	}

	if !broken {
		return entries, false, nil
	}
	if err := s.relink(entries); err != nil {
		return nil, false, err
	}
	return entries, true, nil
}

// relink sorts the entries and rewrites every link, the head, the tail and the size.
func (s *Service) relink(entries []Entry) error {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		switch {
		case a.Precedes(b.Candidate):
			return -1
		case b.Precedes(a.Candidate):
			return 1
		default:
			return 0
		}
	})

	for i := range entries {
		entries[i].Prev = nil
		entries[i].Next = nil
		if i > 0 {
			prev := entries[i-1].Account
			entries[i].Prev = &prev
		}
		if i < len(entries)-1 {
			next := entries[i+1].Account
			entries[i].Next = &next
		}
		if err := s.set(entries[i].Account, entries[i].Candidate); err != nil {
			return err
		}
	}

	head, tail := xode.Address{}, xode.Address{}
	if n := len(entries); n > 0 {
		head = entries[0].Account
		tail = entries[n-1].Account
	}
	if err := s.head.Set(head); err != nil {
		return err
	}
	if err := s.tail.Set(tail); err != nil {
		return err
	}
	if err := s.size.Set(uint32(len(entries))); err != nil { // #nosec G115
		return err
	}
	logger.Info("relinked candidate list", "size", len(entries))
	return nil
}

func sameAddress(a, b *xode.Address) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
