// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package candidate

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/xode-dao/xode-staking/log"
	"github.com/xode-dao/xode-staking/staking/reverts"
	"github.com/xode-dao/xode-staking/storage"
	"github.com/xode-dao/xode-staking/xode"
)

var logger = log.WithContext("pkg", "candidate")

var (
	slotCandidates = xode.BytesToBytes32([]byte("candidates"))
	slotHead       = xode.BytesToBytes32([]byte("candidates-head"))
	slotTail       = xode.BytesToBytes32([]byte("candidates-tail"))
	slotSize       = xode.BytesToBytes32([]byte("candidates-size"))
	slotSeq        = xode.BytesToBytes32([]byte("candidates-seq"))
)

// BondMover settles the difference between the current and the requested bond of a candidate.
type BondMover interface {
	Move(account xode.Address, from, to *uint256.Int) error
}

// Service keeps the candidate records as a doubly linked list ordered by bond descending,
// then by registration sequence ascending.
type Service struct {
	records *storage.Mapping[xode.Address, *Candidate]
	head    *storage.Raw[xode.Address]
	tail    *storage.Raw[xode.Address]
	size    *storage.Raw[uint32]
	seq     *storage.Raw[uint64]

	maxCandidates uint32
}

func New(sctx *storage.Context, maxCandidates uint32) *Service {
	return &Service{
		records: storage.NewMapping[xode.Address, *Candidate](sctx, slotCandidates),
		head:    storage.NewRaw[xode.Address](sctx, slotHead),
		tail:    storage.NewRaw[xode.Address](sctx, slotTail),
		size:    storage.NewRaw[uint32](sctx, slotSize),
		seq:     storage.NewRaw[uint64](sctx, slotSeq),

		maxCandidates: maxCandidates,
	}
}

// Get returns the candidate record of the account, nil if it is not registered.
func (s *Service) Get(account xode.Address) (*Candidate, error) {
	c, err := s.records.Get(account)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get candidate %s", account)
	}
	if c.IsEmpty() {
		return nil, nil
	}
	return c, nil
}

func (s *Service) mustGet(account xode.Address) (*Candidate, error) {
	c, err := s.Get(account)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, errors.Errorf("candidate list links to missing record %s", account)
	}
	return c, nil
}

func (s *Service) set(account xode.Address, c *Candidate) error {
	if err := s.records.Set(account, c); err != nil {
		return errors.Wrapf(err, "failed to set candidate %s", account)
	}
	return nil
}

// Update persists status and offline changes of a registered candidate. Ordering fields are kept as they are.
func (s *Service) Update(account xode.Address, c *Candidate) error {
	return s.set(account, c)
}

func (s *Service) Size() (uint32, error) {
	return s.size.Get()
}

// Head returns the first account of the list, the zero address when the list is empty.
func (s *Service) Head() (xode.Address, error) {
	return s.head.Get()
}

// Register appends a new online candidate with a zero bond at its ordered position.
func (s *Service) Register(account xode.Address) (*Candidate, error) {
	existing, err := s.Get(account)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, reverts.ErrAlreadyRegistered
	}

	size, err := s.size.Get()
	if err != nil {
		return nil, err
	}
	if size >= s.maxCandidates {
		return nil, reverts.ErrCandidateListFull
	}

	seq, err := s.seq.Get()
	if err != nil {
		return nil, err
	}
	if err := s.seq.Set(seq + 1); err != nil {
		return nil, err
	}

	c := &Candidate{
		Bond:   new(uint256.Int),
		Status: StatusOnline,
		Seq:    seq,
	}
	if err := s.insert(account, c); err != nil {
		return nil, err
	}
	if err := s.size.Set(size + 1); err != nil {
		return nil, err
	}
	return c, nil
}

// SetBond sets the bond of the candidate to amount. Funds are moved by the mover before any write,
// so a failing move leaves the record untouched. It returns false when the amount equals the current bond.
func (s *Service) SetBond(account xode.Address, amount *uint256.Int, atBlock uint32, mover BondMover) (bool, error) {
	c, err := s.Get(account)
	if err != nil {
		return false, err
	}
	if c == nil {
		return false, reverts.ErrNotRegistered
	}
	if c.Bond.Eq(amount) {
		return false, nil
	}

	if err := mover.Move(account, c.Bond, amount); err != nil {
		return false, err
	}

	if err := s.remove(account, c); err != nil {
		return false, err
	}
	c.Bond = new(uint256.Int).Set(amount)
	c.LastUpdated = atBlock
	if err := s.insert(account, c); err != nil {
		return false, err
	}
	return true, nil
}

// Iterate walks the list in order.
func (s *Service) Iterate(fn func(Entry) error) error {
	id, err := s.head.Get()
	if err != nil {
		return err
	}
	seen := make(map[xode.Address]struct{})
	for !id.IsZero() {
		if _, ok := seen[id]; ok {
			return errors.Errorf("candidate list has a cycle at %s", id)
		}
		seen[id] = struct{}{}

		c, err := s.mustGet(id)
		if err != nil {
			return err
		}
		if err := fn(Entry{Account: id, Candidate: c}); err != nil {
			return err
		}
		if c.Next == nil {
			break
		}
		id = *c.Next
	}
	return nil
}

// Entries returns all candidates in list order.
func (s *Service) Entries() ([]Entry, error) {
	var entries []Entry
	if err := s.Iterate(func(e Entry) error {
		entries = append(entries, e)
		return nil
	}); err != nil {
		return nil, err
	}
	return entries, nil
}

// insert links the candidate in front of the first entry it precedes, or at the tail.
func (s *Service) insert(account xode.Address, c *Candidate) error {
	c.Prev = nil
	c.Next = nil

	headID, err := s.head.Get()
	if err != nil {
		return err
	}
	if headID.IsZero() {
		if err := s.head.Set(account); err != nil {
			return err
		}
		if err := s.tail.Set(account); err != nil {
			return err
		}
		return s.set(account, c)
	}

	currentID := headID
	for {
		current, err := s.mustGet(currentID)
		if err != nil {
			return err
		}

		if c.Precedes(current) {
			id := currentID
			c.Next = &id
			c.Prev = current.Prev
			current.Prev = &account
			if err := s.set(currentID, current); err != nil {
				return err
			}
			if c.Prev == nil {
				if err := s.head.Set(account); err != nil {
					return err
				}
			} else {
				prev, err := s.mustGet(*c.Prev)
				if err != nil {
					return err
				}
				prev.Next = &account
				if err := s.set(*c.Prev, prev); err != nil {
					return err
				}
			}
			return s.set(account, c)
		}

		if current.Next == nil {
			id := currentID
			c.Prev = &id
			current.Next = &account
			if err := s.set(currentID, current); err != nil {
				return err
			}
			if err := s.tail.Set(account); err != nil {
				return err
			}
			return s.set(account, c)
		}
		currentID = *current.Next
	}
}

// remove unlinks the candidate, the record itself is left to the caller.
func (s *Service) remove(account xode.Address, c *Candidate) error {
	if c.Prev == nil {
		next := xode.Address{}
		if c.Next != nil {
			next = *c.Next
		}
		if err := s.head.Set(next); err != nil {
			return err
		}
	} else {
		prev, err := s.mustGet(*c.Prev)
		if err != nil {
			return err
		}
		prev.Next = c.Next
		if err := s.set(*c.Prev, prev); err != nil {
			return err
		}
	}

	if c.Next == nil {
		prevID := xode.Address{}
		if c.Prev != nil {
			prevID = *c.Prev
		}
		if err := s.tail.Set(prevID); err != nil {
			return err
		}
	} else {
		next, err := s.mustGet(*c.Next)
		if err != nil {
			return err
		}
		next.Prev = c.Prev
		if err := s.set(*c.Next, next); err != nil {
			return err
		}
	}

	c.Prev = nil
	c.Next = nil
	logger.Trace("unlinked candidate", "account", account)
	return nil
}
