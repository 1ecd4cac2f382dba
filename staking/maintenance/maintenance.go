// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package maintenance

import (
	"math"

	"github.com/xode-dao/xode-staking/log"
	"github.com/xode-dao/xode-staking/staking/candidate"
	"github.com/xode-dao/xode-staking/staking/offline"
	"github.com/xode-dao/xode-staking/storage"
	"github.com/xode-dao/xode-staking/xode"
)

var logger = log.WithContext("pkg", "maintenance")

var slotNextBlock = xode.BytesToBytes32([]byte("next-maintenance-block"))

const (
	heavyBaseReads  = 14
	heavyBaseWrites = 28
	perCandidate    = 2
	lightReads      = 2
	lightWrites     = 2
)

// Heavy is the declared weight of a full pass over n candidates.
func Heavy(db xode.DBWeight, n uint32) xode.Weight {
	return db.ReadsWrites(heavyBaseReads+perCandidate*uint64(n), heavyBaseWrites+perCandidate*uint64(n))
}

// Light is the declared weight of a block without maintenance.
func Light(db xode.DBWeight) xode.Weight {
	return db.ReadsWrites(lightReads, lightWrites)
}

type Kind string

const (
	KindFull  Kind = "full"
	KindLight Kind = "light"
)

// Report describes what a block's maintenance did.
type Report struct {
	Kind       Kind
	Candidates uint32
	Repaired   bool
	Cleared    int
	Next       uint32
	Weight     xode.Weight
}

// Scheduler runs the full bookkeeping pass every period blocks and a light check otherwise.
type Scheduler struct {
	next       *storage.Raw[uint32]
	candidates *candidate.Service
	tracker    *offline.Tracker
	period     uint32
	db         xode.DBWeight
}

func New(sctx *storage.Context, candidates *candidate.Service, tracker *offline.Tracker, period uint32, db xode.DBWeight) *Scheduler {
	return &Scheduler{
		next:       storage.NewRaw[uint32](sctx, slotNextBlock),
		candidates: candidates,
		tracker:    tracker,
		period:     period,
		db:         db,
	}
}

// NextBlock returns the scheduled block of the next full pass, 0 when unset.
func (s *Scheduler) NextBlock() (uint32, error) {
	return s.next.Get()
}

// SetNextBlock overrides the schedule.
func (s *Scheduler) SetNextBlock(block uint32) error {
	return s.next.Set(block)
}

// Due reports whether a full pass has to run at block.
func Due(next, block uint32) bool {
	return next == 0 || block >= next
}

// Run performs the maintenance of the block. The declared weight in the report is valid even when an
// error is returned, the caller is expected to roll back the state on error.
func (s *Scheduler) Run(block uint32) (*Report, error) {
	next, err := s.next.Get()
	if err != nil {
		return &Report{Kind: KindLight, Weight: Light(s.db)}, err
	}
	if !Due(next, block) {
		return s.light(next)
	}
	return s.full(block)
}

func (s *Scheduler) light(next uint32) (*Report, error) {
	report := &Report{Kind: KindLight, Next: next, Weight: Light(s.db)}
	size, err := s.candidates.Size()
	if err != nil {
		return report, err
	}
	report.Candidates = size
	return report, nil
}

func (s *Scheduler) full(block uint32) (*Report, error) {
	report := &Report{Kind: KindFull}

	size, err := s.candidates.Size()
	if err != nil {
		report.Weight = Heavy(s.db, 0)
		return report, err
	}
	report.Weight = Heavy(s.db, size)

	entries, repaired, err := s.candidates.Repair()
	if err != nil {
		return report, err
	}
	report.Repaired = repaired
	report.Candidates = uint32(len(entries)) // #nosec G115
	if report.Candidates > size {
		// declared weight covers the list as it is now
		report.Weight = Heavy(s.db, report.Candidates)
	}

	for _, e := range entries {
		cleared, err := s.tracker.ClearStale(e)
		if err != nil {
			return report, err
		}
		if cleared {
			report.Cleared++
		}
	}

	report.Next = block + s.period
	if report.Next < block {
		report.Next = math.MaxUint32
	}
	if err := s.next.Set(report.Next); err != nil {
		return report, err
	}

	logger.Debug("maintenance pass", "block", block, "candidates", report.Candidates, "repaired", repaired, "cleared", report.Cleared, "next", report.Next)
	return report, nil
}
