// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package weight

import (
	"fmt"

	"github.com/xode-dao/xode-staking/xode"
)

// Meter counts the storage operations performed on behalf of a call.
// A nil Meter is valid and counts nothing.
type Meter struct {
	reads  uint64
	writes uint64
}

func NewMeter() *Meter {
	return &Meter{}
}

// Read records n storage reads.
func (m *Meter) Read(n uint64) {
	if m != nil {
		m.reads += n
	}
}

// Write records n storage writes.
func (m *Meter) Write(n uint64) {
	if m != nil {
		m.writes += n
	}
}

func (m *Meter) Reads() uint64 {
	if m == nil {
		return 0
	}
	return m.reads
}

func (m *Meter) Writes() uint64 {
	if m == nil {
		return 0
	}
	return m.writes
}

// Weight prices the recorded operations.
func (m *Meter) Weight(db xode.DBWeight) xode.Weight {
	return db.ReadsWrites(m.Reads(), m.Writes())
}

// Reset clears the counters and returns the previous values.
func (m *Meter) Reset() (reads, writes uint64) {
	if m == nil {
		return 0, 0
	}
	reads, writes = m.reads, m.writes
	m.reads, m.writes = 0, 0
	return
}

func (m *Meter) Breakdown() string {
	return fmt.Sprintf("READ: %d ops | WRITE: %d ops", m.Reads(), m.Writes())
}
