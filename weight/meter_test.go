// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package weight

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xode-dao/xode-staking/xode"
)

func TestMeter(t *testing.T) {
	m := NewMeter()
	m.Read(3)
	m.Write(2)
	m.Read(1)

	assert.Equal(t, uint64(4), m.Reads())
	assert.Equal(t, uint64(2), m.Writes())
	assert.Equal(t, "READ: 4 ops | WRITE: 2 ops", m.Breakdown())
	assert.Equal(t, xode.Weight(4*1+2*10), m.Weight(xode.DBWeight{Read: 1, Write: 10}))

	r, w := m.Reset()
	assert.Equal(t, uint64(4), r)
	assert.Equal(t, uint64(2), w)
	assert.Zero(t, m.Reads())
	assert.Zero(t, m.Writes())
}

func TestNilMeter(t *testing.T) {
	var m *Meter
	m.Read(1)
	m.Write(1)

	assert.Zero(t, m.Reads())
	assert.Zero(t, m.Writes())
	assert.Equal(t, xode.Weight(0), m.Weight(xode.RocksDBWeight))
}
