// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xode

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/math"
)

// Weight is an abstract execution cost, declared to the host for block resource accounting.
type Weight uint64

// MaxWeight is the ceiling weight arithmetic saturates at.
const MaxWeight = Weight(^uint64(0))

// Add returns w+other, saturating at the maximum weight.
func (w Weight) Add(other Weight) Weight {
	sum, overflow := math.SafeAdd(uint64(w), uint64(other))
	if overflow {
		return MaxWeight
	}
	return Weight(sum)
}

// DBWeight prices a single storage read and write.
type DBWeight struct {
	Read  uint64 `yaml:"read"`
	Write uint64 `yaml:"write"`
}

// Reads returns the weight of n reads.
func (d DBWeight) Reads(n uint64) Weight {
	return mulWeight(d.Read, n)
}

// Writes returns the weight of n writes.
func (d DBWeight) Writes(n uint64) Weight {
	return mulWeight(d.Write, n)
}

// ReadsWrites returns the weight of r reads and w writes.
func (d DBWeight) ReadsWrites(r, w uint64) Weight {
	return d.Reads(r).Add(d.Writes(w))
}

func (d DBWeight) String() string {
	return fmt.Sprintf("read=%d write=%d", d.Read, d.Write)
}

func mulWeight(unit, n uint64) Weight {
	product, overflow := math.SafeMul(unit, n)
	if overflow {
		return MaxWeight
	}
	return Weight(product)
}
