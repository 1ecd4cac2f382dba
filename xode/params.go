// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xode

import "github.com/holiman/uint256"

// Constants of the collator staking.
const (
	InitialMaxCandidates      uint32 = 100
	InitialMaxAuthoringSlots  uint32 = 100
	InitialReservedSlots      uint32 = 3 // invulnerable authors configured outside the staking pool
	OfflineGraceSessions      uint32 = 2
	InitialMaintenancePeriod  uint32 = 10 // blocks between two full maintenance passes
	DefaultSessionBlockLength uint32 = 10
)

// RocksDBWeight is the reference storage pricing, in picoseconds of reference time.
var RocksDBWeight = DBWeight{
	Read:  25_000_000,
	Write: 100_000_000,
}

var maxBond = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 128), uint256.NewInt(1))

// MaxBond returns the largest bond that fits in 128 bits.
func MaxBond() *uint256.Int {
	return new(uint256.Int).Set(maxBond)
}
