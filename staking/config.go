// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/xode-dao/xode-staking/xode"
)

// Config holds the parameters injected by the host chain.
type Config struct {
	MaxCandidates        uint32        `yaml:"max-candidates"`
	MaxAuthoringSlots    uint32        `yaml:"max-authoring-slots"`
	ReservedSlots        uint32        `yaml:"reserved-slots"`
	OfflineGraceSessions uint32        `yaml:"offline-grace-sessions"`
	MaintenancePeriod    uint32        `yaml:"maintenance-period"`
	MinCandidateBond     *uint256.Int  `yaml:"min-candidate-bond"`
	DBWeight             xode.DBWeight `yaml:"db-weight"`
}

func DefaultConfig() Config {
	return Config{
		MaxCandidates:        xode.InitialMaxCandidates,
		MaxAuthoringSlots:    xode.InitialMaxAuthoringSlots,
		ReservedSlots:        xode.InitialReservedSlots,
		OfflineGraceSessions: xode.OfflineGraceSessions,
		MaintenancePeriod:    xode.InitialMaintenancePeriod,
		MinCandidateBond:     new(uint256.Int),
		DBWeight:             xode.RocksDBWeight,
	}
}

// AuthoringCapacity is the number of authoring slots left to the staking pool once the reserved
// authors are seated.
func (c Config) AuthoringCapacity() uint32 {
	if c.ReservedSlots >= c.MaxAuthoringSlots {
		return 0
	}
	return c.MaxAuthoringSlots - c.ReservedSlots
}

func (c Config) Validate() error {
	if c.MaxCandidates == 0 {
		return errors.New("max-candidates must be positive")
	}
	if c.MaintenancePeriod == 0 {
		return errors.New("maintenance-period must be positive")
	}
	if c.OfflineGraceSessions == 0 {
		return errors.New("offline-grace-sessions must be positive")
	}
	if c.MinCandidateBond != nil && c.MinCandidateBond.Gt(xode.MaxBond()) {
		return errors.Errorf("min-candidate-bond %s exceeds 128 bits", c.MinCandidateBond.Dec())
	}
	return nil
}
