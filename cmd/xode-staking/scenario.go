// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"os"
	"sort"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/xode-dao/xode-staking/xode"
)

const (
	callRegister = "register"
	callBond     = "bond"
	callOnline   = "online"
	callOffline  = "offline"
)

// Account is funded at genesis.
type Account struct {
	Address xode.Address `yaml:"address"`
	Balance *uint256.Int `yaml:"balance"`
}

// Action is a dispatchable submitted by an account in a block.
type Action struct {
	Block   uint32       `yaml:"block"`
	Call    string       `yaml:"call"`
	Account xode.Address `yaml:"account"`
	Amount  *uint256.Int `yaml:"amount,omitempty"`
}

type Scenario struct {
	Accounts []Account `yaml:"accounts"`
	Actions  []Action  `yaml:"actions"`
}

func parseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sc); err != nil {
		return nil, errors.Wrap(err, "decode scenario")
	}

	for i, acc := range sc.Accounts {
		if acc.Address.IsZero() {
			return nil, errors.Errorf("account #%d: missing address", i)
		}
		if acc.Balance == nil {
			sc.Accounts[i].Balance = new(uint256.Int)
		}
	}
	for i, a := range sc.Actions {
		switch a.Call {
		case callRegister, callOnline, callOffline:
		case callBond:
			if a.Amount == nil {
				return nil, errors.Errorf("action #%d: bond without amount", i)
			}
		default:
			return nil, errors.Errorf("action #%d: unknown call %q", i, a.Call)
		}
	}
	// keep the submission order within a block
	sort.SliceStable(sc.Actions, func(i, j int) bool {
		return sc.Actions[i].Block < sc.Actions[j].Block
	})
	return &sc, nil
}

func loadScenario(path string) (*Scenario, error) {
	if path == "" {
		return parseScenario([]byte(demoScenario))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read scenario file [%v]", path)
	}
	return parseScenario(data)
}

// ActionsAt returns the actions of block, in submission order.
func (sc *Scenario) ActionsAt(block uint32) []Action {
	start := sort.Search(len(sc.Actions), func(i int) bool { return sc.Actions[i].Block >= block })
	end := start
	for end < len(sc.Actions) && sc.Actions[end].Block == block {
		end++
	}
	return sc.Actions[start:end]
}

// demoScenario funds four collators, bonds them, and takes one offline for a few sessions.
const demoScenario = `
accounts:
  - address: "0x0000000000000000000000000000000000000000000000000000000000000a01"
    balance: "100000000000000000"
  - address: "0x0000000000000000000000000000000000000000000000000000000000000a02"
    balance: "100000000000000000"
  - address: "0x0000000000000000000000000000000000000000000000000000000000000a03"
    balance: "100000000000000000"
  - address: "0x0000000000000000000000000000000000000000000000000000000000000a04"
    balance: "5000000000000000"
actions:
  - {block: 1, call: register, account: "0x0000000000000000000000000000000000000000000000000000000000000a01"}
  - {block: 1, call: register, account: "0x0000000000000000000000000000000000000000000000000000000000000a02"}
  - {block: 1, call: register, account: "0x0000000000000000000000000000000000000000000000000000000000000a03"}
  - {block: 1, call: register, account: "0x0000000000000000000000000000000000000000000000000000000000000a04"}
  - {block: 2, call: bond, account: "0x0000000000000000000000000000000000000000000000000000000000000a01", amount: "11000000000000000"}
  - {block: 2, call: bond, account: "0x0000000000000000000000000000000000000000000000000000000000000a02", amount: "15000000000000000"}
  - {block: 3, call: bond, account: "0x0000000000000000000000000000000000000000000000000000000000000a03", amount: "15000000000000000"}
  - {block: 3, call: bond, account: "0x0000000000000000000000000000000000000000000000000000000000000a04", amount: "9000000000000000"}
  - {block: 25, call: offline, account: "0x0000000000000000000000000000000000000000000000000000000000000a02"}
  - {block: 61, call: online, account: "0x0000000000000000000000000000000000000000000000000000000000000a02"}
`
